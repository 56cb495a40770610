// Command retrograde massages retrograde JSON data files into a C bitmap
// table or a SQL script.
package main

import "github.com/papapumpkin/retrograde/cmd"

func main() {
	cmd.Execute()
}
