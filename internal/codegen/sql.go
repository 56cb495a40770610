package codegen

import (
	"io"
	"strconv"
	"strings"

	"github.com/papapumpkin/retrograde/internal/retrograde"
)

// TimestampColumn is the primary key column of the generated table.
const TimestampColumn = "timestamp_seconds_utc"

// WriteSQL writes a CREATE TABLE IF NOT EXISTS statement for table followed
// by one INSERT per record. Each body becomes an INTEGER column named after
// the body, holding 1 when its bit is set. Column names are not sanitized.
func WriteSQL(w io.Writer, table string, ds *retrograde.Dataset) error {
	names := ds.Bodies.Names()

	lw := &lineWriter{w: w}
	lw.printf("CREATE TABLE IF NOT EXISTS %s (\n", table)
	lw.printf("    %s INTEGER PRIMARY KEY\n", TimestampColumn)
	for _, name := range names {
		lw.printf(",    %s INTEGER\n", name)
	}
	lw.println(");")
	lw.println("")

	columns := strings.Join(append([]string{TimestampColumn}, names...), ", ")
	values := make([]string, len(names)+1)
	for _, rec := range ds.Records {
		values[0] = strconv.FormatInt(rec.Timestamp, 10)
		for pos := range names {
			if rec.Bitmap&(1<<uint(pos)) != 0 {
				values[pos+1] = "1"
			} else {
				values[pos+1] = "0"
			}
		}
		lw.printf("INSERT INTO %s (%s) VALUES(%s);\n", table, columns, strings.Join(values, ", "))
	}
	return lw.err
}
