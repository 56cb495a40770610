package codegen

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/papapumpkin/retrograde/internal/retrograde"
)

// CBitmapBits is the width of retrograde_bmap in the generated struct.
const CBitmapBits = 16

// ErrBitmapOverflow is returned when a dataset has more bodies than the C
// record's bitmap field can hold.
var ErrBitmapOverflow = errors.New("too many bodies for the C bitmap field")

// WriteHeader writes the C header: body count, per-body BITPOS_ and _BIT
// macros, the record struct and extern declarations. Macro names are the
// upper-cased body names and are not sanitized.
func WriteHeader(w io.Writer, bodies *retrograde.Positions) error {
	if bodies.Len() > CBitmapBits {
		return fmt.Errorf("%w: %d bodies, limit is %d", ErrBitmapOverflow, bodies.Len(), CBitmapBits)
	}
	names := bodies.Names()

	lw := &lineWriter{w: w}
	lw.println("#include <stdint.h>")
	lw.println("#include <stddef.h>")
	lw.println("")
	lw.printf("#define NUM_CELESTIAL_BODIES %d\n", len(names))
	lw.println("")
	for pos, name := range names {
		lw.printf("#define BITPOS_%s %d\n", strings.ToUpper(name), pos)
	}
	lw.println("")
	for _, name := range names {
		upper := strings.ToUpper(name)
		lw.printf("#define %s_BIT (1 << BITPOS_%s)\n", upper, upper)
	}
	lw.println("")
	lw.println("struct retrograde_entry {")
	lw.println("    uint64_t utc_timestamp;")
	lw.println("    uint16_t retrograde_bmap;")
	lw.println("};")
	lw.println("")
	lw.println("extern const char *celestial_body_name[NUM_CELESTIAL_BODIES];")
	lw.println("extern struct retrograde_entry retrograde_data[];")
	lw.println("extern const size_t NUM_RETROGRADE_DATA_ENTRIES;")
	return lw.err
}

// WriteSource writes the C file defining the name table, the record array
// and the record count. headerName is the file named in the #include line.
func WriteSource(w io.Writer, headerName string, ds *retrograde.Dataset) error {
	if ds.Bodies.Len() > CBitmapBits {
		return fmt.Errorf("%w: %d bodies, limit is %d", ErrBitmapOverflow, ds.Bodies.Len(), CBitmapBits)
	}

	quoted := make([]string, 0, ds.Bodies.Len())
	for _, name := range ds.Bodies.Names() {
		quoted = append(quoted, `"`+name+`"`)
	}

	lw := &lineWriter{w: w}
	lw.printf("#include \"%s\"\n", headerName)
	lw.println("")
	lw.printf("const char *celestial_body_name[] = { %s };\n", strings.Join(quoted, ", "))
	lw.println("")
	lw.println("struct retrograde_entry retrograde_data[] = {")
	for _, rec := range ds.Records {
		lw.printf("    { %d, 0x%04x },\n", rec.Timestamp, rec.Bitmap)
	}
	lw.println("};")
	lw.println("")
	lw.println("const size_t NUM_RETROGRADE_DATA_ENTRIES = sizeof(retrograde_data) / sizeof(retrograde_data[0]);")
	return lw.err
}
