package retrograde

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"time"
)

// DateLayout is the layout of the date keys in the input file.
const DateLayout = "2006-01-02"

// Record is one row of the dataset: the UTC midnight timestamp of a date and
// the bitmap of bodies in retrograde on that date.
type Record struct {
	Timestamp int64
	Bitmap    uint64
}

// Dataset is the result of extraction. Records are in input order with
// consecutive duplicate bitmaps collapsed onto their first date.
type Dataset struct {
	Bodies      *Positions
	Records     []Record
	SourceDates int // date entries read before deduplication
}

// ParseDate converts a YYYY-MM-DD string to Unix seconds at midnight UTC.
func ParseDate(s string) (int64, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrBadDate, s, err)
	}
	return t.Unix(), nil
}

// ExtractFile opens path and runs Extract over it.
func ExtractFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	ds, err := Extract(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Extract reads a document of the form
//
//	{"dates": {"YYYY-MM-DD": {"<body>": true|false, ...}, ...}}
//
// Dates are processed in file order. Bit positions come from the key order
// of the first date; every later date must name exactly the same bodies.
// A date is dropped when its bitmap equals the last kept bitmap.
func Extract(r io.Reader) (*Dataset, error) {
	top, err := decodeDocument(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	i := slices.IndexFunc(top, func(m member) bool { return m.key == "dates" })
	if i < 0 {
		return nil, ErrMissingDates
	}
	dates, err := decodeObjectBytes(top[i].raw)
	if err != nil {
		return nil, fmt.Errorf("%w: dates: %w", ErrMalformed, err)
	}

	ds := &Dataset{Bodies: &Positions{}, SourceDates: len(dates)}
	var last uint64
	for n, d := range dates {
		states, err := decodeObjectBytes(d.raw)
		if err != nil {
			return nil, fmt.Errorf("%w: date %s: %w", ErrMalformed, d.key, err)
		}

		if n == 0 {
			names := make([]string, len(states))
			for j, s := range states {
				names[j] = s.key
			}
			if ds.Bodies, err = NewPositions(names...); err != nil {
				return nil, fmt.Errorf("date %s: %w", d.key, err)
			}
		}

		bitmap, err := ds.Bodies.bitmap(d.key, states)
		if err != nil {
			return nil, err
		}
		ts, err := ParseDate(d.key)
		if err != nil {
			return nil, err
		}

		if n > 0 && bitmap == last {
			continue
		}
		ds.Records = append(ds.Records, Record{Timestamp: ts, Bitmap: bitmap})
		last = bitmap
	}
	return ds, nil
}

// bitmap builds the bitmap for one date, failing when the record's body set
// differs from p or a value is not a boolean.
func (p *Positions) bitmap(date string, states []member) (uint64, error) {
	present := make(map[string]bool, len(states))
	var bitmap uint64
	schemaErr := &SchemaError{Date: date}
	for _, s := range states {
		present[s.key] = true
		pos, ok := p.index[s.key]
		if !ok {
			schemaErr.Unexpected = append(schemaErr.Unexpected, s.key)
			continue
		}
		retro, ok := decodeBool(s.raw)
		if !ok {
			return 0, fmt.Errorf("%w: date %s, body %s: %s", ErrNotBoolean, date, s.key, s.raw)
		}
		if retro {
			bitmap |= 1 << uint(pos)
		}
	}
	for _, name := range p.names {
		if !present[name] {
			schemaErr.Missing = append(schemaErr.Missing, name)
		}
	}
	if len(schemaErr.Missing) > 0 || len(schemaErr.Unexpected) > 0 {
		return 0, schemaErr
	}
	return bitmap, nil
}

// Sorted reports whether records are in strictly increasing timestamp order.
func (ds *Dataset) Sorted() bool {
	for i := 1; i < len(ds.Records); i++ {
		if ds.Records[i].Timestamp <= ds.Records[i-1].Timestamp {
			return false
		}
	}
	return true
}

// Lookup returns the state in effect at ts. An exact timestamp match returns
// that record; otherwise the record preceding the insertion point is
// returned, provided ts falls strictly between the first and last records.
// Records must be Sorted.
func (ds *Dataset) Lookup(ts int64) (Record, bool) {
	i, found := slices.BinarySearchFunc(ds.Records, ts, func(r Record, t int64) int {
		return cmp.Compare(r.Timestamp, t)
	})
	if found {
		return ds.Records[i], true
	}
	if i > 0 && i < len(ds.Records) {
		return ds.Records[i-1], true
	}
	return Record{}, false
}
