// Package summary describes an extracted dataset as a TOML document: the bit
// assignment of every body and how many rows survived deduplication.
package summary

import (
	"fmt"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/retrograde/internal/retrograde"
)

// Summary is the top-level TOML document.
type Summary struct {
	Input       string         `toml:"input"`
	SourceDates int            `toml:"source_dates"`
	Records     int            `toml:"records"`
	Sorted      bool           `toml:"sorted"`
	First       toml.LocalDate `toml:"first,omitempty"` // zero when there are no records
	Last        toml.LocalDate `toml:"last,omitempty"`
	Bodies      []Body         `toml:"bodies"`
}

// Body describes a single celestial body's slot in the bitmap.
type Body struct {
	Name       string `toml:"name"`
	Position   int    `toml:"position"`
	Mask       string `toml:"mask"`
	Retrograde int    `toml:"retrograde_records"` // kept records with this body's bit set
}

// Build summarizes ds, which was read from input.
func Build(input string, ds *retrograde.Dataset) Summary {
	s := Summary{
		Input:       input,
		SourceDates: ds.SourceDates,
		Records:     len(ds.Records),
		Sorted:      ds.Sorted(),
	}
	if n := len(ds.Records); n > 0 {
		s.First = localDate(ds.Records[0].Timestamp)
		s.Last = localDate(ds.Records[n-1].Timestamp)
	}

	for pos, name := range ds.Bodies.Names() {
		mask := uint64(1) << uint(pos)
		b := Body{
			Name:     name,
			Position: pos,
			Mask:     fmt.Sprintf("0x%04x", mask),
		}
		for _, rec := range ds.Records {
			if rec.Bitmap&mask != 0 {
				b.Retrograde++
			}
		}
		s.Bodies = append(s.Bodies, b)
	}
	return s
}

func localDate(ts int64) toml.LocalDate {
	t := time.Unix(ts, 0).UTC()
	return toml.LocalDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Marshal renders s as TOML with a trailing newline.
func Marshal(s Summary) ([]byte, error) {
	data, err := toml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling summary to TOML: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}
