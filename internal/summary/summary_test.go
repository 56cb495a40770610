package summary

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/retrograde/internal/retrograde"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	ds, err := retrograde.Extract(strings.NewReader(`{"dates": {
		"2022-01-01": {"Mercury": true, "Venus": false},
		"2022-01-02": {"Mercury": true, "Venus": false},
		"2022-01-03": {"Mercury": false, "Venus": true},
		"2022-01-04": {"Mercury": true, "Venus": true}}}`))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	s := Build("in.json", ds)
	if s.Input != "in.json" || s.SourceDates != 4 || s.Records != 3 || !s.Sorted {
		t.Errorf("unexpected header fields: %+v", s)
	}
	if want := (toml.LocalDate{Year: 2022, Month: 1, Day: 1}); s.First != want {
		t.Errorf("First = %v, want %v", s.First, want)
	}
	if want := (toml.LocalDate{Year: 2022, Month: 1, Day: 4}); s.Last != want {
		t.Errorf("Last = %v, want %v", s.Last, want)
	}

	want := []Body{
		{Name: "Mercury", Position: 0, Mask: "0x0001", Retrograde: 2},
		{Name: "Venus", Position: 1, Mask: "0x0002", Retrograde: 2},
	}
	if diff := cmp.Diff(want, s.Bodies); diff != "" {
		t.Errorf("bodies mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	ds, err := retrograde.Extract(strings.NewReader(`{"dates": {
		"2022-01-01": {"Mars": true},
		"2022-02-15": {"Mars": false}}}`))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	data, err := Marshal(Build("mars.json", ds))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("output should end with a newline")
	}
	for _, want := range []string{"[[bodies]]", "first = 2022-01-01\n", "last = 2022-02-15\n"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("output missing %q:\n%s", want, data)
		}
	}

	var back Summary
	if err := toml.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, data)
	}
	if back.Input != "mars.json" || back.Records != 2 || len(back.Bodies) != 1 {
		t.Fatalf("decoded summary = %+v", back)
	}
	if back.First != (toml.LocalDate{Year: 2022, Month: 1, Day: 1}) || back.Last != (toml.LocalDate{Year: 2022, Month: 2, Day: 15}) {
		t.Errorf("decoded dates = %v, %v", back.First, back.Last)
	}
	if back.Bodies[0].Name != "Mars" || back.Bodies[0].Mask != "0x0001" {
		t.Errorf("decoded body = %+v", back.Bodies[0])
	}
}

func TestMarshal_Empty(t *testing.T) {
	t.Parallel()

	ds, err := retrograde.Extract(strings.NewReader(`{"dates": {}}`))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	data, err := Marshal(Build("empty.json", ds))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "first") {
		t.Errorf("empty summary should omit first/last:\n%s", data)
	}
}
