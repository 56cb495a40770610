// Package retrograde extracts per-date retrograde states from a JSON dataset
// into a compact, deduplicated list of bitmap records. Each celestial body is
// assigned a fixed bit position derived from the first record of the input.
package retrograde

import "fmt"

// MaxBodies is the widest bitmap a Record can carry.
const MaxBodies = 64

// Positions maps celestial body names to bit positions in insertion order.
// A Positions value is never modified after construction.
type Positions struct {
	names []string
	index map[string]int
}

// NewPositions assigns bit positions 0..len(names)-1 to names in the given
// order. Names must be unique and there may be at most MaxBodies of them.
func NewPositions(names ...string) (*Positions, error) {
	if len(names) > MaxBodies {
		return nil, fmt.Errorf("%w: %d bodies, limit is %d", ErrTooManyBodies, len(names), MaxBodies)
	}
	p := &Positions{
		names: make([]string, 0, len(names)),
		index: make(map[string]int, len(names)),
	}
	for _, name := range names {
		if _, dup := p.index[name]; dup {
			return nil, fmt.Errorf("duplicate body name %q", name)
		}
		p.index[name] = len(p.names)
		p.names = append(p.names, name)
	}
	return p, nil
}

// Len returns the number of bodies.
func (p *Positions) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Names returns the body names ordered by bit position. The returned slice
// is a copy.
func (p *Positions) Names() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Position returns the bit position assigned to name.
func (p *Positions) Position(name string) (int, bool) {
	if p == nil {
		return 0, false
	}
	pos, ok := p.index[name]
	return pos, ok
}

// Mask returns 1 << Position(name).
func (p *Positions) Mask(name string) (uint64, bool) {
	pos, ok := p.Position(name)
	if !ok {
		return 0, false
	}
	return 1 << uint(pos), true
}

// Set returns the names whose bit is set in bitmap, in bit order.
func (p *Positions) Set(bitmap uint64) []string {
	var out []string
	for pos, name := range p.names {
		if bitmap&(1<<uint(pos)) != 0 {
			out = append(out, name)
		}
	}
	return out
}
