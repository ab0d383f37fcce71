package network

import (
	"fmt"

	"github.com/matzehuels/hubmap/pkg/geo"
)

// Kind distinguishes mandatory hub connections from sampled ones.
type Kind int

const (
	Primary Kind = iota
	Secondary
)

func (k Kind) String() string {
	switch k {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Edge is a styled connection between two points.
type Edge struct {
	From    geo.Point
	To      geo.Point
	Color   geo.Color
	Weight  float64
	Opacity float64
	Kind    Kind
}

func (e Edge) String() string {
	return fmt.Sprintf("%s->%s (%s)", e.From.Name, e.To.Name, e.Kind)
}

// Summary counts edges by kind.
type Summary struct {
	Primary   int
	Secondary int
}

// Total returns the number of edges counted.
func (s Summary) Total() int { return s.Primary + s.Secondary }

// Stats tallies edges by kind.
func Stats(edges []Edge) Summary {
	var s Summary
	for _, e := range edges {
		switch e.Kind {
		case Primary:
			s.Primary++
		case Secondary:
			s.Secondary++
		}
	}
	return s
}

// Filter returns the edges of the given kind, preserving order.
func Filter(edges []Edge, kind Kind) []Edge {
	var out []Edge
	for _, e := range edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
