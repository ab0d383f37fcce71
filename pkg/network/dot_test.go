package network

import (
	"strings"
	"testing"
)

func TestToDOT(t *testing.T) {
	pts := testPoints(3)
	pts[0].Highlighted = true
	edges, err := Build(pts, Options{SecondaryProbability: 1}, NewRandom(1))
	if err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(pts, edges)
	for _, want := range []string{
		"graph G {",
		`"A" [label="A", fillcolor="#e63946", penwidth=3, width=1.2];`,
		`"B" [label="B", fillcolor="#457b9d"];`,
		`"A" -- "B" [color="#e63946", penwidth=2, style=dashed];`,
		`"B" -- "C" [color="#457b9d50", penwidth=1];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(nil, nil)
	if !strings.HasPrefix(dot, "graph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("unexpected DOT: %q", dot)
	}
}
