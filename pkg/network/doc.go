// Package network derives the connection graph drawn on the map.
//
// # Overview
//
// A hub map connects one distinguished point, the hub, to every other point
// with a Primary edge, and sprinkles Secondary edges between the remaining
// points at random:
//
//	edges, err := network.Build(points, network.DefaultOptions(), network.NewRandom(42))
//
// # Randomness
//
// [Build] never reads a process-wide generator. Callers inject a
// [RandomSource]: [NewRandom] for reproducible output, [NewSeededRandom] for a
// "living network" that changes on every mount, and [NewSequence] for tests
// that need to dictate each draw.
//
// Exactly one draw is consumed per candidate pair, in the order (i, j) with
// i ascending then j ascending, so a fixed source always yields the same edge
// set for the same points.
//
// # Topology diagrams
//
// [ToDOT] and [RenderSVG] render the graph as an abstract node-link diagram
// using [github.com/goccy/go-graphviz], independent of any map projection.
package network
