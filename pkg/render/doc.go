// Package render draws points and connection edges onto an acquired surface.
//
// # Overview
//
// [Renderer.Render] turns each edge into a bowed curve (see
// [github.com/matzehuels/hubmap/pkg/curve]) and each point into a marker,
// issuing draw calls through the narrow [Surface] interface that a
// [github.com/matzehuels/hubmap/pkg/lifecycle.Handle] satisfies. Paths are
// drawn first so markers sit on top of them.
//
// # Styles
//
// The renderer only decides what things look like, expressed as declarative
// descriptors; backends decide how:
//
//   - Primary edges: dashed, animated, in the hub color
//   - Secondary edges: solid, static, translucent
//   - Highlighted points: large marker, strong glow, pulse, permanent label
//   - Other points: small marker, faint glow, label on hover
//
// # Disposal
//
// Every element drawn is returned in a [Disposal] so the owner can remove it.
// When drawing fails halfway, the partial disposal is returned together with
// the error.
package render
