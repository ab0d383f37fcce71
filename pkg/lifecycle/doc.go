// Package lifecycle owns the map surface: it creates it once per container,
// hands out a [Handle] for drawing, and tears everything down again.
//
// # State Machine
//
//	Uninitialized ──Acquire──▶ Acquiring ──ok──▶ Ready ──Release──▶ Released
//	                               │                                   │
//	                               └──error──▶ (previous state)        └──Acquire──▶ Acquiring
//
// [Manager.Acquire] on a Ready manager with the same container returns the
// existing handle, so rapid re-render cycles never create a second surface.
// A different container releases the old surface first. [Manager.Release] is
// a no-op outside Ready, which makes it safe to call on every exit path.
//
// A released [Handle] is dead: drawing through it fails with
// SURFACE_NOT_READY and a later Acquire produces a fresh handle.
//
// # Element Tracking
//
// Every marker and polyline added through a handle is recorded, and Release
// removes them in reverse order before destroying the surface. Callers do
// not need to clean up after the renderer.
//
// A Manager is not safe for concurrent use. Give every request or view its
// own Manager; the capability behind it may be shared.
package lifecycle
