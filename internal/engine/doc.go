// Package engine implements the keyboard navigation state machine.
//
// An activation narrows the working rectangle in two phases:
//   - Level 0: a row key then a column key pick one cell of a coarse grid.
//   - Level 1: each further key picks one cell of a finer grid inside the
//     current rectangle, up to a configured depth. Reaching the depth limit
//     switches the overlay from a grid to a single point marker.
//
// Every selection is pushed onto a history stack so Undo can step back one
// level at a time. Confirm commands warp the pointer to the center of the
// current rectangle and request a click.
//
// The engine never talks to a window system directly. It drives the
// collaborator interfaces declared in collaborators.go, and every backend
// (X11, the terminal preview) supplies its own implementations. State is
// guarded by a single mutex that is released before any collaborator call, so
// collaborators may call back into the engine (for example Snapshot from a
// render thread) without deadlocking.
package engine
