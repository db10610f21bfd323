// Package ui contains the Bubble Tea program behind the terminal preview
// backend. The terminal stands in for a screen: every character cell is a
// 10x20 pixel block, the overlay is drawn as colored tiles, and the pointer
// and click log appear on a status line.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry.
//   - Key presses are translated to canonical key events and queued on the
//     command bus (internal/ui/command). The bus runs them one at a time so a
//     blocking activation never stalls Update and presses stay ordered.
//   - Terminals do not report key releases, so every press is followed by a
//     synthesized release.
//   - The Surface implements the engine's collaborators. Each change it sees
//     posts a surfaceChangedMsg so the program redraws.
package ui
