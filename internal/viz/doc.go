// Package viz renders Schwarzschild orbits in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 sub-pixels per cell
//   - [Scene]: polar projection with the horizon, photon sphere and ISCO
//   - [RadiusChart]: r(φ) line chart
//   - [Explorer]: Bubble Tea model for building up a set of orbits
//
// # Key Bindings
//
//	Tab   - Select E, L, r0 or steps
//	↑/↓   - Nudge the selected value (←/→ for ten ticks)
//	Enter - Compute and add the trajectory
//	R     - Clear all trajectories
//	P     - Cycle presets
//	Q     - Quit
package viz
