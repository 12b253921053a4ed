// Package viz draws the AR scene in a terminal.
//
// The scene is rasterized onto a braille [Canvas]: every cell holds 2x4
// dots for mesh and ground edges, and cells without dots show the camera
// background as a shade ramp.
//
//   - [Renderer]: projects the scene graph through the AR camera
//   - [Recorder]: headless surface that can keep frames as a GIF
//   - [Model]: Bubble Tea program for the live view
//
// # Controls
//
//	Mouse    - press and hold to pull the ducks towards the camera
//	Space    - latch touch on or off
//	T        - cycle colour themes
//	?        - show help overlay
//	Q        - quit
package viz
