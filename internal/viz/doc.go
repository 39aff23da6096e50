// Package viz runs the show in a terminal.
//
// The show draws through [Surface], which maps its pixel viewport onto a
// braille [Canvas] (2x4 dots per cell). Large text is rasterised into dots;
// small labels are written as plain glyphs. [Model] is the Bubble Tea
// program: one frame per tick, mouse events forwarded as pointer input.
//
// # Key Bindings
//
//	Enter/Space - Start, then confirm
//	D           - Drag every wish into the sphere
//	T           - Cycle status bar themes
//	G           - Toggle GIF recording
//	?           - Show help overlay
//	Q           - Quit
package viz
