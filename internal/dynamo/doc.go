// Package dynamo provides the vector physics primitives shared by every
// particle kind in the show.
//
//   - [Vec2]: screen-space point/velocity with the usual arithmetic
//   - [EaseToward]: fractional easing toward a target (text particles)
//   - [Body]: explicit Euler point mass with gravity and friction (sparks,
//     fireworks, exploding labels)
//   - [Trail]: bounded ring of recent positions for motion trails
//
// All integration is per frame, not per second: velocities are in pixels
// per frame and gravity in pixels per frame squared, matching a display
// refresh of roughly 60 Hz.
//
// # Example
//
//	b := dynamo.Body{Pos: dynamo.V(400, 600), Vel: dynamo.V(0, -12)}
//	for b.Vel.Y < 0 {
//	    b.Step(0.25, 1)
//	}
package dynamo
