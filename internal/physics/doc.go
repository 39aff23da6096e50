// Package physics provides the particle kinds behind every visual effect.
//
//   - [Field]: a pool of point sprites easing toward assigned targets,
//     used for text, numerals and the celebration sphere
//   - [Firework]: a ballistic projectile that detonates at its apex
//   - [Spark]: a fading ember with gravity, friction and a short trail
//   - [Fragment]: a spinning label thrown outward when the wish sphere bursts
//
// All kinds are plain data advanced once per frame by an Update or Tick
// method and drawn onto a [surface.Surface]. None of them are safe for
// concurrent use; the show owns them from a single goroutine.
//
// # Field lifecycle
//
// The particle count never shrinks. Assigning fewer targets than there are
// particles parks the surplus below the viewport:
//
//	f := physics.NewField(cfg.Field, rng)
//	f.Assign(points, w, h)
//	for range frames {
//	    f.Tick()
//	}
package physics
