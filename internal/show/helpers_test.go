package show_test

import (
	"math"

	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/physics"
)

func physicsNaN() physics.Particle {
	return physics.Particle{Pos: dynamo.V(math.NaN(), 0)}
}
