package celebration

import (
	"math/rand"

	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/physics"
	"github.com/san-kum/countdown/internal/surface"
)

// Launcher owns every live firework and spark.
type Launcher struct {
	Fireworks []*physics.Firework
	Sparks    []physics.Spark

	// OnDetonate is told how many sparks each burst produced.
	OnDetonate func(sparks int)

	cfg config.FireworkConfig
	rng *rand.Rand
}

func NewLauncher(cfg config.FireworkConfig, rng *rand.Rand) *Launcher {
	return &Launcher{cfg: cfg, rng: rng}
}

func (l *Launcher) Launch(w, h float64) *physics.Firework {
	f := physics.Launch(l.rng, w, h, l.cfg)
	l.Fireworks = append(l.Fireworks, f)
	return f
}

// Update rolls for a new launch, advances every projectile and spark, and
// culls finished ones.
func (l *Launcher) Update(w, h float64) {
	if l.rng.Float64() < l.cfg.Probability {
		l.Launch(w, h)
	}

	live := l.Fireworks[:0]
	for _, f := range l.Fireworks {
		if f.Update() {
			burst := f.Detonate(l.rng, l.cfg)
			l.Sparks = append(l.Sparks, burst...)
			if l.OnDetonate != nil {
				l.OnDetonate(len(burst))
			}
		}
		if !f.Done {
			live = append(live, f)
		}
	}
	for i := len(live); i < len(l.Fireworks); i++ {
		l.Fireworks[i] = nil
	}
	l.Fireworks = live
	l.Sparks = physics.UpdateSparks(l.Sparks)
}

func (l *Launcher) Draw(s surface.Surface) {
	for _, f := range l.Fireworks {
		f.Draw(s)
	}
	for i := range l.Sparks {
		l.Sparks[i].Draw(s)
	}
}
