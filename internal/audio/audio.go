// Package audio plays the background music: an ambient pad that swells
// towards midnight, with a chime for every firework.
package audio

import (
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"
)

// Player streams a Synth to the default output device.
type Player struct {
	Synth  *Synth
	stream *portaudio.Stream
	Active bool
}

func NewPlayer(volume float64) *Player {
	return &Player{Synth: NewSynth(volume)}
}

func (p *Player) process(out [][]float32) { p.Synth.Process(out) }

// Start opens an output-only stream. Errors leave the player silent.
func (p *Player) Start() error {
	if p.Active {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, p.process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio open: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio start: %w", err)
	}
	p.stream = stream
	p.Active = true
	log.Printf("[Audio] playing")
	return nil
}

// Play starts the music, logging instead of failing.
func (p *Player) Play() {
	if err := p.Start(); err != nil {
		log.Printf("[Audio] %v", err)
	}
}

func (p *Player) Stop() {
	if !p.Active {
		return
	}
	p.stream.Stop()
	p.stream.Close()
	portaudio.Terminate()
	p.Active = false
}

// Chime rings once for a detonation of n sparks.
func (p *Player) Chime(n int) {
	if p.Active {
		p.Synth.Chime(float64(n) / 200)
	}
}

// SetIntensity is forwarded to the synth.
func (p *Player) SetIntensity(i float64) { p.Synth.SetIntensity(i) }
