package audio

import (
	"math"
	"sync"
)

const (
	SampleRate = 44100
	BufferSize = 1024
)

// Gmaj9 stack: G2, B2, D3, F#3, A3.
var padFreqs = []float64{98.00, 123.47, 146.83, 185.00, 220.00}

// Pentatonic chime pitches, G4 upward.
var chimeFreqs = []float64{392.00, 440.00, 493.88, 587.33, 659.25, 783.99}

type voice struct {
	freq  float64
	phase float64
	amp   float64
	decay float64
}

// Synth renders an ambient pad plus decaying chimes. Process runs on the
// audio thread and holds the lock for the whole buffer.
type Synth struct {
	Volume float64

	time        float64
	filterState [2]float64
	delayLine   [2][]float64
	delayHead   int

	mu        sync.Mutex
	intensity float64
	smooth    float64
	voices    []voice
	next      int
}

func NewSynth(volume float64) *Synth {
	// 0.6 second delay for larger space
	delayLen := int(float64(SampleRate) * 0.6)
	return &Synth{
		Volume:    volume,
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// SetIntensity opens the pad's filter; i is clamped to [0, 1].
func (s *Synth) SetIntensity(i float64) {
	s.mu.Lock()
	s.intensity = math.Max(0, math.Min(1, i))
	s.mu.Unlock()
}

// Chime queues a bell whose loudness follows strength in [0, 1]. Pitches
// cycle through a pentatonic scale.
func (s *Synth) Chime(strength float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := chimeFreqs[s.next%len(chimeFreqs)]
	s.next++
	s.voices = append(s.voices, voice{freq: f, amp: 0.2 + 0.3*math.Max(0, math.Min(1, strength)), decay: 0.99985})
}

// Voices is the number of chimes still ringing.
func (s *Synth) Voices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voices)
}

// Triangle Wave: Smooth, flute-like, no harsh buzz
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// Low Pass Filter (One Pole)
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Process fills a stereo buffer.
func (s *Synth) Process(out [][]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.smooth = s.smooth*0.995 + s.intensity*0.005
	cutoff := 300.0 + 900.0*s.smooth
	dt := 1.0 / float64(SampleRate)

	for i := 0; i < len(out[0]); i++ {
		sampleL, sampleR := 0.0, 0.0
		for j, f := range padFreqs {
			g := 1.0 / float64(len(padFreqs))
			// Very Slow LFO (Breathing)
			lfo := math.Sin(s.time*0.2 + float64(j))
			sampleL += triangle(s.time*f*0.999) * g * (0.7 + 0.3*lfo)
			sampleR += triangle(s.time*f*1.001) * g * (0.7 + 0.3*lfo)
		}

		outL := lpf(sampleL, cutoff, dt, s.filterState[0])
		outR := lpf(sampleR, cutoff, dt, s.filterState[1])
		s.filterState[0], s.filterState[1] = outL, outR

		for k := range s.voices {
			v := &s.voices[k]
			bell := math.Sin(2*math.Pi*v.phase) * v.amp
			v.phase += v.freq * dt
			v.amp *= v.decay
			outL += bell
			outR += bell
		}

		// Ping-pong delay
		delayL := s.delayLine[0][s.delayHead]
		delayR := s.delayLine[1][s.delayHead]
		mixL := outL + delayL*0.3 + delayR*0.1
		mixR := outR + delayR*0.3 + delayL*0.1
		s.delayLine[0][s.delayHead] = mixL * 0.7
		s.delayLine[1][s.delayHead] = mixR * 0.7
		s.delayHead = (s.delayHead + 1) % len(s.delayLine[0])

		out[0][i] = float32(mixL * s.Volume)
		if len(out) > 1 {
			out[1][i] = float32(mixR * s.Volume)
		}
		s.time += dt
	}

	alive := s.voices[:0]
	for _, v := range s.voices {
		if v.amp > 1e-3 {
			alive = append(alive, v)
		}
	}
	s.voices = alive
}
