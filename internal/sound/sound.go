// Package sound plays short feedback tones for editor events.
package sound

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// tone is a sine oscillator with a linear fade out.
type tone struct {
	freq     float64
	phase    float64
	pos, len int
	volume   float64
}

func newTone(freq float64, d time.Duration, volume float64) *tone {
	return &tone{freq: freq, len: sampleRate.N(d), volume: volume}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.len {
			return i, i > 0
		}
		fade := 1 - float64(t.pos)/float64(t.len)
		v := math.Sin(2*math.Pi*t.phase) * t.volume * fade
		samples[i][0], samples[i][1] = v, v

		t.phase += t.freq / float64(sampleRate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Player mixes feedback tones onto the speaker. A Player that failed to
// initialize stays silent.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences the player and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Edit is a short tick for a successful change.
func (p *Player) Edit() { p.play(newTone(880, 40*time.Millisecond, 0.2)) }

// Unmatched is a low buzz for cells no rule covers.
func (p *Player) Unmatched() { p.play(newTone(140, 150*time.Millisecond, 0.3)) }

// Saved plays a rising pair of notes.
func (p *Player) Saved() {
	p.play(beep.Seq(
		newTone(660, 60*time.Millisecond, 0.2),
		newTone(990, 90*time.Millisecond, 0.2),
	))
}
