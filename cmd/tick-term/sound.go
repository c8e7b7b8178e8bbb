package main

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/plus3/tickcore/sim"
)

const sampleRate = beep.SampleRate(44100)

// maxVoices caps the cues queued per tick.
const maxVoices = 4

// Cue is one short synthesized sound.
type Cue struct {
	Freq     float64
	Duration time.Duration
	Square   bool
	Volume   float64
}

var impactCues = map[string]Cue{
	"kinetic":  {Freq: 220, Duration: 40 * time.Millisecond, Square: true, Volume: 0.15},
	"laser":    {Freq: 1320, Duration: 60 * time.Millisecond, Volume: 0.12},
	"plasma":   {Freq: 330, Duration: 90 * time.Millisecond, Volume: 0.15},
	"missile":  {Freq: 110, Duration: 140 * time.Millisecond, Square: true, Volume: 0.2},
	"particle": {Freq: 880, Duration: 30 * time.Millisecond, Volume: 0.1},
	"shell":    {Freq: 165, Duration: 60 * time.Millisecond, Square: true, Volume: 0.15},
}

var deathCue = Cue{Freq: 70, Duration: 250 * time.Millisecond, Square: true, Volume: 0.25}

// Cues maps a tick report to the sounds it should trigger, deaths first.
func Cues(report sim.TickReport) []Cue {
	var cues []Cue
	for range report.Deaths {
		if len(cues) == maxVoices {
			return cues
		}
		cues = append(cues, deathCue)
	}
	for _, impact := range report.Impacts {
		if len(cues) == maxVoices {
			break
		}
		if cue, ok := impactCues[impact.Kind]; ok {
			cues = append(cues, cue)
		}
	}
	return cues
}

// SoundManager plays cues through the speaker.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewSoundManager() *SoundManager {
	return &SoundManager{mixer: &beep.Mixer{}}
}

func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

func (sm *SoundManager) Play(report sim.TickReport) {
	cues := Cues(report)
	if len(cues) == 0 {
		return
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		return
	}
	speaker.Lock()
	for _, cue := range cues {
		sm.mixer.Add(cue.streamer(sampleRate))
	}
	speaker.Unlock()
}

func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}

func (c Cue) streamer(rate beep.SampleRate) beep.Streamer {
	n := rate.N(c.Duration)
	osc := &tone{freq: c.Freq, square: c.Square, rate: rate, total: n, release: n / 2}
	if c.Volume <= 0 {
		return &effects.Volume{Streamer: osc, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: osc, Base: 2, Volume: math.Log2(c.Volume)}
}

// tone is a fixed-frequency oscillator with a linear release tail.
type tone struct {
	freq    float64
	square  bool
	rate    beep.SampleRate
	phase   float64
	pos     int
	total   int
	release int
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		val := math.Sin(2 * math.Pi * t.phase)
		if t.square {
			val = 1
			if t.phase >= 0.5 {
				val = -1
			}
		}
		if left := t.total - t.pos; t.release > 0 && left < t.release {
			val *= float64(left) / float64(t.release)
		}
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }
