package analysis

import (
	"math"
	"sync"
	"time"

	"go-vj/modulation"
)

// Follower is a synthetic analyzer fed by the sequencer's own voices.
// Each hit excites one or more bands; every analysis decays them with an
// exponential release, the way an envelope follower tracks a drum bus.
// It implements both Analyzer and sequencer.Voices.
type Follower struct {
	mu      sync.Mutex
	bands   [3]float64 // bass, mid, treble
	release float64    // seconds to fall to ~37%
	last    time.Time
	now     func() time.Time
}

// Hit amounts per voice (bass, mid, treble)
var (
	kickHit  = [3]float64{0.95, 0.25, 0.05}
	hihatHit = [3]float64{0.0, 0.15, 0.8}
	bassHit  = [3]float64{0.6, 0.45, 0.0}
)

// NewFollower creates a follower with the given release time
func NewFollower(release time.Duration) *Follower {
	if release <= 0 {
		release = 150 * time.Millisecond
	}
	return &Follower{
		release: release.Seconds(),
		now:     time.Now,
	}
}

// PlayKick implements sequencer.Voices
func (f *Follower) PlayKick() { f.hit(kickHit) }

// PlayHihat implements sequencer.Voices
func (f *Follower) PlayHihat() { f.hit(hihatHit) }

// PlayBass implements sequencer.Voices
func (f *Follower) PlayBass() { f.hit(bassHit) }

func (f *Follower) hit(amount [3]float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decayLocked()
	for i, a := range amount {
		// Instant attack: take the louder of the current envelope and the hit.
		f.bands[i] = math.Max(f.bands[i], a)
	}
}

// BandEnergies implements Analyzer
func (f *Follower) BandEnergies() (modulation.Levels, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decayLocked()
	l := modulation.Levels{Bass: f.bands[0], Mid: f.bands[1], Treble: f.bands[2]}
	l.Volume = (l.Bass + l.Mid + l.Treble) / 3
	return l.Clamped(), nil
}

func (f *Follower) decayLocked() {
	now := f.now()
	if !f.last.IsZero() {
		dt := now.Sub(f.last).Seconds()
		if dt > 0 {
			coef := math.Exp(-dt / f.release)
			for i := range f.bands {
				f.bands[i] *= coef
			}
		}
	}
	f.last = now
}
