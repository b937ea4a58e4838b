// Package analysis turns audio into the three band energies the engine reacts to.
package analysis

import (
	"errors"
	"sync"

	"go-vj/debug"
	"go-vj/modulation"
)

// Analyzer produces band energies in [0,1]
type Analyzer interface {
	BandEnergies() (modulation.Levels, error)
}

// ErrNoData is returned by analyzers with nothing to report yet
var ErrNoData = errors.New("analysis: no spectrum data")

// Spectrum bin ranges over a 64-bin magnitude spectrum (0-255 per bin)
const (
	SpectrumBins = 64
	bassStart    = 0
	bassEnd      = 4
	midStart     = 4
	midEnd       = 20
	trebleStart  = 20
	trebleEnd    = 63
)

// BandEnergy averages spectrum[start..end] inclusive and normalises by 255.
// Bins past the end of the spectrum count as silence.
func BandEnergy(spectrum []float64, start, end int) float64 {
	if end < start {
		return 0
	}
	sum := 0.0
	for i := start; i <= end && i < len(spectrum); i++ {
		sum += spectrum[i]
	}
	return sum / float64(end-start+1) / 255
}

// LevelsFromSpectrum maps a 64-bin spectrum to bass/mid/treble and their mean
func LevelsFromSpectrum(spectrum []float64) (modulation.Levels, error) {
	if len(spectrum) == 0 {
		return modulation.Levels{}, ErrNoData
	}
	l := modulation.Levels{
		Bass:   BandEnergy(spectrum, bassStart, bassEnd),
		Mid:    BandEnergy(spectrum, midStart, midEnd),
		Treble: BandEnergy(spectrum, trebleStart, trebleEnd),
	}
	l.Volume = (l.Bass + l.Mid + l.Treble) / 3
	return l.Clamped(), nil
}

// SpectrumFunc adapts a spectrum source to Analyzer
type SpectrumFunc func() ([]float64, error)

// BandEnergies implements Analyzer
func (f SpectrumFunc) BandEnergies() (modulation.Levels, error) {
	spectrum, err := f()
	if err != nil {
		return modulation.Levels{}, err
	}
	return LevelsFromSpectrum(spectrum)
}

// PollDivisor is how many polls pass per real analysis
const PollDivisor = 3

// Poller throttles an Analyzer to every PollDivisor-th poll and keeps the
// last good levels when the analyzer fails.
type Poller struct {
	mu       sync.Mutex
	analyzer Analyzer
	counter  int
	levels   modulation.Levels
	failures int
}

// NewPoller wraps a (possibly nil) analyzer
func NewPoller(a Analyzer) *Poller {
	return &Poller{analyzer: a}
}

// SetAnalyzer swaps the source. The held levels are kept.
func (p *Poller) SetAnalyzer(a Analyzer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.analyzer = a
}

// Poll counts one poll and returns the current levels
func (p *Poller) Poll() modulation.Levels {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.counter++
	if p.counter%PollDivisor != 0 || p.analyzer == nil {
		return p.levels
	}

	levels, err := p.analyzer.BandEnergies()
	if err != nil {
		p.failures++
		debug.LogEvery(30, "analysis", "band energies failed: %v", err)
		return p.levels
	}
	p.levels = levels.Clamped()
	return p.levels
}

// Levels returns the held levels without polling
func (p *Poller) Levels() modulation.Levels {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.levels
}

// Failures returns how many analyses failed
func (p *Poller) Failures() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures
}

// Reset zeroes the held levels and the throttle counter
func (p *Poller) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.levels = modulation.Levels{}
	p.counter = 0
}
