package modulation

import (
	"math"
	"time"
)

// WallClock is derived from the system clock every frame
type WallClock struct {
	Hours        int     `json:"hours"`
	Minutes      int     `json:"minutes"`
	Seconds      int     `json:"seconds"`
	Milliseconds int     `json:"milliseconds"`
	TotalSeconds float64 `json:"totalSeconds"` // seconds since local midnight
	TimeOfDay    float64 `json:"timeOfDay"`    // TotalSeconds / 86400, in [0,1)
}

const secondsPerDay = 86400

// ReadWallClock derives a WallClock from t in t's location
func ReadWallClock(t time.Time) WallClock {
	c := WallClock{
		Hours:        t.Hour(),
		Minutes:      t.Minute(),
		Seconds:      t.Second(),
		Milliseconds: t.Nanosecond() / int(time.Millisecond),
	}
	c.TotalSeconds = float64(c.Hours*3600+c.Minutes*60+c.Seconds) + float64(c.Milliseconds)/1000
	c.TimeOfDay = c.TotalSeconds / secondsPerDay
	return c
}

// RefreshWallClock recomputes the wall clock from now
func (s *State) RefreshWallClock(now time.Time) {
	s.Clock = ReadWallClock(now)
}

// Cycles are the periodic wall-clock terms scenes mix into their formulas
type Cycles struct {
	HourSin, HourCos     float64 // 24h period on hours*pi/12
	MinuteSin, MinuteCos float64 // 60m period on minutes*pi/30
	SecondSin, SecondCos float64 // 60s period on seconds*pi/30
	SecondSin15          float64 // 30s period on seconds*pi/15
	TimeOfDay            float64
}

// Cycles returns the cycle terms for the current wall clock
func (c WallClock) Cycles() Cycles {
	h := float64(c.Hours) * math.Pi / 12
	m := float64(c.Minutes) * math.Pi / 30
	s := float64(c.Seconds) * math.Pi / 30
	return Cycles{
		HourSin:     math.Sin(h),
		HourCos:     math.Cos(h),
		MinuteSin:   math.Sin(m),
		MinuteCos:   math.Cos(m),
		SecondSin:   math.Sin(s),
		SecondCos:   math.Cos(s),
		SecondSin15: math.Sin(float64(c.Seconds) * math.Pi / 15),
		TimeOfDay:   c.TimeOfDay,
	}
}
