package scene

import "fmt"

var registry = [Count]Strategy{
	pulsar{},
	particleStorm{},
	neonRings{},
	neonStrobe{},
	pulseGrid{},
	energyOrbs{},
	laserBeams{},
	plasmaField{},
	strobeChaos{},
	hyperTunnel{},
	lightningStorm{},
	cyberMatrix{},
}

// Get returns the strategy for a 1-based scene index
func Get(index int) (Strategy, error) {
	if index < 1 || index > Count {
		return nil, fmt.Errorf("scene %d out of range 1-%d", index, Count)
	}
	return registry[index-1], nil
}

// ClampIndex forces an index into 1..Count
func ClampIndex(index int) int {
	if index < 1 {
		return 1
	}
	if index > Count {
		return Count
	}
	return index
}

// Name returns the display name of a scene, or "Unknown"
func Name(index int) string {
	s, err := Get(index)
	if err != nil {
		return "Unknown"
	}
	return s.Name()
}

// Names lists every scene name in index order
func Names() []string {
	names := make([]string, Count)
	for i, s := range registry {
		names[i] = s.Name()
	}
	return names
}
