package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2/drivers"

	"go-vj/debug"
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// DeviceManager handles hot-plug detection of Launchpads and of one
// keyboard chosen by port name.
type DeviceManager struct {
	controllers  map[string]Controller
	mu           sync.RWMutex
	events       chan DeviceEvent
	pollRate     time.Duration
	keyboardPort string
}

// NewDeviceManager creates a device manager. keyboardPort may be empty.
func NewDeviceManager(keyboardPort string) *DeviceManager {
	return &DeviceManager{
		controllers:  make(map[string]Controller),
		events:       make(chan DeviceEvent, 16),
		pollRate:     time.Second,
		keyboardPort: keyboardPort,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	out := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		out[k] = v
	}
	return out
}

// GetLaunchpad returns the first connected Launchpad (or nil)
func (dm *DeviceManager) GetLaunchpad() Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	for _, c := range dm.controllers {
		if c.Type() == ControllerLaunchpad {
			return c
		}
	}
	return nil
}

// Run polls for devices until ctx is done (blocking)
func (dm *DeviceManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()
	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return nil
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	inPorts, outPorts, err := Ports(PortTimeout)
	if err != nil {
		// CoreMIDI is hung; try again next tick
		debug.LogEvery(10, "midi", "scan: %v", err)
		return
	}

	seen := make(map[string]bool)
	for _, in := range inPorts {
		id := in.String()
		var kind ControllerType
		switch {
		case isLaunchpad(id):
			kind = ControllerLaunchpad
		case matchPort(id, dm.keyboardPort):
			kind = ControllerKeyboard
		default:
			continue
		}
		seen[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		c, err := dm.open(kind, in, outPorts)
		if err != nil {
			debug.Log("midi", "open %s: %v", id, err)
			continue
		}
		dm.mu.Lock()
		dm.controllers[id] = c
		dm.mu.Unlock()
		debug.Log("midi", "connected %s %s", kind, id)
		dm.emit(DeviceEvent{Type: DeviceConnected, Controller: c, ID: id})
	}

	dm.mu.Lock()
	var gone []string
	for id := range dm.controllers {
		if !seen[id] {
			gone = append(gone, id)
		}
	}
	for _, id := range gone {
		dm.controllers[id].Close()
		delete(dm.controllers, id)
	}
	dm.mu.Unlock()
	for _, id := range gone {
		debug.Log("midi", "disconnected %s", id)
		dm.emit(DeviceEvent{Type: DeviceDisconnected, ID: id})
	}
}

func (dm *DeviceManager) open(kind ControllerType, in drivers.In, outs []drivers.Out) (Controller, error) {
	id := in.String()
	if kind == ControllerKeyboard {
		kb, err := NewKeyboardController(id, in)
		if err != nil {
			return nil, err
		}
		return kb, nil
	}
	var out drivers.Out
	for _, op := range outs {
		if strings.EqualFold(op.String(), id) {
			out = op
			break
		}
	}
	lp, err := NewLaunchpadController(id, in, out)
	if err != nil {
		return nil, err
	}
	return lp, nil
}

func (dm *DeviceManager) emit(ev DeviceEvent) {
	select {
	case dm.events <- ev:
	default:
		debug.Log("midi", "device event dropped: %s", ev.ID)
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}
