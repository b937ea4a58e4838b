package midi

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ErrNoPort is returned when no port matches a name
var ErrNoPort = errors.New("no matching MIDI port")

// ErrPortsTimeout is returned when the driver does not answer in time
var ErrPortsTimeout = errors.New("timed out listing MIDI ports")

// PortTimeout bounds every port listing; CoreMIDI can hang
const PortTimeout = 3 * time.Second

// Ports lists input and output ports, giving up after timeout
func Ports(timeout time.Duration) ([]drivers.In, []drivers.Out, error) {
	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r.ins, r.outs, nil
	case <-time.After(timeout):
		return nil, nil, ErrPortsTimeout
	}
}

// FindOutPort returns the first output whose name contains name (case-insensitive)
func FindOutPort(name string) (drivers.Out, error) {
	_, outs, err := Ports(PortTimeout)
	if err != nil {
		return nil, err
	}
	for _, p := range outs {
		if matchPort(p.String(), name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("output %q: %w", name, ErrNoPort)
}

// FindInPort returns the first input whose name contains name (case-insensitive)
func FindInPort(name string) (drivers.In, error) {
	ins, _, err := Ports(PortTimeout)
	if err != nil {
		return nil, err
	}
	for _, p := range ins {
		if matchPort(p.String(), name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("input %q: %w", name, ErrNoPort)
}

func matchPort(portName, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return false
	}
	return strings.Contains(strings.ToLower(portName), strings.ToLower(want))
}

func isLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}
