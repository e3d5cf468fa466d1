package usbserial

import (
	"fmt"
	"strings"

	"go.bug.st/serial/enumerator"
)

// listPorts is replaced in tests
var listPorts = enumerator.GetDetailedPortsList

// ResolvePortName finds the serial device node the adapter exposes
func ResolvePortName(a *Adapter) (string, error) {
	ports, err := listPorts()
	if err != nil {
		return "", fmt.Errorf("failed to list serial ports: %w", err)
	}
	return matchPort(ports, a)
}

func matchPort(ports []*enumerator.PortDetails, a *Adapter) (string, error) {
	var names []string
	for _, p := range ports {
		if !p.IsUSB {
			continue
		}
		if !strings.EqualFold(p.VID, a.Bridge.Vendor.String()) || !strings.EqualFold(p.PID, a.Bridge.Product.String()) {
			continue
		}
		if a.Serial != "" && p.SerialNumber != "" && p.SerialNumber != a.Serial {
			continue
		}
		names = append(names, p.Name)
	}

	switch len(names) {
	case 0:
		return "", fmt.Errorf("%w: no serial port for %s", ErrNotFound, a)
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("%w: %s maps to ports %s; pass -p explicitly",
			ErrAmbiguous, a, strings.Join(names, ", "))
	}
}
