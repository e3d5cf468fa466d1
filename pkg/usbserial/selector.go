package usbserial

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/gousb"
)

// Selector specifies how to identify an adapter
// Supported formats:
//   - ""           : Use first available adapter
//   - "serial"     : Match by USB serial number (e.g., "A50285BI")
//   - "bus:addr"   : Match by USB bus and address (e.g., "1:10")
//   - "#N"         : Use Nth adapter, 0-indexed (e.g., "#0", "#1")
type Selector string

type selectorKind int

const (
	selectFirst selectorKind = iota
	selectIndex
	selectBusAddr
	selectSerial
)

type parsedSelector struct {
	kind   selectorKind
	index  int
	bus    int
	addr   int
	serial string
}

func (s Selector) parse() (parsedSelector, error) {
	sel := strings.TrimSpace(string(s))

	if sel == "" {
		return parsedSelector{kind: selectFirst}, nil
	}

	if indexStr, ok := strings.CutPrefix(sel, "#"); ok {
		index, err := strconv.Atoi(indexStr)
		if err != nil || index < 0 {
			return parsedSelector{}, fmt.Errorf("%w: bad index %q", ErrInvalidSelector, sel)
		}
		return parsedSelector{kind: selectIndex, index: index}, nil
	}

	if busStr, addrStr, ok := strings.Cut(sel, ":"); ok {
		bus, err := strconv.Atoi(busStr)
		if err != nil {
			return parsedSelector{}, fmt.Errorf("%w: bad bus number %q", ErrInvalidSelector, busStr)
		}
		addr, err := strconv.Atoi(addrStr)
		if err != nil {
			return parsedSelector{}, fmt.Errorf("%w: bad address number %q", ErrInvalidSelector, addrStr)
		}
		return parsedSelector{kind: selectBusAddr, bus: bus, addr: addr}, nil
	}

	return parsedSelector{kind: selectSerial, serial: sel}, nil
}

// Pick returns the adapter matching the selector and closes all the others.
// On error every adapter is closed.
func (s Selector) Pick(adapters []*Adapter) (*Adapter, error) {
	p, err := s.parse()
	if err != nil {
		CloseAll(adapters)
		return nil, err
	}
	if len(adapters) == 0 {
		return nil, ErrNoAdapters
	}

	var matches []*Adapter
	switch p.kind {
	case selectFirst:
		matches = adapters[:1]
	case selectIndex:
		if p.index >= len(adapters) {
			CloseAll(adapters)
			return nil, fmt.Errorf("%w: index %d out of range (found %d adapters)", ErrNotFound, p.index, len(adapters))
		}
		matches = adapters[p.index : p.index+1]
	case selectBusAddr:
		for _, a := range adapters {
			if a.Bus == p.bus && a.Address == p.addr {
				matches = append(matches, a)
			}
		}
	case selectSerial:
		for _, a := range adapters {
			if a.Serial == p.serial {
				matches = append(matches, a)
			}
		}
	}

	if len(matches) != 1 {
		CloseAll(adapters)
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, string(s))
		}
		return nil, fmt.Errorf("%w: %d adapters match %q; use bus:addr format (e.g., 1:10) or index format (e.g., #0)",
			ErrAmbiguous, len(matches), string(s))
	}

	selected := matches[0]
	for _, a := range adapters {
		if a != selected {
			a.Close()
		}
	}
	return selected, nil
}

// SelectAdapter opens the adapter matching selector
func SelectAdapter(ctx *gousb.Context, selector Selector) (*Adapter, error) {
	adapters, err := FindAllAdapters(ctx)
	if err != nil {
		return nil, err
	}
	return selector.Pick(adapters)
}

// FlagUsage returns usage text for the -d flag
func FlagUsage() string {
	return `USB adapter selector. Formats:
    ""        - Use first available adapter
    "serial"  - Match by USB serial number (e.g., "A50285BI")
    "bus:addr"- Match by USB location (e.g., "1:10")
    "#N"      - Use Nth adapter, 0-indexed (e.g., "#0", "#1")`
}
