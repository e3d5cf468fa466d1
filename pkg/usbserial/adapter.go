// Package usbserial finds the USB serial bridges HC-12 modules are attached
// through and maps them to their serial device nodes.
package usbserial

import (
	"fmt"

	"github.com/google/gousb"
)

// Adapter is an enumerated USB serial bridge. The tty side stays with the
// kernel driver; only descriptors are read and the device can be reset.
type Adapter struct {
	usbDevice    *gousb.Device
	Bridge       Bridge
	Serial       string
	Manufacturer string
	Product      string
	Bus          int
	Address      int
}

// FindAllAdapters opens every connected known bridge. The caller closes them.
func FindAllAdapters(ctx *gousb.Context) ([]*Adapter, error) {
	usbDevices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		_, ok := LookupBridge(desc.Vendor, desc.Product)
		return ok
	})
	if err != nil && len(usbDevices) == 0 {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	adapters := make([]*Adapter, 0, len(usbDevices))
	for _, usbDev := range usbDevices {
		adapters = append(adapters, wrapDevice(usbDev))
	}
	return adapters, nil
}

func wrapDevice(usbDev *gousb.Device) *Adapter {
	// string descriptors are optional on cheap bridges
	manufacturer, _ := usbDev.Manufacturer()
	product, _ := usbDev.Product()
	serial, _ := usbDev.SerialNumber()

	desc := usbDev.Desc
	bridge, _ := LookupBridge(desc.Vendor, desc.Product)
	return &Adapter{
		usbDevice:    usbDev,
		Bridge:       bridge,
		Serial:       serial,
		Manufacturer: manufacturer,
		Product:      product,
		Bus:          desc.Bus,
		Address:      desc.Address,
	}
}

// Location returns "bus:addr"
func (a *Adapter) Location() string {
	return fmt.Sprintf("%d:%d", a.Bus, a.Address)
}

func (a *Adapter) String() string {
	s := fmt.Sprintf("%s at %s", a.Bridge, a.Location())
	if a.Serial != "" {
		s += " serial " + a.Serial
	}
	return s
}

// Reset issues a USB port reset. The kernel re-enumerates the bridge, so the
// tty node may come back under a different name.
func (a *Adapter) Reset() error {
	if a.usbDevice == nil {
		return fmt.Errorf("adapter %s is not open", a.Location())
	}
	if err := a.usbDevice.Reset(); err != nil {
		return fmt.Errorf("failed to reset %s: %w", a.Location(), err)
	}
	return nil
}

// Close releases the USB handle
func (a *Adapter) Close() error {
	if a.usbDevice == nil {
		return nil
	}
	err := a.usbDevice.Close()
	a.usbDevice = nil
	return err
}

// CloseAll closes every adapter in the list
func CloseAll(adapters []*Adapter) {
	for _, a := range adapters {
		a.Close()
	}
}
