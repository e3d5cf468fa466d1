package usbserial

import "github.com/google/gousb"

// Bridge is a USB to UART converter commonly found on HC-12 carrier boards
type Bridge struct {
	Name    string
	Vendor  gousb.ID
	Product gousb.ID
}

// KnownBridges are the converters recognised during enumeration
var KnownBridges = []Bridge{
	{Name: "CH340", Vendor: 0x1A86, Product: 0x7523},
	{Name: "CP210x", Vendor: 0x10C4, Product: 0xEA60},
	{Name: "FT232R", Vendor: 0x0403, Product: 0x6001},
	{Name: "FT231X", Vendor: 0x0403, Product: 0x6015},
	{Name: "PL2303", Vendor: 0x067B, Product: 0x2303},
}

// LookupBridge returns the known bridge with the given IDs
func LookupBridge(vendor, product gousb.ID) (Bridge, bool) {
	for _, b := range KnownBridges {
		if b.Vendor == vendor && b.Product == product {
			return b, true
		}
	}
	return Bridge{}, false
}

// String returns e.g. "CH340 (1a86:7523)"
func (b Bridge) String() string {
	return b.Name + " (" + b.Vendor.String() + ":" + b.Product.String() + ")"
}
