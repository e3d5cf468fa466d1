package hc12

// Physical quantity tables. Indexes are parameter codes; every accessor that
// reads them takes a value that could only have been built in range.

// powerDBm maps transmission power codes 1..8 to output power in dBm
var powerDBm = [...]int8{
	1: -1,
	2: 2,
	3: 5,
	4: 8,
	5: 11,
	6: 14,
	7: 17,
	8: 20,
}

// powerMilliwatt maps transmission power codes 1..8 to output power in mW
var powerMilliwatt = [...]float32{
	1: 0.79,
	2: 1.58,
	3: 3.16,
	4: 6.31,
	5: 12.59,
	6: 25.12,
	7: 50.12,
	8: 100.0,
}

// Channel frequency plan
const (
	BaseFrequencyMHz    float32 = 433.0
	ChannelSpacingMHz   float32 = 0.4
	ChannelBandwidthKHz         = 400
)

// channelFreqMHz returns the centre frequency of a channel code.
// The inner conversion forces rounding before the add so the result does not
// depend on whether the compiler fuses the multiply-add.
func channelFreqMHz(code uint8) float32 {
	return BaseFrequencyMHz + float32(float32(code)*ChannelSpacingMHz)
}

// SensitivityDBm returns the receiver sensitivity for an air baud rate.
//
// The datasheet gives no figure for 250000 bps (modes FU1 and FU2); the value
// returned for AirBps250000 is extrapolated from the 236000 bps entry and is
// an approximation, not a measured constant.
func SensitivityDBm(air AirBaudRate) int32 {
	switch air {
	case AirBps5000, AirBps15000:
		return -117
	case AirBps58000:
		return -112
	case AirBps236000:
		return -100
	case AirBps250000:
		return -100 // extrapolated
	default:
		return 0
	}
}
