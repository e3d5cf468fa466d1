package hc12

import "strconv"

// Channel limits
const (
	MinChannel     uint8 = 1
	MaxChannel     uint8 = 127
	DefaultChannel uint8 = 1
)

// Channel is a validated radio channel, 1..127.
//
// The zero value is channel 1, the module default. The code is stored as an
// offset from MinChannel so no Channel value can hold 0 or anything above 127.
type Channel struct {
	offset uint8
}

// NewChannel returns the channel for code, or a *ChannelError if code is out of range
func NewChannel(code uint8) (Channel, error) {
	var c Channel
	if err := c.Set(code); err != nil {
		return Channel{}, err
	}
	return c, nil
}

// Set changes the channel. On error the current channel is left unchanged.
func (c *Channel) Set(code uint8) error {
	if code < MinChannel || code > MaxChannel {
		return &ChannelError{Code: code}
	}
	c.offset = code - MinChannel
	return nil
}

// Code returns the channel number as sent on the wire
func (c Channel) Code() uint8 {
	return c.offset + MinChannel
}

// FreqMHz returns the channel centre frequency: 433.0 + code*0.4 MHz
func (c Channel) FreqMHz() float32 {
	return channelFreqMHz(c.Code())
}

func (c Channel) String() string {
	return "CH" + strconv.Itoa(int(c.Code()))
}
