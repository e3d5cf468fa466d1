package driver

// State is the driver's view of the module's operating state
type State int

const (
	// StateNormal is transparent mode: bytes written go over the air
	StateNormal State = iota
	// StateConfig is AT command mode, entered by pulling SET low
	StateConfig
	// StateSleep is entered on leaving command mode after AT+SLEEP
	StateSleep
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateConfig:
		return "config"
	case StateSleep:
		return "sleep"
	default:
		return "unknown"
	}
}
