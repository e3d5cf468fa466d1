// Package settings loads tool settings from a YAML, TOML or JSON file and
// HC12_* environment variables.
package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/herlein/gohc12/pkg/driver"
	"github.com/herlein/gohc12/pkg/serialport"
)

// SerialSettings describes the serial link
type SerialSettings struct {
	Port        string        `mapstructure:"port"`
	BaudRate    int           `mapstructure:"baud_rate"`
	SetLine     string        `mapstructure:"set_line"`
	InvertSet   bool          `mapstructure:"invert_set"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

// DriverSettings tunes the command protocol
type DriverSettings struct {
	CommandTimeout  time.Duration `mapstructure:"command_timeout"`
	CommandInterval time.Duration `mapstructure:"command_interval"`
	EnterDelay      time.Duration `mapstructure:"enter_delay"`
	ExitDelay       time.Duration `mapstructure:"exit_delay"`
}

// LumberjackSettings configures log file rotation
type LumberjackSettings struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingSettings selects log level and output
type LoggingSettings struct {
	Level  string             `mapstructure:"level"`
	Format string             `mapstructure:"format"`
	File   LumberjackSettings `mapstructure:"file"`
}

// MetricsSettings controls the Prometheus textfile written when a tool exits
type MetricsSettings struct {
	Textfile string `mapstructure:"textfile"`
}

// Settings is the top level
type Settings struct {
	Serial  SerialSettings  `mapstructure:"serial"`
	Driver  DriverSettings  `mapstructure:"driver"`
	Logging LoggingSettings `mapstructure:"logging"`
	Metrics MetricsSettings `mapstructure:"metrics"`
	Adapter string          `mapstructure:"adapter"`
}

// Load reads settings from path. With an empty path HC12_CONFIG is used, and
// failing that hc12.yaml is looked up in the working directory and /etc/hc12.
// A missing default file is not an error.
func Load(path string) (*Settings, error) {
	v := viper.New()

	if path == "" {
		path = os.Getenv("HC12_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/hc12")
		v.SetConfigName("hc12")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("HC12")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &s, nil
}

func setDefaults(v *viper.Viper) {
	opts := driver.DefaultOptions()

	v.SetDefault("adapter", "")

	v.SetDefault("serial.port", "")
	v.SetDefault("serial.baud_rate", 9600)
	v.SetDefault("serial.set_line", serialport.SetLineRTS)
	v.SetDefault("serial.invert_set", false)
	v.SetDefault("serial.read_timeout", serialport.DefaultReadTimeout)

	v.SetDefault("driver.command_timeout", opts.CommandTimeout)
	v.SetDefault("driver.command_interval", opts.CommandInterval)
	v.SetDefault("driver.enter_delay", opts.EnterDelay)
	v.SetDefault("driver.exit_delay", opts.ExitDelay)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.max_size", 10)
	v.SetDefault("logging.file.max_backups", 3)
	v.SetDefault("logging.file.max_age", 30)
	v.SetDefault("logging.file.compress", false)

	v.SetDefault("metrics.textfile", "")
}

// PortConfig returns the serial configuration. A non-empty port overrides
// the configured one.
func (s *Settings) PortConfig(port string) serialport.Config {
	if port == "" {
		port = s.Serial.Port
	}
	return serialport.Config{
		Name:        port,
		BaudRate:    s.Serial.BaudRate,
		SetLine:     s.Serial.SetLine,
		InvertSet:   s.Serial.InvertSet,
		ReadTimeout: s.Serial.ReadTimeout,
	}
}

// DriverOptions returns the driver timing
func (s *Settings) DriverOptions() driver.Options {
	return driver.Options{
		CommandTimeout:  s.Driver.CommandTimeout,
		CommandInterval: s.Driver.CommandInterval,
		EnterDelay:      s.Driver.EnterDelay,
		ExitDelay:       s.Driver.ExitDelay,
	}
}
