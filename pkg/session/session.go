// Package session wires settings, logging, the serial transport and the
// driver together for the command line tools.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/gousb"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/herlein/gohc12/pkg/driver"
	"github.com/herlein/gohc12/pkg/logging"
	"github.com/herlein/gohc12/pkg/serialport"
	"github.com/herlein/gohc12/pkg/settings"
	"github.com/herlein/gohc12/pkg/usbserial"
)

// Options are the common command line flags
type Options struct {
	ConfigPath string // -config
	Port       string // -p, overrides settings and adapter lookup
	Adapter    string // -d, USB adapter selector
	BaudRate   int    // -b, current module UART rate, 0 for the configured one
}

// Session is an open connection to one module
type Session struct {
	Settings *settings.Settings
	Log      *zap.Logger
	Port     *serialport.Port
	Driver   *driver.Driver
	Registry *prometheus.Registry
	Adapter  string // description of the USB adapter, if one was looked up
}

// Open loads settings, resolves and opens the serial port and creates a driver
func Open(opts Options) (*Session, error) {
	s, err := settings.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.InitLogger(s.Logging)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		Settings: s,
		Log:      logger,
		Registry: prometheus.NewRegistry(),
	}

	portName := opts.Port
	if portName == "" {
		portName = s.Serial.Port
	}
	if portName == "" {
		selector := opts.Adapter
		if selector == "" {
			selector = s.Adapter
		}
		portName, sess.Adapter, err = lookupAdapter(usbserial.Selector(selector))
		if err != nil {
			logger.Sync()
			return nil, err
		}
		logger.Info("adapter selected", zap.String("adapter", sess.Adapter), zap.String("port", portName))
	}

	cfg := s.PortConfig(portName)
	if opts.BaudRate != 0 {
		cfg.BaudRate = opts.BaudRate
	}
	sess.Port, err = serialport.Open(cfg, logger)
	if err != nil {
		logger.Sync()
		return nil, err
	}

	driverOpts := s.DriverOptions()
	driverOpts.Metrics = driver.NewMetrics(sess.Registry)
	sess.Driver = driver.New(sess.Port, sess.Port, driverOpts, logger)
	return sess, nil
}

func lookupAdapter(selector usbserial.Selector) (port, description string, err error) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	adapter, err := usbserial.SelectAdapter(ctx, selector)
	if err != nil {
		return "", "", err
	}
	defer adapter.Close()

	port, err = usbserial.ResolvePortName(adapter)
	if err != nil {
		return "", "", err
	}
	return port, adapter.String(), nil
}

// Ping switches the module to config mode, checks it answers AT and returns
// to transparent mode
func (s *Session) Ping(ctx context.Context) error {
	return s.Driver.WithConfig(ctx, func() error {
		return s.Driver.Ping(ctx)
	})
}

// Close closes the port, writes the metrics textfile if one is configured
// and flushes the log
func (s *Session) Close() error {
	var errs []error
	if s.Port != nil {
		errs = append(errs, s.Port.Close())
	}
	if s.Settings != nil && s.Settings.Metrics.Textfile != "" {
		if err := prometheus.WriteToTextfile(s.Settings.Metrics.Textfile, s.Registry); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		}
	}
	if s.Log != nil {
		s.Log.Sync()
	}
	return errors.Join(errs...)
}
