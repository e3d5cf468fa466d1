// Package driver runs the AT command protocol against an HC-12 module over a
// byte transport. It tracks the module's operating state, paces commands,
// waits for replies and decodes them with the hc12 package.
//
// A Driver is not safe for concurrent use by multiple goroutines, except that
// concurrent command exchanges are serialized internally.
package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/herlein/gohc12/pkg/hc12"
)

// Transport is the byte stream to the module. Read must return (0, nil) after
// its own short timeout when no data arrives.
type Transport interface {
	io.Reader
	io.Writer
	ResetInputBuffer() error
}

// ConfigLine drives the module's SET pin
type ConfigLine interface {
	SetConfigMode(enabled bool) error
}

// BaudSwitcher is implemented by transports that can change their UART rate
type BaudSwitcher interface {
	SetBaudRate(bps int) error
}

// Options tunes timing of the command protocol
type Options struct {
	CommandTimeout  time.Duration // max wait for a reply line
	CommandInterval time.Duration // min spacing between commands, zero for none
	EnterDelay      time.Duration // settle time after pulling SET low
	ExitDelay       time.Duration // settle time after releasing SET
	Metrics         *Metrics      // optional
}

// DefaultOptions returns the timing documented for the module
func DefaultOptions() Options {
	return Options{
		CommandTimeout:  time.Second,
		CommandInterval: 20 * time.Millisecond,
		EnterDelay:      40 * time.Millisecond,
		ExitDelay:       80 * time.Millisecond,
	}
}

// Driver talks to a single module
type Driver struct {
	transport Transport
	line      ConfigLine
	opts      Options
	limiter   *rate.Limiter
	log       *zap.Logger

	xchgMu      sync.Mutex
	state       State
	pendingBaud hc12.BaudRate
	sleepOnExit bool
	// bytes received after the last complete reply line
	rx []byte
}

// New creates a driver. The module is assumed to be in transparent mode.
func New(transport Transport, line ConfigLine, opts Options, logger *zap.Logger) *Driver {
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = DefaultOptions().CommandTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if opts.CommandInterval > 0 {
		limit = rate.Every(opts.CommandInterval)
	}
	return &Driver{
		transport: transport,
		line:      line,
		opts:      opts,
		limiter:   rate.NewLimiter(limit, 1),
		log:       logger,
		state:     StateNormal,
	}
}

// State returns the current state
func (d *Driver) State() State {
	return d.state
}

func (d *Driver) setState(state State) {
	if d.state == state {
		return
	}
	d.log.Info("state change",
		zap.Stringer("from", d.state),
		zap.Stringer("to", state))
	d.state = state
	d.opts.Metrics.transition(state)
}

// EnterConfig pulls SET low and waits for the module to accept AT commands.
// Entering from Sleep also wakes the module.
func (d *Driver) EnterConfig(ctx context.Context) error {
	if d.state == StateConfig {
		return nil
	}
	if err := d.line.SetConfigMode(true); err != nil {
		return fmt.Errorf("failed to enter config mode: %w", err)
	}
	if err := delay(ctx, d.opts.EnterDelay); err != nil {
		return err
	}
	if err := d.transport.ResetInputBuffer(); err != nil {
		return fmt.Errorf("failed to flush input: %w", err)
	}
	d.rx = nil
	d.sleepOnExit = false
	d.setState(StateConfig)
	return nil
}

// ExitConfig releases SET. A baud rate accepted while in config mode takes
// effect now, and the transport follows it when it can. After an acknowledged
// AT+SLEEP the module goes to sleep instead of transparent mode.
func (d *Driver) ExitConfig(ctx context.Context) error {
	if d.state != StateConfig {
		return fmt.Errorf("%w: exit config from %s", ErrWrongState, d.state)
	}
	if err := d.line.SetConfigMode(false); err != nil {
		return fmt.Errorf("failed to exit config mode: %w", err)
	}
	if len(d.rx) > 0 {
		d.log.Debug("discarding unread reply bytes", zap.ByteString("raw", d.rx))
		d.rx = nil
	}
	if err := delay(ctx, d.opts.ExitDelay); err != nil {
		return err
	}

	if d.pendingBaud != 0 {
		baud := d.pendingBaud
		d.pendingBaud = 0
		if sw, ok := d.transport.(BaudSwitcher); ok {
			if err := sw.SetBaudRate(baud.Bps()); err != nil {
				return fmt.Errorf("module now at %s: %w", baud, err)
			}
		} else {
			d.log.Warn("transport cannot follow baud change", zap.Stringer("baud", baud))
		}
	}

	if d.sleepOnExit {
		d.sleepOnExit = false
		d.setState(StateSleep)
	} else {
		d.setState(StateNormal)
	}
	return nil
}

// WithConfig runs fn in config mode and returns to the previous state
// afterwards, even if fn fails
func (d *Driver) WithConfig(ctx context.Context, fn func() error) error {
	if d.state == StateConfig {
		return fn()
	}
	if err := d.EnterConfig(ctx); err != nil {
		return err
	}
	err := fn()
	// exit must still run when ctx is already done
	exitErr := d.ExitConfig(context.WithoutCancel(ctx))
	return errors.Join(err, exitErr)
}

// Ping sends AT and expects exactly "Ok\r\n"
func (d *Driver) Ping(ctx context.Context) error {
	reply, err := d.exchange(ctx, "ping", []byte(hc12.OKQuery))
	if err != nil {
		return err
	}
	if !hc12.IsOK(reply) {
		return fmt.Errorf("%w: %q", hc12.ErrUnexpectedReply, reply)
	}
	return nil
}

// Revision returns the firmware version string
func (d *Driver) Revision(ctx context.Context) (string, error) {
	reply, err := d.exchange(ctx, "revision", []byte(hc12.RevisionQuery))
	if err != nil {
		return "", err
	}
	return string(bytes.TrimRight(reply, "\r\n")), nil
}

// Send writes one set command and checks the module echoed the value back.
// A baud rate or mode the module does not support is rejected before any write.
func (d *Driver) Send(ctx context.Context, cmd hc12.SetCommand) (hc12.Reply, error) {
	name := commandName(cmd)
	if err := hc12.ValidateSetCommand(cmd); err != nil {
		return hc12.Reply{}, fmt.Errorf("%s: %w", name, err)
	}

	var buf hc12.CommandBuffer
	n := cmd.RenderSetCommand(&buf)
	line, err := d.exchange(ctx, name, buf[:n])
	if err != nil {
		return hc12.Reply{}, err
	}
	reply, err := hc12.ParseReply(line)
	if err != nil {
		return reply, fmt.Errorf("%s: %w", name, err)
	}
	if !echoes(cmd, reply) {
		return reply, fmt.Errorf("%s: %w: %q", name, hc12.ErrUnexpectedReply, reply.Text)
	}

	if r, ok := cmd.(hc12.BaudRate); ok {
		d.pendingBaud = r
	}
	d.log.Info("parameter set", zap.String("command", name), zap.String("reply", reply.Text))
	return reply, nil
}

// Apply sends each command in order, stopping at the first failure
func (d *Driver) Apply(ctx context.Context, cmds ...hc12.SetCommand) error {
	for _, cmd := range cmds {
		if _, err := d.Send(ctx, cmd); err != nil {
			return err
		}
	}
	return nil
}

// Query reads one parameter from the module
func (d *Driver) Query(ctx context.Context, kind hc12.ParameterKind) (hc12.Reply, error) {
	var buf hc12.QueryBuffer
	kind.RenderQuery(&buf)

	name := "query_" + kind.String()
	line, err := d.exchange(ctx, name, buf[:])
	if err != nil {
		return hc12.Reply{}, err
	}
	reply, err := hc12.ParseReply(line)
	if err != nil {
		return reply, fmt.Errorf("%s: %w", name, err)
	}
	if reply.Kind != kind {
		return reply, fmt.Errorf("%s: %w: %q", name, hc12.ErrUnexpectedReply, reply.Text)
	}
	return reply, nil
}

// ReadSettings queries all four parameters
func (d *Driver) ReadSettings(ctx context.Context) (hc12.Snapshot, error) {
	var s hc12.Snapshot
	for _, kind := range hc12.ParameterKinds() {
		reply, err := d.Query(ctx, kind)
		if err != nil {
			return s, err
		}
		switch kind {
		case hc12.KindMode:
			s.Mode = reply.Mode
		case hc12.KindBaudRate:
			s.BaudRate = reply.BaudRate
		case hc12.KindChannel:
			s.Channel = reply.Channel
		case hc12.KindPower:
			s.Power = reply.Power
		}
	}
	return s, nil
}

// Sleep sends AT+SLEEP and leaves config mode so the module powers down
func (d *Driver) Sleep(ctx context.Context) error {
	if d.state == StateSleep {
		return nil
	}
	if err := d.EnterConfig(ctx); err != nil {
		return err
	}
	line, err := d.exchange(ctx, "sleep", []byte(hc12.SleepCommand))
	if err == nil {
		_, err = hc12.ParseReply(line)
	}
	if err != nil {
		return errors.Join(err, d.ExitConfig(context.WithoutCancel(ctx)))
	}
	d.sleepOnExit = true
	return d.ExitConfig(ctx)
}

// Wake brings a sleeping module back to transparent mode by cycling SET
func (d *Driver) Wake(ctx context.Context) error {
	if d.state != StateSleep {
		return fmt.Errorf("%w: wake from %s", ErrWrongState, d.state)
	}
	if err := d.EnterConfig(ctx); err != nil {
		return err
	}
	return d.ExitConfig(ctx)
}

// ResetDefaults sends AT+DEFAULT. The module returns to FU3, 9600 bps,
// channel 1 and full power; the UART rate follows on ExitConfig.
func (d *Driver) ResetDefaults(ctx context.Context) error {
	line, err := d.exchange(ctx, "reset_defaults", []byte(hc12.ResetSettingsCommand))
	if err != nil {
		return err
	}
	if _, err := hc12.ParseReply(line); err != nil {
		return fmt.Errorf("reset_defaults: %w", err)
	}
	d.pendingBaud = hc12.DefaultBaudRate
	d.log.Info("module reset to defaults")
	return nil
}

// TriggerUpdate sends AT+UPDATE, which hands the module to its bootloader.
// No reply is awaited.
func (d *Driver) TriggerUpdate(ctx context.Context) error {
	if d.state != StateConfig {
		return fmt.Errorf("%w: update from %s", ErrWrongState, d.state)
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	started := time.Now()
	_, err := d.transport.Write([]byte(hc12.UpdateCommand))
	d.opts.Metrics.observe("update", started, err)
	if err != nil {
		return err
	}
	d.log.Warn("firmware update mode requested")
	return nil
}

// Write sends payload bytes over the air. Only valid in transparent mode.
func (d *Driver) Write(p []byte) (int, error) {
	if d.state != StateNormal {
		return 0, fmt.Errorf("%w: write in %s", ErrWrongState, d.state)
	}
	return d.transport.Write(p)
}

// Read receives payload bytes. Only valid in transparent mode.
func (d *Driver) Read(p []byte) (int, error) {
	if d.state != StateNormal {
		return 0, fmt.Errorf("%w: read in %s", ErrWrongState, d.state)
	}
	return d.transport.Read(p)
}

// exchange writes one command and returns the reply line including its CRLF
func (d *Driver) exchange(ctx context.Context, name string, cmd []byte) (reply []byte, err error) {
	if d.state != StateConfig {
		return nil, fmt.Errorf("%w: %s in %s", ErrWrongState, name, d.state)
	}

	d.xchgMu.Lock()
	defer d.xchgMu.Unlock()

	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	started := time.Now()
	defer func() {
		d.opts.Metrics.observe(name, started, err)
		if err != nil {
			d.log.Warn("command failed", zap.String("command", name), zap.Error(err))
		}
	}()

	if _, err := d.transport.Write(cmd); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	d.log.Debug("command sent", zap.String("command", name), zap.ByteString("raw", bytes.TrimRight(cmd, "\r\n")))

	ctx, cancel := context.WithTimeout(ctx, d.opts.CommandTimeout)
	defer cancel()
	return d.readLine(ctx, name)
}

// readLine returns the next reply line. Bytes that arrive after the line
// ending are kept for the next exchange.
func (d *Driver) readLine(ctx context.Context, name string) ([]byte, error) {
	line := d.rx
	d.rx = nil
	buf := make([]byte, 64)
	for {
		if i := bytes.IndexByte(line, '\n'); i >= 0 {
			if rest := line[i+1:]; len(rest) > 0 {
				d.rx = bytes.Clone(rest)
			}
			return line[:i+1], nil
		}
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%s: %w after %q", name, ErrTimeout, line)
			}
			return nil, err
		}
		n, err := d.transport.Read(buf)
		if err != nil {
			if !errors.Is(err, hc12.ErrRead) {
				err = fmt.Errorf("%w: %w", hc12.ErrRead, err)
			}
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		line = append(line, buf[:n]...)
	}
}

func delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func commandName(cmd hc12.SetCommand) string {
	switch cmd.(type) {
	case hc12.BaudRate:
		return "set_baud_rate"
	case hc12.Channel:
		return "set_channel"
	case hc12.Mode:
		return "set_mode"
	case hc12.TransmissionPower:
		return "set_power"
	default:
		return "set"
	}
}

// echoes reports whether reply confirms the value cmd asked for
func echoes(cmd hc12.SetCommand, reply hc12.Reply) bool {
	switch v := cmd.(type) {
	case hc12.BaudRate:
		return reply.Kind == hc12.KindBaudRate && reply.BaudRate == v
	case hc12.Channel:
		return reply.Kind == hc12.KindChannel && reply.Channel == v
	case hc12.Mode:
		return reply.Kind == hc12.KindMode && reply.Mode == v
	case hc12.TransmissionPower:
		return reply.Kind == hc12.KindPower && reply.Power == v
	default:
		return true
	}
}
