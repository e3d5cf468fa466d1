// Package scanner steps an HC-12 through its channels and listens on each
// for a while to find channels carrying traffic.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/herlein/gohc12/pkg/hc12"
)

// Device is the part of the driver the scanner needs
type Device interface {
	WithConfig(ctx context.Context, fn func() error) error
	Query(ctx context.Context, kind hc12.ParameterKind) (hc12.Reply, error)
	Send(ctx context.Context, cmd hc12.SetCommand) (hc12.Reply, error)
	Read(p []byte) (int, error)
}

// Config controls a scan
type Config struct {
	Channels      []hc12.Channel // channels to visit, in order
	Dwell         time.Duration  // listening time per channel
	HoldMax       int            // sweeps a quiet channel stays active
	LostThreshold int            // hold count at which OnLost fires
	OnDetected    func(*ChannelActivity)
	OnLost        func(*ChannelActivity)
}

// DefaultConfig scans every channel for 200 ms
func DefaultConfig() *Config {
	channels := make([]hc12.Channel, 0, hc12.MaxChannel)
	for code := hc12.MinChannel; code <= hc12.MaxChannel; code++ {
		ch, _ := hc12.NewChannel(code)
		channels = append(channels, ch)
	}
	return &Config{
		Channels:      channels,
		Dwell:         200 * time.Millisecond,
		HoldMax:       3,
		LostThreshold: 1,
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if len(c.Channels) == 0 {
		return ErrNoChannels
	}
	if c.Dwell < 10*time.Millisecond || c.Dwell > 10*time.Second {
		return ErrInvalidDwellTime
	}
	if c.LostThreshold < 0 || c.HoldMax <= c.LostThreshold {
		return fmt.Errorf("%w: hold %d, lost %d", ErrInvalidHold, c.HoldMax, c.LostThreshold)
	}
	return nil
}

// Sample is the traffic seen on one channel during one dwell
type Sample struct {
	Channel   hc12.Channel
	Bytes     int
	Timestamp time.Time
}

// ScanResult holds one sweep over the configured channels
type ScanResult struct {
	Samples  []Sample
	Started  time.Time
	Duration time.Duration
	Restored hc12.Channel // channel the module was returned to
}

// Active returns the samples that saw traffic
func (r *ScanResult) Active() []Sample {
	var active []Sample
	for _, s := range r.Samples {
		if s.Bytes > 0 {
			active = append(active, s)
		}
	}
	return active
}

// Scanner sweeps channels on one module
type Scanner struct {
	device  Device
	config  *Config
	log     *zap.Logger
	tracker *ActivityTracker

	mu      sync.Mutex
	running bool
}

// New creates a scanner. A nil config uses DefaultConfig.
func New(device Device, config *Config, logger *zap.Logger) (*Scanner, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	tracker := NewActivityTracker(config.HoldMax, config.LostThreshold)
	tracker.SetCallbacks(config.OnDetected, config.OnLost)
	return &Scanner{
		device:  device,
		config:  config,
		log:     logger,
		tracker: tracker,
	}, nil
}

// Tracker returns the activity history
func (s *Scanner) Tracker() *ActivityTracker {
	return s.tracker
}

func (s *Scanner) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrScannerRunning
	}
	s.running = true
	return nil
}

func (s *Scanner) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// ScanOnce visits every configured channel once and then returns the module
// to the channel it was on
func (s *Scanner) ScanOnce(ctx context.Context) (*ScanResult, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()
	return s.sweep(ctx)
}

// ScanContinuous sweeps until ctx is cancelled, sending each result on results
func (s *Scanner) ScanContinuous(ctx context.Context, results chan<- *ScanResult) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	for {
		result, err := s.sweep(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		select {
		case results <- result:
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *Scanner) sweep(ctx context.Context) (*ScanResult, error) {
	var original hc12.Channel
	if err := s.device.WithConfig(ctx, func() error {
		reply, err := s.device.Query(ctx, hc12.KindChannel)
		original = reply.Channel
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to read current channel: %w", err)
	}

	result := &ScanResult{
		Samples: make([]Sample, 0, len(s.config.Channels)),
		Started: time.Now(),
	}

	var sweepErr error
	for _, ch := range s.config.Channels {
		sample, err := s.listen(ctx, ch)
		if err != nil {
			sweepErr = err
			break
		}
		result.Samples = append(result.Samples, sample)
		s.tracker.Update(sample)
		if sample.Bytes > 0 {
			s.log.Debug("activity", zap.Stringer("channel", ch), zap.Int("bytes", sample.Bytes))
		}
	}
	s.tracker.EndSweep()

	// restore even after cancellation
	restoreCtx := context.WithoutCancel(ctx)
	restoreErr := s.device.WithConfig(restoreCtx, func() error {
		_, err := s.device.Send(restoreCtx, original)
		return err
	})
	if restoreErr != nil {
		restoreErr = fmt.Errorf("failed to restore %s: %w", original, restoreErr)
	}
	result.Restored = original
	result.Duration = time.Since(result.Started)

	if err := errors.Join(sweepErr, restoreErr); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Scanner) listen(ctx context.Context, ch hc12.Channel) (Sample, error) {
	if err := s.device.WithConfig(ctx, func() error {
		_, err := s.device.Send(ctx, ch)
		return err
	}); err != nil {
		return Sample{}, err
	}

	sample := Sample{Channel: ch, Timestamp: time.Now()}
	buf := make([]byte, 256)
	deadline := time.Now().Add(s.config.Dwell)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return sample, err
		}
		n, err := s.device.Read(buf)
		if err != nil {
			return sample, err
		}
		sample.Bytes += n
	}
	return sample, nil
}
