// hc12-scan steps an HC-12 through a range of channels and reports those
// carrying traffic
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/herlein/gohc12/pkg/hc12"
	"github.com/herlein/gohc12/pkg/scanner"
	"github.com/herlein/gohc12/pkg/session"
	"github.com/herlein/gohc12/pkg/usbserial"
)

var (
	firstChan  = flag.Uint("first", 1, "First channel to scan (1-127)")
	lastChan   = flag.Uint("last", 127, "Last channel to scan (1-127)")
	dwell      = flag.Duration("dwell", 200*time.Millisecond, "Listening time per channel")
	sweeps     = flag.Int("sweeps", 1, "Number of sweeps (0 = until Ctrl+C)")
	configPath = flag.String("config", "", "Settings file (default: hc12.yaml, or $HC12_CONFIG)")
	portName   = flag.String("p", "", "Serial port (e.g., /dev/ttyUSB0)")
	adapterSel = flag.String("d", "", usbserial.FlagUsage())
	baud       = flag.Int("b", 0, "Current module UART baud rate (default from settings)")
	quiet      = flag.Bool("q", false, "Quiet mode - only show detected activity")
	csvOut     = flag.String("csv", "", "Output CSV file with every sample")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Channel activity scanner for HC-12 modules\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -first 1 -last 20            # Scan 433.4-441.0 MHz once\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -sweeps 0 -dwell 500ms -q    # Watch all channels until Ctrl+C\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -csv activity.csv -sweeps 10  # Save samples to CSV\n", os.Args[0])
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func channelRange(first, last uint) ([]hc12.Channel, error) {
	if first > last {
		return nil, fmt.Errorf("first channel %d is above last channel %d", first, last)
	}
	if last > uint(hc12.MaxChannel) {
		return nil, fmt.Errorf("%w %d (valid range: 1-127)", hc12.ErrInvalidChannel, last)
	}
	var channels []hc12.Channel
	for code := first; code <= last; code++ {
		ch, err := hc12.NewChannel(uint8(code))
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

func run() error {
	channels, err := channelRange(*firstChan, *lastChan)
	if err != nil {
		return err
	}

	cfg := scanner.DefaultConfig()
	cfg.Channels = channels
	cfg.Dwell = *dwell
	cfg.OnDetected = func(a *scanner.ChannelActivity) {
		fmt.Printf("[%s] Activity on %s (%.1f MHz): %d bytes\n",
			a.LastSeen.Format("15:04:05"), a.Channel, a.Channel.FreqMHz(), a.LastBytes)
	}
	cfg.OnLost = func(a *scanner.ChannelActivity) {
		fmt.Printf("[%s] %s quiet\n", time.Now().Format("15:04:05"), a.Channel)
	}

	sess, err := session.Open(session.Options{
		ConfigPath: *configPath,
		Port:       *portName,
		Adapter:    *adapterSel,
		BaudRate:   *baud,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	s, err := scanner.New(sess.Driver, cfg, sess.Log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sess.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var csvWriter *csv.Writer
	if *csvOut != "" {
		f, err := os.Create(*csvOut)
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %w", err)
		}
		defer f.Close()
		csvWriter = csv.NewWriter(f)
		defer csvWriter.Flush()
		csvWriter.Write([]string{"timestamp", "channel", "frequency_mhz", "bytes"})
	}

	if !*quiet {
		fmt.Printf("Scanning channels %d-%d, %v per channel (Ctrl+C to stop)\n",
			*firstChan, *lastChan, *dwell)
	}

	for sweep := 1; *sweeps == 0 || sweep <= *sweeps; sweep++ {
		result, err := s.ScanOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return err
		}

		if csvWriter != nil {
			for _, sample := range result.Samples {
				csvWriter.Write([]string{
					sample.Timestamp.Format(time.RFC3339Nano),
					strconv.Itoa(int(sample.Channel.Code())),
					strconv.FormatFloat(float64(sample.Channel.FreqMHz()), 'f', 1, 32),
					strconv.Itoa(sample.Bytes),
				})
			}
		}
		if !*quiet {
			fmt.Printf("Sweep %d: %d active of %d channels in %v\n",
				sweep, len(result.Active()), len(result.Samples), result.Duration.Round(time.Millisecond))
		}
	}

	fmt.Println("\nChannel summary:")
	all := s.Tracker().All()
	if len(all) == 0 {
		fmt.Println("  no traffic seen")
	}
	for _, a := range all {
		fmt.Printf("  %-6s %6.1f MHz  seen %d times, max %d bytes, total %d bytes\n",
			a.Channel, a.Channel.FreqMHz(), a.DetectionCount, a.MaxBytes, a.TotalBytes)
	}
	return nil
}
