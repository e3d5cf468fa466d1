// hc12-send-recv: Send and receive data through an HC-12 in transparent mode
//
// The module forwards whatever arrives on its UART over the air, so there are
// no packets on the wire. In receive mode a burst of bytes followed by a
// quiet gap is shown as one message.
//
// Examples:
//
//	# Receive mode - listen and display incoming bursts
//	./hc12-send-recv -m recv -p /dev/ttyUSB0
//
//	# Send mode - apply a saved configuration, then transmit text
//	./hc12-send-recv -m send -c etc/hc12/ttyUSB0.json -data "Hello World"
//
//	# Send mode - use a built-in profile and transmit hex data 10 times
//	./hc12-send-recv -m send -profile fu3-fast -hex "DEADBEEF" -repeat 10
//
//	# Send once and put the module to sleep afterwards
//	./hc12-send-recv -m send -data "bye" -sleep
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/herlein/gohc12/pkg/config"
	"github.com/herlein/gohc12/pkg/driver"
	"github.com/herlein/gohc12/pkg/profiles"
	"github.com/herlein/gohc12/pkg/session"
	"github.com/herlein/gohc12/pkg/usbserial"
)

func main() {
	// Parse command line flags
	mode := flag.String("m", "", "Mode: 'send' or 'recv' (required)")
	moduleConfig := flag.String("c", "", "Module configuration file to apply first")
	profileName := flag.String("profile", "", "Built-in profile to apply first")
	configPath := flag.String("config", "", "Settings file (default: hc12.yaml, or $HC12_CONFIG)")
	portName := flag.String("p", "", "Serial port (e.g., /dev/ttyUSB0)")
	adapterSel := flag.String("d", "", usbserial.FlagUsage())
	baud := flag.Int("b", 0, "Current module UART baud rate (default from settings)")
	verbose := flag.Bool("v", false, "Verbose output")

	// Send mode options
	dataStr := flag.String("data", "", "Data to send (ASCII string)")
	hexStr := flag.String("hex", "", "Data to send (hex encoded)")
	repeat := flag.Uint("repeat", 0, "Number of times to repeat transmission (0 = once)")
	interval := flag.Duration("interval", 100*time.Millisecond, "Pause between repeated transmissions")
	sleepAfter := flag.Bool("sleep", false, "Put the module to sleep after sending")

	// Receive mode options
	gap := flag.Duration("gap", 50*time.Millisecond, "Quiet time that ends a message")
	count := flag.Int("count", 0, "Number of messages to receive (0 = infinite)")
	rawOutput := flag.Bool("raw", false, "Output raw hex only (for piping)")

	flag.Parse()

	// Validate required arguments
	if *mode == "" {
		fmt.Fprintln(os.Stderr, "Error: Mode (-m) is required. Use 'send' or 'recv'")
		flag.PrintDefaults()
		os.Exit(1)
	}
	*mode = strings.ToLower(*mode)
	if *mode != "send" && *mode != "recv" {
		fmt.Fprintf(os.Stderr, "Error: Invalid mode '%s'. Use 'send' or 'recv'\n", *mode)
		os.Exit(1)
	}
	if *moduleConfig != "" && *profileName != "" {
		fmt.Fprintln(os.Stderr, "Error: Use either -c or -profile, not both")
		os.Exit(1)
	}

	configuration, err := loadModuleConfig(*moduleConfig, *profileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if configuration != nil && *verbose {
		fmt.Printf("Configuration: %s\n", configuration.Summary())
	}

	sess, err := session.Open(session.Options{
		ConfigPath: *configPath,
		Port:       *portName,
		Adapter:    *adapterSel,
		BaudRate:   *baud,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	// Cancel on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *verbose {
		fmt.Printf("Connected to: %s\n", sess.Port.Config().Name)
	}

	if err := sess.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Module ping failed: %v\n", err)
		sess.Close()
		os.Exit(1)
	}

	if configuration != nil {
		if *verbose {
			fmt.Println("Applying module configuration...")
		}
		if err := config.ApplyToDevice(ctx, sess.Driver, configuration); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to apply configuration: %v\n", err)
			sess.Close()
			os.Exit(1)
		}
	}

	switch *mode {
	case "send":
		err = runSendMode(ctx, sess.Driver, *dataStr, *hexStr, *repeat, *interval, *sleepAfter, *verbose)
	case "recv":
		err = runRecvMode(ctx, sess.Driver, *gap, *count, *verbose, *rawOutput)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		sess.Close()
		os.Exit(1)
	}
}

func loadModuleConfig(path, profileName string) (*config.ModuleConfig, error) {
	switch {
	case path != "":
		return config.LoadFromFile(path)
	case profileName != "":
		p, err := profiles.Get(profileName)
		if err != nil {
			return nil, err
		}
		return p.Config()
	default:
		return nil, nil
	}
}

func runSendMode(ctx context.Context, d *driver.Driver, dataStr, hexStr string, repeat uint, interval time.Duration, sleepAfter, verbose bool) error {
	var data []byte
	if hexStr != "" {
		var err error
		data, err = hex.DecodeString(hexStr)
		if err != nil {
			return fmt.Errorf("invalid hex string: %w", err)
		}
	} else if dataStr != "" {
		data = []byte(dataStr)
	}
	if len(data) == 0 {
		return fmt.Errorf("must specify -data or -hex for send mode")
	}

	if verbose {
		fmt.Printf("Transmitting %d bytes", len(data))
		if repeat > 0 {
			fmt.Printf(" (repeat %d times)", repeat)
		}
		fmt.Println()
		fmt.Printf("Data (hex): %s\n", hex.EncodeToString(data))
	}

	for i := uint(0); i <= repeat; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}
		if _, err := d.Write(data); err != nil {
			return fmt.Errorf("transmit failed: %w", err)
		}
	}
	fmt.Println("Transmission complete")

	if sleepAfter {
		if err := d.Sleep(ctx); err != nil {
			return fmt.Errorf("failed to put module to sleep: %w", err)
		}
		fmt.Println("Module is asleep")
	}
	return nil
}

func runRecvMode(ctx context.Context, d *driver.Driver, gap time.Duration, count int, verbose, rawOutput bool) error {
	if !rawOutput {
		fmt.Println("Listening (Ctrl+C to stop)...")
		fmt.Println()
	}

	received := 0
	startTime := time.Now()
	buf := make([]byte, 256)
	var (
		message  []byte
		lastByte time.Time
	)

	for {
		if ctx.Err() != nil {
			if !rawOutput {
				fmt.Printf("\n\nReceived %d messages in %v\n", received, time.Since(startTime).Round(time.Second))
			}
			return nil
		}

		n, err := d.Read(buf)
		if err != nil {
			return fmt.Errorf("receive failed: %w", err)
		}
		if n > 0 {
			message = append(message, buf[:n]...)
			lastByte = time.Now()
			continue
		}
		if len(message) == 0 || time.Since(lastByte) < gap {
			continue
		}

		received++
		printMessage(message, received, rawOutput)
		if verbose {
			fmt.Printf("  [gap] %v since last byte\n", time.Since(lastByte).Round(time.Millisecond))
		}
		message = nil

		if count > 0 && received >= count {
			if !rawOutput {
				fmt.Printf("Received requested %d messages\n", count)
			}
			return nil
		}
	}
}

func printMessage(data []byte, n int, rawOutput bool) {
	if rawOutput {
		fmt.Println(hex.EncodeToString(data))
		return
	}
	fmt.Printf("[%s] Message #%d (%d bytes):\n", time.Now().Format("15:04:05.000"), n, len(data))
	fmt.Printf("  Hex: %s\n", hex.EncodeToString(data))
	if len(data) <= 64 {
		fmt.Printf("  ASCII: %s\n", makePrintable(data))
	} else {
		fmt.Printf("  ASCII: %s... (truncated)\n", makePrintable(data[:64]))
	}
	fmt.Println()
}

// makePrintable converts bytes to printable ASCII, replacing non-printable with '.'
func makePrintable(data []byte) string {
	result := make([]byte, len(data))
	for i, b := range data {
		if b >= 32 && b < 127 {
			result[i] = b
		} else {
			result[i] = '.'
		}
	}
	return string(result)
}
