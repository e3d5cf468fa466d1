// hc12-reset restores HC-12 factory settings, or resets the USB adapters to
// recover from USB errors
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/gousb"

	"github.com/herlein/gohc12/pkg/session"
	"github.com/herlein/gohc12/pkg/usbserial"
)

func main() {
	configPath := flag.String("config", "", "Settings file (default: hc12.yaml, or $HC12_CONFIG)")
	portName := flag.String("p", "", "Serial port (e.g., /dev/ttyUSB0)")
	adapterSel := flag.String("d", "", usbserial.FlagUsage())
	baud := flag.Int("b", 0, "Current module UART baud rate (default from settings)")
	usbReset := flag.Bool("usb", false, "Reset the USB adapters instead of the module settings")
	update := flag.Bool("update", false, "Put the module into firmware update mode (AT+UPDATE)")
	flag.Parse()

	if *usbReset {
		os.Exit(resetAdapters())
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

	ctx := context.Background()
	d := sess.Driver

	if *update {
		if err := d.EnterConfig(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			sess.Close()
			os.Exit(1)
		}
		if err := d.TriggerUpdate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			sess.Close()
			os.Exit(1)
		}
		// SET stays low; the bootloader owns the UART now
		fmt.Println("Module is in firmware update mode")
		return
	}

	err = d.WithConfig(ctx, func() error {
		if err := d.Ping(ctx); err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}
		return d.ResetDefaults(ctx)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		sess.Close()
		os.Exit(1)
	}
	fmt.Println("Module reset to defaults: FU3, 9600 bps, channel 1, +20 dBm")
}

func resetAdapters() int {
	ctx := gousb.NewContext()
	defer ctx.Close()

	// Try multiple times to find adapters
	for attempt := 0; attempt < 3; attempt++ {
		adapters, err := usbserial.FindAllAdapters(ctx)
		if err != nil {
			fmt.Printf("Attempt %d: Error finding adapters: %v\n", attempt+1, err)
			time.Sleep(time.Second)
			continue
		}
		if len(adapters) == 0 {
			fmt.Printf("Attempt %d: No adapters found\n", attempt+1)
			time.Sleep(time.Second)
			continue
		}

		fmt.Printf("Found %d adapter(s)\n", len(adapters))
		for i, adapter := range adapters {
			fmt.Printf("  Adapter %d: %s\n", i, adapter)
			if err := adapter.Reset(); err != nil {
				fmt.Printf("    Reset failed: %v\n", err)
			} else {
				fmt.Printf("    Reset OK\n")
			}
			adapter.Close()
		}
		return 0
	}

	fmt.Println("Failed to find/reset adapters after 3 attempts")
	return 1
}
