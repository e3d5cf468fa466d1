// hc12-load-config: Load HC-12 settings from a JSON or YAML file
//
// This tool reads a previously saved configuration file and applies it to a
// module. FU4 configurations are refused because their baud rate rules are
// unknown.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/herlein/gohc12/pkg/config"
	"github.com/herlein/gohc12/pkg/session"
	"github.com/herlein/gohc12/pkg/usbserial"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Settings file (default: hc12.yaml, or $HC12_CONFIG)")
	portName := flag.String("p", "", "Serial port (e.g., /dev/ttyUSB0)")
	adapterSel := flag.String("d", "", usbserial.FlagUsage())
	baud := flag.Int("b", 0, "Current module UART baud rate (default from settings)")
	verbose := flag.Bool("v", false, "Verbose output")
	verify := flag.Bool("verify", false, "Verify configuration after writing")
	flag.Parse()

	// Get config file path from arguments
	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <config-file>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s etc/hc12/ttyUSB0.json\n", os.Args[0])
		os.Exit(1)
	}

	moduleConfigPath := args[0]

	if *verbose {
		fmt.Printf("Loading configuration from: %s\n", moduleConfigPath)
	}

	configuration, err := config.LoadFromFile(moduleConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Configuration loaded:\n")
		fmt.Printf("  Original Port:      %s\n", configuration.Port)
		fmt.Printf("  Original Timestamp: %s\n", configuration.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Printf("  Settings:           %s\n", configuration.Summary())
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
	if *verbose {
		fmt.Printf("\nConnected to: %s\n", sess.Port.Config().Name)
		fmt.Print("Testing connectivity... ")
	}
	if err := sess.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Ping failed: %v\n", err)
		sess.Close()
		os.Exit(1)
	}
	if *verbose {
		fmt.Println("OK")
		fmt.Println("Applying configuration...")
	}

	if err := config.ApplyToDevice(ctx, sess.Driver, configuration); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to apply configuration: %v\n", err)
		sess.Close()
		os.Exit(1)
	}

	fmt.Println("Configuration applied successfully")

	if *verify {
		if *verbose {
			fmt.Println("\nVerifying configuration...")
		}

		readBack, err := config.DumpFromDevice(ctx, sess.Driver)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to read back configuration for verification: %v\n", err)
			return
		}
		diffs := config.Verify(configuration, readBack)
		if len(diffs) > 0 {
			fmt.Fprintf(os.Stderr, "Verification failed with %d error(s):\n", len(diffs))
			for _, d := range diffs {
				fmt.Fprintf(os.Stderr, "  - %s\n", d)
			}
			sess.Close()
			os.Exit(1)
		}
		fmt.Println("Verification: OK")
	}
}
