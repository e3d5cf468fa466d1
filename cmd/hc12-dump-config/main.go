// hc12-dump-config: Dump HC-12 settings to a JSON or YAML file
//
// This tool switches the module into AT command mode, reads its mode, baud
// rate, channel and power, and saves them to a file. The file can later be
// loaded using hc12-load-config.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/herlein/gohc12/pkg/config"
	"github.com/herlein/gohc12/pkg/session"
	"github.com/herlein/gohc12/pkg/usbserial"
)

func main() {
	// Parse command line flags
	outputFile := flag.String("o", "", "Output file path, .yaml/.yml for YAML (default: etc/hc12/<port>.json)")
	configPath := flag.String("config", "", "Settings file (default: hc12.yaml, or $HC12_CONFIG)")
	portName := flag.String("p", "", "Serial port (e.g., /dev/ttyUSB0)")
	adapterSel := flag.String("d", "", usbserial.FlagUsage())
	baud := flag.Int("b", 0, "Current module UART baud rate (default from settings)")
	verbose := flag.Bool("v", false, "Verbose output")
	jsonOutput := flag.Bool("json", false, "Output config to stdout as JSON instead of file")
	flag.Parse()

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
	port := sess.Port.Config().Name
	if *verbose {
		fmt.Printf("Connected to: %s\n", port)
	}

	// Test connectivity with ping
	if *verbose {
		fmt.Print("Testing connectivity... ")
	}
	if err := sess.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Ping failed: %v\n", err)
		sess.Close()
		os.Exit(1)
	}
	if *verbose {
		fmt.Println("OK")
		fmt.Println("Reading module configuration...")
	}

	configuration, err := config.DumpFromDevice(ctx, sess.Driver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to dump configuration: %v\n", err)
		sess.Close()
		os.Exit(1)
	}
	configuration.Port = port
	configuration.Adapter = sess.Adapter

	// Output to stdout as JSON
	if *jsonOutput {
		data, err := json.MarshalIndent(configuration, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to marshal configuration: %v\n", err)
			sess.Close()
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	// Determine output path
	path := *outputFile
	if path == "" {
		path = config.GetConfigPath(filepath.Base(port))
	}

	if err := config.SaveToFile(configuration, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to save configuration: %v\n", err)
		sess.Close()
		os.Exit(1)
	}

	fmt.Printf("Configuration saved to: %s\n", path)

	if *verbose {
		printConfigSummary(configuration)
	}
}

func printConfigSummary(cfg *config.ModuleConfig) {
	fmt.Println("\nConfiguration Summary:")
	if cfg.Revision != "" {
		fmt.Printf("  Firmware:     %s\n", cfg.Revision)
	}
	fmt.Printf("  Mode:         FU%d\n", cfg.Mode)
	fmt.Printf("  Baud Rate:    %d bps\n", cfg.BaudRate)
	fmt.Printf("  Channel:      %d (%.1f MHz)\n", cfg.Channel, cfg.FrequencyMHz)
	fmt.Printf("  Power:        %d (%+d dBm)\n", cfg.Power, cfg.PowerDBm)
	if cfg.AirBaudRate != 0 {
		fmt.Printf("  Air Rate:     %d bps\n", cfg.AirBaudRate)
		fmt.Printf("  Sensitivity:  %d dBm\n", cfg.SensitivityDBm)
	}
}
