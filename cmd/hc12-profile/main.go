// hc12-profile lists, exports and applies named HC-12 parameter profiles
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/herlein/gohc12/pkg/config"
	"github.com/herlein/gohc12/pkg/profiles"
	"github.com/herlein/gohc12/pkg/session"
	"github.com/herlein/gohc12/pkg/usbserial"
)

func main() {
	profileName := flag.String("profile", "", "Profile name to apply (e.g., fu3-long-range)")
	profileFile := flag.String("profiles", "", "YAML file with custom profiles")
	listProfiles := flag.Bool("list", false, "List available profiles")
	generateDir := flag.String("generate", "", "Write every built-in profile as a config file into this directory")
	verify := flag.Bool("verify", true, "Read settings back after applying")
	configPath := flag.String("config", "", "Settings file (default: hc12.yaml, or $HC12_CONFIG)")
	portName := flag.String("p", "", "Serial port (e.g., /dev/ttyUSB0)")
	adapterSel := flag.String("d", "", usbserial.FlagUsage())
	baud := flag.Int("b", 0, "Current module UART baud rate (default from settings)")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	available := profiles.Builtins()
	if *profileFile != "" {
		custom, err := profiles.LoadFile(*profileFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		available = append(available, custom...)
	}

	if *listProfiles {
		doListProfiles(available)
		return
	}

	if *generateDir != "" {
		if err := profiles.Generate(*generateDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating profiles: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Profiles written to: %s\n", *generateDir)
		return
	}

	if *profileName == "" {
		fmt.Fprintln(os.Stderr, "Usage: hc12-profile -profile <name> [-p <port> | -d <adapter>]")
		fmt.Fprintln(os.Stderr, "       hc12-profile -list [-profiles <file>]")
		fmt.Fprintln(os.Stderr, "       hc12-profile -generate <dir>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	profile, err := profiles.Find(available, *profileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	configuration, err := profile.Config()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Profile: %s\n", profile.Name)
	fmt.Printf("  %s\n", configuration.Summary())

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
		fmt.Printf("Using port: %s\n", sess.Port.Config().Name)
	}

	if err := sess.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Ping failed: %v\n", err)
		sess.Close()
		os.Exit(1)
	}
	if err := config.ApplyToDevice(ctx, sess.Driver, configuration); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to apply profile: %v\n", err)
		sess.Close()
		os.Exit(1)
	}
	fmt.Println("Profile applied")

	if !*verify {
		return
	}
	readBack, err := config.DumpFromDevice(ctx, sess.Driver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to read back settings: %v\n", err)
		sess.Close()
		os.Exit(1)
	}
	if diffs := config.Verify(configuration, readBack); len(diffs) > 0 {
		fmt.Fprintf(os.Stderr, "Verification failed with %d error(s):\n", len(diffs))
		for _, d := range diffs {
			fmt.Fprintf(os.Stderr, "  - %s\n", d)
		}
		sess.Close()
		os.Exit(1)
	}
	fmt.Println("Verification: OK")
}

func doListProfiles(available []*profiles.Profile) {
	fmt.Printf("%-20s %-4s %7s %4s %6s  %s\n", "NAME", "MODE", "BAUD", "CH", "POWER", "DESCRIPTION")
	for _, p := range available {
		fmt.Printf("%-20s FU%-2d %7d %4d %6d  %s\n", p.Name, p.Mode, p.BaudRate, p.Channel, p.Power, p.Description)
	}
}
