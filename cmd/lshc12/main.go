// lshc12: List USB serial adapters that may carry an HC-12 module
//
// This tool enumerates the known USB serial bridges (CH340, CP210x, FTDI,
// PL2303) and shows the serial device each one exposes.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/gousb"

	"github.com/herlein/gohc12/pkg/serialport"
	"github.com/herlein/gohc12/pkg/usbserial"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output (show additional adapter details)")
	ports := flag.Bool("ports", false, "Also list every serial port on the system")
	flag.Parse()

	// Create USB context
	context := gousb.NewContext()
	defer context.Close()

	adapters, err := usbserial.FindAllAdapters(context)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to enumerate adapters: %v\n", err)
		os.Exit(1)
	}
	defer usbserial.CloseAll(adapters)

	if len(adapters) == 0 {
		fmt.Println("No USB serial adapters found")
	} else {
		fmt.Printf("Found %d USB serial adapter(s):\n", len(adapters))
		fmt.Println()
	}

	for i, adapter := range adapters {
		tty, err := usbserial.ResolvePortName(adapter)
		if err != nil {
			tty = "?"
		}

		if *verbose {
			fmt.Printf("Adapter #%d:\n", i)
			fmt.Printf("  Bridge:       %s\n", adapter.Bridge)
			fmt.Printf("  Bus:Address:  %s\n", adapter.Location())
			fmt.Printf("  Serial:       %s\n", adapter.Serial)
			fmt.Printf("  Manufacturer: %s\n", adapter.Manufacturer)
			fmt.Printf("  Product:      %s\n", adapter.Product)
			if err != nil {
				fmt.Printf("  Port:         (error: %v)\n", err)
			} else {
				fmt.Printf("  Port:         %s\n", tty)
			}
			fmt.Println()
		} else {
			fmt.Printf("  #%d  %-8s %-6s %-12s %s\n", i, adapter.Bridge.Name, adapter.Location(), tty, adapter.Serial)
		}
	}

	if *ports {
		names, err := serialport.ListPorts()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println()
		fmt.Println("Serial ports:")
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
	}

	if len(adapters) > 0 && !*verbose {
		fmt.Println()
		fmt.Println("Use -d flag with other tools to select adapter:")
		fmt.Println("  -d \"#0\"         Select by index")
		fmt.Println("  -d \"1:10\"       Select by bus:address")
		fmt.Println("  -d \"A50285BI\"   Select by serial (if unique)")
		fmt.Println("or -p to name the serial port directly.")
	}
}
