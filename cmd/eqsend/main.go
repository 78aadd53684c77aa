// Command eqsend sends one OSC control update to a running parameq.
//
// Usage:
//
//	eqsend [flags] address value
//
// Examples:
//
//	eqsend /boost3 6
//	eqsend -port 9000 /freq1 80
//	eqsend /bypass2 1
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hypebeast/go-osc/osc"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("eqsend", flag.ContinueOnError)
	host := fs.String("host", "127.0.0.1", "parameq host")
	port := fs.Int("port", 9997, "parameq OSC port")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: eqsend [flags] address value\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	msg, err := buildMessage(fs.Args())
	if err != nil {
		fs.Usage()
		return err
	}
	return osc.NewClient(*host, *port).Send(msg)
}

func buildMessage(args []string) (*osc.Message, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("eqsend: want address and value, got %d arguments", len(args))
	}
	address := args[0]
	if !strings.HasPrefix(address, "/") {
		return nil, fmt.Errorf("eqsend: address %q must start with /", address)
	}
	v, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return nil, fmt.Errorf("eqsend: value %q: %w", args[1], err)
	}
	return osc.NewMessage(address, float32(v)), nil
}
