// Command pulsesim runs pulse propagation networks described in netlist files.
//
// Usage:
//
//	pulsesim count circuit.txt -n 1000
//	pulsesim first circuit.txt --target rx --assume-counters
//	pulsesim period circuit.txt
//	pulsesim check circuit.txt --expect-count 32000000
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "pulsesim:", err)
		stop()
		os.Exit(1)
	}
}
