// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package pulselib provides reusable circuits for pulsesim: binary counter
// branches with a chosen period and the reference example circuits.
//
package pulselib

import "github.com/db47h/pulsesim"

// Example1 returns the ring circuit
//
//	broadcaster -> a, b, c
//	%a -> b
//	%b -> c
//	%c -> inv
//	&inv -> a
//
// Every press sends 8 Low and 4 High pulses and leaves the circuit in its
// initial state.
//
func Example1() []pulsesim.ModuleSpec {
	return []pulsesim.ModuleSpec{
		{Kind: pulsesim.Broadcaster, Name: "broadcaster", Outputs: []string{"a", "b", "c"}},
		{Kind: pulsesim.FlipFlop, Name: "a", Outputs: []string{"b"}},
		{Kind: pulsesim.FlipFlop, Name: "b", Outputs: []string{"c"}},
		{Kind: pulsesim.FlipFlop, Name: "c", Outputs: []string{"inv"}},
		{Kind: pulsesim.Conjunction, Name: "inv", Outputs: []string{"a"}},
	}
}

// Example2 returns the circuit
//
//	broadcaster -> a
//	%a -> inv, con
//	&inv -> b
//	%b -> con
//	&con -> output
//
// Its state repeats every 4 presses.
//
func Example2() []pulsesim.ModuleSpec {
	return []pulsesim.ModuleSpec{
		{Kind: pulsesim.Broadcaster, Name: "broadcaster", Outputs: []string{"a"}},
		{Kind: pulsesim.FlipFlop, Name: "a", Outputs: []string{"inv", "con"}},
		{Kind: pulsesim.Conjunction, Name: "inv", Outputs: []string{"b"}},
		{Kind: pulsesim.FlipFlop, Name: "b", Outputs: []string{"con"}},
		{Kind: pulsesim.Conjunction, Name: "con", Outputs: []string{"output"}},
	}
}
