// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulselib

import (
	"math/bits"
	"strconv"

	"github.com/db47h/pulsesim"
	"github.com/pkg/errors"
)

// Names of the modules of a counter branch, relative to its prefix.
const (
	sConj = "c"
	sInv  = "inv"
	sR1   = "r1"
	sR2   = "r2"
)

// Bit returns the name of flip-flop bit of the counter with the given prefix.
//
func Bit(prefix string, bit int) string {
	return prefix + "b" + strconv.Itoa(bit)
}

// Head returns the name of the module a counter branch expects the
// broadcaster to feed.
//
func Head(prefix string) string { return Bit(prefix, 0) }

// Inverter returns the name of the output module of a counter branch.
//
func Inverter(prefix string) string { return prefix + sInv }

// Counter returns a counter branch that sends High to out exactly once every
// period presses, first at press period.
//
// The branch is a chain of flip-flops counting presses in binary (bit 0 is
// fed by the broadcaster, see Head). A conjunction watches the bits set in
// period. When they are all on, it sets the remaining bits and, through a
// two conjunction delay line, adds one more pulse to bit 0 which wraps the
// counter back to 0. The conjunction also drives an inverter which feeds out.
//
//	Inputs: Head(prefix) (Low on every press)
//	Outputs: out
//	Function: out receives High at presses period, 2*period, ...
//
func Counter(prefix string, period uint64, out string) ([]pulsesim.ModuleSpec, error) {
	if period == 0 {
		return nil, errors.New("counter " + prefix + ": period must be at least 1")
	}
	n := bits.Len64(period)
	conj := prefix + sConj
	specs := make([]pulsesim.ModuleSpec, 0, n+4)

	var reset []string
	for b := 0; b < n; b++ {
		var outs []string
		if b < n-1 {
			outs = append(outs, Bit(prefix, b+1))
		}
		if period&(1<<uint(b)) != 0 {
			outs = append(outs, conj)
		} else {
			reset = append(reset, Bit(prefix, b))
		}
		specs = append(specs, pulsesim.ModuleSpec{Kind: pulsesim.FlipFlop, Name: Bit(prefix, b), Outputs: outs})
	}
	specs = append(specs,
		pulsesim.ModuleSpec{Kind: pulsesim.Conjunction, Name: conj, Outputs: append(reset, prefix+sR1, Inverter(prefix))},
		pulsesim.ModuleSpec{Kind: pulsesim.Conjunction, Name: prefix + sR1, Outputs: []string{prefix + sR2}},
		pulsesim.ModuleSpec{Kind: pulsesim.Conjunction, Name: prefix + sR2, Outputs: []string{Head(prefix)}},
		pulsesim.ModuleSpec{Kind: pulsesim.Conjunction, Name: Inverter(prefix), Outputs: []string{out}},
	)
	return specs, nil
}

// Counters returns a complete circuit: a broadcaster feeding one Counter per
// period, all counters feeding the conjunction hub, which feeds sink.
//
// Counter i uses the prefix "k<i>_". The sink receives Low for the first time
// at the press equal to the LCM of the periods.
//
func Counters(hub, sink string, periods ...uint64) ([]pulsesim.ModuleSpec, error) {
	bc := pulsesim.ModuleSpec{Kind: pulsesim.Broadcaster, Name: "broadcaster"}
	specs := []pulsesim.ModuleSpec{bc}
	for i, p := range periods {
		prefix := Prefix(i)
		cs, err := Counter(prefix, p, hub)
		if err != nil {
			return nil, err
		}
		specs[0].Outputs = append(specs[0].Outputs, Head(prefix))
		specs = append(specs, cs...)
	}
	specs = append(specs, pulsesim.ModuleSpec{Kind: pulsesim.Conjunction, Name: hub, Outputs: []string{sink}})
	return specs, nil
}

// Prefix returns the module name prefix of the i-th counter built by Counters.
//
func Prefix(i int) string {
	return "k" + strconv.Itoa(i) + "_"
}

// Value returns the current value of the counter with the given prefix.
//
func Value(net *pulsesim.Network, prefix string) uint64 {
	var v uint64
	for b := 0; b < 64; b++ {
		name := Bit(prefix, b)
		if k, ok := net.Kind(name); !ok || k != pulsesim.FlipFlop {
			break
		}
		if net.On(name) {
			v |= 1 << uint(b)
		}
	}
	return v
}
