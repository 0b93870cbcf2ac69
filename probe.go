// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulsesim

// A Probe is called with every pulse processed by a Simulator, in processing
// order.
//
type Probe func(p Pulse)

// Recorder returns a probe appending every pulse to *log.
//
func Recorder(log *[]Pulse) Probe {
	return func(p Pulse) { *log = append(*log, p) }
}

// A Condition reports whether a pulse is the one being waited for.
//
type Condition func(p Pulse) bool

// Receives returns a condition matching pulses with signal s sent to module
// (or sink) name.
//
func Receives(name string, s Signal) Condition {
	return func(p Pulse) bool { return p.To == name && p.Signal == s }
}

// Emits returns a condition matching pulses with signal s sent by module name.
//
func Emits(name string, s Signal) Condition {
	return func(p Pulse) bool { return p.From == name && p.Signal == s }
}
