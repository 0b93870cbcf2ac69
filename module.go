// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulsesim

import (
	"sort"
	"strconv"
)

// A Kind identifies the behavior of a module. The set of kinds is closed.
//
type Kind uint8

// Module kinds. The zero Kind is invalid.
//
const (
	Broadcaster Kind = iota + 1
	FlipFlop
	Conjunction
)

func (k Kind) String() string {
	switch k {
	case Broadcaster:
		return "broadcaster"
	case FlipFlop:
		return "flip-flop"
	case Conjunction:
		return "conjunction"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Marker returns the netlist prefix for k: '%' for flip-flops, '&' for
// conjunctions and 0 for the broadcaster, which is identified by its name.
//
func (k Kind) Marker() rune {
	switch k {
	case FlipFlop:
		return '%'
	case Conjunction:
		return '&'
	}
	return 0
}

func (k Kind) valid() bool {
	return k >= Broadcaster && k <= Conjunction
}

// A ModuleSpec describes a module: its kind, its name and the ordered list of
// modules it sends pulses to.
//
type ModuleSpec struct {
	Kind    Kind
	Name    string
	Outputs []string
}

// A Module is a node in the circuit graph.
//
// Modules only know their own state and their output list. They are created
// and owned by a Network; NewModule exists for standalone use.
//
type Module struct {
	name string
	kind Kind
	outs []string

	// flip-flop state
	on bool

	// conjunction memory. ins is sorted, mem[i] is the last signal from ins[i].
	ins  []string
	idx  map[string]int
	mem  []Signal
	high int // number of High values in mem
}

// NewModule returns a new module in its initial state. Conjunction inputs are
// discovered as pulses arrive; use a Network to get them precomputed.
//
func NewModule(sp ModuleSpec) *Module {
	m := &Module{
		name: sp.Name,
		kind: sp.Kind,
		outs: sp.Outputs,
	}
	if m.kind == Conjunction {
		m.idx = make(map[string]int)
	}
	return m
}

// Name returns the module name.
//
func (m *Module) Name() string { return m.name }

// Kind returns the module kind.
//
func (m *Module) Kind() Kind { return m.kind }

// On returns the state of a flip-flop.
//
func (m *Module) On() bool { return m.on }

// Memory returns the last signal received from input in. Unknown inputs
// report Low.
//
func (m *Module) Memory(in string) Signal {
	if i, ok := m.idx[in]; ok {
		return m.mem[i]
	}
	return Low
}

// addInput registers a conjunction input, remembered as Low.
//
func (m *Module) addInput(in string) int {
	if i, ok := m.idx[in]; ok {
		return i
	}
	i := sort.SearchStrings(m.ins, in)
	m.ins = append(m.ins, "")
	copy(m.ins[i+1:], m.ins[i:])
	m.ins[i] = in
	m.mem = append(m.mem, Low)
	copy(m.mem[i+1:], m.mem[i:])
	m.mem[i] = Low
	for j := i; j < len(m.ins); j++ {
		m.idx[m.ins[j]] = j
	}
	return i
}

// Receive processes signal s sent by module from, appends the pulses it emits
// to out and returns the extended slice.
//
func (m *Module) Receive(from string, s Signal, out []Pulse) []Pulse {
	switch m.kind {
	case Broadcaster:
		return m.emit(s, out)
	case FlipFlop:
		if s == High {
			return out
		}
		m.on = !m.on
		if m.on {
			return m.emit(High, out)
		}
		return m.emit(Low, out)
	case Conjunction:
		i, ok := m.idx[from]
		if !ok {
			i = m.addInput(from)
		}
		if prev := m.mem[i]; prev != s {
			if s == High {
				m.high++
			} else {
				m.high--
			}
			m.mem[i] = s
		}
		if m.high == len(m.mem) {
			return m.emit(Low, out)
		}
		return m.emit(High, out)
	}
	panic("pulsesim: module " + m.name + " has invalid kind " + m.kind.String())
}

func (m *Module) emit(s Signal, out []Pulse) []Pulse {
	for _, o := range m.outs {
		out = append(out, Pulse{From: m.name, To: o, Signal: s})
	}
	return out
}

func (m *Module) reset() {
	m.on = false
	for i := range m.mem {
		m.mem[i] = Low
	}
	m.high = 0
}

// clone returns a copy of m with its own state. The output list is never
// mutated and is shared.
//
func (m *Module) clone() *Module {
	c := *m
	if m.kind == Conjunction {
		c.ins = append([]string(nil), m.ins...)
		c.mem = append([]Signal(nil), m.mem...)
		c.idx = make(map[string]int, len(m.idx))
		for k, v := range m.idx {
			c.idx[k] = v
		}
	}
	return &c
}

// appendState appends the state bits of m to fp, starting at bit position n.
// It returns the new position.
//
func (m *Module) appendState(fp []byte, n int) ([]byte, int) {
	set := func(b bool) {
		if n&7 == 0 {
			fp = append(fp, 0)
		}
		if b {
			fp[len(fp)-1] |= 1 << uint(n&7)
		}
		n++
	}
	switch m.kind {
	case FlipFlop:
		set(m.on)
	case Conjunction:
		for _, s := range m.mem {
			set(s == High)
		}
	}
	return fp, n
}
