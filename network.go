// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulsesim

import (
	"encoding/hex"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// TriggerSource is the name of the sender of the pulse injected into the
// broadcaster at every button press. No module may use it.
//
const TriggerSource = "button"

// Construction errors. Build wraps them with the offending module name; use
// errors.Is to match.
//
var (
	ErrUnknownKind          = errors.New("unknown module kind")
	ErrEmptyName            = errors.New("empty module name")
	ErrDuplicate            = errors.New("duplicate module name")
	ErrReservedName         = errors.New("reserved module name")
	ErrNoBroadcaster        = errors.New("no broadcaster")
	ErrMultipleBroadcasters = errors.New("more than one broadcaster")
	ErrBroadcasterInput     = errors.New("broadcaster used as a destination")
)

// A Network is a circuit of modules. It exclusively owns the state of its
// modules.
//
type Network struct {
	mods  map[string]*Module
	names []string // declared modules, sorted
	entry string
	w     wiring
}

// Build builds a network from the given module specs. Build either succeeds
// or returns an error, it never returns a partially built network.
//
// Destinations that are not declared as modules are sinks: pulses sent to
// them are counted and dropped.
//
func Build(specs []ModuleSpec) (*Network, error) {
	n := &Network{mods: make(map[string]*Module, len(specs))}

	for _, sp := range specs {
		switch {
		case sp.Name == "":
			return nil, errors.Wrapf(ErrEmptyName, "%s", sp.Kind)
		case !sp.Kind.valid():
			return nil, errors.Wrapf(ErrUnknownKind, "module %s: %s", sp.Name, sp.Kind)
		case sp.Name == TriggerSource:
			return nil, errors.Wrapf(ErrReservedName, "module %s", sp.Name)
		case n.mods[sp.Name] != nil:
			return nil, errors.Wrapf(ErrDuplicate, "module %s", sp.Name)
		}
		if sp.Kind == Broadcaster {
			if n.entry != "" {
				return nil, errors.Wrapf(ErrMultipleBroadcasters, "%s and %s", n.entry, sp.Name)
			}
			n.entry = sp.Name
		}
		n.mods[sp.Name] = NewModule(sp)
		n.names = append(n.names, sp.Name)
	}
	if n.entry == "" {
		return nil, ErrNoBroadcaster
	}

	w, err := newWiring(specs, n.entry)
	if err != nil {
		return nil, err
	}
	n.w = w
	sort.Strings(n.names)

	for _, name := range n.names {
		m := n.mods[name]
		if m.kind != Conjunction {
			continue
		}
		for _, in := range w.inputs(name) {
			m.addInput(in)
		}
	}
	return n, nil
}

// module returns the module with the given name or nil for sinks.
//
func (n *Network) module(name string) *Module {
	return n.mods[name]
}

// Entry returns the name of the broadcaster.
//
func (n *Network) Entry() string { return n.entry }

// Names returns the names of all declared modules in sorted order.
//
func (n *Network) Names() []string {
	return append([]string(nil), n.names...)
}

// Kind returns the kind of the named module. It returns false for sinks and
// unknown names.
//
func (n *Network) Kind(name string) (Kind, bool) {
	if m := n.mods[name]; m != nil {
		return m.kind, true
	}
	return 0, false
}

// Outputs returns the output list of the named module.
//
func (n *Network) Outputs(name string) []string {
	if m := n.mods[name]; m != nil {
		return append([]string(nil), m.outs...)
	}
	return nil
}

// On reports whether the named flip-flop is on.
//
func (n *Network) On(name string) bool {
	if m := n.mods[name]; m != nil {
		return m.on
	}
	return false
}

// Memory returns the last signal the named conjunction received from in.
//
func (n *Network) Memory(name, in string) Signal {
	if m := n.mods[name]; m != nil && m.kind == Conjunction {
		return m.Memory(in)
	}
	return Low
}

// Inputs returns the sorted names of the modules with a wire to name. Sinks
// have inputs too.
//
func (n *Network) Inputs(name string) []string {
	return append([]string(nil), n.w.inputs(name)...)
}

// Upstream returns the sorted names of every module from which a pulse can
// reach name, excluding name itself unless it sits on a loop.
//
func (n *Network) Upstream(name string) []string {
	return n.w.upstream(name)
}

// Fingerprint returns a snapshot of the state of every module in the network.
//
func (n *Network) Fingerprint() Fingerprint {
	var (
		fp  []byte
		pos int
	)
	for _, name := range n.names {
		fp, pos = n.mods[name].appendState(fp, pos)
	}
	return Fingerprint(fp)
}

// Clone returns a deep copy of n. Simulating the copy leaves n untouched.
//
func (n *Network) Clone() *Network {
	c := &Network{
		mods:  make(map[string]*Module, len(n.mods)),
		names: n.names,
		entry: n.entry,
		w:     n.w,
	}
	for k, m := range n.mods {
		c.mods[k] = m.clone()
	}
	return c
}

// Reset puts every module back into its initial state.
//
func (n *Network) Reset() {
	for _, m := range n.mods {
		m.reset()
	}
}

// A Fingerprint is a comparable snapshot of the state of all the modules in
// a network: one bit per flip-flop and one bit per conjunction input, in
// sorted module then input order. Two fingerprints of the same network are
// equal iff the network behaves identically from both states.
//
type Fingerprint string

// Sum64 returns a 64 bits digest of f.
//
func (f Fingerprint) Sum64() uint64 {
	return xxhash.Sum64String(string(f))
}

func (f Fingerprint) String() string {
	return hex.EncodeToString([]byte(f))
}
