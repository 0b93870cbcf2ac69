package pulsesim

import (
	"sort"

	"github.com/pkg/errors"
)

// wiring maps every wire destination, module or sink, to the sorted set of
// modules sending to it. It is built once and never mutated.
//
type wiring map[string][]string

func newWiring(specs []ModuleSpec, entry string) (wiring, error) {
	w := make(wiring)
	for _, sp := range specs {
		for _, o := range sp.Outputs {
			switch o {
			case "":
				return nil, errors.Wrapf(ErrEmptyName, "destination of %s", sp.Name)
			case entry:
				return nil, errors.Wrapf(ErrBroadcasterInput, "%s -> %s", sp.Name, o)
			case TriggerSource:
				return nil, errors.Wrapf(ErrReservedName, "%s -> %s", sp.Name, o)
			}
			w.add(sp.Name, o)
		}
	}
	return w, nil
}

// add records a wire from -> to, ignoring duplicate wires.
//
func (w wiring) add(from, to string) {
	ins := w[to]
	i := sort.SearchStrings(ins, from)
	if i < len(ins) && ins[i] == from {
		return
	}
	ins = append(ins, "")
	copy(ins[i+1:], ins[i:])
	ins[i] = from
	w[to] = ins
}

func (w wiring) inputs(name string) []string {
	return w[name]
}

// upstream walks the wires backwards from name.
//
func (w wiring) upstream(name string) []string {
	seen := make(map[string]bool)
	stack := append([]string(nil), w[name]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, w[n]...)
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
