// Package netlist parses textual circuit descriptions into module specs.
//
// Each non blank line describes one module:
//
//	broadcaster -> a, b, c
//	%a -> b
//	&inv -> a
//	%c ->
//
// A '%' prefix declares a flip-flop, '&' a conjunction. The broadcaster is the
// only module without a prefix and must be named "broadcaster". Everything
// after a '#' is a comment.
//
package netlist

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/db47h/pulsesim"
	"github.com/pkg/errors"
)

// BroadcasterName is the name identifying the broadcaster.
//
const BroadcasterName = "broadcaster"

const arrow = "->"

// Parse reads a netlist from r.
//
func Parse(r io.Reader) ([]pulsesim.ModuleSpec, error) {
	var specs []pulsesim.ModuleSpec
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		sp, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}
		specs = append(specs, sp)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read netlist")
	}
	return specs, nil
}

// ParseString parses the netlist in s.
//
func ParseString(s string) ([]pulsesim.ModuleSpec, error) {
	return Parse(strings.NewReader(s))
}

func parseLine(line string) (pulsesim.ModuleSpec, error) {
	var sp pulsesim.ModuleSpec

	decl, dests, ok := strings.Cut(line, arrow)
	if !ok {
		return sp, parseError(line, 0, "missing "+arrow)
	}
	decl = strings.TrimSpace(decl)
	if decl == "" {
		return sp, parseError(line, 0, "missing module name")
	}

	if k := markedKind(rune(decl[0])); k != 0 {
		sp.Kind, sp.Name = k, decl[1:]
	} else {
		if decl != BroadcasterName {
			return sp, parseError(line, strings.Index(line, decl), "unknown module kind for "+decl)
		}
		sp.Kind, sp.Name = pulsesim.Broadcaster, decl
	}
	if !isIdent(sp.Name) {
		return sp, parseError(line, strings.Index(line, decl), "invalid module name "+decl)
	}

	off := len(line) - len(dests)
	for _, d := range strings.Split(dests, ",") {
		name := strings.TrimSpace(d)
		if name == "" {
			if strings.TrimSpace(dests) == "" {
				break
			}
			return sp, parseError(line, off, "empty destination")
		}
		if !isIdent(name) {
			return sp, parseError(line, off+strings.Index(d, name), "invalid destination name "+name)
		}
		sp.Outputs = append(sp.Outputs, name)
		off += len(d) + 1
	}
	return sp, nil
}

// markedKind returns the kind declared by marker r, or 0.
//
func markedKind(r rune) pulsesim.Kind {
	for _, k := range []pulsesim.Kind{pulsesim.FlipFlop, pulsesim.Conjunction} {
		if k.Marker() == r {
			return k
		}
	}
	return 0
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

func parseError(in string, pos int, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}
