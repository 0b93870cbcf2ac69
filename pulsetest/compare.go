// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package pulsetest provides utility functions for testing circuits.
//
package pulsetest

import (
	"testing"

	"github.com/db47h/pulsesim"
	"github.com/db47h/pulsesim/internal/netlist"
	"github.com/stretchr/testify/require"
)

// Build parses the netlist src and builds a network from it. It fails the
// test on error.
//
func Build(t testing.TB, src string) *pulsesim.Network {
	t.Helper()
	specs, err := netlist.ParseString(src)
	require.NoError(t, err)
	return MustBuild(t, specs)
}

// MustBuild builds a network from specs. It fails the test on error.
//
func MustBuild(t testing.TB, specs []pulsesim.ModuleSpec) *pulsesim.Network {
	t.Helper()
	net, err := pulsesim.Build(specs)
	require.NoError(t, err)
	return net
}

// Fingerprints presses the button n times on net and returns the fingerprint
// after each press. Element 0 is the fingerprint before the first press.
//
func Fingerprints(net *pulsesim.Network, n int) []pulsesim.Fingerprint {
	s := pulsesim.NewSimulator(net)
	fps := make([]pulsesim.Fingerprint, 0, n+1)
	fps = append(fps, net.Fingerprint())
	for i := 0; i < n; i++ {
		s.Press()
		fps = append(fps, net.Fingerprint())
	}
	return fps
}

// FirstMatch presses the button on net until cond matches a pulse, at most
// limit times, by plain simulation. It returns the press index and true, or
// 0 and false if the limit was reached.
//
func FirstMatch(net *pulsesim.Network, cond pulsesim.Condition, limit uint64) (uint64, bool) {
	var hit bool
	s := pulsesim.NewSimulator(net, pulsesim.WithProbe(func(p pulsesim.Pulse) {
		if cond(p) {
			hit = true
		}
	}))
	for s.Presses() < limit {
		s.Press()
		if hit {
			return s.Presses(), true
		}
	}
	return 0, false
}

// FirstAligned presses the button on net until every named module sends a
// pulse with signal sig during the same press, at most limit times. It returns
// the press index and true, or 0 and false if the limit was reached.
//
func FirstAligned(net *pulsesim.Network, sig pulsesim.Signal, limit uint64, names ...string) (uint64, bool) {
	fired := make(map[string]bool, len(names))
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	s := pulsesim.NewSimulator(net, pulsesim.WithProbe(func(p pulsesim.Pulse) {
		if p.Signal == sig && want[p.From] {
			fired[p.From] = true
		}
	}))
	for s.Presses() < limit {
		clear(fired)
		s.Press()
		if len(fired) == len(want) {
			return s.Presses(), true
		}
	}
	return 0, false
}

// CompareNetworks builds two networks from specs1 and specs2, presses the
// button on both and checks that they send the same pulse counts and go
// through the same fingerprints.
//
func CompareNetworks(t testing.TB, specs1, specs2 []pulsesim.ModuleSpec, presses int) {
	t.Helper()

	n1, n2 := MustBuild(t, specs1), MustBuild(t, specs2)
	s1, s2 := pulsesim.NewSimulator(n1), pulsesim.NewSimulator(n2)
	require.Equal(t, n1.Fingerprint(), n2.Fingerprint(), "initial state")
	for i := 1; i <= presses; i++ {
		c1, c2 := s1.Press(), s2.Press()
		require.Equal(t, c1, c2, "counts at press %d", i)
		require.Equal(t, n1.Fingerprint(), n2.Fingerprint(), "state after press %d", i)
	}
}
