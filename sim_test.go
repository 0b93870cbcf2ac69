package pulsesim_test

import (
	"testing"

	ps "github.com/db47h/pulsesim"
	"github.com/db47h/pulsesim/pulselib"
	"github.com/db47h/pulsesim/pulsetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Pulses must be processed in the order they are sent, breadth first.
//
func TestSimulator_order(t *testing.T) {
	net := pulsetest.Build(t, `
broadcaster -> a, b, c
%a -> b
%b -> c
%c -> out
`)
	var log []ps.Pulse
	s := ps.NewSimulator(net, ps.WithProbe(ps.Recorder(&log)))
	c := s.Press()

	var got []string
	for _, p := range log {
		got = append(got, p.String())
	}
	assert.Equal(t, []string{
		"button -low-> broadcaster",
		"broadcaster -low-> a",
		"broadcaster -low-> b",
		"broadcaster -low-> c",
		"a -high-> b",
		"b -high-> c",
		"c -high-> out",
	}, got)
	assert.Equal(t, ps.Counts{Low: 4, High: 3}, c)
	assert.Equal(t, uint64(1), s.Presses())
}

func TestSimulator_example1(t *testing.T) {
	net := pulsetest.MustBuild(t, pulselib.Example1())
	var log []ps.Pulse
	s := ps.NewSimulator(net, ps.WithProbe(ps.Recorder(&log)))
	initial := net.Fingerprint()

	c := s.Press()
	assert.Equal(t, ps.Counts{Low: 8, High: 4}, c)
	assert.Equal(t, initial, net.Fingerprint())
	assert.Equal(t, ps.Pulse{From: "inv", To: "a", Signal: ps.Low}, log[7])
	assert.Equal(t, ps.Pulse{From: "inv", To: "a", Signal: ps.High}, log[len(log)-1])
}

func TestSimulator_example2(t *testing.T) {
	net := pulsetest.MustBuild(t, pulselib.Example2())
	s := ps.NewSimulator(net)
	expected := []ps.Counts{
		{Low: 4, High: 4},
		{Low: 4, High: 2},
		{Low: 5, High: 3},
		{Low: 4, High: 2},
	}
	for i, ex := range expected {
		assert.Equal(t, ex, s.Press(), "press %d", i+1)
	}
}

func TestCountProduct(t *testing.T) {
	td := []struct {
		name  string
		specs []ps.ModuleSpec
		n     uint64
		res   uint64
	}{
		{"example1", pulselib.Example1(), 1000, 32000000},
		{"example2", pulselib.Example2(), 1000, 11687500},
		{"example2_partial", pulselib.Example2(), 3, (4 + 4 + 5) * (4 + 2 + 3)},
		{"none", pulselib.Example2(), 0, 0},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			res, err := ps.CountProduct(pulsetest.MustBuild(t, d.specs), d.n)
			require.NoError(t, err)
			assert.Equal(t, d.res, res)
		})
	}
}

// Run skips over periods; it must agree with pressing one press at a time,
// both on counts and on the final state.
//
func TestSimulator_Run(t *testing.T) {
	cs, err := pulselib.Counters("hub", "rx", 3, 5)
	require.NoError(t, err)
	for name, specs := range map[string][]ps.ModuleSpec{
		"example1": pulselib.Example1(),
		"example2": pulselib.Example2(),
		"counters": cs,
	} {
		for _, n := range []uint64{1, 2, 7, 31, 100} {
			ref := pulsetest.MustBuild(t, specs)
			rs := ps.NewSimulator(ref)
			var want ps.Counts
			for i := uint64(0); i < n; i++ {
				want = want.Add(rs.Press())
			}

			net := pulsetest.MustBuild(t, specs)
			s := ps.NewSimulator(net)
			got, err := s.Run(n)
			require.NoError(t, err)
			assert.Equal(t, want, got, "%s: %d presses", name, n)
			assert.Equal(t, ref.Fingerprint(), net.Fingerprint(), "%s: state after %d presses", name, n)
			assert.Equal(t, n, s.Presses())
		}
	}
}

// Counting per press and summing must give the same totals as one Run.
//
func TestSimulator_additive(t *testing.T) {
	net1 := pulsetest.MustBuild(t, pulselib.Example2())
	net2 := pulsetest.MustBuild(t, pulselib.Example2())
	s1, s2 := ps.NewSimulator(net1), ps.NewSimulator(net2)

	run := func(s *ps.Simulator, n uint64) ps.Counts {
		c, err := s.Run(n)
		require.NoError(t, err)
		return c
	}

	var sum ps.Counts
	for i := 0; i < 10; i++ {
		sum = sum.Add(run(s1, 1))
	}
	assert.Equal(t, run(s2, 10), sum)
	assert.Equal(t, run(s1, 25), run(s2, 25))
}

// With probes attached, Run must not skip presses: every pulse is seen.
//
func TestSimulator_Run_probes(t *testing.T) {
	net := pulsetest.MustBuild(t, pulselib.Example2())
	var log []ps.Pulse
	s := ps.NewSimulator(net, ps.WithProbe(ps.Recorder(&log)))
	c, err := s.Run(100)
	require.NoError(t, err)
	assert.Equal(t, ps.Counts{Low: 25 * 17, High: 25 * 11}, c)
	assert.Len(t, log, int(c.Total()))
	assert.Equal(t, uint64(100), s.Presses())
}

func TestSimulator_large_run(t *testing.T) {
	net := pulsetest.MustBuild(t, pulselib.Example2())
	c, err := ps.NewSimulator(net).Run(4_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, ps.Counts{Low: 17_000_000_000, High: 11_000_000_000}, c)
}

func TestCounts_Product_overflow(t *testing.T) {
	_, err := ps.Counts{Low: 1 << 33, High: 1 << 31}.Product()
	assert.ErrorIs(t, err, ps.ErrOverflow)
	p, err := ps.Counts{Low: 1 << 32, High: 1 << 31}.Product()
	assert.NoError(t, err)
	assert.Equal(t, uint64(1)<<63, p)
}

func TestCountProduct_overflow(t *testing.T) {
	td := []struct {
		name string
		n    uint64
	}{
		{"total", 1 << 62},   // 8 low pulses per press
		{"product", 1 << 60}, // totals fit, 2^63 * 2^62 does not
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			_, err := ps.CountProduct(pulsetest.MustBuild(t, pulselib.Example1()), d.n)
			assert.ErrorIs(t, err, ps.ErrOverflow)
		})
	}

	_, err := ps.NewSimulator(pulsetest.MustBuild(t, pulselib.Example1())).Run(1 << 62)
	assert.ErrorIs(t, err, ps.ErrOverflow)
}

func TestCounts_CheckedAdd(t *testing.T) {
	c, err := ps.Counts{Low: 1, High: 2}.CheckedAdd(ps.Counts{Low: 3, High: 4})
	require.NoError(t, err)
	assert.Equal(t, ps.Counts{Low: 4, High: 6}, c)

	_, err = ps.Counts{High: 1 << 63}.CheckedAdd(ps.Counts{High: 1 << 63})
	assert.ErrorIs(t, err, ps.ErrOverflow)
	_, err = ps.Counts{Low: 3}.Scale(1 << 63)
	assert.ErrorIs(t, err, ps.ErrOverflow)
}
