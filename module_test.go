package pulsesim_test

import (
	"testing"

	ps "github.com/db47h/pulsesim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlipFlop(t *testing.T) {
	ff := ps.NewModule(ps.ModuleSpec{Kind: ps.FlipFlop, Name: "ff", Outputs: []string{"x", "y"}})

	out := ff.Receive("in", ps.High, nil)
	assert.Empty(t, out, "High must be ignored")
	assert.False(t, ff.On())

	out = ff.Receive("in", ps.Low, nil)
	require.True(t, ff.On())
	assert.Equal(t, []ps.Pulse{
		{From: "ff", To: "x", Signal: ps.High},
		{From: "ff", To: "y", Signal: ps.High},
	}, out)

	out = ff.Receive("in", ps.Low, out[:0])
	require.False(t, ff.On())
	assert.Equal(t, []ps.Pulse{
		{From: "ff", To: "x", Signal: ps.Low},
		{From: "ff", To: "y", Signal: ps.Low},
	}, out)
}

func TestBroadcaster(t *testing.T) {
	bc := ps.NewModule(ps.ModuleSpec{Kind: ps.Broadcaster, Name: "broadcaster", Outputs: []string{"a", "b"}})
	for _, s := range []ps.Signal{ps.Low, ps.High} {
		out := bc.Receive("whoever", s, nil)
		assert.Equal(t, []ps.Pulse{
			{From: "broadcaster", To: "a", Signal: s},
			{From: "broadcaster", To: "b", Signal: s},
		}, out)
	}
}

func TestConjunction(t *testing.T) {
	td := []struct {
		name string
		x, y ps.Signal
		out  ps.Signal
	}{
		{"low_low", ps.Low, ps.Low, ps.High},
		{"low_high", ps.Low, ps.High, ps.High},
		{"high_low", ps.High, ps.Low, ps.High},
		{"high_high", ps.High, ps.High, ps.Low},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			con := ps.NewModule(ps.ModuleSpec{Kind: ps.Conjunction, Name: "con", Outputs: []string{"out"}})
			// prime both inputs, Y last
			con.Receive("X", d.x, nil)
			out := con.Receive("Y", d.y, nil)
			assert.Equal(t, []ps.Pulse{{From: "con", To: "out", Signal: d.out}}, out)
			assert.Equal(t, d.x, con.Memory("X"))
			assert.Equal(t, d.y, con.Memory("Y"))
		})
	}
}

func TestConjunction_first_signal(t *testing.T) {
	// a standalone conjunction learns its inputs as pulses arrive, each new
	// input starting Low.
	con := ps.NewModule(ps.ModuleSpec{Kind: ps.Conjunction, Name: "con", Outputs: []string{"out"}})
	out := con.Receive("X", ps.High, nil)
	assert.Equal(t, ps.Low, out[0].Signal, "only known input is high")
	out = con.Receive("Y", ps.High, nil)
	assert.Equal(t, ps.Low, out[0].Signal)
	out = con.Receive("Z", ps.Low, nil)
	assert.Equal(t, ps.High, out[0].Signal)
	assert.Equal(t, ps.Low, con.Memory("unknown"))
}

func TestConjunction_precomputed_inputs(t *testing.T) {
	net, err := ps.Build([]ps.ModuleSpec{
		{Kind: ps.Broadcaster, Name: "broadcaster", Outputs: []string{"X"}},
		{Kind: ps.FlipFlop, Name: "X", Outputs: []string{"con"}},
		{Kind: ps.FlipFlop, Name: "Y", Outputs: []string{"con"}},
		{Kind: ps.Conjunction, Name: "con", Outputs: []string{"out"}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"X", "Y"}, net.Inputs("con"))

	var log []ps.Pulse
	s := ps.NewSimulator(net, ps.WithProbe(ps.Recorder(&log)))
	s.Press()
	// X turned on but Y, never pulsed, is still remembered as Low.
	require.Len(t, log, 4)
	assert.Equal(t, ps.Pulse{From: "con", To: "out", Signal: ps.High}, log[3])
	assert.Equal(t, ps.High, net.Memory("con", "X"))
	assert.Equal(t, ps.Low, net.Memory("con", "Y"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "flip-flop", ps.FlipFlop.String())
	assert.Equal(t, '&', ps.Conjunction.Marker())
	assert.Equal(t, "Kind(0)", ps.Kind(0).String())
}
