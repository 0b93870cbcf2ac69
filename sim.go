// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulsesim

import (
	"log/slog"

	"github.com/pkg/errors"
)

// A Simulator runs button presses on a Network.
//
// A Simulator is not safe for concurrent use. To simulate the same circuit
// concurrently, give each goroutine its own Simulator over a Network.Clone().
//
type Simulator struct {
	net     *Network
	queue   []Pulse
	presses uint64
	probes  []Probe
	log     *slog.Logger
}

// An Option configures a Simulator.
//
type Option func(*Simulator)

// WithLogger sets the logger used by the simulator. The default logger
// discards everything.
//
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// WithProbe adds a probe called for every pulse processed by the simulator.
//
func WithProbe(p Probe) Option {
	return func(s *Simulator) {
		s.probes = append(s.probes, p)
	}
}

// NewSimulator returns a new simulator driving net. The simulator mutates net
// on every press.
//
func NewSimulator(net *Network, opts ...Option) *Simulator {
	s := &Simulator{
		net: net,
		log: slog.New(discardHandler),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Presses returns the number of button presses simulated so far.
//
func (s *Simulator) Presses() uint64 { return s.presses }

// Press pushes the button once: a Low pulse is sent to the broadcaster and
// pulses are processed in the order they were sent until none is left.
//
// It returns the number of pulses sent during the press, including the
// initial one and the ones sent to sinks.
//
func (s *Simulator) Press() Counts {
	return s.press(nil)
}

// press runs one press. obs, if not nil, sees every pulse after the probes.
//
func (s *Simulator) press(obs Probe) Counts {
	var c Counts
	q := append(s.queue[:0], Pulse{From: TriggerSource, To: s.net.entry, Signal: Low})
	// q grows while we walk it: pulses emitted by q[i] land after every pulse
	// already queued.
	for i := 0; i < len(q); i++ {
		p := q[i]
		c.add(p.Signal)
		for _, pr := range s.probes {
			pr(p)
		}
		if obs != nil {
			obs(p)
		}
		if m := s.net.module(p.To); m != nil {
			q = m.Receive(p.From, p.Signal, q)
		}
	}
	s.queue = q[:0]
	s.presses++
	observePress(c)
	return c
}

// maxHistory bounds the number of fingerprints Run remembers.
//
var maxHistory uint64 = 1 << 20

// Run presses the button n times and returns the total pulse counts.
//
// Run tracks the network fingerprint after every press. Once a state repeats,
// the remaining presses are reduced modulo the period and only the remainder
// is simulated, so the network ends up in the same state as after n plain
// presses. Skipped presses are neither seen by probes nor counted in metrics,
// so Run does not skip on a simulator with probes. If no state repeats within
// maxHistory presses, Run stops tracking and presses one by one.
//
// Run fails with ErrOverflow if a total does not fit in 64 bits.
//
func (s *Simulator) Run(n uint64) (Counts, error) {
	var total Counts
	if n == 0 {
		return total, nil
	}
	var (
		start  = s.presses
		track  = len(s.probes) == 0
		seen   map[Fingerprint]uint64
		prefix []Counts // prefix[i]: counts for presses 1..i of this run
		err    error
	)
	if track {
		seen = map[Fingerprint]uint64{s.net.Fingerprint(): 0}
		prefix = []Counts{{}}
	}

	for i := uint64(1); ; i++ {
		if total, err = total.CheckedAdd(s.Press()); err != nil {
			return Counts{}, errors.Wrapf(err, "press %d", start+i)
		}
		if i == n {
			break
		}
		if !track {
			continue
		}
		if i >= maxHistory {
			s.log.Debug("no period found, tracking stopped", "presses", i)
			track, seen, prefix = false, nil, nil
			continue
		}
		prefix = append(prefix, total)
		fp := s.net.Fingerprint()
		j, ok := seen[fp]
		if !ok {
			seen[fp] = i
			continue
		}
		period := i - j
		rest := n - i
		var skip Counts
		skip, err = prefix[i].Sub(prefix[j]).Scale(rest / period)
		if err == nil {
			total, err = total.CheckedAdd(skip)
		}
		if err != nil {
			return Counts{}, errors.Wrapf(err, "skipping %d periods of %d presses", rest/period, period)
		}
		s.log.Debug("period detected", "start", start+j, "length", period, "skipped", rest-rest%period)
		for k := rest % period; k > 0; k-- {
			if total, err = total.CheckedAdd(s.Press()); err != nil {
				return Counts{}, err
			}
		}
		s.presses = start + n
		break
	}
	return total, nil
}
