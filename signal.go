// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package pulsesim

import (
	"math/bits"

	"github.com/pkg/errors"
)

// A Signal is the value carried by a pulse.
//
type Signal uint8

// Signal values.
//
const (
	Low Signal = iota
	High
)

func (s Signal) String() string {
	if s == High {
		return "high"
	}
	return "low"
}

// A Pulse is a signal in flight from one module to another.
//
type Pulse struct {
	From   string
	To     string
	Signal Signal
}

func (p Pulse) String() string {
	return p.From + " -" + p.Signal.String() + "-> " + p.To
}

// Counts tallies the pulses sent during one or more button presses.
//
type Counts struct {
	Low  uint64
	High uint64
}

func (c *Counts) add(s Signal) {
	if s == High {
		c.High++
	} else {
		c.Low++
	}
}

// Add returns the sum of c and o. It does not check for overflow, use
// CheckedAdd for totals that may not fit in 64 bits.
//
func (c Counts) Add(o Counts) Counts {
	return Counts{Low: c.Low + o.Low, High: c.High + o.High}
}

// CheckedAdd returns the sum of c and o, or ErrOverflow.
//
func (c Counts) CheckedAdd(o Counts) (Counts, error) {
	lo, cl := bits.Add64(c.Low, o.Low, 0)
	hi, ch := bits.Add64(c.High, o.High, 0)
	if cl != 0 || ch != 0 {
		return Counts{}, errors.Wrapf(ErrOverflow, "%v + %v", c, o)
	}
	return Counts{Low: lo, High: hi}, nil
}

// Sub returns c - o.
//
func (c Counts) Sub(o Counts) Counts {
	return Counts{Low: c.Low - o.Low, High: c.High - o.High}
}

// Scale returns c multiplied by n, or ErrOverflow.
//
func (c Counts) Scale(n uint64) (Counts, error) {
	lo, err := mul(c.Low, n)
	if err != nil {
		return Counts{}, err
	}
	hi, err := mul(c.High, n)
	if err != nil {
		return Counts{}, err
	}
	return Counts{Low: lo, High: hi}, nil
}

// Total returns the number of pulses, regardless of their signal.
//
func (c Counts) Total() uint64 { return c.Low + c.High }

// Product returns Low * High. It fails with ErrOverflow if the product does
// not fit in 64 bits.
//
func (c Counts) Product() (uint64, error) {
	return mul(c.Low, c.High)
}
