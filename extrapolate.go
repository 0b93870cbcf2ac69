package pulsesim

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultLimit is the press limit used when SolveOptions.Limit is 0.
//
const DefaultLimit = 1 << 20

// Extrapolation errors.
//
// ErrNotFound is returned when the press limit is reached before the answer
// is known. ErrUnreachable is returned when the network went back to a state
// it was already in without the condition ever being met: it never will.
//
var (
	ErrNotFound        = errors.New("not found within bound")
	ErrUnreachable     = errors.New("condition unreachable")
	ErrNoFeeder        = errors.New("target has no feeder")
	ErrMultipleFeeders = errors.New("target has more than one feeder")
	ErrNotConjunction  = errors.New("feeder is not a conjunction")
)

// ctxCheckMask sets how often long loops check for context cancellation.
const ctxCheckMask = 1<<10 - 1

// A Period describes a cycle in the sequence of network states. The state
// after Start presses is the same as after Start+Length presses.
//
type Period struct {
	Start  uint64
	Length uint64
}

// DetectPeriod presses the button until the network state repeats and
// returns the detected cycle. Start is counted from the state of the network
// when DetectPeriod is called. It returns ErrNotFound if no state repeats
// within limit presses.
//
func (s *Simulator) DetectPeriod(ctx context.Context, limit uint64) (Period, error) {
	ctx, span := tracer.Start(ctx, "pulsesim.DetectPeriod",
		trace.WithAttributes(uint64Attr("limit", limit)))
	defer span.End()

	seen := map[Fingerprint]uint64{s.net.Fingerprint(): 0}
	for i := uint64(1); i <= limit; i++ {
		if i&ctxCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return Period{}, err
			}
		}
		s.Press()
		fp := s.net.Fingerprint()
		if j, ok := seen[fp]; ok {
			p := Period{Start: j, Length: i - j}
			periodsFound.WithLabelValues("fingerprint").Inc()
			span.SetAttributes(uint64Attr("start", p.Start), uint64Attr("length", p.Length))
			s.log.Debug("period detected", "start", p.Start, "length", p.Length, "fingerprint", fp.Sum64())
			return p, nil
		}
		seen[fp] = i
	}
	span.SetStatus(codes.Error, ErrNotFound.Error())
	return Period{}, errors.Wrapf(ErrNotFound, "no repeated state after %d presses", limit)
}

// FirstPress presses the button until a pulse matching cond is processed and
// returns the value of Presses() at that press.
//
// It makes no assumption about the circuit: if the network comes back to a
// state it was in before the condition was met, FirstPress returns
// ErrUnreachable. It returns ErrNotFound if the limit is reached first.
//
func (s *Simulator) FirstPress(ctx context.Context, cond Condition, limit uint64) (uint64, error) {
	ctx, span := tracer.Start(ctx, "pulsesim.FirstPress",
		trace.WithAttributes(uint64Attr("limit", limit)))
	defer span.End()

	var hit bool
	obs := func(p Pulse) {
		if !hit && cond(p) {
			hit = true
		}
	}
	seen := map[Fingerprint]struct{}{s.net.Fingerprint(): {}}
	for i := uint64(1); i <= limit; i++ {
		if i&ctxCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		s.press(obs)
		if hit {
			span.SetAttributes(uint64Attr("press", s.presses))
			return s.presses, nil
		}
		fp := s.net.Fingerprint()
		if _, ok := seen[fp]; ok {
			span.SetStatus(codes.Error, ErrUnreachable.Error())
			return 0, errors.Wrapf(ErrUnreachable, "state repeated after %d presses", i)
		}
		seen[fp] = struct{}{}
	}
	span.SetStatus(codes.Error, ErrNotFound.Error())
	return 0, errors.Wrapf(ErrNotFound, "condition not met after %d presses", limit)
}

// CountProduct presses the button n times on net and returns the product of
// the total Low and High pulse counts. It fails with ErrOverflow if either
// total or their product does not fit in 64 bits.
//
func CountProduct(net *Network, n uint64) (uint64, error) {
	c, err := NewSimulator(net).Run(n)
	if err != nil {
		return 0, err
	}
	return c.Product()
}

// SolveOptions configures Solve and BranchLCM.
//
type SolveOptions struct {
	// Limit is the maximum number of presses simulated per run.
	// 0 means DefaultLimit.
	Limit uint64
	// Workers is the maximum number of branches simulated in parallel by
	// BranchLCM. If less or equal to 0, GOMAXPROCS is used.
	Workers int
	// AssumeCounters makes Solve use BranchLCM. See BranchLCM for the
	// required circuit structure.
	AssumeCounters bool
	// Logger, if not nil, receives debug logs.
	Logger *slog.Logger
}

func (o *SolveOptions) limit() uint64 {
	if o.Limit == 0 {
		return DefaultLimit
	}
	return o.Limit
}

func (o *SolveOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(-1)
}

func (o *SolveOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(discardHandler)
}

// Solve returns the first press, counted from the current state of net,
// during which target receives a Low pulse. net is left untouched.
//
// Unless opts.AssumeCounters is set, Solve simulates presses one by one with
// FirstPress.
//
func Solve(ctx context.Context, net *Network, target string, opts SolveOptions) (uint64, error) {
	if opts.AssumeCounters {
		return BranchLCM(ctx, net, target, opts)
	}
	s := NewSimulator(net.Clone(), WithLogger(opts.Logger))
	return s.FirstPress(ctx, Receives(target, Low), opts.limit())
}

// hub returns the single conjunction feeding target.
//
func (n *Network) hub(target string) (string, error) {
	fs := n.w.inputs(target)
	switch len(fs) {
	case 0:
		return "", errors.Wrap(ErrNoFeeder, target)
	case 1:
	default:
		return "", errors.Wrapf(ErrMultipleFeeders, "%s: %v", target, fs)
	}
	if k, _ := n.Kind(fs[0]); k != Conjunction {
		return "", errors.Wrapf(ErrNotConjunction, "%s feeds %s", fs[0], target)
	}
	return fs[0], nil
}

// BranchLCM returns the first press, counted from the current state of net,
// during which target receives a Low pulse, for circuits where target is fed
// by a single conjunction (the hub) whose inputs are independent counters.
//
// Precondition: every input of the hub sends High exactly once every p
// presses, first at press p, with no phase offset. This holds for binary
// counter branches like the ones built by pulselib.Counters, but cannot be
// checked from the module list alone. When it holds, the answer is the LCM of
// the branch periods.
//
// Each branch is simulated on its own clone of net; up to opts.Workers
// branches run in parallel. net is left untouched.
//
func BranchLCM(ctx context.Context, net *Network, target string, opts SolveOptions) (uint64, error) {
	runID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "pulsesim.BranchLCM", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.String("target", target),
	))
	defer span.End()

	log := opts.logger().With("run_id", runID, "target", target)

	hub, err := net.hub(target)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	branches := net.Inputs(hub)
	if len(branches) == 0 {
		err = errors.Wrap(ErrNoFeeder, hub)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	warnShared(log, net, branches)

	periods := make([]uint64, len(branches))
	limit := opts.limit()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, b := range branches {
		i, b := i, b
		g.Go(func() error {
			s := NewSimulator(net.Clone(), WithLogger(log))
			p, err := s.FirstPress(gctx, Emits(b, High), limit)
			if err != nil {
				return errors.Wrapf(err, "branch %s", b)
			}
			log.Debug("branch period", "branch", b, "period", p)
			periods[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	res := uint64(1)
	for i, p := range periods {
		if res, err = LCM(res, p); err != nil {
			err = errors.Wrapf(err, "branch %s", branches[i])
			span.SetStatus(codes.Error, err.Error())
			return 0, err
		}
	}
	periodsFound.WithLabelValues("branch_lcm").Add(float64(len(periods)))
	span.SetAttributes(attribute.Int("branches", len(branches)))
	log.Debug("branches aligned", "hub", hub, "press", res)
	return res, nil
}

// warnShared logs branches that share modules other than the broadcaster,
// which breaks the independence BranchLCM relies on.
//
func warnShared(log *slog.Logger, net *Network, branches []string) {
	owner := make(map[string]string)
	for _, b := range branches {
		for _, m := range append(net.Upstream(b), b) {
			if m == net.entry {
				continue
			}
			if o, ok := owner[m]; ok && o != b {
				log.Warn("branches are not independent", "module", m, "branches", []string{o, b})
				return
			}
			owner[m] = b
		}
	}
}
