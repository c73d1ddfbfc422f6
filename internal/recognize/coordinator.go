// Package recognize runs registered recognizers over stroke groups and
// merges their candidates.
//
// A Coordinator allows one pass at a time. A pass groups the captured
// strokes, then calls every recognizer on every group concurrently. Each
// group's candidates are the segmentation alternates followed by each
// recognizer's output in registration order. A recognizer that fails or
// times out contributes nothing and does not affect the others.
package recognize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/inkwell/internal/ink"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/segment"
)

// DefaultTimeout bounds each recognizer call.
const DefaultTimeout = 2 * time.Second

// Result holds the candidates for one stroke group.
type Result struct {
	Group          ink.Group
	TextCandidates []string
	// Err joins the recognizer errors when every recognizer failed for
	// the group. Nil otherwise.
	Err error
}

// Hooks observe a pass. They run on pass goroutines and must not block.
type Hooks struct {
	// OnPassStart is called once grouping succeeded.
	OnPassStart func(groups []ink.Group)
	// OnGroupSettled is called when every recognizer has reported for a
	// group.
	OnGroupSettled func(index int, r Result)
	// OnPassDone is called before the pass settles.
	OnPassDone func(results []Result, err error)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRecognizers registers recognizers in order.
func WithRecognizers(rs ...Recognizer) Option {
	return func(c *Coordinator) {
		c.recognizers = append(c.recognizers, rs...)
	}
}

// WithTimeout sets the per-recognizer timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.timeout = d
	}
}

// WithHooks sets pass hooks.
func WithHooks(h Hooks) Option {
	return func(c *Coordinator) {
		c.hooks = h
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// Coordinator runs recognition passes. Its state is Idle or Running; at
// most one pass runs at a time.
type Coordinator struct {
	running atomic.Bool

	source   StrokeSource
	resolver segment.Resolver

	mu          sync.RWMutex
	recognizers []Recognizer

	timeout time.Duration
	hooks   Hooks
	metrics *Metrics
	logger  *slog.Logger
}

// New creates a coordinator reading strokes from source and grouping them
// with resolver. A nil resolver groups everything together.
func New(source StrokeSource, resolver segment.Resolver, opts ...Option) *Coordinator {
	if resolver == nil {
		resolver = segment.SingleGroup{}
	}
	c := &Coordinator{
		source:   source,
		resolver: resolver,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = NewMetrics()
	}
	if c.logger == nil {
		c.logger = logging.For("recognize")
	}
	return c
}

// Register appends a recognizer. It takes effect from the next pass.
func (c *Coordinator) Register(r Recognizer) {
	c.mu.Lock()
	c.recognizers = append(c.recognizers, r)
	c.mu.Unlock()
}

// Recognizers returns the registered recognizers in order.
func (c *Coordinator) Recognizers() []Recognizer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.recognizers)
}

// Running reports whether a pass is outstanding.
func (c *Coordinator) Running() bool {
	return c.running.Load()
}

// Metrics returns the coordinator's metrics.
func (c *Coordinator) Metrics() *Metrics {
	return c.metrics
}

// Recognize starts a pass over the strokes captured now. Strokes added
// later are not part of the pass. It fails immediately with
// ErrAlreadyRunning or ErrNoInk; otherwise the returned Pass settles once
// every recognizer has reported for every group.
//
// Cancelling ctx cancels outstanding recognizer calls, which then count
// as failed.
func (c *Coordinator) Recognize(ctx context.Context) (*Pass, error) {
	if !c.running.CompareAndSwap(false, true) {
		c.metrics.RecordRejected()
		return nil, ErrAlreadyRunning
	}
	strokes := c.source.Strokes()
	if len(strokes) == 0 {
		c.running.Store(false)
		c.metrics.RecordNoInk()
		return nil, ErrNoInk
	}
	strokes = slices.Clone(strokes)
	recs := c.Recognizers()

	p := newPass()
	go c.run(ctx, p, strokes, recs)
	return p, nil
}

// Run starts a pass and waits for it.
func (c *Coordinator) Run(ctx context.Context) ([]Result, error) {
	p, err := c.Recognize(ctx)
	if err != nil {
		return nil, err
	}
	return p.Wait(ctx)
}

func (c *Coordinator) run(ctx context.Context, p *Pass, strokes []*ink.Stroke, recs []Recognizer) {
	start := time.Now()
	var (
		results []Result
		err     error
	)
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("recognition pass: %v", r)
		}
		// Idle again before anyone observes the settled pass.
		c.running.Store(false)
		c.metrics.RecordPass(time.Since(start), err)
		if c.hooks.OnPassDone != nil {
			c.hooks.OnPassDone(results, err)
		}
		p.settle(results, err)
	}()

	results, err = c.execute(ctx, strokes, recs)
	if err != nil {
		c.logger.Warn("recognition pass failed", "error", err)
		return
	}
	c.logger.Debug("recognition pass done", "groups", len(results), "elapsed", time.Since(start))
}

func (c *Coordinator) execute(ctx context.Context, strokes []*ink.Stroke, recs []Recognizer) ([]Result, error) {
	groups, err := c.resolver.Group(ctx, strokes)
	if err != nil {
		c.metrics.RecordSegmentationFailure()
		if !errors.Is(err, segment.ErrSegmentationUnavailable) {
			err = fmt.Errorf("%w: %w", segment.ErrSegmentationUnavailable, err)
		}
		return nil, err
	}
	if c.hooks.OnPassStart != nil {
		c.hooks.OnPassStart(groups)
	}

	results := make([]Result, len(groups))
	if len(recs) == 0 {
		for i, g := range groups {
			results[i] = Result{Group: g, TextCandidates: slices.Clone(g.Alternates)}
			c.groupSettled(i, results[i])
		}
		return results, nil
	}

	var wg sync.WaitGroup
	for gi, g := range groups {
		acc := newAccumulator(g, len(recs))
		points := g.Points()
		for ri, rec := range recs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cands, err := c.call(ctx, rec, slices.Clone(points), g.Strokes)
				if err != nil {
					err = &RecognizerError{Recognizer: nameOf(rec), Group: gi, Err: err}
					c.logger.Warn("recognizer failed", "recognizer", nameOf(rec), "group", gi, "error", err.Error())
				}
				if acc.report(ri, cands, err) {
					results[gi] = acc.result()
					c.groupSettled(gi, results[gi])
				}
			}()
		}
	}
	wg.Wait()
	return results, nil
}

func (c *Coordinator) groupSettled(i int, r Result) {
	if c.hooks.OnGroupSettled != nil {
		c.hooks.OnGroupSettled(i, r)
	}
}

type outcome struct {
	cands []string
	err   error
}

// call runs one recognizer under the per-recognizer timeout. The call
// runs on its own goroutine so a recognizer that ignores ctx cannot hold
// the pass open.
func (c *Coordinator) call(ctx context.Context, rec Recognizer, points []ink.Point, strokes []*ink.Stroke) ([]string, error) {
	c.metrics.RecordCall()
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.metrics.RecordPanic()
				ch <- outcome{err: fmt.Errorf("%w: %v", ErrRecognizerPanic, r)}
			}
		}()
		cands, err := rec.RecognizeInk(callCtx, points, strokes)
		ch <- outcome{cands: cands, err: err}
	}()

	select {
	case o := <-ch:
		if o.err != nil {
			c.metrics.RecordFailure()
		}
		return o.cands, o.err
	case <-callCtx.Done():
		if ctx.Err() == nil {
			c.metrics.RecordTimeout()
			return nil, fmt.Errorf("%w after %s", ErrRecognizerTimeout, c.timeout)
		}
		c.metrics.RecordFailure()
		return nil, ctx.Err()
	}
}

// accumulator collects the per-recognizer outputs for one group.
type accumulator struct {
	group ink.Group

	mu      sync.Mutex
	slots   [][]string
	errs    []error
	pending int
}

func newAccumulator(g ink.Group, n int) *accumulator {
	return &accumulator{
		group:   g,
		slots:   make([][]string, n),
		errs:    make([]error, n),
		pending: n,
	}
}

// report stores recognizer i's output and reports whether it was the
// last one outstanding.
func (a *accumulator) report(i int, cands []string, err error) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err == nil {
		a.slots[i] = cands
	} else {
		a.errs[i] = err
	}
	a.pending--
	return a.pending == 0
}

func (a *accumulator) result() Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	cands := slices.Clone(a.group.Alternates)
	failed := 0
	for i, s := range a.slots {
		if a.errs[i] != nil {
			failed++
			continue
		}
		cands = append(cands, s...)
	}
	r := Result{Group: a.group, TextCandidates: cands}
	if failed == len(a.slots) {
		r.Err = errors.Join(a.errs...)
	}
	return r
}
