package recognize

import "context"

// Pass is an outstanding recognition pass. It settles exactly once.
type Pass struct {
	done    chan struct{}
	results []Result
	err     error
}

func newPass() *Pass {
	return &Pass{done: make(chan struct{})}
}

func (p *Pass) settle(results []Result, err error) {
	p.results = results
	p.err = err
	close(p.done)
}

// Done is closed when the pass has settled.
func (p *Pass) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the pass settles or ctx is done. Results are in
// group order.
func (p *Pass) Wait(ctx context.Context) ([]Result, error) {
	select {
	case <-p.done:
		return p.results, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Settled reports whether the pass has settled, without blocking.
func (p *Pass) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}
