package action

import (
	"fmt"
	"strings"
	"sync"
)

// CaptureState is the lifecycle state of a ParameterCapture.
type CaptureState int

const (
	// CapturePending accepts values.
	CapturePending CaptureState = iota
	// CaptureDone has run its action.
	CaptureDone
	// CaptureCancelled was dismissed.
	CaptureCancelled
)

// String returns the state name.
func (s CaptureState) String() string {
	switch s {
	case CapturePending:
		return "pending"
	case CaptureDone:
		return "done"
	case CaptureCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Field is one parameter slot of a capture form.
type Field struct {
	Name   string
	Value  string
	Filled bool
}

// ParameterCapture is the form shown for a candidate that needs
// parameters. Slots are filled positionally, typically with recognized
// text, then Run binds and invokes. It is safe for concurrent use.
type ParameterCapture struct {
	mu        sync.Mutex
	candidate Candidate
	fields    []Field
	state     CaptureState
}

// NewParameterCapture creates a form for c.
func NewParameterCapture(c Candidate) (*ParameterCapture, error) {
	if !c.NeedsParams() {
		return nil, fmt.Errorf("%s takes no parameters", c.Name)
	}
	fields := make([]Field, len(c.Params))
	for i, p := range c.Params {
		fields[i] = Field{Name: p}
	}
	return &ParameterCapture{candidate: c, fields: fields}, nil
}

// Title is the form heading, e.g. "setPosition(x, y)".
func (p *ParameterCapture) Title() string {
	return p.candidate.Name + "(" + strings.Join(p.candidate.Params, ", ") + ")"
}

// Fields returns a copy of the slots.
func (p *ParameterCapture) Fields() []Field {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// State returns the capture state.
func (p *ParameterCapture) State() CaptureState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Set fills slot i.
func (p *ParameterCapture) Set(i int, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.set(i, value)
}

// Fill puts value into the first empty slot and returns its index.
func (p *ParameterCapture) Fill(value string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, f := range p.fields {
		if !f.Filled {
			return i, p.set(i, value)
		}
	}
	return -1, fmt.Errorf("%w: all %d parameters filled", ErrArity, len(p.fields))
}

func (p *ParameterCapture) set(i int, value string) error {
	if p.state != CapturePending {
		return fmt.Errorf("capture is %s", p.state)
	}
	if i < 0 || i >= len(p.fields) {
		return fmt.Errorf("%w: no parameter %d", ErrArity, i)
	}
	p.fields[i].Value = value
	p.fields[i].Filled = true
	return nil
}

// Ready reports whether every slot is filled.
func (p *ParameterCapture) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, f := range p.fields {
		if !f.Filled {
			return false
		}
	}
	return true
}

// Run binds the slot values and invokes the candidate. A failed
// invocation leaves the form pending so values can be corrected.
func (p *ParameterCapture) Run() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case CaptureCancelled:
		return ErrCancelled
	case CaptureDone:
		return fmt.Errorf("capture already ran")
	}

	values := make([]string, len(p.fields))
	for i, f := range p.fields {
		if !f.Filled {
			return fmt.Errorf("%w: %s", ErrParamsRequired, f.Name)
		}
		values[i] = f.Value
	}
	bound, err := p.candidate.Bind(values...)
	if err != nil {
		return err
	}
	if err := bound.Invoke(); err != nil {
		return err
	}
	p.state = CaptureDone
	return nil
}

// Cancel dismisses the form. Cancelling twice is harmless.
func (p *ParameterCapture) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == CapturePending {
		p.state = CaptureCancelled
	}
}
