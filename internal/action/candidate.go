package action

import (
	"fmt"
	"slices"
)

// Kind says where a candidate came from.
type Kind int

const (
	// KindOperation is a fuzzy or exact match on a target operation.
	KindOperation Kind = iota
	// KindSymbol is a single-character shortcut bound to an operation.
	KindSymbol
	// KindLiteral is the recognized text offered as-is.
	KindLiteral
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindOperation:
		return "operation"
	case KindSymbol:
		return "symbol"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Candidate is one proposed action. Candidates with Params must be bound
// with Bind before Invoke.
type Candidate struct {
	// Label is the menu text.
	Label string
	// Name is the operation name, or the recognized text for literals.
	Name string
	// Params are the parameter names still to be supplied.
	Params []string
	// Text is the recognized text that produced the candidate.
	Text string
	// Kind is the candidate's origin.
	Kind Kind

	invoke func(args []string) error
	args   []string
	bound  bool
}

// Literal reports whether the candidate is the raw-text fallback.
func (c Candidate) Literal() bool {
	return c.Kind == KindLiteral
}

// NeedsParams reports whether values must be bound before invoking.
func (c Candidate) NeedsParams() bool {
	return len(c.Params) > 0 && !c.bound
}

// Args returns the bound parameter values.
func (c Candidate) Args() []string {
	return slices.Clone(c.args)
}

// Bind returns a copy of c with one value per parameter, in order.
func (c Candidate) Bind(values ...string) (Candidate, error) {
	if len(values) != len(c.Params) {
		return c, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, c.Name, len(c.Params), len(values))
	}
	c.args = slices.Clone(values)
	c.bound = true
	return c, nil
}

// Invoke runs the candidate. Failures of the underlying operation are
// returned as *InvocationError.
func (c Candidate) Invoke() error {
	if c.NeedsParams() {
		return fmt.Errorf("%w: %s(%v)", ErrParamsRequired, c.Name, c.Params)
	}
	if c.invoke == nil {
		return &InvocationError{Op: c.Name, Err: ErrUnknownOperation}
	}
	return invoke(c.Name, c.invoke, c.args)
}

// NewCandidate offers op directly, without matching.
func NewCandidate(op Operation) Candidate {
	return operationCandidate(op, op.Name)
}

func operationCandidate(op Operation, text string) Candidate {
	return Candidate{
		Label:  op.DisplayLabel(),
		Name:   op.Name,
		Params: slices.Clone(op.Params),
		Text:   text,
		Kind:   KindOperation,
		invoke: op.Invoke,
	}
}

// literalCandidate invokes text as a call expression against target.
func literalCandidate(text string, target Target) Candidate {
	return Candidate{
		Label: text,
		Name:  text,
		Text:  text,
		Kind:  KindLiteral,
		invoke: func([]string) error {
			return Call(target, text)
		},
	}
}
