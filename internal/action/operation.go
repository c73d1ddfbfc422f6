package action

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Operation is one named operation a target exposes. Params lists the
// formal parameter names in positional order.
type Operation struct {
	// Name is the identifier matched against recognized text.
	Name string

	// Label is the menu text. Defaults to Name.
	Label string

	// Params are the formal parameter names.
	Params []string

	// Invoke runs the operation with one value per parameter.
	Invoke func(args []string) error
}

// DisplayLabel returns Label, or Name followed by its parameter list.
func (o Operation) DisplayLabel() string {
	if o.Label != "" {
		return o.Label
	}
	if len(o.Params) == 0 {
		return o.Name
	}
	return o.Name + "(" + strings.Join(o.Params, ", ") + ")"
}

// Target is anything exposing operations for matching.
type Target interface {
	Operations() []Operation
}

// TargetFunc adapts a function to Target.
type TargetFunc func() []Operation

// Operations calls f.
func (f TargetFunc) Operations() []Operation { return f() }

// Table is an ordered operation registry. It is safe for concurrent use.
type Table struct {
	mu    sync.RWMutex
	ops   []Operation
	index map[string]int
}

// NewTable creates a table holding ops. It panics on duplicate names,
// which is a programming error at registration time.
func NewTable(ops ...Operation) *Table {
	t := &Table{index: make(map[string]int)}
	for _, op := range ops {
		if err := t.Register(op); err != nil {
			panic(err)
		}
	}
	return t
}

// Register appends op.
func (t *Table) Register(op Operation) error {
	if op.Name == "" {
		return fmt.Errorf("%w: empty name", ErrSyntax)
	}
	if op.Invoke == nil {
		return fmt.Errorf("operation %q has no Invoke", op.Name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.index[op.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateOperation, op.Name)
	}
	op.Params = slices.Clone(op.Params)
	t.index[op.Name] = len(t.ops)
	t.ops = append(t.ops, op)
	return nil
}

// Lookup returns the operation named name.
func (t *Table) Lookup(name string) (Operation, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i, ok := t.index[name]
	if !ok {
		return Operation{}, false
	}
	return t.ops[i], true
}

// Operations implements Target, in registration order.
func (t *Table) Operations() []Operation {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.ops)
}

// Len returns the number of operations.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ops)
}

// Call parses expr as name or name(arg, ...) and invokes the operation.
func (t *Table) Call(expr string) error {
	return Call(t, expr)
}

// find looks up an operation on any target. Exact names win over
// normalized matches.
func find(target Target, name string) (Operation, bool) {
	if target == nil {
		return Operation{}, false
	}
	if tbl, ok := target.(*Table); ok {
		if op, ok := tbl.Lookup(name); ok {
			return op, true
		}
	}
	ops := target.Operations()
	for _, op := range ops {
		if op.Name == name {
			return op, true
		}
	}
	norm := Normalize(name)
	for _, op := range ops {
		if Normalize(op.Name) == norm {
			return op, true
		}
	}
	return Operation{}, false
}
