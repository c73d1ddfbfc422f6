// Package luatarget exposes a Lua table of functions as an action target.
//
// A script returns a table; every function field becomes an operation
// whose parameters are the function's declared parameter names:
//
//	local t = {}
//	function t.moveBy(dx, dy) ... end
//	function t:rename(name) ... end -- self is bound to t
//	return t
//
// Scripts run in a sandboxed state without io, os, debug or package.
package luatarget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkwell/internal/action"
	"github.com/dshills/inkwell/internal/logging"
)

// DefaultTimeout bounds one operation call.
const DefaultTimeout = 5 * time.Second

// Errors returned by Lua targets.
var (
	// ErrClosed is returned when calling into a closed target.
	ErrClosed = errors.New("lua target is closed")

	// ErrNotTable is returned when a script does not return a table.
	ErrNotTable = errors.New("lua script must return a table")
)

// Option configures a Target.
type Option func(*Target)

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(t *Target) { t.timeout = d }
}

// WithLogger sets the target's logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Target) { t.logger = l }
}

// Target is an action.Target backed by a Lua table.
//
// gopher-lua states are single-threaded; every call into the state holds
// the target's mutex.
type Target struct {
	mu      sync.Mutex
	L       *lua.LState
	table   *lua.LTable
	ops     []action.Operation
	timeout time.Duration
	closed  bool
	logger  *slog.Logger
}

// New runs src and builds a target from the table it returns.
func New(src string, opts ...Option) (*Target, error) {
	return load(func(L *lua.LState) (*lua.LFunction, error) {
		return L.LoadString(src)
	}, opts)
}

// LoadFile runs the script at path and builds a target from the table it
// returns.
func LoadFile(path string, opts ...Option) (*Target, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("lua target: %w", err)
	}
	return load(func(L *lua.LState) (*lua.LFunction, error) {
		return L.LoadFile(path)
	}, opts)
}

func load(compile func(*lua.LState) (*lua.LFunction, error), opts []Option) (*Target, error) {
	t := &Target{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = logging.Logger()
	}
	t.logger = t.logger.With("component", "luatarget")

	t.L = newSandboxedState()
	chunk, err := compile(t.L)
	if err != nil {
		t.L.Close()
		return nil, fmt.Errorf("lua target: %w", err)
	}

	t.L.Push(chunk)
	if err := t.L.PCall(0, 1, nil); err != nil {
		t.L.Close()
		return nil, fmt.Errorf("lua target: %w", err)
	}
	ret := t.L.Get(-1)
	t.L.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		t.L.Close()
		return nil, fmt.Errorf("%w (got %s)", ErrNotTable, ret.Type())
	}
	t.table = tbl
	t.ops = t.collect()
	t.logger.Debug("lua target loaded", "operations", len(t.ops))
	return t, nil
}

// collect builds operations from the table's function fields, sorted by
// name.
func (t *Target) collect() []action.Operation {
	var ops []action.Operation
	t.table.ForEach(func(k, v lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok {
			return
		}
		fn, ok := v.(*lua.LFunction)
		if !ok {
			return
		}
		params, method := paramNames(fn)
		ops = append(ops, action.Operation{
			Name:   string(name),
			Params: params,
			Invoke: t.invoker(fn, method),
		})
	})
	slices.SortFunc(ops, func(a, b action.Operation) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return ops
}

// paramNames returns the declared parameter names of a Lua function. A
// leading self parameter is reported as method=true and left out.
func paramNames(fn *lua.LFunction) (params []string, method bool) {
	if fn.IsG || fn.Proto == nil {
		return nil, false
	}
	n := int(fn.Proto.NumParameters)
	for i := 0; i < n && i < len(fn.Proto.DbgLocals); i++ {
		params = append(params, fn.Proto.DbgLocals[i].Name)
	}
	if len(params) > 0 && params[0] == "self" {
		return params[1:], true
	}
	return params, false
}

func (t *Target) invoker(fn *lua.LFunction, method bool) func([]string) error {
	return func(args []string) error {
		t.mu.Lock()
		defer t.mu.Unlock()

		if t.closed {
			return ErrClosed
		}

		if t.timeout > 0 {
			ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
			defer cancel()
			t.L.SetContext(ctx)
			defer t.L.RemoveContext()
		}

		top := t.L.GetTop()
		t.L.Push(fn)
		n := len(args)
		if method {
			t.L.Push(t.table)
			n++
		}
		for _, a := range args {
			t.L.Push(toValue(a))
		}
		if err := t.L.PCall(n, lua.MultRet, nil); err != nil {
			t.L.SetTop(top)
			return err
		}
		err := resultError(t.L, top)
		t.L.SetTop(top)
		return err
	}
}

// resultError reports the Lua convention `return false, "message"` or
// `return nil, "message"` as an error.
func resultError(L *lua.LState, top int) error {
	if L.GetTop()-top < 2 {
		return nil
	}
	first, second := L.Get(top+1), L.Get(top+2)
	if lua.LVAsBool(first) || second == lua.LNil {
		return nil
	}
	return errors.New(second.String())
}

// toValue converts an argument to a Lua number when it parses as one.
func toValue(s string) lua.LValue {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return lua.LNumber(f)
	}
	return lua.LString(s)
}

// Operations implements action.Target.
func (t *Target) Operations() []action.Operation {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.ops)
}

// Field returns a field of the target table, converted to a string.
// Scripts use fields to expose state to the host.
func (t *Target) Field(name string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return "", false
	}
	v := t.L.GetField(t.table, name)
	if v == lua.LNil {
		return "", false
	}
	return v.String(), true
}

// Close releases the Lua state.
func (t *Target) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.L.Close()
	t.closed = true
	return nil
}
