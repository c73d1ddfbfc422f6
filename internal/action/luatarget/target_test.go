package luatarget

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/action"
)

const widgetScript = `
local t = { calls = "" }

function t.destroy()
	t.calls = t.calls .. "destroy;"
end

function t.moveBy(dx, dy)
	t.calls = t.calls .. "moveBy " .. (dx + dy) .. ";"
end

function t:rename(name)
	self.name = name
end

function t.fail()
	error("boom")
end

function t.refuse()
	return false, "not now"
end

function t.spin()
	while true do end
end

t.size = 3
return t
`

func newWidget(t *testing.T, opts ...Option) *Target {
	t.Helper()
	w, err := New(widgetScript, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestOperationsFromTable(t *testing.T) {
	w := newWidget(t)

	var names []string
	params := map[string][]string{}
	for _, op := range w.Operations() {
		names = append(names, op.Name)
		params[op.Name] = op.Params
	}
	assert.Equal(t, []string{"destroy", "fail", "moveBy", "refuse", "rename", "spin"}, names)
	assert.Equal(t, []string{"dx", "dy"}, params["moveBy"])
	assert.Equal(t, []string{"name"}, params["rename"], "self is not a parameter")
	assert.Empty(t, params["destroy"])
}

func TestInvoke(t *testing.T) {
	w := newWidget(t)

	require.NoError(t, action.Call(w, "destroy"))
	require.NoError(t, action.Call(w, "moveBy(1, 2)"))
	calls, ok := w.Field("calls")
	require.True(t, ok)
	assert.Equal(t, "destroy;moveBy 3;", calls)

	require.NoError(t, action.Call(w, `rename("bob")`))
	name, _ := w.Field("name")
	assert.Equal(t, "bob", name)

	size, _ := w.Field("size")
	assert.Equal(t, "3", size)
	_, ok = w.Field("missing")
	assert.False(t, ok)
}

func TestInvokeFailures(t *testing.T) {
	w := newWidget(t)

	err := action.Call(w, "fail")
	require.Error(t, err)
	assert.True(t, errors.Is(err, action.ErrInvocation))
	assert.Contains(t, err.Error(), "boom")

	err = action.Call(w, "refuse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not now")

	// The state stays usable after a failed call.
	require.NoError(t, action.Call(w, "destroy"))
}

func TestInvokeTimeout(t *testing.T) {
	w := newWidget(t, WithTimeout(50*time.Millisecond))

	start := time.Now()
	err := action.Call(w, "spin")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestMatchAgainstLuaTarget(t *testing.T) {
	w := newWidget(t)

	cands := action.NewMatcher().MatchActions([]string{"move"}, w)
	require.NotEmpty(t, cands)
	assert.Equal(t, "moveBy(dx, dy)", cands[0].Label)
	assert.True(t, cands[0].NeedsParams())

	bound, err := cands[0].Bind("4", "5")
	require.NoError(t, err)
	require.NoError(t, bound.Invoke())
	calls, _ := w.Field("calls")
	assert.Equal(t, "moveBy 9;", calls)
}

func TestSandbox(t *testing.T) {
	w, err := New(`
		local exposed = {}
		for _, name in ipairs({"io", "os", "debug", "package", "dofile", "loadfile", "load", "loadstring", "require"}) do
			if _G[name] ~= nil then
				table.insert(exposed, name)
			end
		end
		return { exposed = table.concat(exposed, ",") }
	`)
	require.NoError(t, err)
	defer w.Close()

	exposed, _ := w.Field("exposed")
	assert.Empty(t, exposed)
}

func TestLoadErrors(t *testing.T) {
	_, err := New("return 1")
	assert.ErrorIs(t, err, ErrNotTable)

	_, err = New("return {")
	assert.Error(t, err)

	_, err = New(`error("init failed")`)
	assert.Error(t, err)

	_, err = LoadFile("/nonexistent/target.lua")
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	w := newWidget(t)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	err := action.Call(w, "destroy")
	assert.ErrorIs(t, err, ErrClosed)
	_, ok := w.Field("calls")
	assert.False(t, ok)
}
