package action

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setPositionCandidate(t *testing.T, calls *[]string, fail error) Candidate {
	t.Helper()
	tbl := NewTable(Operation{
		Name:   "setPosition",
		Params: []string{"x", "y"},
		Invoke: func(args []string) error {
			if fail != nil {
				return fail
			}
			*calls = append(*calls, args[0]+","+args[1])
			return nil
		},
	})
	cands := NewMatcher().MatchActions([]string{"position"}, tbl)
	require.NotEmpty(t, cands)
	require.True(t, cands[0].NeedsParams())
	return cands[0]
}

func TestParameterCaptureRun(t *testing.T) {
	var calls []string
	pc, err := NewParameterCapture(setPositionCandidate(t, &calls, nil))
	require.NoError(t, err)
	assert.Equal(t, "setPosition(x, y)", pc.Title())
	assert.False(t, pc.Ready())

	assert.ErrorIs(t, pc.Run(), ErrParamsRequired)

	i, err := pc.Fill("100")
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	require.NoError(t, pc.Set(1, "200"))
	_, err = pc.Fill("extra")
	assert.ErrorIs(t, err, ErrArity)

	fields := pc.Fields()
	assert.Equal(t, Field{Name: "x", Value: "100", Filled: true}, fields[0])
	assert.True(t, pc.Ready())

	require.NoError(t, pc.Run())
	assert.Equal(t, []string{"100,200"}, calls)
	assert.Equal(t, CaptureDone, pc.State())
	assert.Error(t, pc.Run())
}

func TestParameterCaptureCancel(t *testing.T) {
	var calls []string
	pc, err := NewParameterCapture(setPositionCandidate(t, &calls, nil))
	require.NoError(t, err)

	pc.Cancel()
	pc.Cancel()
	assert.Equal(t, CaptureCancelled, pc.State())
	assert.ErrorIs(t, pc.Run(), ErrCancelled)
	assert.Error(t, pc.Set(0, "1"))
	assert.Empty(t, calls)
}

func TestParameterCaptureFailureStaysPending(t *testing.T) {
	boom := errors.New("out of bounds")
	var calls []string
	pc, err := NewParameterCapture(setPositionCandidate(t, &calls, boom))
	require.NoError(t, err)
	require.NoError(t, pc.Set(0, "1"))
	require.NoError(t, pc.Set(1, "2"))

	err = pc.Run()
	assert.ErrorIs(t, err, ErrInvocation)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, CapturePending, pc.State())
}

func TestNewParameterCaptureRejectsPlainCandidate(t *testing.T) {
	tbl := NewTable(Operation{Name: "destroy", Invoke: func([]string) error { return nil }})
	c := NewMatcher().MatchActions([]string{"destroy"}, tbl)[0]
	_, err := NewParameterCapture(c)
	assert.Error(t, err)
}

func TestMenu(t *testing.T) {
	w := newWidget()
	cands := NewMatcher().MatchActions([]string{"move", "clone"}, w)
	menu := NewMenu("Actions", cands)

	assert.Equal(t, []string{"moveBy(dx, dy)", "move", "clone"}, menu.Labels())
	assert.True(t, menu.Items[0].NeedsParams)
	assert.True(t, menu.Items[1].Literal)
	assert.False(t, menu.Empty())

	c, err := menu.Select(2)
	require.NoError(t, err)
	require.NoError(t, c.Invoke())
	assert.Equal(t, []string{"clone"}, w.calls)

	_, err = menu.Select(3)
	assert.Error(t, err)
	assert.True(t, NewMenu("", nil).Empty())
}
