package app

import (
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkwell/internal/action"
	"github.com/dshills/inkwell/internal/assistant"
	"github.com/dshills/inkwell/internal/ink"
)

func invoke(t *testing.T, target action.Target, name string, args ...string) error {
	t.Helper()
	for _, op := range target.Operations() {
		if op.Name == name {
			return op.Invoke(args)
		}
	}
	t.Fatalf("no operation %q", name)
	return nil
}

func TestSceneTargetAt(t *testing.T) {
	s := NewScene(400, 300)
	bottom := s.Add(assistant.KindRectangle, ink.Rect{X: 10, Y: 10, Width: 100, Height: 100})
	top := s.Add(assistant.KindCircle, ink.Rect{X: 50, Y: 50, Width: 100, Height: 100})

	assert.Same(t, top, s.TargetAt(gg.Pt(60, 60)))
	assert.Same(t, bottom, s.TargetAt(gg.Pt(20, 20)))
	assert.Same(t, s, s.TargetAt(gg.Pt(300, 250)))

	var _ assistant.Background = s
}

func TestSceneAllowsDrawingOver(t *testing.T) {
	s := NewScene(400, 300)
	assert.True(t, s.AllowsDrawingOver(gg.Pt(0, 0)))
	assert.True(t, s.AllowsDrawingOver(gg.Pt(399, 299)))
	assert.False(t, s.AllowsDrawingOver(gg.Pt(-1, 10)))
	assert.False(t, s.AllowsDrawingOver(gg.Pt(10, 301)))

	s.Resize(800, 600)
	assert.True(t, s.AllowsDrawingOver(gg.Pt(700, 500)))
}

func TestSceneConstruct(t *testing.T) {
	s := NewScene(400, 300)
	dot := ink.Group{Strokes: []*ink.Stroke{ink.StrokeFromXY(ink.DefaultStyle, 20, 30)}}

	require.NoError(t, s.Construct(assistant.KindRectangle, dot))
	require.NoError(t, s.Construct(assistant.KindString, dot))

	red := ink.StrokeFromXY(ink.Style{ColorName: "red", WidthPx: 2}, 100, 100, 150, 120)
	require.NoError(t, s.Construct(assistant.KindShape, ink.Group{Strokes: []*ink.Stroke{red}}))

	objs := s.Objects()
	require.Len(t, objs, 3)
	assert.Equal(t, ink.Rect{X: 20, Y: 30, Width: minObjectWidth, Height: minObjectHeight}, objs[0].Bounds)
	assert.Equal(t, "text", objs[1].Text)
	assert.Equal(t, assistant.KindShape, objs[2].Kind)
	assert.Equal(t, "red", objs[2].Color)
	assert.Equal(t, []*ink.Stroke{red}, objs[2].Strokes)
	assert.NotEqual(t, objs[0].ID, objs[1].ID)

	assert.Error(t, s.Construct("hexagon", dot))
}

func TestObjectOperations(t *testing.T) {
	s := NewScene(400, 300)
	o := s.Add(assistant.KindRectangle, ink.Rect{X: 10, Y: 10, Width: 40, Height: 40})

	require.NoError(t, invoke(t, o, "moveBy", "10", "-5"))
	require.NoError(t, invoke(t, o, "setColor", "blue"))
	require.NoError(t, invoke(t, o, "setText", "hello"))
	require.NoError(t, invoke(t, o, "tickmark"))

	got := s.Objects()[0]
	assert.Equal(t, 20.0, got.Bounds.X)
	assert.Equal(t, 5.0, got.Bounds.Y)
	assert.Equal(t, "blue", got.Color)
	assert.Equal(t, "hello", got.Text)
	assert.True(t, got.Ticked)

	require.NoError(t, invoke(t, o, "setPosition", "100", "120"))
	got = s.Objects()[0]
	assert.Equal(t, 100.0, got.Bounds.X)
	assert.Equal(t, 120.0, got.Bounds.Y)

	assert.Error(t, invoke(t, o, "setPosition", "left", "0"))

	require.NoError(t, invoke(t, o, "clone"))
	require.Equal(t, 2, s.Len())
	c := s.Objects()[1]
	assert.Equal(t, 100.0+action.MoveStep, c.Bounds.X)
	assert.Equal(t, "hello", c.Text)

	require.NoError(t, invoke(t, o, "destroy"))
	assert.Equal(t, 1, s.Len())
	assert.Error(t, invoke(t, o, "destroy"), "already removed")
}

func TestSceneClear(t *testing.T) {
	s := NewScene(400, 300)
	s.Add(assistant.KindRectangle, ink.Rect{Width: 10, Height: 10})
	s.Add(assistant.KindCircle, ink.Rect{Width: 10, Height: 10})

	require.NoError(t, invoke(t, s, "clear"))
	assert.Zero(t, s.Len())
}

func TestSceneSymbolShortcuts(t *testing.T) {
	s := NewScene(400, 300)
	o := s.Add(assistant.KindRectangle, ink.Rect{X: 50, Y: 50, Width: 40, Height: 40})

	m := action.NewMatcher()
	cands := m.MatchActions([]string{">"}, o)
	require.NotEmpty(t, cands)
	assert.Equal(t, action.KindSymbol, cands[0].Kind)
	require.NoError(t, cands[0].Invoke())
	assert.Equal(t, 50.0+action.MoveStep, s.Objects()[0].Bounds.X)
}
