package action

import (
	"strconv"
	"strings"
)

// MoveStep is the offset applied by the arrow-like shortcuts.
const MoveStep = 10

type symbol struct {
	op     string
	dx, dy int
	move   bool
}

// symbols maps single-character text to a bound operation. Offsets are
// in canvas coordinates, y grows downward.
var symbols = map[string]symbol{
	"x":  {op: "destroy"},
	"X":  {op: "destroy"},
	">":  {op: "moveBy", dx: MoveStep, move: true},
	"<":  {op: "moveBy", dx: -MoveStep, move: true},
	"^":  {op: "moveBy", dy: -MoveStep, move: true},
	"/":  {op: "moveBy", dx: MoveStep, dy: -MoveStep, move: true},
	"\\": {op: "moveBy", dx: MoveStep, dy: MoveStep, move: true},
}

// symbolCandidate returns the shortcut for text when target has the
// operation with a matching parameter count.
func symbolCandidate(text string, target Target) (Candidate, bool) {
	sym, ok := symbols[text]
	if !ok {
		return Candidate{}, false
	}
	var args []string
	if sym.move {
		args = []string{strconv.Itoa(sym.dx), strconv.Itoa(sym.dy)}
	}
	op, ok := find(target, sym.op)
	if !ok || len(op.Params) != len(args) {
		return Candidate{}, false
	}

	c := operationCandidate(op, text)
	c.Kind = KindSymbol
	if len(args) > 0 {
		c.Label = op.Name + "(" + strings.Join(args, ", ") + ")"
		c, _ = c.Bind(args...)
	}
	return c, true
}
