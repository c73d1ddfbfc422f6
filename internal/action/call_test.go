package action

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseCall(t *testing.T) {
	tests := []struct {
		in       string
		wantName string
		wantArgs []string
		wantErr  bool
	}{
		{"destroy", "destroy", nil, false},
		{"  destroy  ", "destroy", nil, false},
		{"destroy()", "destroy", nil, false},
		{"moveBy(10, -10)", "moveBy", []string{"10", "-10"}, false},
		{"setText(\"hello, world\")", "setText", []string{"hello, world"}, false},
		{"say(\"a \\\"quote\\\"\", 2)", "say", []string{"a \"quote\"", "2"}, false},
		{"set_color (red)", "set_color", []string{"red"}, false},
		{"", "", nil, true},
		{"2fast", "", nil, true},
		{"move By", "", nil, true},
		{"moveBy(1, 2", "", nil, true},
		{"moveBy(1,,2)", "", nil, true},
		{"moveBy(1,)", "", nil, true},
		{"f(g(1))", "", nil, true},
		{"f(\"open)", "", nil, true},
		{"alert(1); destroy()", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, args, err := ParseCall(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrSyntax) {
					t.Errorf("ParseCall(%q) err = %v, want ErrSyntax", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCall(%q) unexpected error: %v", tt.in, err)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %q, want %q", args, tt.wantArgs)
			}
		})
	}
}

func TestTableCall(t *testing.T) {
	var got []string
	tbl := NewTable(
		Operation{Name: "moveBy", Params: []string{"dx", "dy"}, Invoke: func(args []string) error {
			got = args
			return nil
		}},
	)

	if err := tbl.Call("moveBy(1, 2)"); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Errorf("args = %q", got)
	}
	if err := tbl.Call("moveby(3, 4)"); err != nil {
		t.Errorf("case-insensitive Call: %v", err)
	}
	if err := tbl.Call("moveBy(1)"); !errors.Is(err, ErrArity) {
		t.Errorf("err = %v, want ErrArity", err)
	}
	if err := tbl.Call("jump"); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("err = %v, want ErrUnknownOperation", err)
	}
}

func TestTableRegister(t *testing.T) {
	tbl := NewTable()
	nop := func([]string) error { return nil }

	if err := tbl.Register(Operation{Name: "a", Invoke: nop}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := tbl.Register(Operation{Name: "a", Invoke: nop}); !errors.Is(err, ErrDuplicateOperation) {
		t.Errorf("err = %v, want ErrDuplicateOperation", err)
	}
	if err := tbl.Register(Operation{Name: "b"}); err == nil {
		t.Error("expected error for missing Invoke")
	}
	if err := tbl.Register(Operation{Invoke: nop}); err == nil {
		t.Error("expected error for empty name")
	}
	if tbl.Len() != 1 {
		t.Errorf("Len = %d, want 1", tbl.Len())
	}
	if _, ok := tbl.Lookup("a"); !ok {
		t.Error("Lookup(a) failed")
	}
}
