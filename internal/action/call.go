package action

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseCall parses a constrained call expression:
//
//	name
//	name()
//	name(arg, "quoted, arg", 3)
//
// Arguments are bare tokens or double-quoted Go strings. Nothing is
// evaluated.
func ParseCall(expr string) (name string, args []string, err error) {
	s := strings.TrimSpace(expr)
	open := strings.IndexByte(s, '(')
	if open < 0 {
		if !isIdent(s) {
			return "", nil, fmt.Errorf("%w: %q", ErrSyntax, expr)
		}
		return s, nil, nil
	}

	name = strings.TrimSpace(s[:open])
	if !isIdent(name) || !strings.HasSuffix(s, ")") {
		return "", nil, fmt.Errorf("%w: %q", ErrSyntax, expr)
	}
	args, err = splitArgs(s[open+1 : len(s)-1])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %q: %v", ErrSyntax, expr, err)
	}
	return name, args, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func splitArgs(body string) ([]string, error) {
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}
	var args []string
	rest := body
	for {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		var arg string
		if strings.HasPrefix(rest, `"`) {
			end := closingQuote(rest)
			if end < 0 {
				return nil, fmt.Errorf("unterminated string")
			}
			v, err := strconv.Unquote(rest[:end+1])
			if err != nil {
				return nil, err
			}
			arg = v
			rest = strings.TrimLeftFunc(rest[end+1:], unicode.IsSpace)
		} else {
			i := strings.IndexAny(rest, ",()\"")
			if i < 0 {
				i = len(rest)
			} else if rest[i] != ',' {
				return nil, fmt.Errorf("unexpected %q", rest[i])
			}
			arg = strings.TrimSpace(rest[:i])
			if arg == "" {
				return nil, fmt.Errorf("empty argument")
			}
			rest = rest[i:]
		}
		args = append(args, arg)
		if rest == "" {
			return args, nil
		}
		if rest[0] != ',' {
			return nil, fmt.Errorf("expected ',' before %q", rest)
		}
		rest = rest[1:]
	}
}

// closingQuote returns the index of the quote ending the string that
// starts at s[0].
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// Call parses expr and invokes the matching operation on target.
// Operation failures are returned as *InvocationError.
func Call(target Target, expr string) error {
	name, args, err := ParseCall(expr)
	if err != nil {
		return err
	}
	op, ok := find(target, name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	if len(args) != len(op.Params) {
		return fmt.Errorf("%w: %s takes %d, got %d", ErrArity, op.Name, len(op.Params), len(args))
	}
	return invoke(op.Name, op.Invoke, args)
}

// invoke calls fn, turning errors and panics into *InvocationError.
func invoke(name string, fn func([]string) error, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InvocationError{Op: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := fn(args); err != nil {
		var ie *InvocationError
		if errors.As(err, &ie) {
			return err
		}
		return &InvocationError{Op: name, Err: err}
	}
	return nil
}
