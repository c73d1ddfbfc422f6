// Package action maps recognized text to operations on a target.
//
// Matching is deliberately forgiving: recognized handwriting is compared
// against operation names and their camelCase parts by edit distance on
// equal-length prefixes, so "distroy" still finds destroy and "pos"
// finds setPosition.
package action

import (
	"log/slog"
	"unicode/utf8"

	"github.com/dshills/inkwell/internal/logging"
)

// DefaultMaxDistance is the exclusive edit-distance bound for a fuzzy
// match.
const DefaultMaxDistance = 2

// MinFuzzyLength is the shortest text, in grapheme clusters, that is
// fuzzy matched. Shorter text only gets symbolic shortcuts and the
// literal fallback.
const MinFuzzyLength = 2

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithMaxDistance sets the exclusive edit-distance bound.
func WithMaxDistance(d int) MatcherOption {
	return func(m *Matcher) {
		if d > 0 {
			m.maxDistance = d
		}
	}
}

// WithCacheSize bounds the name part cache.
func WithCacheSize(n int) MatcherOption {
	return func(m *Matcher) {
		m.cache = newPartCache(n)
	}
}

// WithSymbols enables or disables single-character shortcuts.
func WithSymbols(enabled bool) MatcherOption {
	return func(m *Matcher) {
		m.symbols = enabled
	}
}

// WithMatcherLogger sets the logger.
func WithMatcherLogger(l *slog.Logger) MatcherOption {
	return func(m *Matcher) {
		m.logger = l
	}
}

// Matcher proposes candidates for recognized text. It is safe for
// concurrent use.
type Matcher struct {
	maxDistance int
	symbols     bool
	cache       *partCache
	logger      *slog.Logger
}

// NewMatcher creates a matcher.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{
		maxDistance: DefaultMaxDistance,
		symbols:     true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cache == nil {
		m.cache = newPartCache(DefaultCacheSize)
	}
	if m.logger == nil {
		m.logger = logging.For("action")
	}
	return m
}

// MaxDistance returns the configured edit-distance bound.
func (m *Matcher) MaxDistance() int { return m.maxDistance }

// Accepts reports whether text fuzzy matches the operation name.
func (m *Matcher) Accepts(text, name string) bool {
	t := Normalize(text)
	if Length(text) < MinFuzzyLength || t == "" {
		return false
	}
	return m.accepts(t, name)
}

// accepts compares normalized text against name. An exact match always
// accepts. Otherwise names at least twice as long as the text are
// skipped, and the text is compared against the whole name and each
// part, truncated to the text's length.
func (m *Matcher) accepts(t, name string) bool {
	forms := m.cache.forms(name)
	if forms[0] == t {
		return true
	}
	tl := utf8.RuneCountInString(t)
	if utf8.RuneCountInString(forms[0]) >= 2*tl {
		return false
	}
	for _, f := range forms {
		if Distance(prefix(f, tl), t) < m.maxDistance {
			return true
		}
	}
	return false
}

// MatchActions returns candidates for texts against target, in
// discovery order: for each text, matching operations in target order,
// then shortcuts. Operations are de-duplicated by name, first wins. Each
// text is also offered as a literal unless an earlier candidate already
// has that name. target may be nil, which yields literals only.
func (m *Matcher) MatchActions(texts []string, target Target) []Candidate {
	var ops []Operation
	if target != nil {
		ops = target.Operations()
	}

	var out []Candidate
	seen := make(map[string]bool)
	represented := make(map[string]bool)
	add := func(key string, c Candidate) {
		if seen[key] {
			return
		}
		seen[key] = true
		represented[Normalize(c.Name)] = true
		out = append(out, c)
	}

	for _, text := range texts {
		t := Normalize(text)
		if t == "" {
			continue
		}

		if Length(text) >= MinFuzzyLength {
			for _, op := range ops {
				if m.accepts(t, op.Name) {
					add(op.Name, operationCandidate(op, text))
				}
			}
		} else if m.symbols && target != nil {
			if c, ok := symbolCandidate(text, target); ok {
				key := c.Name
				if len(c.args) > 0 {
					key = c.Label
				}
				add(key, c)
			}
		}

		if !represented[t] {
			represented[t] = true
			out = append(out, literalCandidate(text, target))
		}
	}

	m.logger.Debug("matched actions", "texts", len(texts), "candidates", len(out))
	return out
}
