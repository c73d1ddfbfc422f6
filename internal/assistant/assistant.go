// Package assistant turns recognition results into action menus and
// carries out the user's choice.
//
// For each stroke group the assistant finds the object under the ink,
// matches the group's text candidates against that object's operations
// and offers the matches as a menu. Choosing an item invokes the
// operation, or opens a parameter form that later groups fill in.
package assistant

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dshills/inkwell/internal/action"
	"github.com/dshills/inkwell/internal/ink"
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/recognize"
)

// Labels of the parameter form's own entries.
const (
	RunLabel    = "Run"
	CancelLabel = "Cancel"
)

// Config configures an Assistant.
type Config struct {
	Deletion DeletionPolicy
	Erase    EraseTiming
}

// DefaultConfig returns the default assistant configuration.
func DefaultConfig() Config {
	return Config{Deletion: DeleteOnSuccess, Erase: EraseBeforeMenu}
}

// Prompt is the menu offered for one stroke group.
type Prompt struct {
	Group  ink.Group
	Bounds ink.Rect
	Target action.Target
	Menu   action.Menu

	// Capture is set when the prompt fills the pending parameter form
	// instead of offering operations.
	Capture *action.ParameterCapture
}

// Outcome describes what choosing a menu item did.
type Outcome struct {
	// Invoked is set when an operation ran successfully.
	Invoked bool
	// Capture is the parameter form opened by the choice, if any.
	Capture *action.ParameterCapture
	// Deleted are the strokes removed under the deletion policy.
	Deleted []*ink.Stroke
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithMatcher sets the action matcher.
func WithMatcher(m *action.Matcher) Option {
	return func(a *Assistant) { a.matcher = m }
}

// WithNotifier sets where failure notices go.
func WithNotifier(n Notifier) Option {
	return func(a *Assistant) { a.notifier = n }
}

// WithConfig sets the policies.
func WithConfig(cfg Config) Option {
	return func(a *Assistant) { a.config = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assistant) { a.logger = l }
}

// Assistant builds menus from recognition results. It is safe for
// concurrent use.
type Assistant struct {
	world    World
	ink      Ink
	matcher  *action.Matcher
	notifier Notifier
	config   Config
	logger   *slog.Logger

	mu      sync.Mutex
	capture *action.ParameterCapture
}

// New creates an assistant over world that deletes strokes from store.
func New(world World, store Ink, opts ...Option) *Assistant {
	a := &Assistant{
		world:  world,
		ink:    store,
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.matcher == nil {
		a.matcher = action.NewMatcher()
	}
	if a.notifier == nil {
		a.notifier = NotifierFunc(func(string) {})
	}
	if a.logger == nil {
		a.logger = logging.Logger()
	}
	a.logger = a.logger.With("component", "assistant")
	return a
}

// Config returns the assistant's policies.
func (a *Assistant) Config() Config {
	return a.config
}

// Pending returns the open parameter form, or nil.
func (a *Assistant) Pending() *action.ParameterCapture {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending()
}

func (a *Assistant) pending() *action.ParameterCapture {
	if a.capture != nil && a.capture.State() != action.CapturePending {
		a.capture = nil
	}
	return a.capture
}

// Respond builds one prompt per result, in result order. Results that
// failed or whose strokes are all marked for erasing get no prompt; a
// failure is reported to the notifier. Menus with no items are dropped.
func (a *Assistant) Respond(results []recognize.Result) []*Prompt {
	var prompts []*Prompt
	for _, r := range results {
		if r.Err != nil {
			a.notifier.Inform(fmt.Sprintf("Recognition failed: %v", r.Err))
			continue
		}
		if erased(r.Group) {
			continue
		}
		p := a.prompt(r)
		if p == nil || p.Menu.Empty() {
			continue
		}
		prompts = append(prompts, p)
	}

	if a.config.Erase == EraseAfterMenu && a.ink != nil {
		if n := len(a.ink.FlushErased()); n > 0 {
			a.logger.Debug("erased after menu", "strokes", n)
		}
	}
	return prompts
}

func erased(g ink.Group) bool {
	for _, s := range g.Strokes {
		if !s.Selected() {
			return false
		}
	}
	return len(g.Strokes) > 0
}

func (a *Assistant) prompt(r recognize.Result) *Prompt {
	if len(r.Group.Strokes) == 0 {
		return nil
	}
	bounds := r.Group.Bounds()
	p := &Prompt{Group: r.Group, Bounds: bounds}

	a.mu.Lock()
	pc := a.pending()
	a.mu.Unlock()
	if pc != nil {
		p.Capture = pc
		p.Menu = a.captureMenu(pc, r.TextCandidates)
		return p
	}

	target := a.world.TargetAt(r.Group.Strokes[0].Bounds().TopLeft())
	if target == nil {
		return nil
	}
	if bg, ok := target.(Background); ok {
		target = ConstructorTarget{Base: bg, Group: r.Group}
	}
	p.Target = target

	cands := a.matcher.MatchActions(r.TextCandidates, target)
	title := ""
	if len(r.TextCandidates) > 0 {
		title = r.TextCandidates[0]
	}
	p.Menu = action.NewMenu(title, cands)
	a.logger.Debug("prompt", "texts", len(r.TextCandidates), "items", len(p.Menu.Items))
	return p
}

// captureMenu offers each text as the next parameter value, then the
// form's Run and Cancel entries.
func (a *Assistant) captureMenu(pc *action.ParameterCapture, texts []string) action.Menu {
	var cands []action.Candidate
	seen := make(map[string]bool)
	for _, text := range texts {
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		cands = append(cands, action.NewCandidate(action.Operation{
			Name: text,
			Invoke: func([]string) error {
				_, err := pc.Fill(text)
				return err
			},
		}))
	}
	cands = append(cands,
		action.NewCandidate(action.Operation{
			Name:   RunLabel,
			Invoke: func([]string) error { return pc.Run() },
		}),
		action.NewCandidate(action.Operation{
			Name: CancelLabel,
			Invoke: func([]string) error {
				pc.Cancel()
				return nil
			},
		}),
	)
	return action.NewMenu(pc.Title(), cands)
}

// Choose carries out item i of p's menu and applies the deletion policy
// to p's strokes. Invocation failures are reported to the notifier and
// returned.
func (a *Assistant) Choose(p *Prompt, i int) (Outcome, error) {
	c, err := p.Menu.Select(i)
	if err != nil {
		return Outcome{}, err
	}

	var out Outcome
	switch {
	case c.NeedsParams():
		pc, perr := action.NewParameterCapture(c)
		if perr != nil {
			err = perr
			break
		}
		a.mu.Lock()
		if a.capture != nil {
			a.capture.Cancel()
		}
		a.capture = pc
		a.mu.Unlock()
		out.Capture = pc
		a.logger.Debug("parameter form opened", "operation", c.Name)
	default:
		err = c.Invoke()
		out.Invoked = err == nil
	}

	if err != nil {
		a.logger.Warn("action failed", "label", c.Label, "error", err)
		a.notifier.Inform(fmt.Sprintf("Could not run %s: %v", c.Label, err))
	}
	if a.config.Deletion.deletes(err == nil) && a.ink != nil {
		out.Deleted = a.ink.DeleteStrokes(p.Group.Strokes)
	}
	return out, err
}
