package assistant

import "fmt"

// DeletionPolicy decides whether a group's strokes are deleted after an
// action is chosen from its menu.
type DeletionPolicy string

const (
	// DeleteOnSuccess deletes the strokes only when the action succeeded
	// or opened a parameter form.
	DeleteOnSuccess DeletionPolicy = "on-success"
	// DeleteAlways deletes the strokes even when the action failed.
	DeleteAlways DeletionPolicy = "always"
	// DeleteNever leaves the strokes for the user to erase.
	DeleteNever DeletionPolicy = "never"
)

// ParseDeletionPolicy parses a policy name. The empty string selects
// DeleteOnSuccess.
func ParseDeletionPolicy(s string) (DeletionPolicy, error) {
	switch p := DeletionPolicy(s); p {
	case "":
		return DeleteOnSuccess, nil
	case DeleteOnSuccess, DeleteAlways, DeleteNever:
		return p, nil
	}
	return "", fmt.Errorf("unknown deletion policy %q", s)
}

// deletes reports whether strokes go after an action with the given
// outcome.
func (p DeletionPolicy) deletes(succeeded bool) bool {
	switch p {
	case DeleteAlways:
		return true
	case DeleteNever:
		return false
	default:
		return succeeded
	}
}

// EraseTiming decides when strokes crossed by the eraser are removed.
type EraseTiming string

const (
	// EraseBeforeMenu removes erased strokes as soon as the eraser lifts,
	// so they never reach recognition.
	EraseBeforeMenu EraseTiming = "before-menu"
	// EraseAfterMenu keeps erased strokes selected until the assistant
	// has shown its menus.
	EraseAfterMenu EraseTiming = "after-menu"
)

// ParseEraseTiming parses a timing name. The empty string selects
// EraseBeforeMenu.
func ParseEraseTiming(s string) (EraseTiming, error) {
	switch t := EraseTiming(s); t {
	case "":
		return EraseBeforeMenu, nil
	case EraseBeforeMenu, EraseAfterMenu:
		return t, nil
	}
	return "", fmt.Errorf("unknown erase timing %q", s)
}

// Immediate reports whether the capture layer should delete erased
// strokes itself.
func (t EraseTiming) Immediate() bool {
	return t != EraseAfterMenu
}
