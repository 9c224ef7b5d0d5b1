package stream

import (
	"errors"
	"fmt"

	"github.com/quillhq/inkwell/internal/models"
)

// Default message when the server reports outline failure without details.
const outlineFailedMessage = "Outline generation failed"

// OutlineReconciler folds an outline generation stream into a
// [models.NovelOutline].
//
// The outline arrives whole on the done record; intermediate events only feed
// display state (last progress message, volume completion status).
type OutlineReconciler struct {
	state        State
	outline      *models.NovelOutline
	errMessage   string
	lastMessage  string
	volumeStatus string
}

// NewOutlineReconciler creates a reconciler in the idle state.
func NewOutlineReconciler() *OutlineReconciler {
	return &OutlineReconciler{state: StateIdle}
}

// State returns the current lifecycle state.
func (r *OutlineReconciler) State() State { return r.state }

// LastMessage returns the most recent progress message, for display only.
func (r *OutlineReconciler) LastMessage() string { return r.lastMessage }

// VolumeStatus returns a running "volume X/Y" status line, for display only.
func (r *OutlineReconciler) VolumeStatus() string { return r.volumeStatus }

// Apply folds one event into the reconciler.
func (r *OutlineReconciler) Apply(ev Event) {
	if r.state == StateDone || r.state == StateErrored {
		return
	}
	if r.state == StateIdle {
		r.state = StateStreaming
	}

	switch ev.Type {
	case EventHeartbeat:
		// keep-alive, never mutates accumulated state
	case EventProgress:
		r.lastMessage = ev.Message
	case EventVolumeComplete:
		r.volumeStatus = fmt.Sprintf("Volume %d/%d: %s", ev.VolumeIndex, ev.TotalVolumes, ev.VolumeTitle)
	case EventDone:
		if !ev.Succeeded() {
			r.fail(ev.Error)
			return
		}
		if ev.Outline == nil {
			r.state = StateErrored
			r.errMessage = "No outline received"
			return
		}
		r.outline = ev.Outline
		r.state = StateDone
	case EventError:
		r.fail(ev.Error)
	default:
		// start, master_outline, task_* and unknown types carry no outline state
	}
}

func (r *OutlineReconciler) fail(message string) {
	if message == "" {
		message = outlineFailedMessage
	}
	r.errMessage = message
	r.state = StateErrored
}

// Result returns the reconciled outline, or the session's terminal error.
//
// A session that never reached a terminal event reports [ErrNoResult]: the
// stream closed while still streaming, so no outline-specific terminal marker
// was ever seen.
func (r *OutlineReconciler) Result() (*models.NovelOutline, error) {
	switch r.state {
	case StateDone:
		return r.outline, nil
	case StateErrored:
		return nil, errors.New(r.errMessage)
	default:
		return nil, fmt.Errorf("%w: no outline received", ErrNoResult)
	}
}
