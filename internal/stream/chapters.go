package stream

import (
	"errors"

	"github.com/quillhq/inkwell/internal/models"
)

// Default message when the server reports batch failure without details.
const batchFailedMessage = "Generation failed"

// ChapterBatchReconciler folds a chapter-batch generation stream into a
// [models.ChapterBatchResult].
//
// Chapters accumulate in append order from chapter_complete events. The done
// record is authoritative: when it carries a generated list, that list
// replaces the accumulated one rather than merging with it, and failed
// chapters are taken from the done record only.
type ChapterBatchReconciler struct {
	state       State
	generated   []models.GeneratedChapter
	result      *models.ChapterBatchResult
	errMessage  string
	lastMessage string
}

// NewChapterBatchReconciler creates a reconciler in the idle state.
func NewChapterBatchReconciler() *ChapterBatchReconciler {
	return &ChapterBatchReconciler{state: StateIdle}
}

// State returns the current lifecycle state.
func (r *ChapterBatchReconciler) State() State { return r.state }

// LastMessage returns the most recent progress message, for display only.
func (r *ChapterBatchReconciler) LastMessage() string { return r.lastMessage }

// Accumulated returns the chapters seen so far, for display while streaming.
func (r *ChapterBatchReconciler) Accumulated() []models.GeneratedChapter {
	return r.generated
}

// Apply folds one event into the reconciler.
func (r *ChapterBatchReconciler) Apply(ev Event) {
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
	case EventChapterComplete:
		r.generated = append(r.generated, models.GeneratedChapter{
			Chapter: ev.ChapterIndex,
			Title:   ev.Title,
		})
	case EventDone:
		if !ev.Succeeded() {
			r.fail(ev.Error)
			return
		}

		generated := r.generated
		if ev.Generated != nil {
			// authoritative override: the terminal list replaces
			// everything accumulated incrementally
			generated = ev.Generated
		}
		if generated == nil {
			generated = []models.GeneratedChapter{}
		}

		failed := ev.FailedChapters
		if failed == nil {
			failed = []int{}
		}

		r.result = &models.ChapterBatchResult{
			Generated:      generated,
			FailedChapters: failed,
		}
		r.state = StateDone
	case EventError:
		r.fail(ev.Error)
	default:
		// start, chapter_error, task_* and unknown types are display-only
	}
}

func (r *ChapterBatchReconciler) fail(message string) {
	if message == "" {
		message = batchFailedMessage
	}
	r.errMessage = message
	r.state = StateErrored
}

// Result returns the reconciled batch, or the session's terminal error.
func (r *ChapterBatchReconciler) Result() (*models.ChapterBatchResult, error) {
	switch r.state {
	case StateDone:
		return r.result, nil
	case StateErrored:
		return nil, errors.New(r.errMessage)
	default:
		return nil, ErrNoResult
	}
}
