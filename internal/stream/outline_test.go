package stream

import (
	"errors"
	"testing"

	"github.com/quillhq/inkwell/internal/models"
)

func sampleOutline() *models.NovelOutline {
	return &models.NovelOutline{
		TotalChapters:   24,
		TargetWordCount: 120_000,
		MainGoal:        "Reunite the scattered fleet",
		Milestones:      []string{"First beacon lit", "The mutiny"},
		Volumes: []models.VolumeOutline{
			{
				Index:        1,
				Title:        "Embers",
				StartChapter: 1,
				EndChapter:   12,
				Chapters: []models.ChapterStub{
					{Chapter: 1, Title: "Ashfall"},
				},
			},
		},
	}
}

func TestOutlineReconciler(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	t.Run("Successful Stream", func(t *testing.T) {
		r := NewOutlineReconciler()

		r.Apply(Event{Type: EventStart})
		if r.State() != StateStreaming {
			t.Errorf("expected streaming state, got %s", r.State())
		}

		r.Apply(Event{Type: EventProgress, Message: "drafting volumes"})
		if r.LastMessage() != "drafting volumes" {
			t.Errorf("unexpected last message: %q", r.LastMessage())
		}

		r.Apply(Event{Type: EventVolumeComplete, VolumeIndex: 1, TotalVolumes: 2, VolumeTitle: "Embers"})
		if r.VolumeStatus() != "Volume 1/2: Embers" {
			t.Errorf("unexpected volume status: %q", r.VolumeStatus())
		}
		if r.State() != StateStreaming {
			t.Error("volume_complete must not terminate the session")
		}

		r.Apply(Event{Type: EventDone, Success: boolPtr(true), Outline: sampleOutline()})

		outline, err := r.Result()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if outline.TotalChapters != 24 {
			t.Errorf("unexpected outline: %+v", outline)
		}
	})

	t.Run("Done Without Outline", func(t *testing.T) {
		r := NewOutlineReconciler()
		r.Apply(Event{Type: EventDone, Success: boolPtr(true)})

		_, err := r.Result()
		if err == nil || err.Error() != "No outline received" {
			t.Errorf("expected 'No outline received', got %v", err)
		}
	})

	t.Run("Done Failure With Server Message", func(t *testing.T) {
		r := NewOutlineReconciler()
		r.Apply(Event{Type: EventDone, Success: boolPtr(false), Error: "model overloaded"})

		_, err := r.Result()
		if err == nil || err.Error() != "model overloaded" {
			t.Errorf("expected server message, got %v", err)
		}
	})

	t.Run("Done Failure Without Message Uses Default", func(t *testing.T) {
		r := NewOutlineReconciler()
		r.Apply(Event{Type: EventDone, Success: boolPtr(false)})

		_, err := r.Result()
		if err == nil || err.Error() != "Outline generation failed" {
			t.Errorf("expected default message, got %v", err)
		}
	})

	t.Run("Error Event", func(t *testing.T) {
		r := NewOutlineReconciler()
		r.Apply(Event{Type: EventProgress, Message: "starting"})
		r.Apply(Event{Type: EventError, Error: "quota exceeded"})

		_, err := r.Result()
		if err == nil || err.Error() != "quota exceeded" {
			t.Errorf("expected 'quota exceeded', got %v", err)
		}
	})

	t.Run("No Terminal Event", func(t *testing.T) {
		r := NewOutlineReconciler()
		r.Apply(Event{Type: EventProgress, Message: "still going"})

		_, err := r.Result()
		if !errors.Is(err, ErrNoResult) {
			t.Errorf("expected ErrNoResult, got %v", err)
		}
	})

	t.Run("Heartbeat Neutrality", func(t *testing.T) {
		withBeats := NewOutlineReconciler()
		withBeats.Apply(Event{Type: EventHeartbeat})
		withBeats.Apply(Event{Type: EventProgress, Message: "m"})
		withBeats.Apply(Event{Type: EventHeartbeat})
		withBeats.Apply(Event{Type: EventDone, Success: boolPtr(true), Outline: sampleOutline()})
		withBeats.Apply(Event{Type: EventHeartbeat})

		without := NewOutlineReconciler()
		without.Apply(Event{Type: EventProgress, Message: "m"})
		without.Apply(Event{Type: EventDone, Success: boolPtr(true), Outline: sampleOutline()})

		a, errA := withBeats.Result()
		b, errB := without.Result()
		if errA != nil || errB != nil {
			t.Fatalf("unexpected errors: %v / %v", errA, errB)
		}
		if a.TotalChapters != b.TotalChapters || len(a.Volumes) != len(b.Volumes) {
			t.Error("heartbeats changed the reconciled result")
		}
	})

	t.Run("Events After Terminal Ignored", func(t *testing.T) {
		r := NewOutlineReconciler()
		r.Apply(Event{Type: EventError, Error: "first"})
		r.Apply(Event{Type: EventDone, Success: boolPtr(true), Outline: sampleOutline()})

		_, err := r.Result()
		if err == nil || err.Error() != "first" {
			t.Errorf("terminal state must be sticky, got %v", err)
		}
	})

	t.Run("Unknown Type Is Noop", func(t *testing.T) {
		r := NewOutlineReconciler()
		r.Apply(Event{Type: EventType("quality_check")})
		if r.State() != StateStreaming {
			t.Errorf("unknown event should only start streaming, got %s", r.State())
		}
	})
}
