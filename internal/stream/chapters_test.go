package stream

import (
	"errors"
	"reflect"
	"testing"

	"github.com/quillhq/inkwell/internal/models"
)

func TestChapterBatchReconciler(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	t.Run("Accumulates In Append Order", func(t *testing.T) {
		r := NewChapterBatchReconciler()
		r.Apply(Event{Type: EventChapterComplete, ChapterIndex: 1, Title: "A"})
		r.Apply(Event{Type: EventChapterComplete, ChapterIndex: 2, Title: "B"})

		got := r.Accumulated()
		want := []models.GeneratedChapter{{Chapter: 1, Title: "A"}, {Chapter: 2, Title: "B"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("Done Without Generated Keeps Accumulated", func(t *testing.T) {
		r := NewChapterBatchReconciler()
		r.Apply(Event{Type: EventChapterComplete, ChapterIndex: 1, Title: "A"})
		r.Apply(Event{Type: EventDone, Success: boolPtr(true)})

		result, err := r.Result()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Generated) != 1 || result.Generated[0].Title != "A" {
			t.Errorf("unexpected generated list: %+v", result.Generated)
		}
		if result.FailedChapters == nil || len(result.FailedChapters) != 0 {
			t.Errorf("expected empty failed chapters, got %+v", result.FailedChapters)
		}
	})

	t.Run("Authoritative Override", func(t *testing.T) {
		// chapters 1 and 2 stream in, but the terminal record lists only 2:
		// the final result must contain only chapter 2, not the union
		r := NewChapterBatchReconciler()
		r.Apply(Event{Type: EventChapterComplete, ChapterIndex: 1, Title: "A"})
		r.Apply(Event{Type: EventChapterComplete, ChapterIndex: 2, Title: "B"})
		r.Apply(Event{
			Type:      EventDone,
			Success:   boolPtr(true),
			Generated: []models.GeneratedChapter{{Chapter: 2, Title: "B"}},
		})

		result, err := r.Result()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []models.GeneratedChapter{{Chapter: 2, Title: "B"}}
		if !reflect.DeepEqual(result.Generated, want) {
			t.Errorf("expected override %v, got %v", want, result.Generated)
		}
	})

	t.Run("Failed Chapters Only From Done", func(t *testing.T) {
		r := NewChapterBatchReconciler()
		r.Apply(Event{Type: EventChapterError, ChapterIndex: 4})
		r.Apply(Event{
			Type:           EventDone,
			Success:        boolPtr(true),
			Generated:      []models.GeneratedChapter{{Chapter: 5, Title: "E"}},
			FailedChapters: []int{4},
		})

		result, err := r.Result()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(result.FailedChapters, []int{4}) {
			t.Errorf("expected failed chapters [4], got %v", result.FailedChapters)
		}
	})

	t.Run("Wire Scenario Resolves", func(t *testing.T) {
		r := NewChapterBatchReconciler()

		ev1, ok := DecodeLine(`data:{"type":"chapter_complete","chapterIndex":1,"title":"A"}`)
		if !ok {
			t.Fatal("failed to decode chapter_complete line")
		}
		r.Apply(ev1)

		ev2, ok := DecodeLine(`data:{"type":"done","success":true,"generated":[{"chapter":1,"title":"A"}],"failedChapters":[]}`)
		if !ok {
			t.Fatal("failed to decode done line")
		}
		r.Apply(ev2)

		result, err := r.Result()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := &models.ChapterBatchResult{
			Generated:      []models.GeneratedChapter{{Chapter: 1, Title: "A"}},
			FailedChapters: []int{},
		}
		if !reflect.DeepEqual(result, want) {
			t.Errorf("expected %+v, got %+v", want, result)
		}
	})

	t.Run("Error Event Surfaces Verbatim", func(t *testing.T) {
		r := NewChapterBatchReconciler()
		ev, ok := DecodeLine(`data:{"type":"error","error":"quota exceeded"}`)
		if !ok {
			t.Fatal("failed to decode error line")
		}
		r.Apply(ev)

		_, err := r.Result()
		if err == nil || err.Error() != "quota exceeded" {
			t.Errorf("expected 'quota exceeded', got %v", err)
		}
	})

	t.Run("Done Failure Default Message", func(t *testing.T) {
		r := NewChapterBatchReconciler()
		r.Apply(Event{Type: EventDone, Success: boolPtr(false)})

		_, err := r.Result()
		if err == nil || err.Error() != "Generation failed" {
			t.Errorf("expected default message, got %v", err)
		}
	})

	t.Run("No Terminal Event", func(t *testing.T) {
		r := NewChapterBatchReconciler()
		r.Apply(Event{Type: EventChapterComplete, ChapterIndex: 1, Title: "A"})

		_, err := r.Result()
		if !errors.Is(err, ErrNoResult) {
			t.Errorf("expected ErrNoResult, got %v", err)
		}
	})

	t.Run("Heartbeat Neutrality", func(t *testing.T) {
		withBeats := NewChapterBatchReconciler()
		without := NewChapterBatchReconciler()

		seq := []Event{
			{Type: EventChapterComplete, ChapterIndex: 1, Title: "A"},
			{Type: EventChapterComplete, ChapterIndex: 2, Title: "B"},
			{Type: EventDone, Success: boolPtr(true)},
		}

		for _, ev := range seq {
			withBeats.Apply(Event{Type: EventHeartbeat})
			withBeats.Apply(ev)
			without.Apply(ev)
		}
		withBeats.Apply(Event{Type: EventHeartbeat})

		a, errA := withBeats.Result()
		b, errB := without.Result()
		if errA != nil || errB != nil {
			t.Fatalf("unexpected errors: %v / %v", errA, errB)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("heartbeats changed the result: %+v != %+v", a, b)
		}
	})
}
