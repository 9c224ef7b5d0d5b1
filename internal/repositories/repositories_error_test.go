package repositories

import (
	"testing"

	"github.com/quillhq/inkwell/internal/models"
)

func TestProjectRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewProjectRepository(db)
			project := models.NewPersistedProject(0, "", models.Project{Title: "No Remote"})

			if err := repo.Create(project); err == nil {
				t.Fatal("expected validation error for missing remote ID")
			}
		})

		t.Run("DuplicateRemoteID", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewProjectRepository(db)

			if err := repo.Create(sampleProject("proj_dup")); err != nil {
				t.Fatalf("failed to create first project: %v", err)
			}

			if err := repo.Create(sampleProject("proj_dup")); err == nil {
				t.Fatal("expected error when creating project with duplicate remote ID")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewProjectRepository(db)

			if _, err := repo.Get("nonexistent-id"); err == nil {
				t.Fatal("expected error when getting nonexistent project")
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewProjectRepository(db)
			project := sampleProject("proj_1")
			project.SetID("nonexistent-id")

			if err := repo.Update(project); err == nil {
				t.Fatal("expected error when updating nonexistent project")
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewProjectRepository(db)

			if err := repo.Delete("nonexistent-id"); err == nil {
				t.Fatal("expected error when deleting nonexistent project")
			}
		})

		t.Run("AlreadyDeleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewProjectRepository(db)
			project := sampleProject("proj_1")

			if err := repo.Create(project); err != nil {
				t.Fatalf("failed to create project: %v", err)
			}

			if err := repo.Delete(project.ID()); err != nil {
				t.Fatalf("failed to delete project: %v", err)
			}

			if err := repo.Delete(project.ID()); err == nil {
				t.Fatal("expected error when deleting already deleted project")
			}
		})
	})
}

func TestChapterRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewChapterRepository(db)
			chapter := models.NewPersistedChapter(0, "", models.GeneratedChapter{Chapter: 1, Title: "Orphan"})

			if err := repo.Create(chapter); err == nil {
				t.Fatal("expected validation error for missing project ID")
			}
		})

		t.Run("DuplicateIndex", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewChapterRepository(db)
			chapter := models.GeneratedChapter{Chapter: 1, Title: "First"}

			if err := repo.Create(models.NewPersistedChapter(0, "proj_1", chapter)); err != nil {
				t.Fatalf("failed to create chapter: %v", err)
			}

			if err := repo.Create(models.NewPersistedChapter(0, "proj_1", chapter)); err == nil {
				t.Fatal("expected error when caching duplicate chapter index")
			}
		})
	})

	t.Run("GetByIndex", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewChapterRepository(db)

			if _, err := repo.GetByIndex("proj_1", 99); err == nil {
				t.Fatal("expected error when getting uncached chapter index")
			}
		})
	})
}

func TestGenerationRunRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewGenerationRunRepository(db)
			run := models.NewGenerationRun(0, "proj_1", models.RunKind("bogus"), 1)

			if err := repo.Create(run); err == nil {
				t.Fatal("expected validation error for invalid run kind")
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewGenerationRunRepository(db)
			run := models.NewGenerationRun(0, "proj_1", models.RunOutline, 1)
			run.SetID("nonexistent-id")

			if err := repo.Update(run); err == nil {
				t.Fatal("expected error when updating nonexistent run")
			}
		})
	})
}

func TestChapterCacheAdapterErrors(t *testing.T) {
	t.Run("InvalidChapter", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		cache := NewChapterCacheAdapter(NewChapterRepository(db))

		if err := cache.CacheChapter("proj_1", models.GeneratedChapter{Chapter: 0, Title: "Zeroth"}); err == nil {
			t.Fatal("expected error for non-positive chapter index")
		}
	})
}
