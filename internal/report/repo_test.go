package report

import (
	"context"
	"errors"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Job{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepo(db)
}

func TestUpdateJobStatusRunning_ClaimsQueuedOnce(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	j := &Job{ID: "01TESTJOB00000000000000000", SessionID: "s1", Status: JobQueued}
	if err := repo.CreateJob(ctx, j); err != nil {
		t.Fatal(err)
	}

	if err := repo.UpdateJobStatusRunning(ctx, j.ID); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	// a second delivery of the same job must not claim it again
	if err := repo.UpdateJobStatusRunning(ctx, j.ID); !errors.Is(err, ErrJobNotQueued) {
		t.Fatalf("second claim err = %v, want ErrJobNotQueued", err)
	}
	if err := repo.UpdateJobStatusRunning(ctx, "no-such-job"); !errors.Is(err, ErrJobNotQueued) {
		t.Fatalf("unknown job err = %v, want ErrJobNotQueued", err)
	}
}

func TestCreateJobOrGetExisting_DeduplicatesOnKey(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	key := "dedup-key"
	first := &Job{ID: "01TESTJOB0000000000000000A", SessionID: "s1", IdempotencyKey: &key, Status: JobQueued}
	got, created, err := repo.CreateJobOrGetExisting(ctx, first)
	if err != nil || !created {
		t.Fatalf("first insert: created=%v err=%v", created, err)
	}

	second := &Job{ID: "01TESTJOB0000000000000000B", SessionID: "s1", IdempotencyKey: &key, Status: JobQueued}
	got2, created, err := repo.CreateJobOrGetExisting(ctx, second)
	if err != nil || created {
		t.Fatalf("dedup hit: created=%v err=%v", created, err)
	}
	if got2.ID != got.ID {
		t.Errorf("dedup returned %q, want %q", got2.ID, got.ID)
	}
}
