package collection

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMovePreservesRelativeOrder(t *testing.T) {
	r := NewReorderer([]string{"a", "b", "c", "d"})

	if err := r.Move(0, 2); err != nil {
		t.Fatalf("Move returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "c", "a", "d"}, r.Sequence()); diff != "" {
		t.Fatalf("forward move mismatch (-want +got):\n%s", diff)
	}

	if err := r.Move(3, 0); err != nil {
		t.Fatalf("Move returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"d", "b", "c", "a"}, r.Sequence()); diff != "" {
		t.Fatalf("backward move mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveOntoItselfNoOps(t *testing.T) {
	committed := 0
	r := NewReorderer([]string{"a", "b"}, WithCommit(func([]string) { committed++ }, 0))
	if err := r.Move(1, 1); err != nil {
		t.Fatalf("Move returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, r.Sequence()); diff != "" {
		t.Fatalf("no-op move changed the sequence (-want +got):\n%s", diff)
	}
	time.Sleep(10 * time.Millisecond)
	if committed != 0 {
		t.Fatalf("no-op move must schedule no commit, got %d", committed)
	}
}

func TestMoveBounds(t *testing.T) {
	r := NewReorderer([]string{"a", "b"})
	if err := r.Move(-1, 0); err == nil {
		t.Fatal("expected error for negative from")
	}
	if err := r.Move(0, 5); err == nil {
		t.Fatal("expected error for to out of range")
	}
	if diff := cmp.Diff([]string{"a", "b"}, r.Sequence()); diff != "" {
		t.Fatalf("failed move changed the sequence (-want +got):\n%s", diff)
	}
}

func TestDebouncedCommitCoalesces(t *testing.T) {
	var mu sync.Mutex
	var commits [][]string
	r := NewReorderer([]string{"a", "b", "c"}, WithCommit(func(ids []string) {
		mu.Lock()
		commits = append(commits, ids)
		mu.Unlock()
	}, 50*time.Millisecond))

	_ = r.Move(0, 1)
	_ = r.Move(1, 2)

	mu.Lock()
	early := len(commits)
	mu.Unlock()
	if early != 0 {
		t.Fatalf("commit fired before the debounce window, %d commits", early)
	}

	r.Flush()
	mu.Lock()
	defer mu.Unlock()
	if len(commits) != 1 {
		t.Fatalf("expected one coalesced commit, got %d", len(commits))
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, commits[0]); diff != "" {
		t.Fatalf("committed order mismatch (-want +got):\n%s", diff)
	}
}

func TestSetCancelsPendingCommit(t *testing.T) {
	var mu sync.Mutex
	commits := 0
	r := NewReorderer([]string{"a", "b"}, WithCommit(func([]string) {
		mu.Lock()
		commits++
		mu.Unlock()
	}, 20*time.Millisecond))

	_ = r.Move(0, 1)
	r.Set([]string{"x", "y"})

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if commits != 0 {
		t.Fatalf("Set must cancel the pending commit, got %d", commits)
	}
}
