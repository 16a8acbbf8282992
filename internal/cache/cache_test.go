package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveFetchesOnce(t *testing.T) {
	calls := 0
	c := New("issue", func(ctx context.Context, id int64) (string, error) {
		calls++
		return fmt.Sprintf("issue-%d", id), nil
	})

	for i := 0; i < 2; i++ {
		v, err := c.Resolve(context.Background(), 7)
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if v != "issue-7" {
			t.Errorf("expected issue-7, got %q", v)
		}
	}
	if calls != 1 {
		t.Errorf("expected exactly one upstream fetch, got %d", calls)
	}
}

func TestResolveNotFoundIsFatal(t *testing.T) {
	errNotFound := errors.New("not found")
	c := New("user", func(ctx context.Context, id string) (string, error) {
		return "", errNotFound
	})

	_, err := c.Resolve(context.Background(), "abc")
	if !errors.Is(err, errNotFound) {
		t.Fatalf("expected wrapped not-found error, got %v", err)
	}
	if _, ok := c.Lookup("abc"); ok {
		t.Error("failed fetch must not populate the cache")
	}
}

func TestSeedIsWriteOnce(t *testing.T) {
	hookCalls := 0
	c := New("issue", func(ctx context.Context, id int) (string, error) {
		t.Fatalf("unexpected fetch for %d", id)
		return "", nil
	})
	c.OnInsert(func(items map[int]string) error {
		hookCalls++
		return nil
	})

	c.Seed(map[int]string{1: "first"})
	c.Seed(map[int]string{1: "second", 2: "other"})
	c.Seed(map[int]string{1: "third"})

	v, _ := c.Resolve(context.Background(), 1)
	if v != "first" {
		t.Errorf("expected first value to win, got %q", v)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
	if hookCalls != 2 {
		t.Errorf("expected hook on the two seeds that added entries, got %d", hookCalls)
	}
}

func TestJSONSnapshotHook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	c := New("user", func(ctx context.Context, id string) (map[string]string, error) {
		return map[string]string{"displayName": "User " + id}, nil
	})
	c.OnInsert(JSONSnapshot[string, map[string]string](path))

	if _, err := c.Resolve(context.Background(), "a"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if _, err := c.Resolve(context.Background(), "b"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	var got map[string]map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if len(got) != 2 || got["b"]["displayName"] != "User b" {
		t.Errorf("snapshot does not hold full cache contents: %v", got)
	}
}

func TestHookFailureDoesNotFailResolve(t *testing.T) {
	c := New("issue", func(ctx context.Context, id int) (int, error) { return id * 2, nil })
	c.OnInsert(func(items map[int]int) error { return errors.New("disk full") })

	v, err := c.Resolve(context.Background(), 4)
	if err != nil {
		t.Fatalf("hook failure must not surface, got %v", err)
	}
	if v != 8 {
		t.Errorf("expected 8, got %d", v)
	}
}
