package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"problem-tracker/internal/model"
)

func newTestStores(t *testing.T) (*ProblemStore, *StatusStore) {
	t.Helper()
	dir := t.TempDir()
	problems := NewProblemStore(filepath.Join(dir, "problems.json"))
	statuses := NewStatusStore(filepath.Join(dir, "problemStatus.json"))
	if err := EnsureDocuments(problems, statuses); err != nil {
		t.Fatalf("EnsureDocuments failed: %v", err)
	}
	return problems, statuses
}

func texts[T fmt.Stringer](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}
	return out
}

func TestProblemStoreAppend(t *testing.T) {
	problems, _ := newTestStores(t)

	list, err := problems.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty document, got %d", len(list))
	}

	first := model.NewProblem("id", 1, "lcId", "1", "title", "Two Sum", "url", "https://leetcode.com/problems/two-sum/")
	partial := model.NewProblem("title", "No id")
	duplicate := model.NewProblem("id", 1, "title", "Same id")

	for _, p := range []model.Problem{first, partial, duplicate} {
		if err := problems.Append(p); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	list, err = problems.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got, want := texts(list), texts([]model.Problem{first, partial, duplicate}); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestStatusStoreUpsert(t *testing.T) {
	_, statuses := newTestStores(t)

	a := model.NewStatus("pid", 1, "dailyCount", 1, "daily", []string{"2026-10-18"})
	b := model.NewStatus("pid", 2, "dailyCount", 1, "daily", []string{"2026-10-18"})
	a2 := model.NewStatus("pid", 1, "dailyCount", 2, "daily", []string{"2026-10-18", "2026-10-19"})

	for _, s := range []model.ProblemStatus{a, b, a2} {
		if err := statuses.Upsert(s); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	list, err := statuses.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got, want := texts(list), texts([]model.ProblemStatus{b, a2}); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestReplaceStatusAbsentPID(t *testing.T) {
	items := []model.ProblemStatus{
		model.NewStatus("dailyCount", 1),
		model.NewStatus("pid", 3, "dailyCount", 1),
		model.NewStatus("dailyCount", 4),
		model.NewStatus("pid", "3", "dailyCount", 1),
		model.NewStatus("pid", nil, "dailyCount", 1),
	}
	next := model.NewStatus("dailyCount", 9)

	got := ReplaceStatus(items, next)
	want := []model.ProblemStatus{items[1], items[3], items[4], next}
	if !reflect.DeepEqual(texts(got), texts(want)) {
		t.Errorf("ReplaceStatus() = %v, want %v", got, want)
	}
}

func TestDocumentFailures(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		store := NewProblemStore(filepath.Join(dir, "missing.json"))
		if _, err := store.List(); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected ErrNotExist, got %v", err)
		}
		if err := store.Append(model.Problem{}); err == nil {
			t.Error("expected Append on missing document to fail")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		store := NewStatusStore(path)
		if _, err := store.List(); err == nil {
			t.Error("expected decode error")
		}
		if err := store.Upsert(model.ProblemStatus{}); err == nil {
			t.Error("expected Upsert on broken document to fail")
		}
		b, _ := os.ReadFile(path)
		if string(b) != "{not json" {
			t.Errorf("broken document was rewritten: %q", b)
		}
	})
}

func TestEnsureDocumentsKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "problems.json")
	content := `[{"id": 7, "title": "kept"}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	problems := NewProblemStore(path)
	statuses := NewStatusStore(filepath.Join(dir, "nested", "problemStatus.json"))
	if err := EnsureDocuments(problems, statuses); err != nil {
		t.Fatalf("EnsureDocuments failed: %v", err)
	}

	b, _ := os.ReadFile(path)
	if string(b) != content {
		t.Errorf("existing document modified: %q", b)
	}
	list, err := statuses.List()
	if err != nil || len(list) != 0 {
		t.Errorf("status document not created empty: %v %v", list, err)
	}
}

func TestConcurrentAppend(t *testing.T) {
	problems, _ := newTestStores(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := problems.Append(model.NewProblem("id", id)); err != nil {
				t.Errorf("Append failed: %v", err)
			}
		}(int64(i))
	}
	wg.Wait()

	list, err := problems.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 20 {
		t.Errorf("expected 20 problems, got %d", len(list))
	}
}

// 文档中的记录原样读回：字段顺序、未知字段、null、空数组、非整数 id
func TestDocumentKeepsRecordsVerbatim(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "problemStatus.json")
	content := `[
  {"pid": "7", "dailyCount": 0, "daily": [], "note": null, "extra": {"a": [1, 2]}},
  {"dailyCount": 1.5, "pid": 1.5}
]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStatusStore(path)
	if err := store.Upsert(model.NewStatus("pid", 2, "dailyCount", 1, "daily", []string{"2026-10-19"})); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	list, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{
		`{"pid":"7","dailyCount":0,"daily":[],"note":null,"extra":{"a": [1, 2]}}`,
		`{"dailyCount":1.5,"pid":1.5}`,
		`{"pid":2,"dailyCount":1,"daily":["2026-10-19"]}`,
	}
	if got := texts(list); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %q, want %q", got, want)
	}
}

func TestDocumentRejectsNonObjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problems.json")
	if err := os.WriteFile(path, []byte(`[{"id": 1}, 42]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewProblemStore(path).List(); err == nil {
		t.Error("expected error for non-object element")
	}
}
