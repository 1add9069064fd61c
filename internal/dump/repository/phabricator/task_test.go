package phabricator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/em-/dumph/internal/dump/repository"
	phabRepo "github.com/em-/dumph/internal/dump/repository/phabricator"
	pkgLog "github.com/em-/dumph/pkg/log"
	pkgPhab "github.com/em-/dumph/pkg/phabricator"
)

func conduitOK(w http.ResponseWriter, result any) {
	json.NewEncoder(w).Encode(map[string]any{
		"result":     result,
		"error_code": nil,
		"error_info": nil,
	})
}

func TestSearchTasks(t *testing.T) {
	var userCalls, projectCalls int

	mux := http.NewServeMux()

	mux.HandleFunc("/api/maniphest.search", func(w http.ResponseWriter, r *http.Request) {
		conduitOK(w, map[string]any{
			"data": []map[string]any{{
				"id":   101,
				"type": "TASK",
				"phid": "PHID-TASK-101",
				"fields": map[string]any{
					"name":         "Fix the frobnicator",
					"description":  map[string]any{"raw": "It frobs when it should nicate."},
					"authorPHID":   "PHID-USER-aa",
					"ownerPHID":    "PHID-USER-bb",
					"status":       map[string]any{"value": "open", "name": "Open"},
					"priority":     map[string]any{"value": 50, "name": "Normal"},
					"points":       "3",
					"dateCreated":  1700000000,
					"dateModified": 1700007200,
					"dateClosed":   nil,
				},
				"attachments": map[string]any{
					"projects": map[string]any{"projectPHIDs": []string{"PHID-PROJ-xx"}},
				},
			}},
			"cursor": map[string]any{"limit": 100, "after": nil, "before": nil},
		})
	})

	mux.HandleFunc("/api/user.search", func(w http.ResponseWriter, r *http.Request) {
		userCalls++
		conduitOK(w, map[string]any{
			"data": []map[string]any{
				{"id": 1, "type": "USER", "phid": "PHID-USER-aa", "fields": map[string]any{"username": "alice"}},
				{"id": 2, "type": "USER", "phid": "PHID-USER-bb", "fields": map[string]any{"username": "bob"}},
			},
			"cursor": map[string]any{},
		})
	})

	mux.HandleFunc("/api/project.search", func(w http.ResponseWriter, r *http.Request) {
		projectCalls++
		conduitOK(w, map[string]any{
			"data": []map[string]any{
				{"id": 9, "type": "PROJ", "phid": "PHID-PROJ-xx", "fields": map[string]any{"name": "Platform", "slug": "platform"}},
			},
			"cursor": map[string]any{},
		})
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := pkgPhab.NewClient(ts.URL, "cli-secret")
	source := phabRepo.New(client, ts.URL, pkgLog.NewNop())
	ctx := context.Background()

	page, err := source.SearchTasks(ctx, repository.SearchTasksOptions{Limit: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.NextCursor != "" {
		t.Errorf("expected exhausted cursor, got %q", page.NextCursor)
	}
	if len(page.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(page.Tasks))
	}

	task := page.Tasks[0]
	if task.ID != 101 || task.Monogram() != "T101" {
		t.Errorf("unexpected task ID: %+v", task)
	}
	if task.Owner != "bob" || task.Author != "alice" {
		t.Errorf("PHIDs not resolved: owner=%q author=%q", task.Owner, task.Author)
	}
	if len(task.Projects) != 1 || task.Projects[0] != "Platform" {
		t.Errorf("unexpected projects: %v", task.Projects)
	}
	if task.Status != "Open" || task.Priority != "Normal" || task.Points != "3" {
		t.Errorf("unexpected fields: %+v", task)
	}
	if !task.CreatedAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("unexpected CreatedAt: %v", task.CreatedAt)
	}
	if !task.ClosedAt.IsZero() {
		t.Errorf("expected zero ClosedAt for open task, got %v", task.ClosedAt)
	}
	if want := ts.URL + "/T101"; task.URI != want {
		t.Errorf("unexpected URI: %q, want %q", task.URI, want)
	}

	// Second page with the same PHIDs must hit the cache, not the API.
	if _, err := source.SearchTasks(ctx, repository.SearchTasksOptions{Limit: 100}); err != nil {
		t.Fatalf("unexpected error on second search: %v", err)
	}
	if userCalls != 1 || projectCalls != 1 {
		t.Errorf("expected cached lookups, got userCalls=%d projectCalls=%d", userCalls, projectCalls)
	}
}

func TestSearchTasksUnresolvablePHID(t *testing.T) {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/maniphest.search", func(w http.ResponseWriter, r *http.Request) {
		conduitOK(w, map[string]any{
			"data": []map[string]any{{
				"id":   7,
				"type": "TASK",
				"phid": "PHID-TASK-7",
				"fields": map[string]any{
					"name":       "Restricted owner",
					"ownerPHID":  "PHID-USER-hidden",
					"authorPHID": "",
					"status":     map[string]any{"value": "open", "name": "Open"},
					"priority":   map[string]any{"value": 25, "name": "Low"},
				},
				"attachments": map[string]any{"projects": map[string]any{"projectPHIDs": []string{}}},
			}},
			"cursor": map[string]any{},
		})
	})

	// Viewer cannot see the user: search returns an empty result set.
	mux.HandleFunc("/api/user.search", func(w http.ResponseWriter, r *http.Request) {
		conduitOK(w, map[string]any{"data": []map[string]any{}, "cursor": map[string]any{}})
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	source := phabRepo.New(pkgPhab.NewClient(ts.URL, "cli-secret"), ts.URL, pkgLog.NewNop())

	page, err := source.SearchTasks(context.Background(), repository.SearchTasksOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := page.Tasks[0].Owner; got != "PHID-USER-hidden" {
		t.Errorf("expected raw PHID fallback, got %q", got)
	}
	if got := page.Tasks[0].Author; got != "" {
		t.Errorf("expected empty author, got %q", got)
	}
}

func TestSearchTasksError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/maniphest.search", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"result":     nil,
			"error_code": "ERR-CONDUIT-CORE",
			"error_info": "something broke",
		})
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	source := phabRepo.New(pkgPhab.NewClient(ts.URL, "cli-secret"), ts.URL, pkgLog.NewNop())

	_, err := source.SearchTasks(context.Background(), repository.SearchTasksOptions{})
	if err == nil {
		t.Fatalf("expected error")
	}
}
