package supabase_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"alisa/core"
	"alisa/storage"
	"alisa/storage/supabase"
)

func TestStore_SaveBatchesNonSystemTurns(t *testing.T) {
	var gotPath, gotAuth string
	var gotRows []map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotRows); err != nil {
			t.Errorf("payload not a JSON array: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	s := supabase.New(supabase.Config{URL: srv.URL, Key: "test-key"}, core.GetLogger())
	turns := []core.Turn{
		{Role: core.RoleSystem, Content: "placeholder"},
		{Role: core.RoleUser, Content: "hello"},
		{Role: core.RoleAssistant, Content: "hi"},
	}
	if err := s.Save(context.Background(), "sess-1", "kamran", turns); err != nil {
		t.Fatalf("save: %v", err)
	}

	if !strings.HasSuffix(gotPath, "/messages") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if len(gotRows) != 2 {
		t.Fatalf("expected 2 rows (system filtered), got %d", len(gotRows))
	}
	if gotRows[0]["session_id"] != "sess-1" || gotRows[0]["user_name"] != "kamran" {
		t.Fatalf("row identity missing: %+v", gotRows[0])
	}
}

func TestStore_SaveEmptyBatchSkipsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request for empty batch")
	}))
	defer srv.Close()

	s := supabase.New(supabase.Config{URL: srv.URL, Key: "k"}, core.GetLogger())
	turns := []core.Turn{{Role: core.RoleSystem, Content: "placeholder"}}
	if err := s.Save(context.Background(), "sess-1", "", turns); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestStore_SaveFailureIsOneError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"insert rejected"}`))
	}))
	defer srv.Close()

	s := supabase.New(supabase.Config{URL: srv.URL, Key: "k"}, core.GetLogger())
	err := s.Save(context.Background(), "sess-1", "", []core.Turn{{Role: core.RoleUser, Content: "x"}})
	if err == nil {
		t.Fatal("expected error for rejected batch")
	}
}

func TestStore_LoadFiltersOrdersAndReverses(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		// Newest-first, as PostgREST returns for order=id.desc.
		w.Write([]byte(`[{"role":"assistant","content":"second"},{"role":"user","content":"first"}]`))
	}))
	defer srv.Close()

	s := supabase.New(supabase.Config{URL: srv.URL, Key: "k"}, core.GetLogger())
	out, err := s.Load(context.Background(), storage.Query{SessionID: "sess-1", UserName: "ignored", Limit: 10})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !strings.Contains(gotQuery, "session_id=eq.sess-1") {
		t.Fatalf("session filter missing from query %q", gotQuery)
	}
	if strings.Contains(gotQuery, "user_name") {
		t.Fatalf("user filter must be ignored when session id is set: %q", gotQuery)
	}
	if !strings.Contains(gotQuery, "id.desc") {
		t.Fatalf("descending order missing from query %q", gotQuery)
	}
	if !strings.Contains(gotQuery, "limit=10") {
		t.Fatalf("limit missing from query %q", gotQuery)
	}

	if len(out) != 2 || out[0].Content != "first" || out[1].Content != "second" {
		t.Fatalf("expected oldest-first turns, got %+v", out)
	}
}

func TestStore_LoadByUserName(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	s := supabase.New(supabase.Config{URL: srv.URL, Key: "k"}, core.GetLogger())
	if _, err := s.Load(context.Background(), storage.Query{UserName: "kamran"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(gotQuery, "user_name=eq.kamran") {
		t.Fatalf("user filter missing from query %q", gotQuery)
	}
}

func TestStore_LoadFailureReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message":"upstream down"}`))
	}))
	defer srv.Close()

	s := supabase.New(supabase.Config{URL: srv.URL, Key: "k"}, core.GetLogger())
	if _, err := s.Load(context.Background(), storage.Query{SessionID: "sess-1"}); err == nil {
		t.Fatal("expected error for failed fetch")
	}
}
