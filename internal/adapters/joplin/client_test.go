package joplin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Options{
		BaseURL:   server.URL,
		Token:     "secret",
		BaseDelay: time.Millisecond,
		MaxDelay:  5 * time.Millisecond,
		Logger:    zerolog.Nop(),
	})
	return client, server
}

func TestListChildFoldersWalksAllPages(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/folders", r.URL.Path)
		require.Equal(t, "secret", r.URL.Query().Get("token"))

		switch r.URL.Query().Get("page") {
		case "1":
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]string{
					{"id": "f1", "title": "expenses", "parent_id": ""},
					{"id": "f2", "title": "other", "parent_id": "f1"},
				},
				"has_more": true,
			})
		case "2":
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]string{
					{"id": "f3", "title": "archive", "parent_id": ""},
				},
				"has_more": false,
			})
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))

	folders, err := client.ListChildFolders(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "f1", folders[0].ID)
	assert.Equal(t, "f3", folders[1].ID)
}

func TestListChildNotes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/folders/f1/notes", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{
				{"id": "n1", "title": "01", "parent_id": "f1"},
				{"id": "n2", "title": "02", "parent_id": "f1"},
			},
			"has_more": false,
		})
	}))

	notes, err := client.ListChildNotes(context.Background(), "f1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "01", notes[0].Title)
	assert.Empty(t, notes[0].Body)
}

func TestCreateNoteSendsPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/notes", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "01", payload["title"])
		assert.Equal(t, "f1", payload["parent_id"])
		assert.Contains(t, payload["body"], "| price |")

		json.NewEncoder(w).Encode(map[string]string{"id": "n9", "title": "01", "parent_id": "f1"})
	}))

	note, err := client.CreateNote(context.Background(), "f1", "01", "| price |\n")
	require.NoError(t, err)
	assert.Equal(t, "n9", note.ID)
	assert.Equal(t, "f1", note.ParentID)
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "n1", "title": "01", "parent_id": "f1", "body": "x"})
	}))

	note, err := client.GetNote(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "x", note.Body)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no such note"})
	}))

	_, err := client.GetNote(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such note")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestUpdateNoteBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/notes/n1", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "new body", payload["body"])
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	}))

	require.NoError(t, client.UpdateNoteBody(context.Background(), "n1", "new body"))
}
