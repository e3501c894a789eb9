package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateContent(t *testing.T) {
	t.Run("returns first candidate text", func(t *testing.T) {
		var gotPath, gotKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.URL.Query().Get("key")

			var req generateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("bad request body: %v", err)
			}
			if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "hello" {
				t.Errorf("unexpected prompt payload: %+v", req)
			}

			_ = json.NewEncoder(w).Encode(map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{"parts": []map[string]any{{"text": "world"}}}},
				},
			})
		}))
		defer server.Close()

		c := NewClient("secret", WithBaseURL(server.URL), WithModel("gemini-1.5-flash"))
		got, err := c.GenerateContent(context.Background(), "hello")
		if err != nil {
			t.Fatalf("GenerateContent() error = %v", err)
		}
		if got != "world" {
			t.Errorf("text = %q, want world", got)
		}
		if !strings.Contains(gotPath, "models/gemini-1.5-flash:generateContent") {
			t.Errorf("path = %q", gotPath)
		}
		if gotKey != "secret" {
			t.Errorf("key = %q, want secret", gotKey)
		}
	})

	t.Run("429 maps to ErrRateLimited", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		c := NewClient("k", WithBaseURL(server.URL))
		_, err := c.GenerateContent(context.Background(), "p")
		if !errors.Is(err, ErrRateLimited) {
			t.Errorf("error = %v, want ErrRateLimited", err)
		}
	})

	t.Run("non-200 status fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewClient("k", WithBaseURL(server.URL))
		if _, err := c.GenerateContent(context.Background(), "p"); err == nil {
			t.Error("expected error for 500 response")
		}
	})

	t.Run("empty candidate list fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates": []}`))
		}))
		defer server.Close()

		c := NewClient("k", WithBaseURL(server.URL))
		if _, err := c.GenerateContent(context.Background(), "p"); err == nil {
			t.Error("expected error for empty candidates")
		}
	})

	t.Run("api error payload surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "bad prompt", "status": "INVALID_ARGUMENT"}}`))
		}))
		defer server.Close()

		c := NewClient("k", WithBaseURL(server.URL))
		_, err := c.GenerateContent(context.Background(), "p")
		if err == nil || !strings.Contains(err.Error(), "bad prompt") {
			t.Errorf("error = %v, want api error message", err)
		}
	})
}
