package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGenerateCompletion_Success(t *testing.T) {
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "Sounds like a great fit.", Done: true})
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL, "mistral", 5*time.Second)
	out, err := client.GenerateCompletion(context.Background(), "why is this suitable?")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Sounds like a great fit." {
		t.Fatalf("unexpected output %q", out)
	}
	if gotReq.Model != "mistral" {
		t.Errorf("expected model mistral, got %s", gotReq.Model)
	}
	if gotReq.Stream {
		t.Error("stream must be false")
	}
}

func TestGenerateCompletion_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL, "", 5*time.Second)
	if _, err := client.GenerateCompletion(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestGenerateCompletion_TimeoutIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL, "", 20*time.Millisecond)
	if _, err := client.GenerateCompletion(context.Background(), "hi"); err == nil {
		t.Fatal("expected error on timeout")
	}
}

func TestGenerateCompletion_UnreachableIsError(t *testing.T) {
	client := NewOllamaClient("http://127.0.0.1:1", "", time.Second)
	if _, err := client.GenerateCompletion(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}
