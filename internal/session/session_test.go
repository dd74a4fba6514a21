package session

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/david/opportunity-navigator/internal/recommend"
)

func TestStore_CreateSeedsGreeting(t *testing.T) {
	store := NewStore()
	sess := store.Create(time.Now())

	if len(sess.Messages) != 1 {
		t.Fatalf("expected 1 seeded message, got %d", len(sess.Messages))
	}
	if sess.Messages[0].Role != "assistant" || sess.Messages[0].Content != Greeting {
		t.Fatalf("unexpected greeting message: %+v", sess.Messages[0])
	}
	if len(sess.Profile.Skills) != 0 || sess.Profile.Interest != "" || sess.Profile.Year != nil {
		t.Fatal("new session must start with empty profile defaults")
	}
}

func TestStore_GetUnknownSession(t *testing.T) {
	store := NewStore()
	if _, err := store.Get(uuid.New()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ReplaceProfileIsFullReplacement(t *testing.T) {
	store := NewStore()
	sess := store.Create(time.Now())

	year := 2
	if err := store.ReplaceProfile(sess.ID, recommend.Profile{
		Skills:   []string{"ai", "research"},
		Interest: "AI",
		Year:     &year,
	}); err != nil {
		t.Fatal(err)
	}

	// A later save with fewer fields replaces everything, never merges.
	if err := store.ReplaceProfile(sess.ID, recommend.Profile{Skills: []string{"nlp"}}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Profile.Skills) != 1 || got.Profile.Skills[0] != "nlp" {
		t.Fatalf("expected skills [nlp], got %v", got.Profile.Skills)
	}
	if got.Profile.Interest != "" || got.Profile.Year != nil {
		t.Fatalf("interest and year must be cleared by replacement, got %+v", got.Profile)
	}
}

func TestStore_AppendMessages(t *testing.T) {
	store := NewStore()
	sess := store.Create(time.Now())

	err := store.AppendMessages(sess.ID,
		Message{Role: "user", Content: "any AI internships?"},
		Message{Role: "assistant", Content: "A few, yes."},
	)
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got.Messages))
	}
	if got.Messages[1].Content != "any AI internships?" {
		t.Fatalf("unexpected history order: %+v", got.Messages)
	}
}

func TestStore_SnapshotIsolation(t *testing.T) {
	store := NewStore()
	sess := store.Create(time.Now())

	got, _ := store.Get(sess.ID)
	got.Messages[0].Content = "mutated"
	got.Profile.Skills = append(got.Profile.Skills, "hax")

	fresh, _ := store.Get(sess.ID)
	if fresh.Messages[0].Content != Greeting {
		t.Fatal("store state must not be reachable through returned copies")
	}
	if len(fresh.Profile.Skills) != 0 {
		t.Fatal("profile copy must not alias store state")
	}
}

func TestTokens_MintParseRoundtrip(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	id := uuid.New()
	raw, err := tokens.Mint(id)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := tokens.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if parsed != id {
		t.Fatalf("expected %s, got %s", id, parsed)
	}
}

func TestTokens_ParseRejectsGarbage(t *testing.T) {
	tokens, err := NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tokens.Parse("not-a-token"); err == nil {
		t.Fatal("expected error for garbage token")
	}
}

func TestTokens_ParseRejectsForeignSecret(t *testing.T) {
	a, _ := NewTokens("secret-a", time.Hour)
	b, _ := NewTokens("secret-b", time.Hour)

	raw, err := a.Mint(uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Parse(raw); err == nil {
		t.Fatal("token signed with another secret must not verify")
	}
}

func TestTokens_EmptySecretGetsEphemeralFallback(t *testing.T) {
	tokens, err := NewTokens("", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	id := uuid.New()
	raw, err := tokens.Mint(id)
	if err != nil {
		t.Fatal(err)
	}
	if parsed, err := tokens.Parse(raw); err != nil || parsed != id {
		t.Fatalf("ephemeral secret must still roundtrip: %v", err)
	}
}
