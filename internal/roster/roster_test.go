package roster

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entities.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write roster: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeRoster(t, `
entities:
  - id: alice
    name: Alice Martin
    party: ABC
    wikipedia: Alice_Martin
    search_terms:
      - "Alice Martin"
  - id: bob
    name: Bob Durand
`)

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(r.Entities()) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(r.Entities()))
	}

	alice, ok := r.Get("alice")
	if !ok {
		t.Fatal("alice not found")
	}
	if alice.PrimarySearchTerm() != "Alice Martin" {
		t.Errorf("primary search term = %q", alice.PrimarySearchTerm())
	}

	bob, _ := r.Get("bob")
	// No search terms configured: the name is the query.
	if bob.PrimarySearchTerm() != "Bob Durand" {
		t.Errorf("fallback search term = %q", bob.PrimarySearchTerm())
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	path := writeRoster(t, `
entities:
  - id: alice
    name: Alice
  - id: alice
    name: Alice Again
`)

	if _, err := Load(path); err == nil {
		t.Error("duplicate ids should be rejected")
	}
}

func TestLoadRejectsMissingFields(t *testing.T) {
	path := writeRoster(t, `
entities:
  - id: ""
    name: Nameless
`)

	if _, err := Load(path); err == nil {
		t.Error("empty id should be rejected")
	}
}

func TestLoadRejectsEmptyRoster(t *testing.T) {
	path := writeRoster(t, "entities: []\n")

	if _, err := Load(path); err == nil {
		t.Error("empty roster should be rejected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file should error")
	}
}
