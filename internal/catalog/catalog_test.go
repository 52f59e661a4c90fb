package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	c, err := New(Entry{GameID: "bt11", Tags: []string{"a"}, BaselineActions: []int{4}})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	e, ok := c.Lookup("bt11")
	if !ok {
		t.Fatal("bt11 should be registered")
	}
	if len(e.BaselineActions) != 1 || e.BaselineActions[0] != 4 {
		t.Errorf("BaselineActions = %v, want [4]", e.BaselineActions)
	}

	// Returned entries are copies
	e.Tags[0] = "changed"
	again, _ := c.Lookup("bt11")
	if again.Tags[0] != "a" {
		t.Error("Lookup() result shares memory with the catalog")
	}

	if _, ok := c.Lookup("nope"); ok {
		t.Error("Lookup() should fail for unknown game")
	}
	if !c.Exists("bt11") || c.Exists("nope") {
		t.Error("Exists() returned wrong result")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	c, _ := New()
	if err := c.Register(Entry{GameID: "bt11"}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := c.Register(Entry{GameID: "bt11"}); err == nil {
		t.Error("Expected error on duplicate registration")
	}
}

func TestRegisterInvalid(t *testing.T) {
	c, _ := New()
	if err := c.Register(Entry{}); err == nil {
		t.Error("Expected error for missing game_id")
	}
	if err := c.Register(Entry{GameID: "x", BaselineActions: []int{3, -1}}); err == nil {
		t.Error("Expected error for negative baseline")
	}
}

func TestListSorted(t *testing.T) {
	c, _ := New(Entry{GameID: "zz"}, Entry{GameID: "aa"}, Entry{GameID: "mm"})
	list := c.List()
	if len(list) != 3 || c.Len() != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(list))
	}
	if list[0].GameID != "aa" || list[1].GameID != "mm" || list[2].GameID != "zz" {
		t.Errorf("List() not sorted: %v", list)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
games:
  - game_id: am92
    tags: [tag2, shared]
    baseline_actions: [15, 20]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	e, ok := c.Lookup("am92")
	if !ok {
		t.Fatal("am92 not loaded")
	}
	if len(e.Tags) != 2 || e.Tags[1] != "shared" {
		t.Errorf("Tags = %v", e.Tags)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("Expected read error, got %v", err)
	}
}

func TestEmbeddedDefault(t *testing.T) {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		t.Fatalf("Parse(default) failed: %v", err)
	}
	if !c.Exists("bt11") {
		t.Error("Default catalog should contain bt11")
	}
}
