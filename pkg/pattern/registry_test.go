package pattern

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// tableYAML returns a minimal valid table document.
func tableYAML(id, name, version string) string {
	return `
name: "` + name + `"
table_id: "` + id + `"
version: "` + version + `"
structure:
  header_candidates:
    - name: numbered
      pattern: '^\d+\.\s+(?P<title>\S.*)$'
  sections:
    - section: introduction
      pattern: '(?i)^introduction\b'
`
}

func writeTable(t *testing.T, dir, file, content string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func testTable(id, version string) *Table {
	return &Table{
		Name:    "Test Table",
		TableID: id,
		Version: version,
		Structure: StructureConfig{
			HeaderCandidates: []Rule{{Name: "numbered", Pattern: `^\d+\.\s+(?P<title>\S.*)$`}},
		},
	}
}

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()
	if registry.Count() != 1 {
		t.Errorf("Count() = %d, want 1", registry.Count())
	}
	if _, ok := registry.Get(DefaultTableID); !ok {
		t.Errorf("Get(%q) not found", DefaultTableID)
	}
}

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()

	table := testTable("test-table", "1.0.0")
	if err := registry.Register(table); err != nil {
		t.Errorf("Register() error = %v", err)
	}
	if !table.IsCompiled() {
		t.Error("Register() should compile the table")
	}
	if registry.Count() != 2 {
		t.Errorf("Count() = %d, want 2", registry.Count())
	}

	if err := registry.Register(nil); err == nil {
		t.Error("Register(nil) should return error")
	}

	if err := registry.Register(table); err == nil {
		t.Error("Register() duplicate should return error")
	}

	if err := registry.Register(testTable("test-table", "2.0.0")); err != nil {
		t.Errorf("Register() new version error = %v", err)
	}
}

func TestRegistryRegisterInvalidTable(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(&Table{Name: "Invalid"}); err == nil {
		t.Error("Register() invalid table should return error")
	}

	bad := testTable("bad-regex", "1.0.0")
	bad.Structure.TOC = `[unclosed`
	if err := registry.Register(bad); err == nil {
		t.Error("Register() table with invalid regex should return error")
	}
}

func TestRegistryUnregister(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(testTable("test-table", "1.0.0")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := registry.Unregister("test-table"); err != nil {
		t.Errorf("Unregister() error = %v", err)
	}
	if err := registry.Unregister("test-table"); err == nil {
		t.Error("Unregister() of missing table should return error")
	}
	if err := registry.Unregister(DefaultTableID); err == nil {
		t.Error("Unregister() of the built-in table should return error")
	}
}

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry()

	table, err := registry.Lookup(DefaultTableID)
	if err != nil || table == nil {
		t.Fatalf("Lookup(%q) = %v, %v", DefaultTableID, table, err)
	}

	if _, err := registry.Lookup("absent"); err == nil {
		t.Error("Lookup() of missing table should return error")
	}
}

func TestRegistryList(t *testing.T) {
	registry := NewRegistry()
	for _, id := range []string{"zeta", "alpha"} {
		if err := registry.Register(testTable(id, "1.0.0")); err != nil {
			t.Fatalf("Register(%q) error = %v", id, err)
		}
	}

	tables := registry.List()
	var ids []string
	for _, table := range tables {
		ids = append(ids, table.TableID)
	}
	want := []string{"alpha", DefaultTableID, "zeta"}
	if len(ids) != len(want) {
		t.Fatalf("List() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestRegistryLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTable(t, tmpDir, "custom.yaml", tableYAML("custom", "Custom", "1.0.0"))

	registry := NewRegistry()
	if err := registry.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	table, ok := registry.Get("custom")
	if !ok {
		t.Fatal("Get(custom) not found after LoadFile()")
	}
	if sec, ok := table.MatchSection("Introduction"); !ok || sec != "introduction" {
		t.Errorf("MatchSection(Introduction) = %q, %v", sec, ok)
	}

	if err := registry.LoadFile(filepath.Join(tmpDir, "absent.yaml")); err == nil {
		t.Error("LoadFile() of missing file should return error")
	}

	bad := writeTable(t, tmpDir, "bad.yaml", "name: [unclosed")
	if err := registry.LoadFile(bad); err == nil {
		t.Error("LoadFile() of malformed YAML should return error")
	}
}

func TestRegistryLoadDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writeTable(t, tmpDir, "one.yaml", tableYAML("one", "One", "1.0.0"))
	writeTable(t, tmpDir, "two.yml", tableYAML("two", "Two", "1.0.0"))
	writeTable(t, tmpDir, "notes.txt", "not a table")

	registry := NewRegistry()
	if err := registry.LoadDirectory(tmpDir); err != nil {
		t.Fatalf("LoadDirectory() error = %v", err)
	}
	if registry.Count() != 3 {
		t.Errorf("Count() = %d, want 3", registry.Count())
	}
}

func TestRegistryLoadDirectoryNonExistent(t *testing.T) {
	registry := NewRegistry()
	if err := registry.LoadDirectory(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Errorf("LoadDirectory() of missing directory error = %v", err)
	}
	if registry.Count() != 1 {
		t.Errorf("Count() = %d, want 1", registry.Count())
	}
}

func TestRegistryReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTable(t, tmpDir, "custom.yaml", tableYAML("custom", "Original", "1.0.0"))

	registry, err := NewRegistryWithDirectory(tmpDir)
	if err != nil {
		t.Fatalf("NewRegistryWithDirectory() error = %v", err)
	}

	writeTable(t, tmpDir, "custom.yaml", tableYAML("custom", "Updated", "1.0.0"))
	if err := registry.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	table, _ := registry.Get("custom")
	if table.Name != "Updated" {
		t.Errorf("Name = %q, want %q", table.Name, "Updated")
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := registry.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if _, ok := registry.Get("custom"); ok {
		t.Error("Get(custom) should fail after the file is removed")
	}
	if _, ok := registry.Get(DefaultTableID); !ok {
		t.Error("built-in table should survive Reload()")
	}
}

func TestRegistryReloadNoDirectory(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Reload(); err == nil {
		t.Error("Reload() without directory should return error")
	}
}

func TestRegistryWatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping watch test in short mode")
	}

	tmpDir := t.TempDir()
	writeTable(t, tmpDir, "watch.yaml", tableYAML("watch-test", "Original", "1.0.0"))

	registry, err := NewRegistryWithDirectory(tmpDir)
	if err != nil {
		t.Fatalf("NewRegistryWithDirectory() error = %v", err)
	}

	changed := make(chan bool, 1)
	registry.SetOnChange(func(event string, table *Table) {
		select {
		case changed <- true:
		default:
		}
	})

	if err := registry.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer registry.StopWatch()

	// Give the watcher time to initialize
	time.Sleep(100 * time.Millisecond)

	writeTable(t, tmpDir, "watch.yaml", tableYAML("watch-test", "Updated Via Watch", "2.0.0"))

	select {
	case <-changed:
		time.Sleep(100 * time.Millisecond)
	case <-time.After(3 * time.Second):
		// File watching can be flaky in CI environments, so we just log
		t.Log("Watch() did not detect file change within timeout (may be CI environment)")
		return
	}

	table, _ := registry.Get("watch-test")
	if table.Name != "Updated Via Watch" {
		t.Errorf("Name = %q, want %q", table.Name, "Updated Via Watch")
	}
}

func TestRegistryWatchNoDirectory(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Watch(); err == nil {
		t.Error("Watch() without directory should return error")
	}
}
