package pattern

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/fsnotify.v1"
)

// Registry manages a collection of recognizer tables.
type Registry interface {
	// Register adds a table to the registry
	Register(table *Table) error

	// Unregister removes a table from the registry
	Unregister(tableID string) error

	// Get returns a table by its ID
	Get(tableID string) (*Table, bool)

	// List returns all registered tables ordered by ID
	List() []*Table

	// Reload reloads all tables from the configured directory
	Reload() error

	// Watch starts watching the table directory for changes
	Watch() error

	// StopWatch stops watching the table directory
	StopWatch()

	// LoadDirectory loads all tables from a directory
	LoadDirectory(dir string) error

	// LoadFile loads a single table file
	LoadFile(path string) error
}

// DefaultRegistry is the default implementation of the table Registry.
// The built-in table is always present and survives reloads.
type DefaultRegistry struct {
	mu       sync.RWMutex
	tables   map[string]*Table
	dir      string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func(event string, table *Table)
}

// NewRegistry creates a registry holding the built-in table.
func NewRegistry() *DefaultRegistry {
	builtin := Default()
	return &DefaultRegistry{
		tables: map[string]*Table{builtin.TableID: builtin},
	}
}

// NewRegistryWithDirectory creates a registry and loads tables from dir.
func NewRegistryWithDirectory(dir string) (*DefaultRegistry, error) {
	r := NewRegistry()
	if err := r.LoadDirectory(dir); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds a table to the registry.
func (r *DefaultRegistry) Register(table *Table) error {
	if table == nil {
		return fmt.Errorf("table cannot be nil")
	}

	if err := table.Validate(); err != nil {
		return fmt.Errorf("invalid table: %w", err)
	}

	if !table.IsCompiled() {
		if err := table.Compile(); err != nil {
			return fmt.Errorf("compiling table %q: %w", table.TableID, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Allow update if version is different
	if existing, ok := r.tables[table.TableID]; ok && existing.Version == table.Version {
		return fmt.Errorf("table %q version %s already registered", table.TableID, table.Version)
	}

	r.tables[table.TableID] = table
	return nil
}

// Unregister removes a table from the registry.
func (r *DefaultRegistry) Unregister(tableID string) error {
	if tableID == DefaultTableID {
		return fmt.Errorf("built-in table %q cannot be removed", tableID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tables[tableID]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, tableID)
	}

	delete(r.tables, tableID)
	return nil
}

// Get returns a table by its ID.
func (r *DefaultRegistry) Get(tableID string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table, ok := r.tables[tableID]
	return table, ok
}

// Lookup returns a table by its ID or ErrNotFound.
func (r *DefaultRegistry) Lookup(tableID string) (*Table, error) {
	table, ok := r.Get(tableID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, tableID)
	}
	return table, nil
}

// List returns all registered tables ordered by ID.
func (r *DefaultRegistry) List() []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tables := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].TableID < tables[j].TableID
	})
	return tables
}

// Count returns the number of registered tables.
func (r *DefaultRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

// LoadDirectory loads all YAML table files from a directory.
// A missing directory loads nothing.
func (r *DefaultRegistry) LoadDirectory(dir string) error {
	r.dir = dir

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var loadErrors []string
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}

		if err := r.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("%s: %v", entry.Name(), err))
		}
	}

	if len(loadErrors) > 0 {
		return fmt.Errorf("errors loading tables: %s", strings.Join(loadErrors, "; "))
	}

	return nil
}

// LoadFile loads a single table file.
func (r *DefaultRegistry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	table, err := Parse(data)
	if err != nil {
		return err
	}

	if err := r.Register(table); err != nil {
		return fmt.Errorf("registering table: %w", err)
	}

	return nil
}

// Reload drops every loaded table and reloads the configured directory.
func (r *DefaultRegistry) Reload() error {
	if r.dir == "" {
		return fmt.Errorf("no directory configured for reload")
	}

	builtin := Default()
	r.mu.Lock()
	r.tables = map[string]*Table{builtin.TableID: builtin}
	r.mu.Unlock()

	return r.LoadDirectory(r.dir)
}

// SetOnChange sets a callback function that is called when tables change.
func (r *DefaultRegistry) SetOnChange(fn func(event string, table *Table)) {
	r.onChange = fn
}

// Watch starts watching the table directory for changes.
func (r *DefaultRegistry) Watch() error {
	if r.dir == "" {
		return fmt.Errorf("no directory configured for watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	r.watcher = watcher
	r.stopChan = make(chan struct{})

	go r.watchLoop(watcher, r.stopChan)

	if err := watcher.Add(r.dir); err != nil {
		r.watcher.Close()
		return fmt.Errorf("watching directory %s: %w", r.dir, err)
	}

	return nil
}

// watchLoop handles file system events.
func (r *DefaultRegistry) watchLoop(watcher *fsnotify.Watcher, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if !isYAML(event.Name) {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				r.handleFileChange(event.Name, "create")

			case event.Op&fsnotify.Write == fsnotify.Write:
				r.handleFileChange(event.Name, "modify")

			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				r.handleFileRemove(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("dir", r.dir).Msg("pattern table watcher error")
		}
	}
}

// handleFileChange handles file creation or modification. A modified file
// carrying an unchanged version is re-read by reloading the directory.
func (r *DefaultRegistry) handleFileChange(path string, eventType string) {
	if err := r.LoadFile(path); err != nil {
		if reloadErr := r.Reload(); reloadErr != nil {
			log.Warn().Err(reloadErr).Str("file", path).Msg("reloading pattern tables")
			return
		}
	}
	log.Info().Str("file", path).Str("event", eventType).Msg("pattern tables updated")

	if r.onChange != nil {
		table, _ := r.tableFromFile(path)
		r.onChange(eventType, table)
	}
}

// handleFileRemove handles file removal. Files are not tracked per table,
// so the whole directory is reloaded.
func (r *DefaultRegistry) handleFileRemove(path string) {
	if err := r.Reload(); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("reloading pattern tables")
	}

	if r.onChange != nil {
		r.onChange("remove", nil)
	}
}

// tableFromFile re-reads path and returns the registered table with its ID.
func (r *DefaultRegistry) tableFromFile(path string) (*Table, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	table, err := Parse(data)
	if err != nil {
		return nil, false
	}
	return r.Get(table.TableID)
}

// StopWatch stops watching the table directory.
func (r *DefaultRegistry) StopWatch() {
	if r.stopChan != nil {
		close(r.stopChan)
		r.stopChan = nil
	}
	if r.watcher != nil {
		r.watcher.Close()
		r.watcher = nil
	}
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
