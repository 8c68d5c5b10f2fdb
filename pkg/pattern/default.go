package pattern

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultTableID is the ID of the built-in table.
const DefaultTableID = "ietf-default"

//go:embed defaults.yaml
var defaultTableData []byte

var loadDefault = sync.OnceValues(func() (*Table, error) {
	return Parse(defaultTableData)
})

// Parse decodes, validates and compiles a YAML table.
func Parse(data []byte) (*Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid table: %w", err)
	}
	if err := table.Compile(); err != nil {
		return nil, fmt.Errorf("compiling table %q: %w", table.TableID, err)
	}
	return &table, nil
}

// Default returns the built-in table. It is compiled once and shared;
// tables are never mutated after compilation.
func Default() *Table {
	table, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("built-in pattern table: %v", err))
	}
	return table
}
