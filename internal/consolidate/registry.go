// Package consolidate turns downloaded backtest workbooks and their batch
// allocation files into three normalized CSV tables keyed by stable portfolio
// identifiers.
package consolidate

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Registry maps portfolio names to stable identifiers. An identifier is minted
// once per name and reused on every later lookup, so consolidation runs are
// idempotent as long as the registry is persisted between them.
type Registry struct {
	ids   map[string]string
	names []string // insertion order, for deterministic output
}

func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]string)}
}

// ResolveOrCreate returns the identifier for name, minting one on first use.
func (r *Registry) ResolveOrCreate(name string) string {
	if id, ok := r.ids[name]; ok {
		return id
	}
	id := uuid.NewString()
	r.ids[name] = id
	r.names = append(r.names, name)
	return id
}

// UUID returns the identifier for name without minting.
func (r *Registry) UUID(name string) (string, bool) {
	id, ok := r.ids[name]
	return id, ok
}

// Names returns registered portfolio names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Registry) Len() int {
	return len(r.names)
}

// LoadRegistry reads a persisted name-to-identifier mapping. A missing file
// yields an empty registry so first runs need no bootstrap step.
func LoadRegistry(path string) (*Registry, error) {
	r := NewRegistry()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", path, err)
	}

	for i, record := range records {
		if i == 0 || len(record) < 2 {
			continue
		}
		name, id := record[0], record[1]
		if _, exists := r.ids[name]; exists {
			continue
		}
		r.ids[name] = id
		r.names = append(r.names, name)
	}
	return r, nil
}

// Save persists the mapping as portfolio_name,portfolio_uuid rows.
func (r *Registry) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create registry file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write([]string{"portfolio_name", "portfolio_uuid"}); err != nil {
		return fmt.Errorf("write registry header: %w", err)
	}
	for _, name := range r.names {
		if err := writer.Write([]string{name, r.ids[name]}); err != nil {
			return fmt.Errorf("write registry entry: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
