// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func LoadRegistry(path string) (*EndpointRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg EndpointRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes reg as indented JSON, creating the directory if needed.
func Save(reg *EndpointRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Find returns the endpoint with id.
func (r *EndpointRegistry) Find(id string) (*Endpoint, bool) {
	for i := range r.Endpoints {
		if r.Endpoints[i].ID == id {
			return &r.Endpoints[i], true
		}
	}
	return nil, false
}

// Paths lists "METHOD path" for every endpoint that is not deprecated, in
// registry order.
func (r *EndpointRegistry) Paths() []string {
	out := make([]string, 0, len(r.Endpoints))
	for _, e := range r.Endpoints {
		if e.Status == "deprecated" {
			continue
		}
		out = append(out, e.Path)
	}
	return out
}

// Validate checks ids and method/path pairs are unique and required fields
// are present.
func (r *EndpointRegistry) Validate() error {
	if len(r.Endpoints) == 0 {
		return fmt.Errorf("registry contains no endpoints")
	}

	ids := make(map[string]bool)
	routes := make(map[string]bool)
	for _, e := range r.Endpoints {
		if e.ID == "" {
			return fmt.Errorf("endpoint missing required field: id")
		}
		if ids[e.ID] {
			return fmt.Errorf("duplicate endpoint id: %s", e.ID)
		}
		ids[e.ID] = true

		if !validMethods[strings.ToUpper(e.Method)] {
			return fmt.Errorf("endpoint %s has invalid method %q", e.ID, e.Method)
		}
		if !strings.HasPrefix(e.Path, "/") {
			return fmt.Errorf("endpoint %s path must start with /", e.ID)
		}
		route := strings.ToUpper(e.Method) + " " + e.Path
		if routes[route] {
			return fmt.Errorf("duplicate route: %s", route)
		}
		routes[route] = true

		if e.Category == "" {
			return fmt.Errorf("endpoint %s missing required field: category", e.ID)
		}
		if e.Status != "" && !validStatuses[e.Status] {
			return fmt.Errorf("endpoint %s has unknown status %q", e.ID, e.Status)
		}
	}
	return nil
}
