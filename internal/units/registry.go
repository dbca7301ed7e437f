// Package units holds the static registry of organizational units and the
// fuzzy resolver that maps free-text unit references onto it.
package units

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unit is one registry entry. The registry is read-only data; adding or
// renaming units requires no code change.
type Unit struct {
	Canonical    string   `yaml:"canonical"`
	Acronym      string   `yaml:"acronym,omitempty"`
	Type         string   `yaml:"type"`
	Parent       string   `yaml:"parent,omitempty"`
	Aliases      []string `yaml:"aliases,omitempty"`
	DepartmentID string   `yaml:"departmentId,omitempty"`
}

type Registry struct {
	units []Unit
}

// LoadRegistry reads the unit registry from a YAML file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit registry: %w", err)
	}
	var units []Unit
	if err := yaml.Unmarshal(data, &units); err != nil {
		return nil, fmt.Errorf("parse unit registry yaml: %w", err)
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("unit registry %s is empty", path)
	}
	return &Registry{units: units}, nil
}

// NewRegistry wraps an in-memory unit list, used by tests.
func NewRegistry(units []Unit) *Registry {
	return &Registry{units: units}
}

// Units returns all registry entries.
func (r *Registry) Units() []Unit {
	return r.units
}

// FacultyByAcronym returns the faculty entry with the given acronym.
func (r *Registry) FacultyByAcronym(acronym string) (Unit, bool) {
	for _, u := range r.units {
		if u.Type == "Faculty" && u.Acronym == acronym {
			return u, true
		}
	}
	return Unit{}, false
}

// DepartmentsOf lists the academic and administrative departments whose
// parent is the named faculty.
func (r *Registry) DepartmentsOf(facultyCanonical string) []Unit {
	var out []Unit
	for _, u := range r.units {
		if u.Parent != facultyCanonical {
			continue
		}
		if u.Type == "Academic Department" || u.Type == "Admin Department" ||
			u.Type == "Administrative Department" {
			out = append(out, u)
		}
	}
	return out
}

// FindExact matches a query case-insensitively against canonical names,
// acronyms, and aliases.
func (r *Registry) FindExact(query string) (Unit, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || q == "all" {
		return Unit{}, false
	}
	for _, u := range r.units {
		if strings.ToLower(u.Canonical) == q {
			return u, true
		}
		if u.Acronym != "" && strings.ToLower(u.Acronym) == q {
			return u, true
		}
		for _, alias := range u.Aliases {
			if strings.ToLower(alias) == q {
				return u, true
			}
		}
	}
	return Unit{}, false
}
