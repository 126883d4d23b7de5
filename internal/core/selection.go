package core

import "fmt"

// Selection is the set of module ids the user wants installed.
// Bundle membership is always derived from the set, never stored.
type Selection struct {
	catalog *Catalog
	ids     map[string]bool
}

// NewSelection creates an empty selection bound to catalog.
func NewSelection(catalog *Catalog) *Selection {
	return &Selection{catalog: catalog, ids: make(map[string]bool)}
}

// ToggleModule flips membership of a single module.
func (s *Selection) ToggleModule(id string) error {
	if _, ok := s.catalog.Module(id); !ok {
		return fmt.Errorf("unknown module %q", id)
	}
	if s.ids[id] {
		delete(s.ids, id)
	} else {
		s.ids[id] = true
	}
	return nil
}

// ToggleBundle removes every module of the bundle if the bundle is fully
// selected and adds every module otherwise. It never leaves a partial toggle.
func (s *Selection) ToggleBundle(bundleID string) error {
	b, ok := s.catalog.Bundle(bundleID)
	if !ok {
		return fmt.Errorf("unknown bundle %q", bundleID)
	}
	if s.IsBundleSelected(bundleID) {
		for _, id := range b.Modules {
			delete(s.ids, id)
		}
		return nil
	}
	for _, id := range b.Modules {
		s.ids[id] = true
	}
	return nil
}

// IsBundleSelected reports whether every module of the bundle is selected.
func (s *Selection) IsBundleSelected(bundleID string) bool {
	b, ok := s.catalog.Bundle(bundleID)
	if !ok {
		return false
	}
	for _, id := range b.Modules {
		if !s.ids[id] {
			return false
		}
	}
	return true
}

// Select adds the given modules. Unknown ids are rejected before any change.
func (s *Selection) Select(ids ...string) error {
	for _, id := range ids {
		if _, ok := s.catalog.Module(id); !ok {
			return fmt.Errorf("unknown module %q", id)
		}
	}
	for _, id := range ids {
		s.ids[id] = true
	}
	return nil
}

// Remove drops the given modules. Ids not present are ignored.
func (s *Selection) Remove(ids ...string) {
	for _, id := range ids {
		delete(s.ids, id)
	}
}

// Has reports whether a module is selected.
func (s *Selection) Has(id string) bool { return s.ids[id] }

// Len returns the number of selected modules.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selected module ids in catalog order.
func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	return s.catalog.Order(ids)
}

// Modules returns the selected modules in catalog order.
func (s *Selection) Modules() []IntegrationModule {
	ids := s.IDs()
	out := make([]IntegrationModule, 0, len(ids))
	for _, id := range ids {
		m, _ := s.catalog.Module(id)
		out = append(out, m)
	}
	return out
}

// Clone returns an independent copy of the selection.
func (s *Selection) Clone() *Selection {
	c := NewSelection(s.catalog)
	for id := range s.ids {
		c.ids[id] = true
	}
	return c
}

// Catalog returns the catalog the selection is bound to.
func (s *Selection) Catalog() *Catalog { return s.catalog }
