package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	defaultSkillDriver = "claude"
	skillSourceToken   = "{source}"
)

// ErrInvalidCatalog is wrapped by every catalog contract violation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the immutable registry of modules, bundles, skills and
// prerequisites. It is built once at startup and shared read-only.
type Catalog struct {
	modules   []IntegrationModule
	moduleIdx map[string]int
	bundles   []Bundle
	bundleIdx map[string]int
	skills    []Skill
	skillIdx  map[string]int

	skillDriver  string
	skillInstall []string
	prereqs      []Prerequisite
}

// NewCatalog validates data and builds a Catalog from it. Any structural
// problem (duplicate ids, dangling bundle references, undeclared
// placeholders) is reported as an error wrapping ErrInvalidCatalog.
func NewCatalog(data CatalogData) (*Catalog, error) {
	c := &Catalog{
		moduleIdx:    make(map[string]int, len(data.Modules)),
		bundleIdx:    make(map[string]int, len(data.Bundles)),
		skillIdx:     make(map[string]int, len(data.Skills)),
		skillDriver:  data.SkillDriver,
		skillInstall: data.SkillInstall,
		prereqs:      data.Prerequisites,
	}
	if c.skillDriver == "" {
		c.skillDriver = defaultSkillDriver
	}
	if len(c.skillInstall) == 0 {
		c.skillInstall = []string{c.skillDriver, "plugin", "install", skillSourceToken}
	}

	for _, m := range data.Modules {
		if err := validateModule(m); err != nil {
			return nil, err
		}
		if _, dup := c.moduleIdx[m.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate module id %q", ErrInvalidCatalog, m.ID)
		}
		c.moduleIdx[m.ID] = len(c.modules)
		c.modules = append(c.modules, m)
	}

	for _, b := range data.Bundles {
		if b.ID == "" {
			return nil, fmt.Errorf("%w: bundle id is required", ErrInvalidCatalog)
		}
		if _, dup := c.bundleIdx[b.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate bundle id %q", ErrInvalidCatalog, b.ID)
		}
		if len(b.Modules) == 0 {
			return nil, fmt.Errorf("%w: bundle %q is empty", ErrInvalidCatalog, b.ID)
		}
		for _, id := range b.Modules {
			if _, ok := c.moduleIdx[id]; !ok {
				return nil, fmt.Errorf("%w: bundle %q references unknown module %q", ErrInvalidCatalog, b.ID, id)
			}
		}
		c.bundleIdx[b.ID] = len(c.bundles)
		c.bundles = append(c.bundles, b)
	}

	for _, s := range data.Skills {
		if s.ID == "" || s.Source == "" {
			return nil, fmt.Errorf("%w: skill requires id and source", ErrInvalidCatalog)
		}
		if _, dup := c.skillIdx[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate skill id %q", ErrInvalidCatalog, s.ID)
		}
		c.skillIdx[s.ID] = len(c.skills)
		c.skills = append(c.skills, s)
	}

	for _, p := range data.Prerequisites {
		if p.Name == "" || len(p.Command) == 0 {
			return nil, fmt.Errorf("%w: prerequisite requires name and command", ErrInvalidCatalog)
		}
	}

	return c, nil
}

// validateModule checks the per-module invariants.
func validateModule(m IntegrationModule) error {
	if m.ID == "" {
		return fmt.Errorf("%w: module id is required", ErrInvalidCatalog)
	}
	if m.Name == "" {
		return fmt.Errorf("%w: module %q: name is required", ErrInvalidCatalog, m.ID)
	}
	if m.RequiresAuth && len(m.Auth) == 0 {
		return fmt.Errorf("%w: module %q requires auth but declares no fields", ErrInvalidCatalog, m.ID)
	}
	if !m.RequiresAuth && len(m.Auth) > 0 {
		return fmt.Errorf("%w: module %q declares auth fields but requiresAuth is false", ErrInvalidCatalog, m.ID)
	}
	if cmd, _ := m.Config["command"].(string); cmd == "" {
		return fmt.Errorf("%w: module %q: config.command is required", ErrInvalidCatalog, m.ID)
	}

	declared := make(map[string]bool, len(m.Auth))
	for _, f := range m.Auth {
		if f.Name == "" {
			return fmt.Errorf("%w: module %q has an unnamed auth field", ErrInvalidCatalog, m.ID)
		}
		if declared[f.Name] {
			return fmt.Errorf("%w: module %q declares field %q twice", ErrInvalidCatalog, m.ID, f.Name)
		}
		declared[f.Name] = true
	}

	refs, embedded := TemplateReferences(m.Config)
	if len(embedded) > 0 {
		return fmt.Errorf("%w: module %q: placeholder must be a whole value, found in %q",
			ErrInvalidCatalog, m.ID, embedded[0])
	}
	for _, name := range refs {
		if !declared[name] {
			return fmt.Errorf("%w: module %q: placeholder ${%s} references an undeclared auth field",
				ErrInvalidCatalog, m.ID, name)
		}
	}
	return nil
}

// Module returns the module with the given id.
func (c *Catalog) Module(id string) (IntegrationModule, bool) {
	i, ok := c.moduleIdx[id]
	if !ok {
		return IntegrationModule{}, false
	}
	return c.modules[i], true
}

// Bundle returns the bundle with the given id.
func (c *Catalog) Bundle(id string) (Bundle, bool) {
	i, ok := c.bundleIdx[id]
	if !ok {
		return Bundle{}, false
	}
	return c.bundles[i], true
}

// Skill returns the skill with the given id.
func (c *Catalog) Skill(id string) (Skill, bool) {
	i, ok := c.skillIdx[id]
	if !ok {
		return Skill{}, false
	}
	return c.skills[i], true
}

// Modules returns all modules in catalog order.
func (c *Catalog) Modules() []IntegrationModule {
	out := make([]IntegrationModule, len(c.modules))
	copy(out, c.modules)
	return out
}

// Bundles returns all bundles in catalog order.
func (c *Catalog) Bundles() []Bundle {
	out := make([]Bundle, len(c.bundles))
	copy(out, c.bundles)
	return out
}

// Skills returns all skills in catalog order.
func (c *Catalog) Skills() []Skill {
	out := make([]Skill, len(c.skills))
	copy(out, c.skills)
	return out
}

// Prerequisites returns the declared host capability probes.
func (c *Catalog) Prerequisites() []Prerequisite {
	out := make([]Prerequisite, len(c.prereqs))
	copy(out, c.prereqs)
	return out
}

// SkillDriver returns the host program required to install skills.
func (c *Catalog) SkillDriver() string { return c.skillDriver }

// SkillCommand returns the argv that installs the given skill.
func (c *Catalog) SkillCommand(s Skill) []string {
	argv := make([]string, len(c.skillInstall))
	for i, a := range c.skillInstall {
		argv[i] = strings.ReplaceAll(a, skillSourceToken, s.Source)
	}
	return argv
}

// ModulesInCategory returns the modules of one category in catalog order.
func (c *Catalog) ModulesInCategory(category string) []IntegrationModule {
	var out []IntegrationModule
	for _, m := range c.modules {
		if m.Category == category {
			out = append(out, m)
		}
	}
	return out
}

// Categories returns the distinct categories in order of first appearance.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range c.modules {
		if !seen[m.Category] {
			seen[m.Category] = true
			out = append(out, m.Category)
		}
	}
	return out
}

// AuthModules returns the auth-requiring modules among ids, in catalog order.
func (c *Catalog) AuthModules(ids []string) []IntegrationModule {
	var out []IntegrationModule
	for _, id := range c.Order(ids) {
		m := c.modules[c.moduleIdx[id]]
		if m.RequiresAuth {
			out = append(out, m)
		}
	}
	return out
}

// Order returns the known ids sorted into catalog order, dropping
// duplicates and unknown ids.
func (c *Catalog) Order(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if _, ok := c.moduleIdx[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return c.moduleIdx[out[i]] < c.moduleIdx[out[j]]
	})
	return out
}

// ModuleIDs returns the ids of all modules in catalog order.
func (c *Catalog) ModuleIDs() []string {
	ids := make([]string, len(c.modules))
	for i, m := range c.modules {
		ids[i] = m.ID
	}
	return ids
}

// BundleIDs returns the ids of all bundles in catalog order.
func (c *Catalog) BundleIDs() []string {
	ids := make([]string, len(c.bundles))
	for i, b := range c.bundles {
		ids[i] = b.ID
	}
	return ids
}
