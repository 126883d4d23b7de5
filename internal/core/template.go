package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	placeholderRegexp = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)
	embeddedRegexp    = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}`)
)

// MissingCredentialError reports a placeholder with no collected value.
type MissingCredentialError struct {
	Module string
	Field  string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("module %q: no value collected for %s", e.Module, e.Field)
}

// placeholderName returns the field name if s is exactly one placeholder.
func placeholderName(s string) (string, bool) {
	m := placeholderRegexp.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// TemplateReferences walks a config template and returns the sorted field
// names referenced by whole-leaf placeholders, plus any string leaves that
// contain a placeholder token inside a larger string.
func TemplateReferences(v any) (refs []string, embedded []string) {
	seen := make(map[string]bool)
	var walk func(any)
	walk = func(v any) {
		switch vv := v.(type) {
		case string:
			if name, ok := placeholderName(vv); ok {
				if !seen[name] {
					seen[name] = true
					refs = append(refs, name)
				}
				return
			}
			if embeddedRegexp.MatchString(vv) {
				embedded = append(embedded, vv)
			}
		case []any:
			for _, e := range vv {
				walk(e)
			}
		case []string:
			for _, e := range vv {
				walk(e)
			}
		case map[string]any:
			for _, k := range sortedKeys(vv) {
				walk(vv[k])
			}
		case map[string]string:
			for _, e := range vv {
				walk(e)
			}
		}
	}
	walk(v)
	sort.Strings(refs)
	return refs, embedded
}

// ResolveTemplate deep-copies the module's config template and replaces
// every placeholder leaf with the collected credential. A multi-value field
// inside a list expands into one sibling entry per comma-separated segment.
// Non-placeholder leaves are copied unchanged.
func ResolveTemplate(m IntegrationModule, creds CredentialSet) (map[string]any, error) {
	r := resolver{module: m, creds: creds}
	out, err := r.value(m.Config)
	if err != nil {
		return nil, err
	}
	resolved, _ := out.(map[string]any)
	if resolved == nil {
		resolved = map[string]any{}
	}
	return resolved, nil
}

type resolver struct {
	module IntegrationModule
	creds  CredentialSet
}

func (r resolver) lookup(name string) (string, error) {
	v, ok := r.creds[name]
	if !ok {
		return "", &MissingCredentialError{Module: r.module.ID, Field: name}
	}
	return v, nil
}

func (r resolver) value(v any) (any, error) {
	switch vv := v.(type) {
	case string:
		name, ok := placeholderName(vv)
		if !ok {
			return vv, nil
		}
		return r.lookup(name)

	case []any:
		return r.list(vv)

	case []string:
		items := make([]any, len(vv))
		for i, s := range vv {
			items[i] = s
		}
		return r.list(items)

	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			resolved, err := r.value(e)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil

	case map[string]string:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			resolved, err := r.value(e)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil

	default:
		// Scalars (numbers, bools, nil) are immutable and copied as-is.
		return vv, nil
	}
}

// list resolves list entries, flattening multi-value expansions in place.
func (r resolver) list(items []any) ([]any, error) {
	out := make([]any, 0, len(items))
	for _, e := range items {
		if s, ok := e.(string); ok {
			if name, ok := placeholderName(s); ok {
				if f, declared := r.module.Field(name); declared && f.MultiValue {
					raw, err := r.lookup(name)
					if err != nil {
						return nil, err
					}
					for _, seg := range SplitMultiValue(raw) {
						out = append(out, seg)
					}
					continue
				}
			}
		}
		resolved, err := r.value(e)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// SplitMultiValue splits a comma-separated value into whitespace-trimmed
// segments. Empty segments are kept, so N segments always yield N values.
func SplitMultiValue(raw string) []string {
	segs := strings.Split(raw, ",")
	for i, seg := range segs {
		segs[i] = strings.TrimSpace(seg)
	}
	return segs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
