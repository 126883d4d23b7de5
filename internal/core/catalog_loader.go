package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core/builtin"
)

// LoadCatalog parses catalog YAML, checks it against the catalog schema and
// builds a validated Catalog.
func LoadCatalog(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing YAML: %v", ErrInvalidCatalog, err)
	}

	problems, err := validateCatalogSchema(raw)
	if err != nil {
		return nil, err
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}

	var cd CatalogData
	if err := yaml.Unmarshal(data, &cd); err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrInvalidCatalog, err)
	}
	return NewCatalog(cd)
}

// LoadCatalogFile loads a catalog from path, or the built-in catalog when
// path is empty.
func LoadCatalogFile(path string) (*Catalog, error) {
	if path == "" {
		return LoadCatalog(builtin.Catalog())
	}
	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := LoadCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return c, nil
}

// validateCatalogSchema returns one message per schema violation.
func validateCatalogSchema(doc any) ([]string, error) {
	schemaLoader := gojsonschema.NewBytesLoader(builtin.Schema())
	docLoader := gojsonschema.NewGoLoader(doc)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("validating catalog schema: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, e.String())
	}
	return errs, nil
}
