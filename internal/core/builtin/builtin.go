// Package builtin embeds the default integration catalog and the schema
// every catalog file must satisfy.
package builtin

import _ "embed"

//go:embed catalog.yaml
var catalogYAML []byte

//go:embed catalog.schema.json
var catalogSchema []byte

// Catalog returns the embedded default catalog.
func Catalog() []byte { return catalogYAML }

// Schema returns the catalog JSON schema.
func Schema() []byte { return catalogSchema }
