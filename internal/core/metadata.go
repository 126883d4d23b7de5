package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MetadataFileName is written next to the assistant config document.
const MetadataFileName = ".forge-credentials.json"

// CredentialRecord notes that a credential field was configured. It never
// holds the value.
type CredentialRecord struct {
	Configured   bool      `json:"configured"`
	ConfiguredAt time.Time `json:"configuredAt"`
	Modules      []string  `json:"modules"`
}

// CredentialMetadata maps field names to their records.
type CredentialMetadata struct {
	Version int                         `json:"version"`
	Fields  map[string]CredentialRecord `json:"fields"`
}

// MetadataPath returns the metadata path for a config document path.
func MetadataPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), MetadataFileName)
}

// LoadCredentialMetadata reads the metadata file. A missing or unreadable
// file yields empty metadata; the file is diagnostic only.
func LoadCredentialMetadata(path string) *CredentialMetadata {
	md := &CredentialMetadata{Version: 1, Fields: map[string]CredentialRecord{}}
	data, err := os.ReadFile(path)
	if err != nil {
		return md
	}
	var prior CredentialMetadata
	if err := json.Unmarshal(data, &prior); err != nil || prior.Fields == nil {
		return md
	}
	md.Fields = prior.Fields
	return md
}

// Record marks field as configured for module at now. Module lists are
// merged with earlier runs.
func (md *CredentialMetadata) Record(field, module string, now time.Time) {
	rec := md.Fields[field]
	rec.Configured = true
	rec.ConfiguredAt = now.UTC().Truncate(time.Second)

	set := make(map[string]bool, len(rec.Modules)+1)
	for _, m := range rec.Modules {
		set[m] = true
	}
	set[module] = true
	rec.Modules = sortedIDs(set)

	md.Fields[field] = rec
}

// Save writes the metadata atomically.
func (md *CredentialMetadata) Save(path string) error {
	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credential metadata: %w", err)
	}
	if err := writeFileAtomic(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("saving credential metadata: %w", err)
	}
	return nil
}
