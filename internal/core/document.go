package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const emptyDocument = "{}"

// maxBackupSuffix bounds the search for a free backup name.
const maxBackupSuffix = 1000

// Document is the assistant configuration file held in memory between load
// and write. Top-level keys other than the reserved one are kept byte for
// byte, in their original order.
type Document struct {
	Path string

	content string
	raw     []byte // bytes read from disk, nil if the file did not exist
	corrupt bool
}

// LoadDocument reads the document at path. A missing or whitespace-only
// file yields an empty document. A file that is not a valid JSON object is
// marked corrupt and the in-memory content starts from an empty document;
// the caller must call Backup before writing.
func LoadDocument(path string) (*Document, error) {
	d := &Document{Path: path, content: emptyDocument}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return d, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	d.raw = data

	if strings.TrimSpace(string(data)) == "" {
		return d, nil
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		d.corrupt = true
		return d, nil
	}
	d.content = string(data)
	return d, nil
}

// Corrupt reports whether the file on disk could not be parsed.
func (d *Document) Corrupt() bool { return d.corrupt }

// Existed reports whether a file was present at load time.
func (d *Document) Existed() bool { return d.raw != nil }

// Backup copies the original bytes verbatim to <path>.backup.<unix>, adding
// a -1, -2, ... suffix if that name is taken. It returns the backup path.
func (d *Document) Backup(now time.Time) (string, error) {
	base := fmt.Sprintf("%s.backup.%d", d.Path, now.Unix())
	for n := 0; n < maxBackupSuffix; n++ {
		p := base
		if n > 0 {
			p = fmt.Sprintf("%s-%d", base, n)
		}
		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return "", fmt.Errorf("creating backup: %w", err)
		}
		if _, err := f.Write(d.raw); err != nil {
			_ = f.Close()
			_ = os.Remove(p)
			return "", fmt.Errorf("writing backup: %w", err)
		}
		if err := f.Sync(); err != nil {
			_ = f.Close()
			_ = os.Remove(p)
			return "", fmt.Errorf("syncing backup: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("closing backup: %w", err)
		}
		return p, nil
	}
	return "", fmt.Errorf("creating backup: no free name for %s", base)
}

// Merge writes entries under the reserved key. In MergeReplace mode the
// reserved key becomes exactly entries. In MergeAppend mode existing entries
// are kept and only the given ids are inserted or overwritten.
func (d *Document) Merge(key string, mode MergeMode, entries map[string]any) error {
	keyPath := escapePathKey(key)

	switch mode {
	case MergeReplace:
		raw, err := marshalEntries(entries)
		if err != nil {
			return err
		}
		out, err := sjson.SetRaw(d.content, keyPath, raw)
		if err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
		d.content = out
		return nil

	case MergeAppend:
		if !gjson.Get(d.content, keyPath).IsObject() {
			out, err := sjson.SetRaw(d.content, keyPath, emptyDocument)
			if err != nil {
				return fmt.Errorf("setting %s: %w", key, err)
			}
			d.content = out
		}
		for _, id := range sortedKeys(entries) {
			raw, err := json.Marshal(entries[id])
			if err != nil {
				return fmt.Errorf("encoding %s: %w", id, err)
			}
			out, err := sjson.SetRaw(d.content, keyPath+"."+escapePathKey(id), string(raw))
			if err != nil {
				return fmt.Errorf("setting %s.%s: %w", key, id, err)
			}
			d.content = out
		}
		return nil

	default:
		return fmt.Errorf("unknown merge mode %q", mode)
	}
}

// EntryIDs returns the ids present under the reserved key, in document order.
func (d *Document) EntryIDs(key string) []string {
	var ids []string
	gjson.Get(d.content, escapePathKey(key)).ForEach(func(k, _ gjson.Result) bool {
		ids = append(ids, k.String())
		return true
	})
	return ids
}

// Entry returns the raw JSON of one entry under the reserved key.
func (d *Document) Entry(key, id string) (string, bool) {
	r := gjson.Get(d.content, escapePathKey(key)+"."+escapePathKey(id))
	if !r.Exists() {
		return "", false
	}
	return r.Raw, true
}

// Bytes returns the formatted document.
func (d *Document) Bytes() []byte {
	return pretty.Pretty([]byte(d.content))
}

// Write formats the document and atomically replaces the file on disk.
// A corrupt original must have been backed up first.
func (d *Document) Write() error {
	data := d.Bytes()
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("refusing to write invalid document to %s", d.Path)
	}
	if err := writeFileAtomic(d.Path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", d.Path, err)
	}
	return nil
}

// marshalEntries encodes entries as a JSON object with sorted keys.
func marshalEntries(entries map[string]any) (string, error) {
	if len(entries) == 0 {
		return emptyDocument, nil
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encoding entries: %w", err)
	}
	return string(raw), nil
}

// escapePathKey escapes a single key for use in a gjson/sjson path.
func escapePathKey(key string) string {
	var b strings.Builder
	for _, c := range key {
		switch c {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// sortedIDs returns the keys of a string-keyed set in sorted order.
func sortedIDs(m map[string]bool) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
