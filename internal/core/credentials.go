package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// maxFieldAttempts bounds the re-prompt loop for a required field so a
// non-interactive asker that keeps returning "" cannot spin forever.
const maxFieldAttempts = 10

// ErrFieldRequired is returned when an asker cannot supply a value for a
// field that has no default.
var ErrFieldRequired = errors.New("value required")

// Asker supplies values for auth fields. Interactive and batch front ends
// implement it so the collector logic is identical for both.
type Asker interface {
	// ConfirmModule reports whether credentials should be collected for m.
	// Returning false skips the module entirely.
	ConfirmModule(ctx context.Context, m *IntegrationModule) (bool, error)
	// AskField returns a value for f. attempt is 0 on the first ask and
	// increments each time an empty value is rejected.
	AskField(ctx context.Context, m *IntegrationModule, f AuthField, attempt int) (string, error)
}

// Collector walks the auth-requiring modules of a selection and gathers one
// value per declared field.
type Collector struct {
	catalog *Catalog
	log     *zap.Logger
}

// NewCollector creates a Collector bound to catalog.
func NewCollector(catalog *Catalog, log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{catalog: catalog, log: log}
}

// CollectResult is the outcome of one collection pass.
type CollectResult struct {
	Credentials CredentialSet
	Skipped     []string // module ids the asker declined, catalog order
}

// Collect gathers credentials for every auth-requiring module in sel, in
// catalog order. An empty answer falls back to the field's declared default
// and is otherwise re-requested. A field name already collected for an
// earlier module is reused without asking again.
func (c *Collector) Collect(ctx context.Context, sel *Selection, asker Asker) (*CollectResult, error) {
	res := &CollectResult{Credentials: CredentialSet{}}

	for _, m := range c.catalog.AuthModules(sel.IDs()) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := asker.ConfirmModule(ctx, &m)
		if err != nil {
			return nil, fmt.Errorf("confirming module %s: %w", m.ID, err)
		}
		if !ok {
			c.log.Info("module skipped at credential prompt", zap.String("module", m.ID))
			res.Skipped = append(res.Skipped, m.ID)
			continue
		}

		for _, f := range m.Auth {
			if _, done := res.Credentials[f.Name]; done {
				continue
			}
			val, err := c.askField(ctx, &m, f, asker)
			if err != nil {
				return nil, err
			}
			res.Credentials[f.Name] = val
		}
		c.log.Debug("collected module credentials",
			zap.String("module", m.ID), zap.Int("fields", len(m.Auth)))
	}

	return res, nil
}

// askField loops until a non-empty value or a declared default is obtained.
func (c *Collector) askField(ctx context.Context, m *IntegrationModule, f AuthField, asker Asker) (string, error) {
	for attempt := 0; attempt < maxFieldAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		val, err := asker.AskField(ctx, m, f, attempt)
		if err != nil {
			return "", fmt.Errorf("module %s field %s: %w", m.ID, f.Name, err)
		}
		val = strings.TrimSpace(val)
		if val != "" {
			return val, nil
		}
		if f.HasDefault() {
			return *f.Default, nil
		}
	}
	return "", fmt.Errorf("module %s field %s: %w after %d attempts", m.ID, f.Name, ErrFieldRequired, maxFieldAttempts)
}

// BatchAsker answers from values supplied up front. It is used by the API
// and by non-interactive CLI runs.
type BatchAsker struct {
	Values CredentialSet
	Skip   map[string]bool // module ids to skip
}

// NewBatchAsker creates a BatchAsker; skip lists module ids to decline.
func NewBatchAsker(values CredentialSet, skip ...string) *BatchAsker {
	b := &BatchAsker{Values: values, Skip: make(map[string]bool, len(skip))}
	if b.Values == nil {
		b.Values = CredentialSet{}
	}
	for _, id := range skip {
		b.Skip[id] = true
	}
	return b
}

// ConfirmModule declines modules listed in Skip.
func (b *BatchAsker) ConfirmModule(_ context.Context, m *IntegrationModule) (bool, error) {
	return !b.Skip[m.ID], nil
}

// AskField returns the supplied value. A missing value is returned as "" on
// the first attempt so the collector can apply a declared default; a second
// attempt means the value is required and cannot be re-entered.
func (b *BatchAsker) AskField(_ context.Context, m *IntegrationModule, f AuthField, attempt int) (string, error) {
	if attempt > 0 {
		return "", fmt.Errorf("%w: no value supplied for %s", ErrFieldRequired, f.Name)
	}
	return b.Values[f.Name], nil
}
