package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

const defaultUpdateTimeout = 3 * time.Second

// ReasonDisabled is the UpdateStatus reason when no update URL is configured.
const ReasonDisabled = "update check disabled"

// UpdateStatus is the advisory result of an update check.
type UpdateStatus struct {
	Current    string `json:"current"`
	Latest     string `json:"latest,omitempty"`
	Available  bool   `json:"available"`
	Determined bool   `json:"determined"` // false when the check could not complete
	Reason     string `json:"reason,omitempty"`
}

// UpdateChecker compares the running version against a remote latest version.
type UpdateChecker struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// NewUpdateChecker creates an UpdateChecker for url with the default timeout.
func NewUpdateChecker(url string) *UpdateChecker {
	return &UpdateChecker{URL: url, Client: http.DefaultClient, Timeout: defaultUpdateTimeout}
}

// Check never returns an error: any failure yields Determined=false.
func (u *UpdateChecker) Check(ctx context.Context, current string) UpdateStatus {
	st := UpdateStatus{Current: current}
	if u.URL == "" {
		st.Reason = ReasonDisabled
		return st
	}

	latest, err := u.fetchLatest(ctx)
	if err != nil {
		st.Reason = err.Error()
		return st
	}
	st.Latest = latest

	have, err := semver.NewVersion(current)
	if err != nil {
		st.Reason = fmt.Sprintf("current version %q is not a release", current)
		return st
	}
	want, err := semver.NewVersion(latest)
	if err != nil {
		st.Reason = fmt.Sprintf("latest version %q is not valid", latest)
		return st
	}
	st.Determined = true
	st.Available = want.GreaterThan(have)
	return st
}

func (u *UpdateChecker) fetchLatest(ctx context.Context) (string, error) {
	timeout := u.Timeout
	if timeout <= 0 {
		timeout = defaultUpdateTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.URL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("checking for updates: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("checking for updates: HTTP %d", resp.StatusCode)
	}

	var body struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding update response: %w", err)
	}
	v := strings.TrimSpace(body.Version)
	if v == "" {
		return "", fmt.Errorf("update response has no version")
	}
	return v, nil
}
