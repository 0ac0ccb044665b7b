// ABOUTME: Remote store contract and HTTP client for sync push/pull.
// ABOUTME: Network failures surface as timeout-classified NetworkErrors.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Record is the wire envelope for one synced entity. Payload is the full
// JSON encoding of the record; the envelope repeats the sync metadata so
// either side can resolve conflicts without decoding the payload.
type Record struct {
	Table     string          `json:"table"`
	ID        string          `json:"id"`
	Version   int             `json:"version"`
	UpdatedAt string          `json:"updatedAt"`
	DeletedAt *string         `json:"deletedAt"`
	Payload   json.RawMessage `json:"payload"`
}

// Remote is the reconciliation counterpart. Push uploads local changes;
// the server applies them with the same version-then-timestamp rule the
// client uses on pull. Pull returns records changed since the cursor
// plus the next cursor value.
type Remote interface {
	Push(ctx context.Context, records []Record) error
	Pull(ctx context.Context, since string) ([]Record, string, error)
}

// NetworkError is a failed or timed-out remote call. It is caught at the
// engine boundary and surfaced as the status syncError, never thrown to
// mutation callers.
type NetworkError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("sync %s timed out: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("sync %s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

func netErr(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Timeout: isTimeout(err), Err: err}
}

// HTTPRemote talks to the remote store over JSON HTTP.
type HTTPRemote struct {
	baseURL string
	token   func() string
	client  *http.Client
}

// NewHTTPRemote creates a remote client. token is called per request so
// refreshed sessions are picked up; timeout bounds every call.
func NewHTTPRemote(baseURL string, token func() string, timeout time.Duration) *HTTPRemote {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPRemote{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

type pushRequest struct {
	Records []Record `json:"records"`
}

type pullResponse struct {
	Records []Record `json:"records"`
	Cursor  string   `json:"cursor"`
}

// Push uploads local changes.
func (r *HTTPRemote) Push(ctx context.Context, records []Record) error {
	body, err := json.Marshal(pushRequest{Records: records})
	if err != nil {
		return fmt.Errorf("encode push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/changes", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.token())

	resp, err := r.client.Do(req)
	if err != nil {
		return netErr("push", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return netErr("push", fmt.Errorf("server returned %s", resp.Status))
	}
	return nil
}

// Pull fetches records changed since the cursor.
func (r *HTTPRemote) Pull(ctx context.Context, since string) ([]Record, string, error) {
	u := r.baseURL + "/v1/changes"
	if since != "" {
		u += "?since=" + url.QueryEscape(since)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build pull request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, "", netErr("pull", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", netErr("pull", fmt.Errorf("server returned %s", resp.Status))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", netErr("pull", err)
	}
	var out pullResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, "", fmt.Errorf("decode pull response: %w", err)
	}
	return out.Records, out.Cursor, nil
}
