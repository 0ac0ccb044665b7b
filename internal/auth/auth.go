// ABOUTME: Identity provider: passwordless sign-in and session snapshots.
// ABOUTME: Listeners get the snapshot immediately; last unsubscribe resets it.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// AuthError is a rejected sign-in/out call. It propagates to the direct
// caller and is never silently swallowed.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("auth %s: %v", e.Op, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// Session is an authenticated identity.
type Session struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

// Snapshot is the observable auth state. User is nil while signed out;
// Loading is true until the runtime has read the persisted session.
type Snapshot struct {
	User    *Session
	Loading bool
}

// Config holds the provider's collaborators.
type Config struct {
	Server      string // identity provider base URL
	SessionPath string // where the session is persisted
	Logger      *log.Logger
	Client      *http.Client
}

// SessionPath returns the default persisted session path.
func SessionPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "trainlog", "session.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "trainlog", "session.json")
}

// Provider exposes the current identity and sign-in/out operations.
type Provider struct {
	server      string
	sessionPath string
	client      *http.Client
	logger      *log.Logger

	mu          sync.Mutex
	snapshot    Snapshot
	listeners   map[int]func(Snapshot)
	nextID      int
	subscribers int
	running     bool
}

// NewProvider creates a provider in the logged-out, loading state.
func NewProvider(cfg Config) *Provider {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	sessionPath := cfg.SessionPath
	if sessionPath == "" {
		sessionPath = SessionPath()
	}
	return &Provider{
		server:      cfg.Server,
		sessionPath: sessionPath,
		client:      client,
		logger:      logger.With("component", "auth"),
		snapshot:    Snapshot{Loading: true},
		listeners:   make(map[int]func(Snapshot)),
	}
}

// Subscribe registers a listener. It receives the current snapshot
// immediately and on every change. The first subscriber starts the
// runtime; when the last one unsubscribes the provider tears down and
// resets to the logged-out snapshot.
func (p *Provider) Subscribe(fn func(Snapshot)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.subscribers++
	start := p.subscribers == 1 && !p.running
	if start {
		p.running = true
	}
	snap := p.snapshot
	p.mu.Unlock()

	if start {
		p.loadSession()
		p.mu.Lock()
		snap = p.snapshot
		p.mu.Unlock()
	}
	fn(snap)

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.subscribers--
		if p.subscribers == 0 {
			p.running = false
			p.snapshot = Snapshot{Loading: true}
		}
		p.mu.Unlock()
	}
}

// Current returns the current snapshot.
func (p *Provider) Current() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// UserID returns the authenticated user id, or "" when signed out.
func (p *Provider) UserID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snapshot.User == nil {
		return ""
	}
	return p.snapshot.User.UserID
}

// Token returns the current access token, or "" when signed out.
func (p *Provider) Token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snapshot.User == nil {
		return ""
	}
	return p.snapshot.User.AccessToken
}

// loadSession reads the persisted session, leaving the provider signed
// out when none exists.
func (p *Provider) loadSession() {
	var user *Session
	data, err := os.ReadFile(p.sessionPath)
	if err == nil {
		var s Session
		if json.Unmarshal(data, &s) == nil && s.UserID != "" {
			user = &s
		}
	}
	p.publish(Snapshot{User: user, Loading: false})
}

func (p *Provider) publish(snap Snapshot) {
	p.mu.Lock()
	p.snapshot = snap
	fns := make([]func(Snapshot), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// SignIn initiates passwordless sign-in: the provider emails a one-time
// code to the address. Completing the flow happens out of band via
// CompleteSignIn.
func (p *Provider) SignIn(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	if err := p.post(ctx, "/auth/v1/otp", "", body, nil); err != nil {
		return &AuthError{Op: "sign-in", Err: err}
	}
	p.logger.Info("magic link requested", "email", email)
	return nil
}

// CompleteSignIn exchanges an emailed one-time code for a session,
// persists it, and publishes the authenticated snapshot.
func (p *Provider) CompleteSignIn(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "token": code}
	var session Session
	if err := p.post(ctx, "/auth/v1/verify", "", body, &session); err != nil {
		return &AuthError{Op: "verify", Err: err}
	}
	session.Email = email

	if err := p.saveSession(&session); err != nil {
		return &AuthError{Op: "verify", Err: err}
	}
	p.publish(Snapshot{User: &session, Loading: false})
	p.logger.Info("signed in", "user", session.UserID)
	return nil
}

// SignOut ends the session remotely, then clears the local identity.
// A failed remote call leaves the session in place.
func (p *Provider) SignOut(ctx context.Context) error {
	token := p.Token()
	if token == "" {
		return nil
	}
	if err := p.post(ctx, "/auth/v1/logout", token, nil, nil); err != nil {
		return &AuthError{Op: "sign-out", Err: err}
	}
	if err := os.Remove(p.sessionPath); err != nil && !os.IsNotExist(err) {
		return &AuthError{Op: "sign-out", Err: err}
	}
	p.publish(Snapshot{User: nil, Loading: false})
	p.logger.Info("signed out")
	return nil
}

func (p *Provider) saveSession(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(p.sessionPath), 0750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.sessionPath, data, 0600)
}

func (p *Provider) post(ctx context.Context, path, token string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.server+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
