// Package session holds the bearer token and permission snapshot between
// runs. It is the only mutable client-side state: set at login, read on
// every request, cleared wholesale on logout or auth failure.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-jwt/jwt/v5"
)

// emailClaim is the claim URI the backend issues the user's email under.
const emailClaim = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"

var ErrNoEmail = errors.New("no email claim in token")

type state struct {
	Token       string   `json:"token"`
	Username    string   `json:"username,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

type Session struct {
	path string
	st   state
}

// Open loads a persisted session from path if one exists. A missing or
// unreadable file just yields a logged-out session.
func Open(path string) *Session {
	s := &Session{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.st); err != nil {
		s.st = state{}
	}
	return s
}

// DefaultPath places the session file under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".northwind-session.json"
	}
	return filepath.Join(dir, "northwind-admin", "session.json")
}

// Login stores the token and permission snapshot and persists them.
func (s *Session) Login(token, username string, permissions []string) error {
	s.st = state{
		Token:       token,
		Username:    username,
		Permissions: append([]string(nil), permissions...),
	}
	return s.save()
}

// Logout clears everything, in memory and on disk.
func (s *Session) Logout() error {
	s.st = state{}
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *Session) Token() string        { return s.st.Token }
func (s *Session) Username() string     { return s.st.Username }
func (s *Session) Authenticated() bool  { return s.st.Token != "" }
func (s *Session) Permissions() []string {
	return append([]string(nil), s.st.Permissions...)
}

// Email decodes the token payload without verifying the signature and
// pulls the email claim out of it. This is a convenience lookup only, not
// an authentication decision; any failure means the caller must force a
// fresh login.
func (s *Session) Email() (string, error) {
	if s.st.Token == "" {
		return "", ErrNoEmail
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.st.Token, claims); err != nil {
		return "", fmt.Errorf("decode token: %w", ErrNoEmail)
	}

	if v, ok := claims[emailClaim].(string); ok && v != "" {
		return v, nil
	}
	if v, ok := claims["email"].(string); ok && v != "" {
		return v, nil
	}
	return "", ErrNoEmail
}

func (s *Session) save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(s.st)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
