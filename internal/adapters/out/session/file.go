// Package session persists the console session in a TOML file.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/pelletier/go-toml/v2"

	"github.com/bnema/dockhand/internal/boundaries/out"
	"github.com/bnema/dockhand/internal/domain"
)

// fileVersion is bumped when the file layout changes.
const fileVersion = 1

// sessionFile is the on-disk layout.
type sessionFile struct {
	Version   int       `toml:"version"`
	Server    string    `toml:"server"`
	Token     string    `toml:"token"`
	UserID    string    `toml:"user_id"`
	Email     string    `toml:"email"`
	Role      string    `toml:"role"`
	ExpiresAt string    `toml:"expires_at,omitempty"` // RFC 3339
	SavedAt   time.Time `toml:"saved_at"`
}

// FileStore implements out.SessionStore with a 0600 TOML file. A session is
// bound to the server it was obtained from.
type FileStore struct {
	path   string
	server string
	log    zerowrap.Logger
	mu     sync.Mutex
}

// DefaultPath returns the default session file path.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.Getenv("HOME")
	}
	return filepath.Join(configDir, "dockhand", "session.toml")
}

// NewFileStore creates a session store at path for server.
func NewFileStore(path, server string, log zerowrap.Logger) *FileStore {
	if path == "" {
		path = DefaultPath()
	}
	return &FileStore{path: path, server: server, log: log}
}

// Path returns the session file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored session or domain.ErrSessionNotFound.
func (s *FileStore) Load(_ context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	var f sessionFile
	if err := toml.Unmarshal(data, &f); err != nil {
		s.log.Warn().
			Str(zerowrap.FieldLayer, "adapter").
			Str(zerowrap.FieldAdapter, "session").
			Err(err).Str("path", s.path).Msg("ignoring unreadable session file")
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if f.Token == "" {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if s.server != "" && f.Server != s.server {
		s.log.Debug().
			Str(zerowrap.FieldLayer, "adapter").
			Str(zerowrap.FieldAdapter, "session").
			Str("stored", f.Server).Str("configured", s.server).Msg("stored session belongs to another server")
		return domain.Session{}, domain.ErrSessionNotFound
	}

	session := domain.Session{
		Token:  f.Token,
		UserID: f.UserID,
		Email:  f.Email,
		Role:   domain.Role(f.Role),
	}
	if f.ExpiresAt != "" {
		if session.ExpiresAt, err = time.Parse(time.RFC3339, f.ExpiresAt); err != nil {
			return domain.Session{}, fmt.Errorf("failed to parse session expiry: %w", err)
		}
	}
	return session, nil
}

// Save persists the session, replacing any previous one.
func (s *FileStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := sessionFile{
		Version: fileVersion,
		Server:  s.server,
		Token:   session.Token,
		UserID:  session.UserID,
		Email:   session.Email,
		Role:    string(session.Role),
		SavedAt: time.Now().UTC(),
	}
	if !session.ExpiresAt.IsZero() {
		f.ExpiresAt = session.ExpiresAt.UTC().Format(time.RFC3339)
	}

	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set session file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	s.log.Debug().
		Str(zerowrap.FieldLayer, "adapter").
		Str(zerowrap.FieldAdapter, "session").
		Str(zerowrap.FieldEntityID, session.UserID).Msg("session saved")
	return nil
}

// Clear removes the stored session.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	s.log.Debug().
		Str(zerowrap.FieldLayer, "adapter").
		Str(zerowrap.FieldAdapter, "session").
		Msg("session cleared")
	return nil
}

var _ out.SessionStore = (*FileStore)(nil)
