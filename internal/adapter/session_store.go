package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	m "github.com/jorgejac1/allylab-sub006/internal/model"
)

// Session is a remediation session file: the repository being targeted and
// the findings selected for remediation, with whatever paths have been
// resolved so far.
type Session struct {
	Repository m.RepositoryContext `json:"repository" yaml:"repository"`
	Items      []m.FindingWithFix  `json:"items" yaml:"items"`
}

// SessionStore abstracts loading and saving remediation sessions.
type SessionStore interface {
	LoadSession(path string) (*Session, error)
	SaveSession(path string, session *Session) error
}

// FileSessionStore reads and writes session files, choosing the codec from
// the file extension: .yaml/.yml use YAML, anything else JSON.
type FileSessionStore struct{}

// NewFileSessionStore constructs a FileSessionStore.
func NewFileSessionStore() *FileSessionStore {
	return &FileSessionStore{}
}

// LoadSession implements SessionStore.
func (s *FileSessionStore) LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	session := &Session{}

	if isYAML(path) {
		if err := yaml.Unmarshal(data, session); err != nil {
			return nil, fmt.Errorf("parse session yaml: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, session); err != nil {
			return nil, fmt.Errorf("parse session json: %w", err)
		}
	}

	return session, nil
}

// SaveSession implements SessionStore.
func (s *FileSessionStore) SaveSession(path string, session *Session) error {
	var (
		data []byte
		err  error
	)

	if isYAML(path) {
		data, err = yaml.Marshal(session)
	} else {
		data, err = json.MarshalIndent(session, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
