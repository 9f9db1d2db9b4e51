package sessionfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/uia-acad/notas/core/session"
)

// Store persists the single session record as a JSON file, permissions
// 0600. The file is the equivalent of the browser's session storage: it
// survives a restart so start-up reconciliation has a timestamp to check.
type Store struct {
	path string
}

var _ session.Store = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load() (*session.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, session.ErrNoSession
		}
		return nil, errors.Wrapf(err, "reading %s", s.path)
	}

	sess := new(session.Session)
	if err := json.Unmarshal(data, sess); err != nil {
		// a corrupt session file is as good as no session
		_ = os.Remove(s.path)
		return nil, session.ErrNoSession
	}
	return sess, nil
}

func (s *Store) Save(sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(s.path))
	}

	// write-then-rename so a crash never leaves a half-written session
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrapf(err, "writing %s", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrapf(err, "renaming %s", tmp)
	}
	return nil
}

func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", s.path)
	}
	return nil
}
