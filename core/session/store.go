package session

import "errors"

// ErrNoSession is returned by a Store when no session is persisted.
var ErrNoSession = errors.New("no persisted session")

// Store persists the single session record between runs.
type Store interface {
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}
