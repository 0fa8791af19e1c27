package store

import "fmt"

// PersistenceReadError reports a record that could not be loaded and was
// replaced by its default.
type PersistenceReadError struct {
	Key string
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Key, e.Err)
}

func (e *PersistenceReadError) Unwrap() error { return e.Err }
