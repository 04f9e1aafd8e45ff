package errs

import (
	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

// Is understands both std wrapping and cockroach marks.
func Is(err, reference error) bool {
	return cr.Is(err, reference)
}
