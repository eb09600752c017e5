package services

import (
	"errors"
	"fmt"

	"github.com/vneid/admin-dashboard/docstore"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrConfirmationFailed = errors.New("confirmation failed: provide the correct name or citizen ID")
)

// notFound rewrites a store miss into ErrNotFound and leaves other errors alone.
func notFound(what string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
