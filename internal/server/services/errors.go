package services

import (
	"errors"
	"fmt"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/common"
)

// storeError classifies a repository failure. Errors the repositories already
// translated (duplicates, constraint violations, missing rows) pass through,
// anything else becomes common.ErrStore.
func storeError(err error) error {
	switch {
	case errors.Is(err, common.ErrAlreadyExists),
		errors.Is(err, common.ErrConstraint),
		errors.Is(err, common.ErrorNotFound):
		return err
	default:
		return fmt.Errorf("%w: %w", common.ErrStore, err)
	}
}
