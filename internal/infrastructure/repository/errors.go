package repository

import (
	"errors"
	"fmt"

	"course-enrollment/internal/domain"

	"gorm.io/gorm"
)

// translateError maps gorm errors onto the domain sentinels. what names
// the row in the message, e.g. "course CS101".
func translateError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s already exists", domain.ErrConflict, what)
	default:
		return err
	}
}
