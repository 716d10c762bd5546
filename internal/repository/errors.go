package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrDuplicate reports a unique constraint violation on insert.
var ErrDuplicate = errors.New("duplicate record")

func translateCreateErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
