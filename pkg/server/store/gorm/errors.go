package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/immpres/immpres-server/pkg/server/store"
)

// translateErr maps driver-level errors onto store errors.
func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
