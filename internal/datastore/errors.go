package datastore

import (
	commonerrors "github.com/aleister1102/expirywatch/internal/common/errors"
	"github.com/aleister1102/expirywatch/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = commonerrors.ErrNotFound

// ValidationError is returned for input the store refuses before touching the database.
type ValidationError = commonerrors.ValidationError

func NewValidationError(field string, value any, message string) error {
	return commonerrors.NewValidationError(field, value, message)
}

func storeErr(op string, err error) error {
	return models.NewStoreError(op, err)
}
