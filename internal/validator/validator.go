// Package validator turns field-level validation into HTTP errors.
package validator

import "github.com/garrettladley/ksclock/internal/xerrors"

type Validator interface {
	// Validate returns a message per invalid field, or nothing when v is valid.
	Validate() map[string]string
}

func Validate(v Validator) *xerrors.Error {
	if fields := v.Validate(); len(fields) > 0 {
		return xerrors.Validation(fields)
	}
	return nil
}
