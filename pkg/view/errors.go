package view

import (
	"errors"

	"github.com/goliatone/go-viewkit/pkg/vars"
)

var (
	// ErrResourceExhausted is returned when layouts or partials nest deeper
	// than the configured maximum, typically because a template includes or
	// wraps itself.
	ErrResourceExhausted = errors.New("view: maximum template depth exceeded")

	// ErrUndefinedKey aliases vars.ErrUndefinedKey for callers of View.Get.
	ErrUndefinedKey = vars.ErrUndefinedKey

	// ErrInvalidInput aliases vars.ErrInvalidInput for callers of View.Assign.
	ErrInvalidInput = vars.ErrInvalidInput
)
