package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("error not found")
	ErrAssetNotFound    = fmt.Errorf("asset %w", ErrNotFound)
	ErrValidation       = errors.New("validation error")
	ErrPriceUnavailable = errors.New("error price unavailable")
)
