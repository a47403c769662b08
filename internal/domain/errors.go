// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates the request failed domain validation.
var ErrValidation = errors.New("validation failed")

// ErrUnknownPlatform indicates the requested platform has no registered adapter.
var ErrUnknownPlatform = errors.New("unknown platform")
