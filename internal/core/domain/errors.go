// internal/core/domain/errors.go
package domain

import "errors"

var (
	// ErrNoTargets indicates an empty input batch.
	ErrNoTargets = errors.New("no target records supplied")

	// ErrNoExtractors indicates the escalation chain is empty.
	ErrNoExtractors = errors.New("no extractors configured")

	// ErrNoEmail indicates a tier completed without a validated email.
	ErrNoEmail = errors.New("no email found")
)
