package commands

import (
	"context"
	"errors"

	"phyboot/internal/domain"
)

// ExitCode maps an error returned by Execute to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case errors.Is(err, domain.ErrPromptTimeout):
		return 3
	case errors.Is(err, domain.ErrTransport):
		return 2
	default:
		return 1
	}
}
