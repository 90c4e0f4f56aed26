package application

import (
	"errors"
	"log/slog"

	domainerrors "ballot/contexts/governance/election-service/domain/errors"
)

// ModuleName is the value of the "module" log key for this service.
const ModuleName = "governance/election-service"

// ResolveLogger guarantees a non-nil logger for application/worker code paths.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// IsRejection reports whether err is a business rejection rather than an
// infrastructure failure. Rejections are logged at warn level.
func IsRejection(err error) bool {
	return errors.Is(err, domainerrors.ErrUnauthorized) ||
		errors.Is(err, domainerrors.ErrInvalidPhase) ||
		errors.Is(err, domainerrors.ErrInvalidState) ||
		errors.Is(err, domainerrors.ErrInvalidInput) ||
		errors.Is(err, domainerrors.ErrOutOfRange) ||
		errors.Is(err, domainerrors.ErrElectionNotFound)
}
