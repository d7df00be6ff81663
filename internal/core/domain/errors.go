package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrIndexUnavailable marks an unreachable or corrupt retrieval
	// index. Fatal to the run; surfaced as a system error, never as a
	// workflow status.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrOracleContract marks an oracle response outside the yes/no
	// contract. Logged and treated as the unfavorable branch.
	ErrOracleContract = errors.New("oracle contract violation")

	// ErrEmbedding marks an embedding service failure. Fatal to the
	// retrieval step, aborts the run.
	ErrEmbedding = errors.New("embedding failure")

	ErrTemporary = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
