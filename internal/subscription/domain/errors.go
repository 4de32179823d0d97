package domain

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrLimitExceeded = errors.New("limit_exceeded")
	ErrInvalidUser   = errors.New("invalid_user")
)

type LimitExceededError struct {
	Limit     int
	Requested int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("limit_exceeded: %d keywords selected, at most %d allowed", e.Requested, e.Limit)
}

func (e *LimitExceededError) Is(target error) bool {
	return target == ErrLimitExceeded
}

// PartialSaveError reports that additions were stored but removals failed.
type PartialSaveError struct {
	Added []snowflake.ID
	Err   error
}

func (e *PartialSaveError) Error() string {
	return fmt.Sprintf("partial_save: %d added, remove failed: %v", len(e.Added), e.Err)
}

func (e *PartialSaveError) Unwrap() error {
	return e.Err
}
