package domain

import (
	"context"
	"errors"
)

const MaxNameLength = 64

type Service interface {
	List(ctx context.Context) ([]Keyword, error)
	// Resolve maps raw ids to catalog entries, failing when any id is not in the catalog.
	Resolve(ctx context.Context, ids []string) ([]Keyword, error)
	Create(ctx context.Context, req CreateRequest) (*Keyword, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name string `json:"keyword"`
}

var (
	ErrInvalidName      = errors.New("invalid_keyword_name")
	ErrInvalidID        = errors.New("invalid_keyword_id")
	ErrUnknownKeyword   = errors.New("unknown_keyword")
	ErrDuplicateKeyword = errors.New("duplicate_keyword")
	ErrNotFound         = errors.New("keyword_not_found")
)
