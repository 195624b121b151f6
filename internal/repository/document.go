package repository

import (
	"context"
	"errors"
	"time"

	"majestic-dominion/internal/domain"
)

// ErrNoDocument is returned by Load when nothing has been saved yet.
var ErrNoDocument = errors.New("no league document stored")

// DocumentRepository persists the whole league document. Save is an atomic
// overwrite: after it returns nil, Load returns exactly what was saved.
type DocumentRepository interface {
	Load(ctx context.Context) (*domain.Document, error)
	Save(ctx context.Context, doc *domain.Document) error
}

type SnapshotInfo struct {
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Bytes     int       `json:"bytes"`
}
