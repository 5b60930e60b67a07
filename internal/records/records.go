// Package records is the generic collection layer behind the routine CRUD
// resources (classes, grades, majors, news, activities, e-books, fees,
// payments, web config). Documents are schemaless JSON objects keyed by
// collection name and id.
package records

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type Record struct {
	ID        string
	Doc       map[string]any
	CreatedAt int64
	UpdatedAt int64
}

// JSON flattens the document with its id and timestamps for responses.
func (r Record) JSON() map[string]any {
	out := make(map[string]any, len(r.Doc)+3)
	for k, v := range r.Doc {
		out[k] = v
	}
	out["id"] = r.ID
	out["createdAt"] = r.CreatedAt
	out["updatedAt"] = r.UpdatedAt
	return out
}

type Store interface {
	Create(ctx context.Context, collection string, doc map[string]any) (Record, error)
	Get(ctx context.Context, collection, id string) (Record, error)
	// FindBy returns the first record whose top-level field equals value.
	FindBy(ctx context.Context, collection, field, value string) (Record, error)
	// List returns the whole collection newest-first.
	List(ctx context.Context, collection string) ([]Record, error)
	ListBy(ctx context.Context, collection, field, value string) ([]Record, error)
	// Update merges doc into the stored document.
	Update(ctx context.Context, collection, id string, doc map[string]any) (Record, error)
	Delete(ctx context.Context, collection, id string) error
	DeleteBy(ctx context.Context, collection, field, value string) (int64, error)
}
