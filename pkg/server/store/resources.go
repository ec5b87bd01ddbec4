package store

import (
	"github.com/immpres/immpres-server/pkg/model"
	"github.com/immpres/immpres-server/pkg/query"
)

// ResourcesStore abstracts impression and object storage operations
type ResourcesStore interface {
	// List returns resource summaries of one kind matching the criteria.
	// Payload columns are never loaded for listings.
	List(kind model.Kind, criteria query.Criteria, principal string) ([]model.Resource, error)

	// Find retrieves a single resource of a kind by ID or short ID
	Find(kind model.Kind, id string) (*model.Resource, error)

	// Create persists a new resource
	Create(resource *model.Resource) error

	// Save updates an existing resource, bumping its version
	Save(resource *model.Resource) error

	// Delete removes a resource
	Delete(resource *model.Resource) error
}
