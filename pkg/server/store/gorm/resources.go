package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/immpres/immpres-server/pkg/model"
	"github.com/immpres/immpres-server/pkg/query"
	"github.com/immpres/immpres-server/pkg/server/store"
)

// Ensure ResourcesStore implements store.ResourcesStore
var _ store.ResourcesStore = (*ResourcesStore)(nil)

// ResourcesStore implements store.ResourcesStore using GORM
type ResourcesStore struct {
	db *gorm.DB
}

// NewResourcesStore creates a new ResourcesStore
func NewResourcesStore(db *gorm.DB) *ResourcesStore {
	return &ResourcesStore{db: db}
}

// List returns resource summaries of one kind matching the criteria. The
// query composer owns the SQL shape; the store only runs it.
func (s *ResourcesStore) List(kind model.Kind, criteria query.Criteria, principal string) ([]model.Resource, error) {
	sql, args, err := query.Compose(kind, criteria, principal)
	if err != nil {
		return nil, err
	}

	resources := []model.Resource{}
	if tx := s.db.Raw(sql, args...).Scan(&resources); tx.Error != nil {
		return nil, tx.Error
	}
	return resources, nil
}

// Find retrieves a single resource of a kind by ID or short ID
func (s *ResourcesStore) Find(kind model.Kind, id string) (*model.Resource, error) {
	column := "id"
	if model.IsShortID(id) {
		column = "short_id"
	}

	var resource model.Resource
	tx := s.db.Where(column+" = ? AND kind = ?", id, string(kind)).First(&resource)
	if tx.Error != nil {
		return nil, translateErr(tx.Error)
	}
	return &resource, nil
}

// Create persists a new resource
func (s *ResourcesStore) Create(resource *model.Resource) error {
	return s.db.Create(resource).Error
}

// Save updates an existing resource, bumping its version
func (s *ResourcesStore) Save(resource *model.Resource) error {
	resource.Version++
	resource.ModifiedAt = time.Now().UTC()
	return s.db.Save(resource).Error
}

// Delete removes a resource
func (s *ResourcesStore) Delete(resource *model.Resource) error {
	return s.db.Delete(resource).Error
}
