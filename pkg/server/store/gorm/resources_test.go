package gorm

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immpres/immpres-server/pkg/model"
	"github.com/immpres/immpres-server/pkg/query"
	"github.com/immpres/immpres-server/pkg/server/store"
)

func TestResourcesList(t *testing.T) {
	db, mock := newMockDB(t)
	resources := NewResourcesStore(db)

	rows := sqlmock.NewRows([]string{"id", "short_id", "kind", "name", "owner_id"}).
		AddRow("r-1", "abc123def", "impression", "demo", "u-1").
		AddRow("r-2", "ghi456jkl", "impression", "other", "u-2")
	mock.ExpectQuery(`SELECT id, short_id, .* FROM resources WHERE kind = .*`).
		WithArgs("impression", 100).
		WillReturnRows(rows)

	out, err := resources.List(model.KindImpression, query.Criteria{Limit: 100}, "u-1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "demo", out[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResourcesListConflictingFilters(t *testing.T) {
	db, _ := newMockDB(t)
	resources := NewResourcesStore(db)

	// no query reaches the database
	_, err := resources.List(model.KindImpression, query.Criteria{FullText: "a", Pattern: "b"}, "u-1")
	assert.ErrorIs(t, err, query.ErrConflictingFilters)
}

func TestResourcesFindByShortID(t *testing.T) {
	db, mock := newMockDB(t)
	resources := NewResourcesStore(db)

	rows := sqlmock.NewRows([]string{"id", "short_id", "kind", "name"}).
		AddRow("5a1b0c9d-0000-4000-8000-000000000001", "abc123def", "object", "demo")
	mock.ExpectQuery(`SELECT .* FROM "resources" WHERE short_id = .* AND kind = .*`).
		WithArgs("abc123def", "object").
		WillReturnRows(rows)

	resource, err := resources.Find(model.KindObject, "abc123def")
	require.NoError(t, err)
	assert.Equal(t, "demo", resource.Name)
}

func TestResourcesFindByUUID(t *testing.T) {
	db, mock := newMockDB(t)
	resources := NewResourcesStore(db)

	id := "5a1b0c9d-0000-4000-8000-000000000001"
	rows := sqlmock.NewRows([]string{"id", "short_id", "kind", "name"}).
		AddRow(id, "abc123def", "impression", "demo")
	mock.ExpectQuery(`SELECT .* FROM "resources" WHERE id = .* AND kind = .*`).
		WithArgs(id, "impression").
		WillReturnRows(rows)

	resource, err := resources.Find(model.KindImpression, id)
	require.NoError(t, err)
	assert.Equal(t, "abc123def", resource.ShortID)
}

func TestResourcesFindNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	resources := NewResourcesStore(db)

	mock.ExpectQuery(`SELECT .* FROM "resources"`).
		WillReturnError(sql.ErrNoRows)

	_, err := resources.Find(model.KindImpression, "missing99")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResourcesSaveBumpsVersion(t *testing.T) {
	db, mock := newMockDB(t)
	resources := NewResourcesStore(db)

	resource, err := model.NewResource(model.KindImpression, "demo", "u-1")
	require.NoError(t, err)
	resource.Version = 3

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "resources"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, resources.Save(resource))
	assert.Equal(t, 4, resource.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
