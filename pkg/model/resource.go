package model

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Kind discriminates the two resource collections sharing one table.
type Kind string

const (
	KindImpression Kind = "impression"
	KindObject     Kind = "object"
)

// Document is an opaque JSON payload (scene, path, states, data). The server
// never inspects these; they replace wholesale on update.
type Document json.RawMessage

// Value implements driver.Valuer for jsonb columns.
func (d Document) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return []byte(d), nil
}

// Scan implements sql.Scanner for jsonb columns.
func (d *Document) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = nil
	case []byte:
		*d = append((*d)[:0], v...)
	case string:
		*d = Document(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	return nil
}

// MarshalJSON renders the raw payload, or null when absent.
func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON stores the raw payload verbatim.
func (d *Document) UnmarshalJSON(data []byte) error {
	*d = append((*d)[:0], data...)
	return nil
}

// Resource represents a shared document of either kind. Editors, viewers and
// browsers may carry the "*" wildcard entry; OwnerID always names exactly one
// principal and dominates every grant list.
type Resource struct {
	ID      string `gorm:"column:id;primaryKey"`
	ShortID string `gorm:"column:short_id;uniqueIndex;not null"`
	Kind    Kind   `gorm:"column:kind;not null"`

	Name        string         `gorm:"column:name;not null"`
	Description string         `gorm:"column:description"`
	Template    string         `gorm:"column:template"`
	Thumbnail   string         `gorm:"column:thumbnail"`
	Category    string         `gorm:"column:category"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]"`

	OwnerID      string         `gorm:"column:owner_id;not null"`
	OriginatorID string         `gorm:"column:originator_id;not null"`
	Editors      pq.StringArray `gorm:"column:editors;type:text[]"`
	Viewers      pq.StringArray `gorm:"column:viewers;type:text[]"`
	Browsers     pq.StringArray `gorm:"column:browsers;type:text[]"`

	NbLikes int `gorm:"column:nb_likes;default:0"`
	NbViews int `gorm:"column:nb_views;default:0"`

	Scene  Document `gorm:"column:scene;type:jsonb"`
	Path   Document `gorm:"column:path;type:jsonb"`
	States Document `gorm:"column:states;type:jsonb"`
	Data   Document `gorm:"column:data;type:jsonb"`

	Version    int       `gorm:"column:version;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	ModifiedAt time.Time `gorm:"column:modified_at;autoUpdateTime"`
}

func (Resource) TableName() string {
	return "resources"
}

// NewResource builds a resource owned and originated by the creating
// principal. Grant lists default to owner-only (empty).
func NewResource(kind Kind, name, ownerID string) (*Resource, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	if ownerID == "" {
		return nil, errors.New("owner is required")
	}

	shortID, err := NewShortID()
	if err != nil {
		return nil, err
	}

	return &Resource{
		ID:           uuid.NewString(),
		ShortID:      shortID,
		Kind:         kind,
		Name:         name,
		OwnerID:      ownerID,
		OriginatorID: ownerID,
	}, nil
}

// EditorGrant returns the editors list as a Grant.
func (r *Resource) EditorGrant() Grant { return Grant(r.Editors) }

// ViewerGrant returns the viewers list as a Grant.
func (r *Resource) ViewerGrant() Grant { return Grant(r.Viewers) }

// BrowserGrant returns the browsers list as a Grant.
func (r *Resource) BrowserGrant() Grant { return Grant(r.Browsers) }

const shortIDLength = 9

const shortIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewShortID generates the short public alias. Nine characters over a 62
// symbol alphabet keeps collisions below the unique-index retry threshold.
func NewShortID() (string, error) {
	buf := make([]byte, shortIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = shortIDAlphabet[int(b)%len(shortIDAlphabet)]
	}
	return string(buf), nil
}

// IsShortID reports whether an id path segment refers to the short alias
// rather than the primary UUID. UUIDs are 36 characters; aliases are far
// shorter, so length disambiguates.
func IsShortID(id string) bool {
	return len(id) < 20
}
