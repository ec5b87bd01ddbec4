package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrant(t *testing.T) {
	t.Run("explicit membership", func(t *testing.T) {
		g := Grant{"alice", "bob"}
		assert.True(t, g.Contains("alice"))
		assert.False(t, g.Contains("carol"))
		assert.False(t, g.Everyone())
	})

	t.Run("wildcard covers everyone including anonymous", func(t *testing.T) {
		g := Grant{"*"}
		assert.True(t, g.Everyone())
		assert.True(t, g.Contains("anyone-at-all"))
		assert.True(t, g.Contains(""))
	})

	t.Run("anonymous never matches a real id", func(t *testing.T) {
		g := Grant{"alice"}
		assert.False(t, g.Contains(""))
	})

	t.Run("empty grant matches nobody", func(t *testing.T) {
		var g Grant
		assert.False(t, g.Everyone())
		assert.False(t, g.Contains("alice"))
	})
}

func TestParseRole(t *testing.T) {
	for _, name := range []string{"browser", "viewer", "editor", "owner"} {
		role, err := ParseRole(name)
		assert.NoError(t, err)
		assert.Equal(t, name, role.String())
	}

	_, err := ParseRole("embed")
	assert.ErrorIs(t, err, ErrUnknownRole)
	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestNewResource(t *testing.T) {
	res, err := NewResource(KindImpression, "my scene", "alice")
	assert.NoError(t, err)
	assert.Equal(t, "alice", res.OwnerID)
	assert.Equal(t, "alice", res.OriginatorID)
	assert.Len(t, res.ShortID, 9)
	assert.True(t, IsShortID(res.ShortID))
	assert.False(t, IsShortID(res.ID))

	_, err = NewResource(KindObject, "", "alice")
	assert.Error(t, err)
}
