package acl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/immpres/immpres-server/pkg/model"
)

func resource(owner string, editors, viewers, browsers []string) *model.Resource {
	return &model.Resource{
		OwnerID:  owner,
		Editors:  editors,
		Viewers:  viewers,
		Browsers: browsers,
	}
}

func TestOwnerIsImpliedEverywhere(t *testing.T) {
	// Owner absent from every list still holds read and write.
	r := resource("alice", nil, nil, nil)

	assert.True(t, CanRead("alice", r))
	assert.True(t, CanWrite("alice", r))
	assert.True(t, CanDelete("alice", r))
	assert.False(t, CanBrowse("alice", r), "browse is list-membership only")
}

func TestWildcardViewerGrantsReadToAnyone(t *testing.T) {
	r := resource("alice", nil, []string{"*"}, nil)

	for _, principal := range []string{"alice", "bob", "anyone", ""} {
		assert.True(t, CanRead(principal, r), "principal %q", principal)
	}
	assert.False(t, CanWrite("bob", r))
}

func TestEditorImpliesRead(t *testing.T) {
	r := resource("alice", []string{"bob"}, nil, nil)

	assert.True(t, CanRead("bob", r))
	assert.True(t, CanWrite("bob", r))
	assert.False(t, CanDelete("bob", r))
	assert.False(t, CanRead("carol", r))
}

func TestWildcardEditorDoesNotConferDelete(t *testing.T) {
	r := resource("alice", []string{"*"}, nil, nil)

	assert.True(t, CanWrite("bob", r))
	assert.False(t, CanDelete("bob", r))
	assert.True(t, CanDelete("alice", r))
}

func TestDeleteStrictlyNarrowerThanWrite(t *testing.T) {
	resources := []*model.Resource{
		resource("alice", nil, nil, nil),
		resource("alice", []string{"bob"}, []string{"carol"}, []string{"*"}),
		resource("alice", []string{"*"}, []string{"*"}, nil),
		resource("bob", []string{"alice"}, nil, nil),
	}
	principals := []string{"alice", "bob", "carol", "dave", ""}

	for _, r := range resources {
		for _, p := range principals {
			if CanDelete(p, r) {
				assert.True(t, CanWrite(p, r),
					"delete allowed but write denied for %q on owner=%s", p, r.OwnerID)
			}
		}
	}
}

func TestBrowse(t *testing.T) {
	r := resource("alice", nil, nil, []string{"bob"})
	assert.True(t, CanBrowse("bob", r))
	assert.False(t, CanBrowse("carol", r))

	open := resource("alice", nil, nil, []string{"*"})
	assert.True(t, CanBrowse("", open), "wildcard browse covers anonymous callers")
}

func TestOwnerReassignment(t *testing.T) {
	r := resource("alice", []string{"*"}, nil, nil)
	assert.True(t, CanReassignOwner("alice", r))
	assert.False(t, CanReassignOwner("bob", r), "wildcard editors cannot hand over ownership")
}
