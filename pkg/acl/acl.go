// Package acl answers "can principal P perform action A on resource R".
//
// The predicates are pure functions over a resource's grant lists. The owner
// is implied in every capability regardless of list membership, and delete is
// strictly owner-only: a wildcard editor grant lets anyone update a resource
// but never remove it.
package acl

import "github.com/immpres/immpres-server/pkg/model"

// CanRead reports whether the principal may fetch the full resource body.
// Viewers, editors, the owner, and anyone under a wildcard viewer/editor
// grant can read.
func CanRead(principal string, r *model.Resource) bool {
	if principal != "" && principal == r.OwnerID {
		return true
	}
	return r.ViewerGrant().Contains(principal) || r.EditorGrant().Contains(principal)
}

// CanBrowse reports whether the resource shows up in the principal's browse
// listings. Browsing is a listing-only capability; it does not imply read.
func CanBrowse(principal string, r *model.Resource) bool {
	return r.BrowserGrant().Contains(principal)
}

// CanWrite reports whether the principal may mutate the resource.
func CanWrite(principal string, r *model.Resource) bool {
	if principal != "" && principal == r.OwnerID {
		return true
	}
	return r.EditorGrant().Contains(principal)
}

// CanDelete reports whether the principal may delete the resource. Strictly
// the owner; grants never confer delete.
func CanDelete(principal string, r *model.Resource) bool {
	return principal != "" && principal == r.OwnerID
}

// CanReassignOwner reports whether the principal may change the resource's
// owner. Only the current owner may hand a resource over.
func CanReassignOwner(principal string, r *model.Resource) bool {
	return principal != "" && principal == r.OwnerID
}
