package model

// Wildcard is the grant-list sentinel meaning "every principal", including
// callers that never authenticated.
const Wildcard = "*"

// Grant is a role list on a resource (editors, viewers or browsers). It is a
// tagged set: either the wildcard grant, or an explicit set of principal IDs.
// Membership of the wildcard never compares equal to a real principal ID; the
// two cases are kept distinct here rather than in every call site.
type Grant []string

// Everyone reports whether the list carries the wildcard grant.
func (g Grant) Everyone() bool {
	for _, id := range g {
		if id == Wildcard {
			return true
		}
	}
	return false
}

// Contains reports whether the principal is covered by this grant, either
// explicitly or through the wildcard. An empty principal (anonymous caller)
// only matches the wildcard.
func (g Grant) Contains(principal string) bool {
	for _, id := range g {
		if id == Wildcard {
			return true
		}
		if principal != "" && id == principal {
			return true
		}
	}
	return false
}
