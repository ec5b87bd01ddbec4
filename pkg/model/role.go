package model

import "errors"

// ErrUnknownRole is returned for a role value outside the closed set. The
// query composer rejects the request instead of falling through to the
// unfiltered branch.
var ErrUnknownRole = errors.New("unknown role")

// Role is a visibility role used by the list endpoints' role filter.
type Role int

const (
	RoleBrowser Role = iota
	RoleViewer
	RoleEditor
	RoleOwner
)

var roleNames = map[Role]string{
	RoleBrowser: "browser",
	RoleViewer:  "viewer",
	RoleEditor:  "editor",
	RoleOwner:   "owner",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRole maps a query-string role value onto the closed role set.
func ParseRole(s string) (Role, error) {
	switch s {
	case "browser":
		return RoleBrowser, nil
	case "viewer":
		return RoleViewer, nil
	case "editor":
		return RoleEditor, nil
	case "owner":
		return RoleOwner, nil
	}
	return 0, ErrUnknownRole
}
