// Package query builds the effective list query for a resource collection
// from the caller's role/q/s/limit parameters.
//
// The decision table is closed: a role filter may combine with exactly one of
// the two search modes, and the two search modes never combine with each
// other. Asking for both full-text and pattern search in one request is
// rejected rather than silently ignored.
package query

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/immpres/immpres-server/pkg/model"
)

// ErrConflictingFilters is returned when q and s are requested together.
// Full-text and pattern search are mutually exclusive by design.
var ErrConflictingFilters = errors.New("full-text and pattern search cannot be combined")

// Criteria are the independent facets of a list request.
type Criteria struct {
	// Role filters by visibility role; nil means no role filter.
	Role *model.Role
	// FullText is the ranked search string (q).
	FullText string
	// Pattern is the case-insensitive regex search string (s).
	Pattern string
	// Limit caps the result count; zero means unbounded.
	Limit int
}

// ParseCriteria reads role, q, s and limit from a request query string.
// An unknown role is a hard rejection, never a fallthrough to the unfiltered
// branch. Non-numeric or non-positive limits are ignored; limitMax, when
// positive, clamps the requested limit.
func ParseCriteria(values url.Values, limitMax int) (Criteria, error) {
	c := Criteria{
		FullText: values.Get("q"),
		Pattern:  values.Get("s"),
	}

	if roleStr := values.Get("role"); roleStr != "" {
		role, err := model.ParseRole(roleStr)
		if err != nil {
			return Criteria{}, err
		}
		c.Role = &role
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			c.Limit = l
		}
	}
	// An omitted limit is clamped too: limitMax comes from the
	// api_resource_list_limit_max setting (default 1000), so a bare listing
	// never returns the whole table.
	if limitMax > 0 && (c.Limit == 0 || c.Limit > limitMax) {
		c.Limit = limitMax
	}

	return c, nil
}

// SummaryColumns is the projection list queries return: the short id and
// metadata, never the scene/path/states/data payloads.
const SummaryColumns = `id, short_id, kind, name, description, template, thumbnail, category, tags, ` +
	`owner_id, originator_id, editors, viewers, browsers, nb_likes, nb_views, version, created_at, modified_at`

// searchVector is the indexed text the two search modes run against.
const searchVector = `to_tsvector('english', coalesce(name, '') || ' ' || coalesce(category, '') || ' ' ||` +
	` coalesce(description, '') || ' ' || array_to_string(tags, ' '))`

// searchText is the same field set for pattern matching.
var patternFields = []string{"name", "category", "description", "array_to_string(tags, ' ')"}

// Compose builds the list SELECT for one resource kind. The caller's
// principal feeds the role filter; results of the full-text branches are
// plain rows, with the match score consumed by the ORDER BY and never
// projected.
func Compose(kind model.Kind, c Criteria, principal string) (string, []interface{}, error) {
	sql := `SELECT ` + SummaryColumns + ` FROM resources WHERE kind = ?`
	args := []interface{}{string(kind)}

	hasRole := c.Role != nil
	hasText := c.FullText != ""
	hasPattern := c.Pattern != ""

	// q and s never combine, with or without a role filter.
	if hasText && hasPattern {
		return "", nil, ErrConflictingFilters
	}

	orderBy := ""

	switch {
	case hasRole && !hasText && !hasPattern:
		cond, condArgs := roleCondition(*c.Role, principal)
		sql += ` AND ` + cond
		args = append(args, condArgs...)

	case hasText && !hasRole:
		// Ranked search over the publicly browsable set only.
		sql += ` AND '*' = ANY(browsers) AND ` + searchVector + ` @@ plainto_tsquery('english', ?)`
		args = append(args, c.FullText)
		orderBy = ` ORDER BY ts_rank(` + searchVector + `, plainto_tsquery('english', ?)) DESC`

	case hasPattern && !hasRole:
		// Unranked search across all resources, ordered by id.
		cond, condArgs := patternCondition(c.Pattern)
		sql += ` AND ` + cond
		args = append(args, condArgs...)
		orderBy = ` ORDER BY id`

	case hasRole && hasPattern:
		roleCond, roleArgs := roleCondition(*c.Role, principal)
		patCond, patArgs := patternCondition(c.Pattern)
		sql += ` AND ` + roleCond + ` AND ` + patCond
		args = append(args, roleArgs...)
		args = append(args, patArgs...)
		orderBy = ` ORDER BY id`

	case hasRole && hasText:
		// The role filter becomes the search's visibility filter.
		roleCond, roleArgs := roleCondition(*c.Role, principal)
		sql += ` AND ` + roleCond + ` AND ` + searchVector + ` @@ plainto_tsquery('english', ?)`
		args = append(args, roleArgs...)
		args = append(args, c.FullText)
		orderBy = ` ORDER BY ts_rank(` + searchVector + `, plainto_tsquery('english', ?)) DESC`

	default:
		// No facets requested: the whole collection, subject to limit.
	}

	sql += orderBy
	if hasText {
		// the rank expression in ORDER BY carries the query string again
		args = append(args, c.FullText)
	}

	if c.Limit > 0 {
		sql += ` LIMIT ?`
		args = append(args, c.Limit)
	}

	return sql, args, nil
}

// roleCondition maps a visibility role onto a store-level filter for the
// given principal. Wildcard grants match regardless of the principal.
func roleCondition(role model.Role, principal string) (string, []interface{}) {
	switch role {
	case model.RoleBrowser:
		return `('*' = ANY(browsers) OR ? = ANY(browsers))`, []interface{}{principal}
	case model.RoleViewer:
		return `('*' = ANY(viewers) OR ? = ANY(viewers))`, []interface{}{principal}
	case model.RoleEditor:
		return `('*' = ANY(editors) OR ? = ANY(editors))`, []interface{}{principal}
	default: // model.RoleOwner
		return `owner_id = ?`, []interface{}{principal}
	}
}

// patternCondition matches the pattern case-insensitively against each
// indexed field.
func patternCondition(pattern string) (string, []interface{}) {
	cond := `(`
	args := make([]interface{}, 0, len(patternFields))
	for i, field := range patternFields {
		if i > 0 {
			cond += ` OR `
		}
		cond += field + ` ~* ?`
		args = append(args, pattern)
	}
	cond += `)`
	return cond, args
}
