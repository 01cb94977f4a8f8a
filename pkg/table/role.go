package table

import (
	"strings"

	"github.com/goliatone/go-tablegen/pkg/errs"
)

// Role identifies the section a group renders as.
type Role int

const (
	RoleBody Role = iota
	RoleHeader
	RoleFooter
)

// renderOrder lists sections in output order.
var renderOrder = []Role{RoleHeader, RoleFooter, RoleBody}

func (r Role) String() string {
	switch r {
	case RoleHeader:
		return "header"
	case RoleFooter:
		return "footer"
	default:
		return "body"
	}
}

// GroupTag is the section element name.
func (r Role) GroupTag() string {
	switch r {
	case RoleHeader:
		return "thead"
	case RoleFooter:
		return "tfoot"
	default:
		return "tbody"
	}
}

// CellTag is the cell element name used inside the section.
func (r Role) CellTag() string {
	if r == RoleHeader {
		return "th"
	}
	return "td"
}

// ParseRole accepts role names and their element names.
func ParseRole(name string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "body", "tbody":
		return RoleBody, nil
	case "header", "head", "thead":
		return RoleHeader, nil
	case "footer", "foot", "tfoot":
		return RoleFooter, nil
	default:
		return RoleBody, errs.Newf(errs.CodeBadMethod, "table: unknown group %q", name).WithDetail("group", name)
	}
}
