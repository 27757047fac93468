// Package authz decides whether a principal may act on a resource. All
// functions are pure: callers fetch the facts, the gate only judges them.
package authz

import (
	"bootcamper/internal/domain"
)

// CanMutate allows update or delete of an owned resource to its owner or to
// an admin.
func CanMutate(p domain.Principal, ownerID string) error {
	if p.IsAdmin() {
		return nil
	}
	if ownerID != "" && ownerID == p.ID {
		return nil
	}
	return domain.ForbiddenError{Msg: "not authorized to modify this resource"}
}

// CanPublishBootcamp gates bootcamp creation. Only publishers and admins may
// publish, and a publisher is limited to a single bootcamp; admins are exempt
// from the limit.
func CanPublishBootcamp(p domain.Principal, ownedBootcamps int64) error {
	switch p.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RolePublisher:
		if ownedBootcamps > 0 {
			return domain.ConflictError{
				Resource: "bootcamp",
				Msg:      "publisher has already published a bootcamp",
			}
		}
		return nil
	default:
		return domain.ForbiddenError{Msg: "role cannot publish bootcamps"}
	}
}

// CanContribute gates course and review creation: any authenticated
// principal qualifies. Ownership is stamped by the caller from the
// principal, never taken from the request body.
func CanContribute(p domain.Principal) error {
	if p.ID == "" {
		return domain.UnauthorizedError{}
	}
	return nil
}
