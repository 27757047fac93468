package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bootcamper/internal/domain"
)

func TestCanMutateOwner(t *testing.T) {
	p := domain.Principal{ID: "u1", Role: domain.RoleUser}

	assert.NoError(t, CanMutate(p, "u1"))
}

func TestCanMutateNonOwnerDenied(t *testing.T) {
	p := domain.Principal{ID: "u1", Role: domain.RoleUser}

	err := CanMutate(p, "u2")
	assert.True(t, domain.IsForbidden(err))
}

func TestCanMutateAdminBypassesOwnership(t *testing.T) {
	p := domain.Principal{ID: "admin1", Role: domain.RoleAdmin}

	assert.NoError(t, CanMutate(p, "someone-else"))
}

func TestCanMutatePublisherNonOwnerDenied(t *testing.T) {
	p := domain.Principal{ID: "p1", Role: domain.RolePublisher}

	err := CanMutate(p, "p2")
	assert.True(t, domain.IsForbidden(err))
}

func TestCanMutateEmptyOwnerDenied(t *testing.T) {
	// A resource without an owner reference can only be touched by admins.
	p := domain.Principal{ID: "", Role: domain.RoleUser}

	err := CanMutate(p, "")
	assert.True(t, domain.IsForbidden(err))
}

func TestCanPublishBootcampPublisherFirstTime(t *testing.T) {
	p := domain.Principal{ID: "p1", Role: domain.RolePublisher}

	assert.NoError(t, CanPublishBootcamp(p, 0))
}

func TestCanPublishBootcampPublisherSecondTimeConflicts(t *testing.T) {
	p := domain.Principal{ID: "p1", Role: domain.RolePublisher}

	err := CanPublishBootcamp(p, 1)
	assert.True(t, domain.IsConflict(err))
}

func TestCanPublishBootcampAdminExemptFromLimit(t *testing.T) {
	p := domain.Principal{ID: "a1", Role: domain.RoleAdmin}

	assert.NoError(t, CanPublishBootcamp(p, 3))
}

func TestCanPublishBootcampUserForbidden(t *testing.T) {
	p := domain.Principal{ID: "u1", Role: domain.RoleUser}

	err := CanPublishBootcamp(p, 0)
	assert.True(t, domain.IsForbidden(err))
}

func TestCanContribute(t *testing.T) {
	assert.NoError(t, CanContribute(domain.Principal{ID: "u1", Role: domain.RoleUser}))
	assert.True(t, domain.IsUnauthorized(CanContribute(domain.Principal{})))
}
