package services

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bootcamper/internal/domain"
	"bootcamper/internal/domain/models"
)

func adminPrincipal() domain.Principal {
	return domain.Principal{ID: primitive.NewObjectID().Hex(), Role: domain.RoleAdmin}
}

func TestUserServiceRequiresAdmin(t *testing.T) {
	svc := &UserService{Users: &fakeUserStore{}, Log: zap.NewNop()}
	p := domain.Principal{ID: primitive.NewObjectID().Hex(), Role: domain.RolePublisher}

	_, listErr := svc.List(context.Background(), p, url.Values{})
	_, getErr := svc.Get(context.Background(), p, primitive.NewObjectID().Hex())
	_, createErr := svc.Create(context.Background(), p, UserInput{Name: "n", Email: "a@b.c", Password: "123456"})
	_, updateErr := svc.Update(context.Background(), p, primitive.NewObjectID().Hex(), nil)
	deleteErr := svc.Delete(context.Background(), p, primitive.NewObjectID().Hex())

	for _, err := range []error{listErr, getErr, createErr, updateErr, deleteErr} {
		assert.True(t, domain.IsForbidden(err))
	}
}

func TestUserCreateValidation(t *testing.T) {
	svc := &UserService{Users: &fakeUserStore{}, Log: zap.NewNop()}
	admin := adminPrincipal()

	_, err := svc.Create(context.Background(), admin, UserInput{Name: "", Email: "a@b.c", Password: "123456"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Create(context.Background(), admin, UserInput{Name: "n", Email: "not-an-email", Password: "123456"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Create(context.Background(), admin, UserInput{Name: "n", Email: "a@b.c", Password: "short"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Create(context.Background(), admin, UserInput{Name: "n", Email: "a@b.c", Password: "123456", Role: "superuser"})
	assert.True(t, domain.IsValidation(err))
}

func TestUserCreateAdminMaySetAnyRole(t *testing.T) {
	us := &fakeUserStore{}
	svc := &UserService{Users: us, Log: zap.NewNop()}

	u, err := svc.Create(context.Background(), adminPrincipal(), UserInput{
		Name: "Root", Email: "root@b.c", Password: "123456", Role: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestUserUpdateRehashesPassword(t *testing.T) {
	us := &fakeUserStore{}
	svc := &UserService{Users: us, Log: zap.NewNop()}
	u := models.User{Name: "n", Email: "a@b.c", Role: domain.RoleUser, PasswordHash: "old"}
	require.NoError(t, us.Insert(context.Background(), &u))

	updated, err := svc.Update(context.Background(), adminPrincipal(), u.ID.Hex(), map[string]interface{}{
		"password": "newpass",
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpass")))
}

func TestUserUpdateUnknownRoleRejected(t *testing.T) {
	us := &fakeUserStore{}
	svc := &UserService{Users: us, Log: zap.NewNop()}
	u := models.User{Name: "n", Email: "a@b.c", Role: domain.RoleUser}
	require.NoError(t, us.Insert(context.Background(), &u))

	_, err := svc.Update(context.Background(), adminPrincipal(), u.ID.Hex(), map[string]interface{}{
		"role": "owner",
	})
	assert.True(t, domain.IsValidation(err))
}

func TestUserDeleteMissing(t *testing.T) {
	svc := &UserService{Users: &fakeUserStore{}, Log: zap.NewNop()}

	err := svc.Delete(context.Background(), adminPrincipal(), primitive.NewObjectID().Hex())
	assert.True(t, domain.IsNotFound(err))
}
