package services

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bootcamper/internal/domain"
	"bootcamper/internal/domain/models"
)

// UserInput is the admin-facing payload for creating accounts.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// UserService is the admin-only account CRUD. Route-level role gating keeps
// non-admins out; the service still verifies the caller to stay safe when
// reused elsewhere.
type UserService struct {
	Users UserStore
	Log   *zap.Logger
}

func (s *UserService) List(ctx context.Context, p domain.Principal, params url.Values) (Page[models.User], error) {
	if !p.IsAdmin() {
		return Page[models.User]{}, domain.ForbiddenError{Msg: "admin role required"}
	}
	return listPage(ctx, params, s.Users.List)
}

func (s *UserService) Get(ctx context.Context, p domain.Principal, id string) (models.User, error) {
	if !p.IsAdmin() {
		return models.User{}, domain.ForbiddenError{Msg: "admin role required"}
	}
	return s.Users.GetByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, p domain.Principal, in UserInput) (models.User, error) {
	if !p.IsAdmin() {
		return models.User{}, domain.ForbiddenError{Msg: "admin role required"}
	}
	if err := validateAccountBasics(in.Name, in.Email, in.Password); err != nil {
		return models.User{}, err
	}
	role := in.Role
	if role == "" {
		role = string(domain.RoleUser)
	}
	if !domain.ValidRole(role) {
		return models.User{}, domain.ValidationError{Field: "role", Msg: "unknown role"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	u := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		Role:         domain.Role(role),
		PasswordHash: string(hash),
	}
	if err := s.Users.Insert(ctx, &u); err != nil {
		return models.User{}, err
	}
	s.Log.Info("user created",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", role),
		zap.String("actor_id", p.ID))
	return u, nil
}

func (s *UserService) Update(ctx context.Context, p domain.Principal, id string, patch map[string]interface{}) (models.User, error) {
	if !p.IsAdmin() {
		return models.User{}, domain.ForbiddenError{Msg: "admin role required"}
	}
	existing, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	update := sanitizePatch(patch, "resetPasswordToken", "resetPasswordExpire")
	if raw, ok := update["role"]; ok {
		role, _ := raw.(string)
		if !domain.ValidRole(role) {
			return models.User{}, domain.ValidationError{Field: "role", Msg: "unknown role"}
		}
	}
	if raw, ok := update["password"]; ok {
		pw, _ := raw.(string)
		if len(pw) < 6 {
			return models.User{}, domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		update["password"] = string(hash)
	}
	if email, ok := update["email"].(string); ok {
		update["email"] = normalizeEmail(email)
	}
	if len(update) == 0 {
		return existing, nil
	}
	return s.Users.Update(ctx, existing.ID, update)
}

func (s *UserService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if !p.IsAdmin() {
		return domain.ForbiddenError{Msg: "admin role required"}
	}
	existing, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.Users.Delete(ctx, existing.ID)
}

func validateAccountBasics(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return domain.ValidationError{Field: "name", Msg: "is required"}
	}
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.ValidationError{Field: "email", Msg: "must be a valid email address"}
	}
	if len(password) < 6 {
		return domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
