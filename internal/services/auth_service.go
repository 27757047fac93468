package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bootcamper/internal/domain"
	"bootcamper/internal/domain/models"
	"bootcamper/internal/mailer"
	"bootcamper/internal/token"
)

const resetTokenTTL = 10 * time.Minute

// RegisterInput is the public sign-up payload.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type AuthService struct {
	Users  UserStore
	Tokens *token.Manager
	Mail   mailer.Sender
	Log    *zap.Logger
}

// Register creates an account and returns it with a signed session token.
// Self-registration can grant user or publisher, never admin.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, string, error) {
	if err := validateAccountBasics(in.Name, in.Email, in.Password); err != nil {
		return models.User{}, "", err
	}
	role := domain.Role(in.Role)
	if in.Role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RolePublisher {
		return models.User{}, "", domain.ValidationError{Field: "role", Msg: "must be user or publisher"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", err
	}
	u := models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.Users.Insert(ctx, &u); err != nil {
		return models.User{}, "", err
	}

	tok, err := s.Tokens.Issue(u.Principal())
	if err != nil {
		return models.User{}, "", err
	}
	s.Log.Info("user registered", zap.String("user_id", u.ID.Hex()), zap.String("role", string(role)))
	return u, tok, nil
}

// Login verifies credentials and issues a session token. Missing account and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return models.User{}, "", domain.ValidationError{Msg: "please provide an email and password"}
	}

	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if domain.IsNotFound(err) {
			return models.User{}, "", domain.UnauthorizedError{Msg: "invalid credentials"}
		}
		return models.User{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, "", domain.UnauthorizedError{Msg: "invalid credentials"}
	}

	tok, err := s.Tokens.Issue(u.Principal())
	if err != nil {
		return models.User{}, "", err
	}
	return u, tok, nil
}

// Me returns the full account behind a principal.
func (s *AuthService) Me(ctx context.Context, p domain.Principal) (models.User, error) {
	return s.Users.GetByID(ctx, p.ID)
}

// UpdateDetails changes name and/or email of the calling account. Nothing
// else is patchable through this path.
func (s *AuthService) UpdateDetails(ctx context.Context, p domain.Principal, name, email string) (models.User, error) {
	u, err := s.Users.GetByID(ctx, p.ID)
	if err != nil {
		return models.User{}, err
	}

	patch := bson.M{}
	if strings.TrimSpace(name) != "" {
		patch["name"] = strings.TrimSpace(name)
	}
	if strings.TrimSpace(email) != "" {
		patch["email"] = normalizeEmail(email)
	}
	if len(patch) == 0 {
		return u, nil
	}
	return s.Users.Update(ctx, u.ID, patch)
}

// UpdatePassword rotates the password after verifying the current one and
// returns a fresh session token.
func (s *AuthService) UpdatePassword(ctx context.Context, p domain.Principal, current, next string) (string, error) {
	u, err := s.Users.GetByID(ctx, p.ID)
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return "", domain.UnauthorizedError{Msg: "password is incorrect"}
	}
	if len(next) < 6 {
		return "", domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	if _, err := s.Users.Update(ctx, u.ID, bson.M{"password": string(hash)}); err != nil {
		return "", err
	}
	return s.Tokens.Issue(u.Principal())
}

// ForgotPassword stores a hashed single-use reset token and mails the raw
// token URL. If the mail cannot be sent the token is cleared again so the
// account is left untouched.
func (s *AuthService) ForgotPassword(ctx context.Context, email, resetURLBase string) error {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	resetToken := hex.EncodeToString(raw)

	expire := time.Now().Add(resetTokenTTL)
	if _, err := s.Users.Update(ctx, u.ID, bson.M{
		"resetPasswordToken":  digest(resetToken),
		"resetPasswordExpire": expire,
	}); err != nil {
		return err
	}

	resetURL := strings.TrimRight(resetURLBase, "/") + "/api/v1/auth/resetpassword/" + resetToken
	body := fmt.Sprintf("You are receiving this email because a password reset was requested for your account. Please make a PUT request to:\n\n%s\n\nThe link expires in %s.", resetURL, resetTokenTTL)

	if err := s.Mail.Send(ctx, u.Email, "Password reset token", body); err != nil {
		if clearErr := s.Users.ClearResetToken(ctx, u.ID); clearErr != nil {
			s.Log.Error("reset token cleanup failed",
				zap.String("user_id", u.ID.Hex()),
				zap.Error(clearErr))
		}
		return domain.UpstreamError{Service: "email", Err: err}
	}
	return nil
}

// ResetPassword consumes a reset token and sets a new password, returning a
// fresh session token.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, password string) (string, error) {
	u, err := s.Users.GetByResetToken(ctx, digest(rawToken), time.Now())
	if err != nil {
		if domain.IsNotFound(err) {
			return "", domain.ValidationError{Field: "token", Msg: "invalid or expired reset token"}
		}
		return "", err
	}
	if len(password) < 6 {
		return "", domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	if _, err := s.Users.Update(ctx, u.ID, bson.M{"password": string(hash)}); err != nil {
		return "", err
	}
	if err := s.Users.ClearResetToken(ctx, u.ID); err != nil {
		return "", err
	}
	s.Log.Info("password reset", zap.String("user_id", u.ID.Hex()))
	return s.Tokens.Issue(u.Principal())
}

func digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
