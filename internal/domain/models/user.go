package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bootcamper/internal/domain"
)

type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	Role                domain.Role        `bson:"role" json:"role"`
	PasswordHash        string             `bson:"password" json:"-"`
	ResetPasswordToken  string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire time.Time          `bson:"resetPasswordExpire,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
}

// Principal is the authorization-facing view of the account.
func (u User) Principal() domain.Principal {
	return domain.Principal{ID: u.ID.Hex(), Role: u.Role}
}
