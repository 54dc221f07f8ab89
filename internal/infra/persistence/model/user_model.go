// Package model contains the GORM persistence models and their mappers to
// and from domain entities. Models carry storage concerns (column types,
// indexes, table names) that never leak into the domain layer.
package model

import (
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:uuid_generate_v7()"`
	Email            string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	Name             string    `gorm:"column:name;type:varchar(255);not null"`
	PasswordHash     string    `gorm:"column:password_hash;type:varchar(255);not null"`
	StripeCustomerID *string   `gorm:"column:stripe_customer_id;type:varchar(255)"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt        time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts the persistence model to a domain entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:               m.ID,
		Email:            m.Email,
		Name:             m.Name,
		PasswordHash:     m.PasswordHash,
		StripeCustomerID: m.StripeCustomerID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromUserEntity converts a domain entity to a persistence model.
func FromUserEntity(user *entity.User) *UserModel {
	return &UserModel{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		PasswordHash:     user.PasswordHash,
		StripeCustomerID: user.StripeCustomerID,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
}

// RefreshTokenModel is the GORM model for the refresh_tokens table.
type RefreshTokenModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:uuid_generate_v7()"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	TokenHash string    `gorm:"column:token_hash;type:varchar(64);uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the RefreshTokenModel.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}

// ToEntity converts the persistence model to a domain entity.
func (m *RefreshTokenModel) ToEntity() *entity.RefreshToken {
	return &entity.RefreshToken{
		ID:        m.ID,
		UserID:    m.UserID,
		TokenHash: m.TokenHash,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

// FromRefreshTokenEntity converts a domain entity to a persistence model.
func FromRefreshTokenEntity(token *entity.RefreshToken) *RefreshTokenModel {
	return &RefreshTokenModel{
		ID:        token.ID,
		UserID:    token.UserID,
		TokenHash: token.TokenHash,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	}
}
