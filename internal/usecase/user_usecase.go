// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"bmeh/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// UserRequest carries the fields of a create or update call.
// Every field is optional; blank strings and a nil Address mean "not provided".
type UserRequest struct {
	Login    string          `json:"login"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	CPF      string          `json:"cpf"`
	Phone    string          `json:"phone"`
	Address  *entity.Address `json:"address"`
}

// --- Output DTOs ---

// UserView is the public projection of a user. It never carries the password hash.
type UserView struct {
	ID        uuid.UUID       `json:"id"`
	Login     string          `json:"login"`
	Email     string          `json:"email"`
	CPF       string          `json:"cpf"`
	Phone     string          `json:"phone"`
	Address   *entity.Address `json:"address"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewUserView projects a user entity into its public view.
func NewUserView(user *entity.User) *UserView {
	if user == nil {
		return nil
	}

	return &UserView{
		ID:        user.ID,
		Login:     user.Login,
		Email:     user.Email,
		CPF:       user.CPF,
		Phone:     user.Phone,
		Address:   user.Address.Clone(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewUserViews projects a slice of users, preserving order.
func NewUserViews(users []*entity.User) []*UserView {
	views := make([]*UserView, 0, len(users))
	for _, user := range users {
		views = append(views, NewUserView(user))
	}

	return views
}

// UserUsecase defines the interface for user-management operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	ListUsers(ctx context.Context) ([]*UserView, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*UserView, error)
	CreateUser(ctx context.Context, input *UserRequest) (*UserView, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, input *UserRequest) (*UserView, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}
