package postgres

import (
	"context"
	"time"

	"bmeh/internal/domain/entity"
	domainerrors "bmeh/internal/domain/errors"
	"bmeh/internal/domain/repository"
	"bmeh/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindAll returns every user ordered by creation time.
func (repo *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	var rows []*model.UserModel
	if err := repo.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, toUserDomain(row))
	}

	return users, nil
}

// FindByID retrieves a single user by its ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// ExistsByEmail reports whether a user already uses the email.
func (repo *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return repo.exists(ctx, "email = ?", email)
}

// ExistsByCPF reports whether a user already uses the CPF.
func (repo *userRepository) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	return repo.exists(ctx, "cpf = ?", cpf)
}

func (repo *userRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where(query, arg).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check user existence")
	}

	return count > 0, nil
}

// Create inserts a new user and copies the stored timestamps back onto the entity.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		return translateUserWriteError(err, "failed to create user")
	}

	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update overwrites every mutable column of an existing user.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)
	now := time.Now()

	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"login":              userM.Login,
			"email":              userM.Email,
			"password_hash":      userM.PasswordHash,
			"cpf":                userM.CPF,
			"phone":              userM.Phone,
			"address_street":     userM.Address.Street,
			"address_number":     userM.Address.Number,
			"address_complement": userM.Address.Complement,
			"address_district":   userM.Address.District,
			"address_city":       userM.Address.City,
			"address_state":      userM.Address.State,
			"address_zip_code":   userM.Address.ZipCode,
			"updated_at":         now,
		})
	if result.Error != nil {
		return translateUserWriteError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	user.UpdatedAt = now

	return nil
}

// Delete removes the user row.
func (repo *userRepository) Delete(ctx context.Context, user *entity.User) error {
	result := repo.db.WithContext(ctx).Where("id = ?", user.ID).Delete(&model.UserModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Login:        data.Login,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		CPF:          data.CPF,
		Phone:        data.Phone,
		Address: &entity.Address{
			Street:     data.Address.Street,
			Number:     data.Address.Number,
			Complement: data.Address.Complement,
			District:   data.Address.District,
			City:       data.Address.City,
			State:      data.Address.State,
			ZipCode:    data.Address.ZipCode,
		},
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	userM := &model.UserModel{
		ID:           data.ID,
		Login:        data.Login,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		CPF:          data.CPF,
		Phone:        data.Phone,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
	if data.Address != nil {
		userM.Address = model.AddressModel{
			Street:     data.Address.Street,
			Number:     data.Address.Number,
			Complement: data.Address.Complement,
			District:   data.Address.District,
			City:       data.Address.City,
			State:      data.Address.State,
			ZipCode:    data.Address.ZipCode,
		}
	}

	return userM
}
