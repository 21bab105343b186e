// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "bmeh/internal/delivery/context"
	"bmeh/internal/domain/entity"
	domainerrors "bmeh/internal/domain/errors"
	"bmeh/internal/domain/repository"
	"bmeh/internal/domain/service"
	"bmeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	logger    *slog.Logger
	newID     func() uuid.UUID
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Logger    *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		logger:    params.Logger,
		newID:     uuid.New,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListUsers returns every stored user in storage order.
func (srv *userService) ListUsers(ctx context.Context) ([]*usecase.UserView, error) {
	// Single query operation - use direct repository instance
	users, err := srv.userRepo.FindAll(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list users", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list users")
	}

	return usecase.NewUserViews(users), nil
}

// GetUser returns the user with the given id.
func (srv *userService) GetUser(ctx context.Context, userID uuid.UUID) (*usecase.UserView, error) {
	user, err := findUser(ctx, srv.userRepo, userID)
	if err != nil {
		return nil, err
	}

	return usecase.NewUserView(user), nil
}

// CreateUser validates the request, checks email and CPF uniqueness and stores a new user.
func (srv *userService) CreateUser(ctx context.Context, input *usecase.UserRequest) (*usecase.UserView, error) {
	if err := validateRequiredFields(input); err != nil {
		srv.log(ctx).Warn("Rejected user creation", slog.Any("error", err))

		return nil, err
	}

	var created *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		if err := checkUniqueness(ctx, userRepo, input); err != nil {
			return err
		}

		// Uniqueness is settled, so the hash is not wasted on a doomed request.
		hashedPassword, err := srv.hashPassword(input.Password)
		if err != nil {
			return err
		}

		newUser := &entity.User{
			ID:           srv.newID(),
			Login:        input.Login,
			Email:        input.Email,
			PasswordHash: hashedPassword,
			CPF:          input.CPF,
			Phone:        input.Phone,
			Address:      input.Address.Clone(),
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user")
		}
		created = newUser

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to execute create user transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute create user transaction")
	}

	srv.log(ctx).Info("User created", slog.Any("userID", created.ID))

	return usecase.NewUserView(created), nil
}

// UpdateUser applies a partial update. Uniqueness of email and CPF is not re-checked here.
func (srv *userService) UpdateUser(ctx context.Context, userID uuid.UUID, input *usecase.UserRequest) (*usecase.UserView, error) {
	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := findUser(ctx, userRepo, userID)
		if err != nil {
			return err
		}

		srv.log(ctx).Debug("Before update", slog.Any("user", user))
		if err := srv.applyUpdate(user, input); err != nil {
			return err
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return translateWriteError(err, userID, "failed to update user")
		}
		srv.log(ctx).Debug("After update", slog.Any("user", user))
		updated = user

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to execute update user transaction", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute update user transaction")
	}

	return usecase.NewUserView(updated), nil
}

// DeleteUser removes the user with the given id.
func (srv *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := findUser(ctx, userRepo, userID)
		if err != nil {
			return err
		}

		if err := userRepo.Delete(ctx, user); err != nil {
			return translateWriteError(err, userID, "failed to delete user")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to execute delete user transaction", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute delete user transaction")
	}

	srv.log(ctx).Info("User deleted", slog.Any("userID", userID))

	return nil
}

func (srv *userService) applyUpdate(user *entity.User, input *usecase.UserRequest) error {
	if input == nil {
		return nil
	}

	if !isBlank(input.Login) {
		user.Login = input.Login
	}
	if !isBlank(input.Email) {
		user.Email = input.Email
	}
	if !isBlank(input.Password) {
		hashedPassword, err := srv.hashPassword(input.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hashedPassword
	}
	if !isBlank(input.CPF) {
		user.CPF = input.CPF
	}
	if !isBlank(input.Phone) {
		user.Phone = input.Phone
	}
	if input.Address != nil {
		user.Address = input.Address.Clone()
	}

	return nil
}

// hashPassword passes ErrPasswordTooLong through and reports any other hasher failure as ErrPasswordHashFailed.
func (srv *userService) hashPassword(password string) (string, error) {
	hashed, err := srv.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, domainerrors.ErrPasswordTooLong) {
			return "", err
		}

		return "", errors.Wrapf(domainerrors.ErrPasswordHashFailed, "failed to hash password: %v", err)
	}

	return hashed, nil
}

func findUser(ctx context.Context, userRepo repository.UserRepository, userID uuid.UUID) (*entity.User, error) {
	user, err := userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("user not found with id: " + userID.String())
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// translateWriteError maps a row that vanished after the lookup to the same not-found error findUser returns.
func translateWriteError(err error, userID uuid.UUID, message string) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return domainerrors.ErrUserNotFound.WrapMessage("user not found with id: " + userID.String())
	}

	return errors.Wrap(err, message)
}

// checkUniqueness looks at email before CPF so a request colliding on both reports email.
func checkUniqueness(ctx context.Context, userRepo repository.UserRepository, input *usecase.UserRequest) error {
	emailTaken, err := userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return errors.Wrap(err, "failed to check email uniqueness")
	}
	if emailTaken {
		return domainerrors.NewDuplicateResourceError("email", "A user with this email already exists.")
	}

	cpfTaken, err := userRepo.ExistsByCPF(ctx, input.CPF)
	if err != nil {
		return errors.Wrap(err, "failed to check cpf uniqueness")
	}
	if cpfTaken {
		return domainerrors.NewDuplicateResourceError("cpf", "A user with this CPF already exists.")
	}

	return nil
}

func validateRequiredFields(input *usecase.UserRequest) error {
	if input == nil {
		input = &usecase.UserRequest{}
	}

	required := []struct {
		field   string
		value   string
		message string
	}{
		{"login", input.Login, "Login cannot be empty"},
		{"email", input.Email, "Email cannot be empty"},
		{"password", input.Password, "Password cannot be empty"},
		{"cpf", input.CPF, "CPF cannot be empty"},
		{"phone", input.Phone, "Phone number cannot be empty"},
	}
	for _, r := range required {
		if isBlank(r.value) {
			return domainerrors.NewMissingFieldError(r.field, r.message)
		}
	}

	if input.Address == nil {
		return domainerrors.NewMissingFieldError("address", "Address cannot be empty")
	}

	return nil
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
