//go:build integration

package postgres

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"bmeh/internal/domain/entity"
	domainerrors "bmeh/internal/domain/errors"
	"bmeh/internal/domain/repository"
	"bmeh/internal/infra/persistence/migrations"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// openTestDB connects to BMEH_TEST_DATABASE_URL and migrates a clean users table.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("BMEH_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("BMEH_TEST_DATABASE_URL not set")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(logger, false),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.NewMigrator(sqlDB, logger).Up(context.Background()))
	require.NoError(t, db.Exec("TRUNCATE TABLE users").Error)

	return db
}

func newTestUser(email, cpf string) *entity.User {
	return &entity.User{
		ID:           uuid.New(),
		Login:        "maria",
		Email:        email,
		PasswordHash: "$2a$10$hash",
		CPF:          cpf,
		Phone:        "+55 11 99999-0000",
		Address:      &entity.Address{Street: "Rua das Flores", Number: "42", City: "São Paulo", State: "SP"},
	}
}

func TestUserRepository_Integration_CRUD(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := newTestUser("maria@example.com", "123.456.789-09")
	require.NoError(t, repo.Create(ctx, user))
	assert.False(t, user.CreatedAt.IsZero())

	exists, err := repo.ExistsByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByCPF(ctx, "000.000.000-00")
	require.NoError(t, err)
	assert.False(t, exists)

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)
	assert.Equal(t, "São Paulo", found.Address.City)

	found.Login = "maria-updated"
	require.NoError(t, repo.Update(ctx, found))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "maria-updated", all[0].Login)
	assert.Equal(t, user.CreatedAt.Unix(), all[0].CreatedAt.Unix())

	require.NoError(t, repo.Delete(ctx, found))
	_, err = repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_Integration_UniqueIndexes(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestUser("maria@example.com", "123.456.789-09")))

	err := repo.Create(ctx, newTestUser("maria@example.com", "999.999.999-99"))
	var duplicate *domainerrors.DuplicateResourceError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "email", duplicate.Field)

	err = repo.Create(ctx, newTestUser("other@example.com", "123.456.789-09"))
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "cpf", duplicate.Field)
}

func TestTransactionManager_Integration_RollbackOnError(t *testing.T) {
	db := openTestDB(t)
	txManager := NewTransactionManager(db)
	ctx := context.Background()
	boom := errors.New("boom")

	user := newTestUser("maria@example.com", "123.456.789-09")
	err := txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		if err := factory.UserRepo().Create(ctx, user); err != nil {
			return err
		}

		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = NewUserRepository(db).FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestTransactionManager_Integration_RollbackOnPanic(t *testing.T) {
	db := openTestDB(t)
	txManager := NewTransactionManager(db)
	ctx := context.Background()

	user := newTestUser("maria@example.com", "123.456.789-09")
	assert.Panics(t, func() {
		_ = txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
			if err := factory.UserRepo().Create(ctx, user); err != nil {
				return err
			}
			panic("boom")
		})
	})

	_, err := NewUserRepository(db).FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
