package impl

import (
	"context"
	"encoding/json"
	"testing"

	"bmeh/internal/domain/entity"
	domainerrors "bmeh/internal/domain/errors"
	"bmeh/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateThenGet_ReturnsRequestFields(t *testing.T) {
	svc, store := createMemoryUserService()
	ctx := context.Background()
	input := validRequest()

	created, err := svc.CreateUser(ctx, input)
	require.NoError(t, err)

	fetched, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, input.Login, fetched.Login)
	assert.Equal(t, input.Email, fetched.Email)
	assert.Equal(t, input.CPF, fetched.CPF)
	assert.Equal(t, input.Phone, fetched.Phone)
	assert.Equal(t, input.Address, fetched.Address)

	stored := store.users[created.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, input.Password, stored.PasswordHash)
	assert.NotContains(t, stored.PasswordHash, input.Password)

	body, err := json.Marshal(fetched)
	require.NoError(t, err)
	assert.NotContains(t, string(body), input.Password)
	assert.NotContains(t, string(body), stored.PasswordHash)
}

func TestUserService_CreateDuplicate_LeavesStoreUnchanged(t *testing.T) {
	svc, store := createMemoryUserService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, validRequest())
	require.NoError(t, err)

	// Same email and same CPF: email is reported.
	_, err = svc.CreateUser(ctx, validRequest())
	require.Error(t, err)
	var duplicate *domainerrors.DuplicateResourceError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "email", duplicate.Field)

	other := validRequest()
	other.Email = "other@example.com"
	_, err = svc.CreateUser(ctx, other)
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "cpf", duplicate.Field)

	assert.Len(t, store.users, 1)
}

func TestUserService_UpdateLoginOnly_KeepsOtherFields(t *testing.T) {
	svc, store := createMemoryUserService()
	ctx := context.Background()
	input := validRequest()

	created, err := svc.CreateUser(ctx, input)
	require.NoError(t, err)
	hashBefore := store.users[created.ID].PasswordHash

	updated, err := svc.UpdateUser(ctx, created.ID, &usecase.UserRequest{Login: "newname", Password: "   "})
	require.NoError(t, err)

	assert.Equal(t, "newname", updated.Login)
	assert.Equal(t, input.Email, updated.Email)
	assert.Equal(t, input.CPF, updated.CPF)
	assert.Equal(t, input.Phone, updated.Phone)
	assert.Equal(t, input.Address, updated.Address)
	assert.Equal(t, hashBefore, store.users[created.ID].PasswordHash)
}

func TestUserService_UpdatePassword_ChangesHash(t *testing.T) {
	svc, store := createMemoryUserService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, validRequest())
	require.NoError(t, err)
	hashBefore := store.users[created.ID].PasswordHash

	_, err = svc.UpdateUser(ctx, created.ID, &usecase.UserRequest{Password: "brand-new"})
	require.NoError(t, err)

	assert.NotEqual(t, hashBefore, store.users[created.ID].PasswordHash)
}

func TestUserService_UpdateAllowsCollidingEmail(t *testing.T) {
	svc, _ := createMemoryUserService()
	ctx := context.Background()

	first, err := svc.CreateUser(ctx, validRequest())
	require.NoError(t, err)

	second := validRequest()
	second.Email = "second@example.com"
	second.CPF = "000.000.000-00"
	created, err := svc.CreateUser(ctx, second)
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, created.ID, &usecase.UserRequest{Email: first.Email})
	require.NoError(t, err)
	assert.Equal(t, first.Email, updated.Email)
}

func TestUserService_DeleteThenGet_NotFound(t *testing.T) {
	svc, _ := createMemoryUserService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, created.ID))

	_, err = svc.GetUser(ctx, created.ID)
	assert.Equal(t, domainerrors.KindNotFound, domainerrors.KindOf(err))

	err = svc.DeleteUser(ctx, created.ID)
	assert.Equal(t, domainerrors.KindNotFound, domainerrors.KindOf(err))
}

func TestUserService_ListUsers_StorageOrder(t *testing.T) {
	svc, _ := createMemoryUserService()
	ctx := context.Background()

	logins := []string{"carla", "ana", "bruno"}
	for i, login := range logins {
		req := validRequest()
		req.Login = login
		req.Email = login + "@example.com"
		req.CPF = string(rune('0'+i)) + "00.000.000-00"
		_, err := svc.CreateUser(ctx, req)
		require.NoError(t, err)
	}

	views, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, views, len(logins))
	for i, view := range views {
		assert.Equal(t, logins[i], view.Login)
	}
}

func TestUserService_ViewDoesNotAliasAddress(t *testing.T) {
	svc, store := createMemoryUserService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, validRequest())
	require.NoError(t, err)

	created.Address.City = "Mutated"

	assert.Equal(t, "São Paulo", store.users[created.ID].Address.City)
	assert.IsType(t, &entity.Address{}, created.Address)
}
