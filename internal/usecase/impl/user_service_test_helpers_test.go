package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"bmeh/internal/domain/entity"
	"bmeh/internal/domain/repository"
	mockRepo "bmeh/internal/mocks/repository"
	mockSvc "bmeh/internal/mocks/service"
	"bmeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service   usecase.UserUsecase
	txManager *mockRepo.MockTransactionManager
	userRepo  *mockRepo.MockUserRepository
	txRepo    *mockRepo.MockUserRepository
	hasher    *mockSvc.MockPasswordHasher
}

func createTestUserService(t *testing.T) userServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	txRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)

	service := NewUserService(UserServiceParams{
		TxManager: txManager,
		UserRepo:  userRepo,
		Hasher:    hasher,
		Logger:    newDiscardLogger(),
	})

	return userServiceFixtures{
		service:   service,
		txManager: txManager,
		userRepo:  userRepo,
		txRepo:    txRepo,
		hasher:    hasher,
	}
}

// onExecute makes the transaction manager run the callback against txRepo and return its result.
func (f userServiceFixtures) onExecute(t *testing.T, ctx context.Context) {
	f.txManager.EXPECT().
		Execute(ctx, mock.Anything).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			factory := mockRepo.NewMockRepositoryFactory(t)
			factory.EXPECT().UserRepo().Return(f.txRepo)

			return fn(factory)
		}).
		Once()
}

func validRequest() *usecase.UserRequest {
	return &usecase.UserRequest{
		Login:    "maria",
		Email:    "maria@example.com",
		Password: "s3cret-Pass",
		CPF:      "123.456.789-09",
		Phone:    "+55 11 99999-0000",
		Address: &entity.Address{
			Street:   "Rua das Flores",
			Number:   "42",
			District: "Centro",
			City:     "São Paulo",
			State:    "SP",
			ZipCode:  "01000-000",
		},
	}
}

// --- in-memory collaborators for property style tests ---

type memoryStore struct {
	mu    sync.Mutex
	order []uuid.UUID
	users map[uuid.UUID]*entity.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[uuid.UUID]*entity.User)}
}

func (s *memoryStore) snapshot() ([]uuid.UUID, map[uuid.UUID]*entity.User) {
	order := append([]uuid.UUID(nil), s.order...)
	users := make(map[uuid.UUID]*entity.User, len(s.users))
	for id, u := range s.users {
		users[id] = cloneUser(u)
	}

	return order, users
}

// Execute holds the store lock for the whole callback and restores the snapshot on error.
func (s *memoryStore) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, users := s.snapshot()
	if err := fn(memoryFactory{repo: &memoryUserRepo{store: s, locked: true}}); err != nil {
		s.order, s.users = order, users

		return err
	}

	return nil
}

type memoryFactory struct {
	repo repository.UserRepository
}

func (f memoryFactory) UserRepo() repository.UserRepository { return f.repo }

type memoryUserRepo struct {
	store  *memoryStore
	locked bool
}

func (r *memoryUserRepo) lock() func() {
	if r.locked {
		return func() {}
	}
	r.store.mu.Lock()

	return r.store.mu.Unlock
}

func (r *memoryUserRepo) FindAll(_ context.Context) ([]*entity.User, error) {
	defer r.lock()()

	users := make([]*entity.User, 0, len(r.store.order))
	for _, id := range r.store.order {
		users = append(users, cloneUser(r.store.users[id]))
	}

	return users, nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	defer r.lock()()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(user), nil
}

func (r *memoryUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	defer r.lock()()

	for _, u := range r.store.users {
		if u.Email == email {
			return true, nil
		}
	}

	return false, nil
}

func (r *memoryUserRepo) ExistsByCPF(_ context.Context, cpf string) (bool, error) {
	defer r.lock()()

	for _, u := range r.store.users {
		if u.CPF == cpf {
			return true, nil
		}
	}

	return false, nil
}

func (r *memoryUserRepo) Create(_ context.Context, user *entity.User) error {
	defer r.lock()()

	r.store.users[user.ID] = cloneUser(user)
	r.store.order = append(r.store.order, user.ID)

	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *entity.User) error {
	defer r.lock()()

	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	r.store.users[user.ID] = cloneUser(user)

	return nil
}

func (r *memoryUserRepo) Delete(_ context.Context, user *entity.User) error {
	defer r.lock()()

	delete(r.store.users, user.ID)
	for i, id := range r.store.order {
		if id == user.ID {
			r.store.order = append(r.store.order[:i], r.store.order[i+1:]...)

			break
		}
	}

	return nil
}

func cloneUser(u *entity.User) *entity.User {
	cloned := *u
	cloned.Address = u.Address.Clone()

	return &cloned
}

// opaqueHasher returns a fresh random token per call and never embeds the password.
type opaqueHasher struct{}

func (opaqueHasher) Hash(string) (string, error) {
	return "$opaque$" + uuid.NewString(), nil
}

func (opaqueHasher) Check(string, string) bool { return false }

func createMemoryUserService() (usecase.UserUsecase, *memoryStore) {
	store := newMemoryStore()

	return NewUserService(UserServiceParams{
		TxManager: store,
		UserRepo:  &memoryUserRepo{store: store},
		Hasher:    opaqueHasher{},
		Logger:    newDiscardLogger(),
	}), store
}
