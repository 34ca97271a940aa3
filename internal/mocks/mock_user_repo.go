package mocks

import (
	"context"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
	domain.UserRepository
}

func (m *MockUserRepo) CreateWithToken(
	ctx context.Context,
	user *domain.User,
	tokenFn func(*domain.User) (*domain.Token, error)) (*domain.Token, error) {

	args := m.Called(ctx, user, tokenFn)

	if token, ok := args.Get(0).(*domain.Token); ok {
		return token, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockUserRepo) GetByToken(ctx context.Context, tokenHash []byte, tokenScope string) (*domain.User, error) {
	args := m.Called(ctx, tokenHash, tokenScope)

	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)

	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockUserRepo) GetById(ctx context.Context, id int) (*domain.User, error) {
	args := m.Called(ctx, id)

	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockUserRepo) ActivateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockTokenRepo struct {
	mock.Mock
	domain.TokenRepository
}

func (m *MockTokenRepo) Create(ctx context.Context, token *domain.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepo) DeleteAllForUser(ctx context.Context, tokenScope string, userID int) error {
	args := m.Called(ctx, tokenScope, userID)
	return args.Error(0)
}
