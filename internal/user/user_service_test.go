package user_test

import (
	"context"
	"errors"
	"testing"

	"go-leaves/internal/user"
	usererrors "go-leaves/internal/user/errors"
	mock_user "go-leaves/internal/user/mock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*mock_user.MockRepository, user.Service) {
	ctrl := gomock.NewController(t)
	mockRepo := mock_user.NewMockRepository(ctrl)
	svc := user.NewService(mockRepo)
	return mockRepo, svc
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success hashes password and defaults role", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, u *user.User) error {
				assert.Equal(t, user.RoleEmployee, u.Role)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")))
				return nil
			})

		res, err := svc.Create(ctx, user.CreateUserRequest{
			Name:     " Jane Doe ",
			Email:    "jane@corp.com",
			Password: "secret123",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Jane Doe", res.Name)
		assert.Equal(t, user.RoleEmployee, res.Role)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23505"})

		_, err := svc.Create(ctx, user.CreateUserRequest{
			Name:     "Jane",
			Email:    "jane@corp.com",
			Password: "secret123",
			Role:     user.RoleHRAdmin,
		})

		assert.ErrorIs(t, err, usererrors.ErrUserAlreadyExists)
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)
		mockRepo.EXPECT().FindByID(gomock.Any(), id.String()).Return(&user.User{ID: id, Email: "a@corp.com"}, nil)

		res, err := svc.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), res.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo, svc := setup(t)
		mockRepo.EXPECT().FindByID(gomock.Any(), id.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetByID(ctx, id.String())

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, svc := setup(t)

		_, err := svc.GetByID(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})
}

func TestUserService_GetAll(t *testing.T) {
	mockRepo, svc := setup(t)
	mockRepo.EXPECT().FindAll(gomock.Any()).Return(nil, errors.New("db down"))

	_, err := svc.GetAll(context.Background())

	assert.Error(t, err)
}
