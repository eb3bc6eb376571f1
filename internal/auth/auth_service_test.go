package auth_test

import (
	"context"
	"testing"
	"time"

	"go-leaves/internal/auth"
	autherrors "go-leaves/internal/auth/errors"
	"go-leaves/internal/user"
	userMock "go-leaves/internal/user/mock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "access-secret-for-tests"

func TestService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := userMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, testSecret, time.Hour)
	ctx := context.Background()

	password := "password123"
	pw, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	mockUser := &user.User{
		ID:           uuid.New(),
		Name:         "HR Admin",
		Email:        "hr@example.com",
		PasswordHash: string(pw),
		Role:         user.RoleHRAdmin,
	}

	t.Run("Success Login", func(t *testing.T) {
		mockRepo.EXPECT().FindByEmail(ctx, mockUser.Email).Return(mockUser, nil)

		token, resp, err := service.Login(ctx, mockUser.Email, password)

		assert.NoError(t, err)
		assert.Equal(t, mockUser.Email, resp.Email)
		assert.Equal(t, user.RoleHRAdmin, resp.Role)

		parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
		assert.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, mockUser.ID.String(), claims["user_id"])
		assert.Equal(t, user.RoleHRAdmin, claims["role"])
	})

	t.Run("Wrong Password", func(t *testing.T) {
		mockRepo.EXPECT().FindByEmail(ctx, mockUser.Email).Return(mockUser, nil)

		_, _, err := service.Login(ctx, mockUser.Email, "wrongpass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		mockRepo.EXPECT().FindByEmail(ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, _, err := service.Login(ctx, "nobody@example.com", password)
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestService_GetMe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := userMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, testSecret, time.Hour)
	ctx := context.Background()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().FindByID(ctx, id.String()).Return(&user.User{ID: id, Email: "me@example.com", Role: user.RoleEmployee}, nil)

		resp, err := service.GetMe(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "me@example.com", resp.Email)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := service.GetMe(ctx, "bad")
		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})
}
