package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/config"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/repository"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/util"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-for-auth-service-tests"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterHashesPasswordAndDefaultsProfile(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Walber", Email: "walber@example.com", Password: "supersecret"}
	require.NoError(t, svc.Register(user))
	require.NotEqual(t, "supersecret", user.Password)
	require.Equal(t, model.ProfileBeginner, user.LearningProfile)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	first := &model.User{Name: "Walber", Email: "walber@example.com", Password: "supersecret"}
	require.NoError(t, svc.Register(first))

	second := &model.User{Name: "Other", Email: "walber@example.com", Password: "different1"}
	require.ErrorIs(t, svc.Register(second), util.ErrEmailRegistered)
}

func TestRegisterRejectsInvalidEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Walber", Email: "not-an-email", Password: "supersecret"}
	require.ErrorIs(t, svc.Register(user), util.ErrInvalidEmail)
}

func TestLoginReturnsParsableToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Walber", Email: "walber@example.com", Password: "supersecret"}
	require.NoError(t, svc.Register(user))

	token, err := svc.Login("walber@example.com", "supersecret")
	require.NoError(t, err)

	claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, "walber@example.com", claims.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Walber", Email: "walber@example.com", Password: "supersecret"}
	require.NoError(t, svc.Register(user))

	_, err := svc.Login("walber@example.com", "wrongpass")
	require.Error(t, err)
	_, err = svc.Login("nobody@example.com", "supersecret")
	require.Error(t, err)
}
