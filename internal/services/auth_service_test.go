package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"itrportal/internal/apperr"
	"itrportal/internal/auth"
	"itrportal/internal/config"
	"itrportal/internal/models"
)

func newTestAuthService(users *fakeUserRepo) *AuthService {
	cfg := &config.Config{JWTSecret: "test-jwt-secret", TokenTTL: time.Hour}
	return NewAuthService(users, nil, nil, cfg, zap.NewNop())
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@b.in", PhoneNumber: "9876543210", Password: "longenough"}},
		{"missing email", RegisterInput{Name: "Asha", PhoneNumber: "9876543210", Password: "longenough"}},
		{"short phone", RegisterInput{Name: "Asha", Email: "a@b.in", PhoneNumber: "98765", Password: "longenough"}},
		{"alpha phone", RegisterInput{Name: "Asha", Email: "a@b.in", PhoneNumber: "98765abcde", Password: "longenough"}},
		{"short password", RegisterInput{Name: "Asha", Email: "a@b.in", PhoneNumber: "9876543210", Password: "short"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := newFakeUserRepo()
			svc := newTestAuthService(users)

			_, err := svc.Register(context.Background(), tc.input)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
		})
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	existing := &models.User{ID: 1, PhoneNumber: "9876543210", Email: "taken@example.in"}
	svc := newTestAuthService(newFakeUserRepo(existing))

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Asha", Email: "new@example.in", PhoneNumber: "9876543210", Password: "longenough",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = svc.Register(context.Background(), RegisterInput{
		Name: "Asha", Email: "taken@example.in", PhoneNumber: "9123456789", Password: "longenough",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestRegisterStaff(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users)

	user, err := svc.RegisterStaff(context.Background(), StaffInput{
		Name: "Ops Admin", Email: "ops@example.in", PhoneNumber: "9111111111",
		Password: "longenough", Role: models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, models.StatusCompleted, user.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenough")))

	// The new account can log in with its password right away
	result, err := svc.LoginWithPassword(context.Background(), "ops@example.in", "longenough")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, result.User.Role)
}

func TestRegisterStaffRejectsInvalidRole(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	for _, role := range []models.Role{"", models.RoleClient, "root"} {
		_, err := svc.RegisterStaff(context.Background(), StaffInput{
			Name: "Ops", Email: "ops@example.in", PhoneNumber: "9111111111",
			Password: "longenough", Role: role,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	}
}

func TestRegisterStaffRejectsDuplicates(t *testing.T) {
	existing := &models.User{ID: 1, PhoneNumber: "9111111111", Email: "ops@example.in"}
	svc := newTestAuthService(newFakeUserRepo(existing))

	_, err := svc.RegisterStaff(context.Background(), StaffInput{
		Name: "Ops", Email: "ops@example.in", PhoneNumber: "9222222222",
		Password: "longenough", Role: models.RoleSuperAdmin,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestLoginWithPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{ID: 7, Email: "asha@example.in", PasswordHash: string(hash)}
	svc := newTestAuthService(newFakeUserRepo(user))

	result, err := svc.LoginWithPassword(context.Background(), "asha@example.in", "correct-horse")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, uint(7), result.User.ID)

	userID, err := auth.GetUserIDFromToken(result.Token, []byte("test-jwt-secret"))
	require.NoError(t, err)
	assert.Equal(t, "7", userID)
}

func TestLoginWithPasswordRejects(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	users := newFakeUserRepo(
		&models.User{ID: 1, Email: "asha@example.in", PasswordHash: string(hash)},
		&models.User{ID: 2, Email: "otp-only@example.in"},
	)
	svc := newTestAuthService(users)

	// Wrong password, unknown email and a passwordless account all fail
	// with the same opaque error
	for _, attempt := range []struct{ email, password string }{
		{"asha@example.in", "wrong-battery"},
		{"nobody@example.in", "correct-horse"},
		{"otp-only@example.in", "correct-horse"},
	} {
		_, err := svc.LoginWithPassword(context.Background(), attempt.email, attempt.password)
		require.Error(t, err)
		assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "invalid credentials")
	}
}

func TestVerifyOTPUnknownPhone(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	_, err := svc.VerifyOTP(context.Background(), "9000000000", "123456")
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))
}
