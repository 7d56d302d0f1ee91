package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"itrportal/internal/apperr"
	"itrportal/internal/auth"
	"itrportal/internal/config"
	"itrportal/internal/models"
	"itrportal/internal/repository"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10,15}$`)

const welcomeEmailBody = `<h1>Welcome to the ITR Filing Portal</h1>
<p>Dear %s,</p>
<p>Thank you for registering with us. Your account has been created successfully.</p>
<p>Please verify your phone number using the OTP sent to your mobile.</p>`

// AuthService handles registration, login and OTP verification
type AuthService struct {
	users    repository.UserRepository
	otp      *OTPStore
	notifier Notifier
	cfg      *config.Config
	logger   *zap.Logger
}

func NewAuthService(users repository.UserRepository, otp *OTPStore, notifier Notifier, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		otp:      otp,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

// RegisterInput is the registration payload
type RegisterInput struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phoneNumber"`
	Password    string          `json:"password"`
	UserType    models.UserType `json:"userType"`
}

func (in *RegisterInput) validate() error {
	switch {
	case in.Name == "":
		return apperr.InvalidInput("name is required")
	case in.Email == "":
		return apperr.InvalidInput("email is required")
	case !phonePattern.MatchString(in.PhoneNumber):
		return apperr.InvalidInput("invalid phone number")
	case len(in.Password) < 8:
		return apperr.InvalidInput("password must be at least 8 characters")
	}
	return nil
}

// Register creates a client account at step 1 / pending and sends the
// verification OTP plus a welcome email. Notification failures are
// logged but do not abort the registration.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByPhone(ctx, in.PhoneNumber); err == nil {
		return nil, apperr.InvalidInput("user already exists")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperr.InvalidInput("user already exists")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userType := in.UserType
	if userType == "" {
		userType = models.UserTypeIndividual
	}

	user := &models.User{
		Name:          in.Name,
		Email:         in.Email,
		PhoneNumber:   in.PhoneNumber,
		PasswordHash:  string(hash),
		Role:          models.RoleClient,
		UserType:      userType,
		Status:        models.StatusPending,
		StepperStatus: models.StepperStatus{CurrentStep: 1},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, user.PhoneNumber); err != nil {
		s.logger.Warn("failed to deliver registration otp",
			zap.Uint("user_id", user.ID), zap.Error(err))
	}

	if err := s.notifier.SendEmail(ctx, user.Email, "Welcome to ITR Filing Portal",
		fmt.Sprintf(welcomeEmailBody, user.Name)); err != nil {
		s.logger.Warn("failed to send welcome email",
			zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return user, nil
}

// StaffInput is the payload for provisioning admin accounts
type StaffInput struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phoneNumber"`
	Password    string      `json:"password"`
	Role        models.Role `json:"role"`
}

func (in *StaffInput) validate() error {
	switch {
	case in.Name == "":
		return apperr.InvalidInput("name is required")
	case in.Email == "":
		return apperr.InvalidInput("email is required")
	case !phonePattern.MatchString(in.PhoneNumber):
		return apperr.InvalidInput("invalid phone number")
	case len(in.Password) < 8:
		return apperr.InvalidInput("password must be at least 8 characters")
	case in.Role != models.RoleAdmin && in.Role != models.RoleSuperAdmin:
		return apperr.InvalidInput("role must be admin or superadmin")
	}
	return nil
}

// RegisterStaff creates an admin or superadmin account. Staff log in
// with email and password and never enter the onboarding funnel.
func (s *AuthService) RegisterStaff(ctx context.Context, in StaffInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByPhone(ctx, in.PhoneNumber); err == nil {
		return nil, apperr.InvalidInput("user already exists")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperr.InvalidInput("user already exists")
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: string(hash),
		Role:         in.Role,
		Status:       models.StatusCompleted,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("staff account created",
		zap.Uint("user_id", user.ID),
		zap.String("role", string(user.Role)))

	return user, nil
}

// TokenResult is returned on successful login or OTP verification
type TokenResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// LoginWithPassword authenticates by email and password
func (s *AuthService) LoginWithPassword(ctx context.Context, email, password string) (*TokenResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Authentication("invalid credentials")
		}
		return nil, err
	}

	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Authentication("invalid credentials")
	}

	return s.tokenFor(user)
}

// RequestOTP issues and delivers a login OTP to a known phone number
func (s *AuthService) RequestOTP(ctx context.Context, phoneNumber string) error {
	if _, err := s.users.FindByPhone(ctx, phoneNumber); err != nil {
		return err
	}
	return s.issueOTP(ctx, phoneNumber)
}

// VerifyOTP checks an OTP and logs the user in
func (s *AuthService) VerifyOTP(ctx context.Context, phoneNumber, code string) (*TokenResult, error) {
	user, err := s.users.FindByPhone(ctx, phoneNumber)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Authentication("invalid phone number")
		}
		return nil, err
	}

	if err := s.otp.Verify(ctx, phoneNumber, code); err != nil {
		return nil, err
	}

	return s.tokenFor(user)
}

func (s *AuthService) issueOTP(ctx context.Context, phoneNumber string) error {
	code, err := s.otp.Issue(ctx, phoneNumber)
	if err != nil {
		return err
	}
	return s.notifier.SendOTP(ctx, phoneNumber, code)
}

func (s *AuthService) tokenFor(user *models.User) (*TokenResult, error) {
	token, err := auth.GenerateToken(strconv.FormatUint(uint64(user.ID), 10),
		[]byte(s.cfg.JWTSecret), s.cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &TokenResult{Token: token, User: user}, nil
}
