package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/anjiri1684/tutor_market/notifications"
	"github.com/anjiri1684/tutor_market/repository"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenTTL      = 72 * time.Hour
	ResetTokenTTL = 15 * time.Minute
)

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     string
}

type AuthService struct {
	store       repository.Store
	notifier    notifier
	logger      *zap.Logger
	secret      []byte
	frontendURL string
	now         func() time.Time
}

func NewAuthService(store repository.Store, mailer notifications.Mailer, logger *zap.Logger, jwtSecret, frontendURL string) *AuthService {
	return &AuthService{
		store:       store,
		notifier:    newNotifier(store, mailer, logger),
		logger:      logger,
		secret:      []byte(jwtSecret),
		frontendURL: strings.TrimRight(frontendURL, "/"),
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Profile, error) {
	role := in.Role
	if role == "" {
		role = models.RoleStudent
	}
	if role != models.RoleStudent && role != models.RoleTutor {
		return nil, fmt.Errorf("%w: role must be student or tutor", ErrInvalidInput)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := models.Profile{
		FullName: strings.TrimSpace(in.FullName),
		Email:    normalizeEmail(in.Email),
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := s.store.CreateProfile(ctx, &profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.logger.Info("profile registered", zap.String("profile_id", profile.ID.String()), zap.String("role", role))
	s.notifier.emailProfile(profile.ID, func() notifications.Email {
		return notifications.Email{Subject: "Welcome!", HTML: "<h1>Welcome!</h1><p>Thank you for registering.</p>"}
	})
	return &profile, nil
}

// Login checks the credentials and returns a signed token for the profile.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.Profile, error) {
	profile, err := s.store.GetProfileByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(profile)
	if err != nil {
		return "", nil, err
	}
	return token, profile, nil
}

func (s *AuthService) IssueToken(profile *models.Profile) (string, error) {
	claims := jwt.MapClaims{
		"user_id": profile.ID.String(),
		"role":    profile.Role,
		"exp":     s.now().Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token outside of the HTTP middleware, as the chat
// socket receives it in its first frame.
func (s *AuthService) ParseToken(raw string) (uuid.UUID, string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", ErrInvalidCredentials
	}
	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", ErrInvalidCredentials
	}
	role, _ := claims["role"].(string)
	return userID, role, nil
}

// ForgotPassword emails a short-lived reset link. Unknown addresses are not
// reported so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	profile, err := s.store.GetProfileByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)
	expiration := s.now().Add(ResetTokenTTL)
	profile.ResetPasswordToken = &token
	profile.ResetPasswordTokenExpiresAt = &expiration

	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/auth/reset-password?token=%s", s.frontendURL, token)
	s.notifier.emailProfile(profile.ID, func() notifications.Email {
		return notifications.PasswordReset(resetLink)
	})
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	profile, err := s.store.GetProfileByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	if profile.ResetPasswordTokenExpiresAt == nil || profile.ResetPasswordTokenExpiresAt.Before(s.now()) {
		profile.ResetPasswordToken = nil
		profile.ResetPasswordTokenExpiresAt = nil
		if err := s.store.SaveProfile(ctx, profile); err != nil {
			s.logger.Warn("could not clear expired reset token", zap.String("profile_id", profile.ID.String()), zap.Error(err))
		}
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	profile.Password = string(hashedPassword)
	profile.ResetPasswordToken = nil
	profile.ResetPasswordTokenExpiresAt = nil
	return s.store.SaveProfile(ctx, profile)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	profile.Password = string(hashedPassword)
	return s.store.SaveProfile(ctx, profile)
}
