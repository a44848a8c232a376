package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sproutlearn/sproutlearn-backend/internal/data/repos"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	apperrors "github.com/sproutlearn/sproutlearn-backend/internal/pkg/errors"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	pinPattern   = regexp.MustCompile(`^\d{4,8}$`)
)

// ParentAuthService registers and authenticates parent accounts. The
// credential is a numeric PIN rather than a full password: parents set
// it up on a shared family device and it only guards the dashboard.
type ParentAuthService interface {
	Register(ctx context.Context, email, pin string) (*types.ParentAccount, error)
	Login(ctx context.Context, email, pin string) (string, error)
	ParseToken(tokenString string) (uuid.UUID, error)
	ChangePIN(ctx context.Context, parentID uuid.UUID, currentPIN, newPIN string) error
}

type parentAuthService struct {
	log       *logger.Logger
	parents   repos.ParentAccountRepo
	jwtSecret string
	tokenTTL  time.Duration
}

func NewParentAuthService(log *logger.Logger, parents repos.ParentAccountRepo, jwtSecret string, tokenTTL time.Duration) (ParentAuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &parentAuthService{
		log:       log.With("service", "ParentAuthService"),
		parents:   parents,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}, nil
}

func (s *parentAuthService) Register(ctx context.Context, email, pin string) (*types.ParentAccount, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email", apperrors.ErrInvalidArgument)
	}
	if !pinPattern.MatchString(pin) {
		return nil, fmt.Errorf("%w: pin must be 4-8 digits", apperrors.ErrInvalidArgument)
	}

	exists, err := s.parents.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	now := time.Now().UTC()
	account := &types.ParentAccount{
		ID:        uuid.New(),
		Email:     email,
		PINHash:   string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.parents.Create(ctx, nil, []*types.ParentAccount{account}); err != nil {
		return nil, fmt.Errorf("create parent account: %w", err)
	}

	s.log.Info("parent registered", "parent_id", account.ID)
	return account, nil
}

func (s *parentAuthService) Login(ctx context.Context, email, pin string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.parents.GetByEmail(ctx, nil, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", apperrors.ErrUnauthorized
		}
		return "", fmt.Errorf("load parent account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PINHash), []byte(pin)) != nil {
		return "", apperrors.ErrUnauthorized
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   account.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *parentAuthService) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, apperrors.ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, apperrors.ErrUnauthorized
	}
	parentID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperrors.ErrUnauthorized
	}
	return parentID, nil
}

func (s *parentAuthService) ChangePIN(ctx context.Context, parentID uuid.UUID, currentPIN, newPIN string) error {
	if !pinPattern.MatchString(newPIN) {
		return fmt.Errorf("%w: pin must be 4-8 digits", apperrors.ErrInvalidArgument)
	}

	accounts, err := s.parents.GetByIDs(ctx, nil, []uuid.UUID{parentID})
	if err != nil {
		return fmt.Errorf("load parent account: %w", err)
	}
	if len(accounts) == 0 {
		return apperrors.ErrNotFound
	}
	account := accounts[0]

	if bcrypt.CompareHashAndPassword([]byte(account.PINHash), []byte(currentPIN)) != nil {
		return apperrors.ErrUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPIN), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	return s.parents.UpdatePINHash(ctx, nil, parentID, string(hash))
}
