package service

import (
	"context"
	"ctchen222/Hex/internal/api/models"
	"ctchen222/Hex/internal/api/repository"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 72 * time.Hour

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims are the JWT claims issued by the user service.
type Claims struct {
	Username string `json:"un,omitempty"`
	Guest    bool   `json:"guest,omitempty"`
	jwt.RegisteredClaims
}

// UserService defines the interface for user-related business logic.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) error
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GuestLogin(ctx context.Context) (*models.GuestResponse, error)
	VerifyToken(token string) (*models.Identity, error)
}

type userService struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
}

// NewUserService creates a new UserService signing tokens with secret.
// A zero ttl uses 72 hours.
func NewUserService(userRepo repository.UserRepository, secret string, ttl time.Duration) UserService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &userService{userRepo: userRepo, secret: []byte(secret), ttl: ttl}
}

// Register handles user registration.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) error {
	_, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return ErrUsernameTaken
	case !errors.Is(err, repository.ErrUserNotFound):
		return err
	}

	user := &models.User{Username: req.Username}
	if err := s.userRepo.CreateUser(ctx, user, req.Password); err != nil {
		return err
	}
	slog.InfoContext(ctx, "User registered", "user.id", user.ID, "user.name", user.Username)
	return nil
}

// Login checks the credentials and returns a signed JWT on success.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.sign(strconv.FormatInt(user.ID, 10), user.Username, false)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// GuestLogin generates a player ID and a token for a guest.
func (s *userService) GuestLogin(ctx context.Context) (*models.GuestResponse, error) {
	playerID := uuid.New().String()
	token, expiresAt, err := s.sign(playerID, "", true)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "Guest login", "player.id", playerID)
	return &models.GuestResponse{PlayerID: playerID, Token: token, ExpiresAt: expiresAt}, nil
}

// VerifyToken checks the signature and expiry of a token issued by this
// service.
func (s *userService) VerifyToken(token string) (*models.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return &models.Identity{Subject: claims.Subject, Username: claims.Username, Guest: claims.Guest}, nil
}

func (s *userService) sign(subject, username string, guest bool) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: username,
		Guest:    guest,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}
