package services

import (
	"context"
	"crypto/subtle"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shoplist/api/internal/auth"
	"github.com/shoplist/api/internal/models"
	"github.com/shoplist/api/internal/repository"
	appErr "github.com/shoplist/api/pkg/errors"
	"github.com/shoplist/api/pkg/logger"
)

// MsgInvalidCredentials is returned for unknown users and wrong passwords alike.
const MsgInvalidCredentials = "Invalid username or password"

type AuthService interface {
	Login(ctx context.Context, username, password string) (auth.Token, error)
}

// TokenIssuer signs tokens for authenticated users.
type TokenIssuer interface {
	Issue(user models.User) (auth.Token, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

var _ AuthService = (*authService)(nil)

func (s *authService) Login(ctx context.Context, username, password string) (auth.Token, error) {
	var user models.User
	if err := s.userRepo.GetByUsername(ctx, username, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			logger.L().Info("login rejected", zap.String("username", username), zap.String("reason", "unknown user"))
			return auth.Token{}, appErr.New(appErr.CodeInvalidCredentials, MsgInvalidCredentials)
		}
		return auth.Token{}, err
	}

	if !passwordMatches(user, password) {
		logger.L().Info("login rejected", zap.String("username", username), zap.String("reason", "password mismatch"))
		return auth.Token{}, appErr.New(appErr.CodeInvalidCredentials, MsgInvalidCredentials)
	}

	tok, err := s.tokens.Issue(user)
	if err != nil {
		logger.L().Error("token generation failed", zap.Int64("user_id", user.UserID), zap.Error(err))
		return auth.Token{}, err
	}

	logger.L().Info("login succeeded", zap.Int64("user_id", user.UserID))
	return tok, nil
}

// passwordMatches checks bcrypt hashes with bcrypt. Anything else is a legacy
// plaintext password and is compared as-is; those rows stay insecure until
// they are re-seeded with a hash.
func passwordMatches(user models.User, given string) bool {
	if isBcryptHash(user.Password) {
		return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(given)) == nil
	}
	logger.L().Warn("user has a plaintext password", zap.Int64("user_id", user.UserID))
	return subtle.ConstantTimeCompare([]byte(user.Password), []byte(given)) == 1
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

// HashPassword returns the bcrypt hash stored for new users.
func HashPassword(password string) (string, error) {
	ph, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}
	return string(ph), nil
}
