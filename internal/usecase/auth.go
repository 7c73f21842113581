package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/YeahitsDivyansh/mystry-message-api/internal/repository"
	"github.com/YeahitsDivyansh/mystry-message-api/shared/auth"
	"github.com/YeahitsDivyansh/mystry-message-api/shared/security"
)

// AuthUsecase authenticates credentials and mints stateless session tokens.
type AuthUsecase interface {
	SignIn(ctx context.Context, params SignInParams) (string, error)
}

// SignInParams defines the parameters for signing in. Identifier matches
// either the username or the email.
type SignInParams struct {
	Identifier string
	Password   string
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("please verify your account before login")
)

type authUsecase struct {
	userRepo repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(userRepo repository.UserRepository, jwtAuth auth.JWTAuthenticator) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		jwtAuth:  jwtAuth,
	}
}

func (u *authUsecase) SignIn(ctx context.Context, params SignInParams) (string, error) {
	user, err := u.userRepo.GetUserByIdentifier(ctx, params.Identifier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrInvalidCredentials
		}

		return "", err
	}

	// Unverified users can never obtain a session, regardless of password.
	if !user.Verified {
		return "", ErrNotVerified
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return "", err
	} else if !ok {
		return "", ErrInvalidCredentials
	}

	token, err := u.jwtAuth.GenerateSessionToken(auth.SessionClaims{
		UserID:            user.ID.Hex(),
		Username:          user.Username,
		Verified:          user.Verified,
		AcceptingMessages: user.AcceptingMessages,
	})
	if err != nil {
		return "", err
	}

	return token, nil
}
