package usecase

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/YeahitsDivyansh/mystry-message-api/internal/repository"
)

// VerificationUsecase confirms account ownership with a one-time code.
type VerificationUsecase interface {
	VerifyCode(ctx context.Context, username, code string) error
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrCodeExpired  = errors.New("verification code has expired, please sign up again to get a new code")
	ErrInvalidCode  = errors.New("incorrect verification code")
)

type verificationUsecase struct {
	userRepo repository.UserRepository
}

// NewVerificationUsecase creates a new instance of VerificationUsecase.
func NewVerificationUsecase(userRepo repository.UserRepository) VerificationUsecase {
	return &verificationUsecase{userRepo: userRepo}
}

// VerifyCode marks the user verified when the code matches before its expiry.
// Failure precedence is fixed: unknown user, then expiry, then mismatch, so a
// correct-but-late code reports expiry rather than a mere mismatch.
func (u *verificationUsecase) VerifyCode(ctx context.Context, username, code string) error {
	// The username may arrive URL-encoded from a verification link.
	decoded, err := url.QueryUnescape(username)
	if err != nil {
		decoded = username
	}

	user, err := u.userRepo.GetUserByUsername(ctx, decoded, false)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	// Verifying an already verified account is a no-op success.
	if user.Verified {
		return nil
	}

	if !time.Now().Before(user.VerificationCodeExpiresAt) {
		return ErrCodeExpired
	}

	if user.VerificationCode != code {
		return ErrInvalidCode
	}

	verified := true
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		Verified: &verified,
	}); err != nil {
		return err
	}

	return nil
}
