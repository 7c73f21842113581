package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/YeahitsDivyansh/mystry-message-api/internal/model"
	"github.com/YeahitsDivyansh/mystry-message-api/internal/repository"
	"github.com/YeahitsDivyansh/mystry-message-api/shared/security"
)

// RegistrationUsecase defines the sign-up and username availability use cases.
type RegistrationUsecase interface {
	SignUp(ctx context.Context, params SignUpParams) error
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
}

// SignUpParams defines the parameters for user registration.
type SignUpParams struct {
	Username string
	Email    string
	Password string
}

// VerificationMailer dispatches verification codes; the SMTP implementation
// lives in shared/mailer.
type VerificationMailer interface {
	SendVerificationCode(to, username, code string) error
}

var (
	ErrUsernameTaken = errors.New("username is already taken")
	ErrEmailTaken    = errors.New("user already exists with this email")
	ErrEmailDelivery = errors.New("failed to send verification email")
)

// signUpDecision names the three transitions of the sign-up state machine.
// Making them explicit keeps the find-then-write race (two concurrent
// sign-ups with the same email) visible: the losing writer surfaces a
// duplicate-key error instead of taking the reissue path.
type signUpDecision int

const (
	decideCreateNew signUpDecision = iota
	decideReissueUnverified
	decideRejectVerifiedDuplicate
)

type registrationUsecase struct {
	userRepo repository.UserRepository
	mailer   VerificationMailer
	codeTTL  time.Duration
}

// NewRegistrationUsecase creates a new instance of RegistrationUsecase.
func NewRegistrationUsecase(
	userRepo repository.UserRepository,
	mailer VerificationMailer,
	codeTTL time.Duration,
) RegistrationUsecase {
	return &registrationUsecase{
		userRepo: userRepo,
		mailer:   mailer,
		codeTTL:  codeTTL,
	}
}

func (u *registrationUsecase) SignUp(ctx context.Context, params SignUpParams) error {
	// A verified user owns the username outright.
	if _, err := u.userRepo.GetUserByUsername(ctx, params.Username, true); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	existing, decision, err := u.decide(ctx, params.Email)
	if err != nil {
		return err
	}

	if decision == decideRejectVerifiedDuplicate {
		return ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return err
	}

	code, err := generateVerificationCode()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(u.codeTTL)

	switch decision {
	case decideReissueUnverified:
		// Re-issue on the existing unverified record instead of creating a
		// duplicate: fresh password hash, fresh code, fresh expiry.
		if _, err := u.userRepo.UpdateUser(ctx, existing.ID.Hex(), repository.UpdateUserParams{
			PasswordHash:              &passwordHash,
			VerificationCode:          &code,
			VerificationCodeExpiresAt: &expiresAt,
		}); err != nil {
			return err
		}

	case decideCreateNew:
		if _, err := u.userRepo.CreateUser(ctx, &model.User{
			Username:                  params.Username,
			Email:                     params.Email,
			PasswordHash:              passwordHash,
			Verified:                  false,
			VerificationCode:          code,
			VerificationCodeExpiresAt: expiresAt,
			AcceptingMessages:         true,
			Messages:                  []model.Message{},
		}); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Lost the race described above, or an unverified user still
				// holds the username. Either way the slot is occupied.
				return ErrUsernameTaken
			}

			return err
		}
	}

	// No rollback on delivery failure: the record stays and the caller must
	// sign up again to get a new code.
	if err := u.mailer.SendVerificationCode(params.Email, params.Username, code); err != nil {
		return fmt.Errorf("%w: %w", ErrEmailDelivery, err)
	}

	return nil
}

// IsUsernameAvailable reports whether no verified user holds the username.
func (u *registrationUsecase) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	_, err := u.userRepo.GetUserByUsername(ctx, username, true)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return true, nil
		}

		return false, err
	}

	return false, nil
}

func (u *registrationUsecase) decide(ctx context.Context, email string) (*model.User, signUpDecision, error) {
	existing, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, decideCreateNew, nil
		}

		return nil, 0, err
	}

	if existing.Verified {
		return existing, decideRejectVerifiedDuplicate, nil
	}

	return existing, decideReissueUnverified, nil
}

// generateVerificationCode draws a 6-digit code uniformly from
// [100000, 999999].
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
