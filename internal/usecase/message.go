package usecase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/YeahitsDivyansh/mystry-message-api/internal/model"
	"github.com/YeahitsDivyansh/mystry-message-api/internal/repository"
)

// MessageUsecase covers the owner-facing acceptance toggle and message
// retrieval plus the public inbound deposit.
type MessageUsecase interface {
	AcceptingStatus(ctx context.Context, userID string) (bool, error)
	SetAcceptingStatus(ctx context.Context, userID string, accepting bool) (bool, error)
	SendMessage(ctx context.Context, username, content string) (*model.Message, error)
	ListMessages(ctx context.Context, userID string) ([]model.Message, error)
	DeleteMessage(ctx context.Context, userID, messageID string) error
}

var (
	ErrNotAccepting    = errors.New("user is not accepting messages")
	ErrMessageNotFound = errors.New("message not found or already deleted")
)

type messageUsecase struct {
	userRepo repository.UserRepository
}

// NewMessageUsecase creates a new instance of MessageUsecase.
func NewMessageUsecase(userRepo repository.UserRepository) MessageUsecase {
	return &messageUsecase{userRepo: userRepo}
}

func (u *messageUsecase) AcceptingStatus(ctx context.Context, userID string) (bool, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, ErrUserNotFound
		}

		return false, err
	}

	return user.AcceptingMessages, nil
}

// SetAcceptingStatus overwrites the acceptance flag with the caller-supplied
// state and returns the persisted value. Last write wins.
func (u *messageUsecase) SetAcceptingStatus(
	ctx context.Context,
	userID string,
	accepting bool,
) (bool, error) {
	user, err := u.userRepo.SetAcceptingMessages(ctx, userID, accepting)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, ErrUserNotFound
		}

		return false, err
	}

	return user.AcceptingMessages, nil
}

// SendMessage deposits an anonymous message for the named user. The
// acceptance gate lives here: the repository append is unconditional.
func (u *messageUsecase) SendMessage(ctx context.Context, username, content string) (*model.Message, error) {
	user, err := u.userRepo.GetUserByUsername(ctx, username, false)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	if !user.AcceptingMessages {
		return nil, ErrNotAccepting
	}

	message := model.Message{
		ID:        bson.NewObjectID(),
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := u.userRepo.AppendMessage(ctx, user.ID.Hex(), message); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return &message, nil
}

// ListMessages returns the owner's messages newest first. A user with no
// messages gets an empty list, not an error.
func (u *messageUsecase) ListMessages(ctx context.Context, userID string) ([]model.Message, error) {
	messages, err := u.userRepo.ListMessages(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return messages, nil
}

// DeleteMessage removes one message under the owner. Deleting an id that is
// absent reports ErrMessageNotFound so the client can drop stale state.
func (u *messageUsecase) DeleteMessage(ctx context.Context, userID, messageID string) error {
	// A malformed id cannot name any message.
	if _, err := bson.ObjectIDFromHex(messageID); err != nil {
		return ErrMessageNotFound
	}

	removed, err := u.userRepo.DeleteMessage(ctx, userID, messageID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	if removed == 0 {
		return ErrMessageNotFound
	}

	return nil
}
