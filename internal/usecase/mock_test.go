package usecase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/YeahitsDivyansh/mystry-message-api/internal/model"
	"github.com/YeahitsDivyansh/mystry-message-api/internal/repository"
)

// mockUserRepository implements repository.UserRepository with overridable
// function fields. Unset fields default to "not found".
type mockUserRepository struct {
	CreateUserFunc           func(ctx context.Context, user *model.User) (*model.User, error)
	GetUserFunc              func(ctx context.Context, id string) (*model.User, error)
	GetUserByEmailFunc       func(ctx context.Context, email string) (*model.User, error)
	GetUserByIdentifierFunc  func(ctx context.Context, identifier string) (*model.User, error)
	GetUserByUsernameFunc    func(ctx context.Context, username string, verifiedOnly bool) (*model.User, error)
	UpdateUserFunc           func(ctx context.Context, id string, params repository.UpdateUserParams) (*model.User, error)
	SetAcceptingMessagesFunc func(ctx context.Context, id string, accepting bool) (*model.User, error)
	AppendMessageFunc        func(ctx context.Context, id string, message model.Message) error
	DeleteMessageFunc        func(ctx context.Context, id string, messageID string) (int64, error)
	ListMessagesFunc         func(ctx context.Context, id string) ([]model.Message, error)
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, user)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	return user, nil
}

func (m *mockUserRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(ctx, email)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepository) GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	if m.GetUserByIdentifierFunc != nil {
		return m.GetUserByIdentifierFunc(ctx, identifier)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepository) GetUserByUsername(
	ctx context.Context,
	username string,
	verifiedOnly bool,
) (*model.User, error) {
	if m.GetUserByUsernameFunc != nil {
		return m.GetUserByUsernameFunc(ctx, username, verifiedOnly)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepository) UpdateUser(
	ctx context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, id, params)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepository) SetAcceptingMessages(
	ctx context.Context,
	id string,
	accepting bool,
) (*model.User, error) {
	if m.SetAcceptingMessagesFunc != nil {
		return m.SetAcceptingMessagesFunc(ctx, id, accepting)
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockUserRepository) AppendMessage(ctx context.Context, id string, message model.Message) error {
	if m.AppendMessageFunc != nil {
		return m.AppendMessageFunc(ctx, id, message)
	}
	return mongo.ErrNoDocuments
}

func (m *mockUserRepository) DeleteMessage(ctx context.Context, id string, messageID string) (int64, error) {
	if m.DeleteMessageFunc != nil {
		return m.DeleteMessageFunc(ctx, id, messageID)
	}
	return 0, mongo.ErrNoDocuments
}

func (m *mockUserRepository) ListMessages(ctx context.Context, id string) ([]model.Message, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, id)
	}
	return nil, mongo.ErrNoDocuments
}

// mockMailer records verification email dispatches.
type mockMailer struct {
	sendErr error
	sent    []sentEmail
}

type sentEmail struct {
	to       string
	username string
	code     string
}

func (m *mockMailer) SendVerificationCode(to, username, code string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentEmail{to: to, username: username, code: code})
	return nil
}
