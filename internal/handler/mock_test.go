package handler

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/YeahitsDivyansh/mystry-message-api/internal/model"
	"github.com/YeahitsDivyansh/mystry-message-api/internal/usecase"
	"github.com/YeahitsDivyansh/mystry-message-api/shared/validation"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func testValidator() *validation.Validator {
	return validation.NewValidator(testLogger())
}

type mockRegistrationUsecase struct {
	SignUpFunc              func(ctx context.Context, params usecase.SignUpParams) error
	IsUsernameAvailableFunc func(ctx context.Context, username string) (bool, error)
}

func (m *mockRegistrationUsecase) SignUp(ctx context.Context, params usecase.SignUpParams) error {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, params)
	}
	return nil
}

func (m *mockRegistrationUsecase) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	if m.IsUsernameAvailableFunc != nil {
		return m.IsUsernameAvailableFunc(ctx, username)
	}
	return true, nil
}

type mockVerificationUsecase struct {
	VerifyCodeFunc func(ctx context.Context, username, code string) error
}

func (m *mockVerificationUsecase) VerifyCode(ctx context.Context, username, code string) error {
	if m.VerifyCodeFunc != nil {
		return m.VerifyCodeFunc(ctx, username, code)
	}
	return nil
}

type mockAuthUsecase struct {
	SignInFunc func(ctx context.Context, params usecase.SignInParams) (string, error)
}

func (m *mockAuthUsecase) SignIn(ctx context.Context, params usecase.SignInParams) (string, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, params)
	}
	return "token", nil
}

type mockMessageUsecase struct {
	AcceptingStatusFunc    func(ctx context.Context, userID string) (bool, error)
	SetAcceptingStatusFunc func(ctx context.Context, userID string, accepting bool) (bool, error)
	SendMessageFunc        func(ctx context.Context, username, content string) (*model.Message, error)
	ListMessagesFunc       func(ctx context.Context, userID string) ([]model.Message, error)
	DeleteMessageFunc      func(ctx context.Context, userID, messageID string) error
}

func (m *mockMessageUsecase) AcceptingStatus(ctx context.Context, userID string) (bool, error) {
	if m.AcceptingStatusFunc != nil {
		return m.AcceptingStatusFunc(ctx, userID)
	}
	return true, nil
}

func (m *mockMessageUsecase) SetAcceptingStatus(
	ctx context.Context,
	userID string,
	accepting bool,
) (bool, error) {
	if m.SetAcceptingStatusFunc != nil {
		return m.SetAcceptingStatusFunc(ctx, userID, accepting)
	}
	return accepting, nil
}

func (m *mockMessageUsecase) SendMessage(ctx context.Context, username, content string) (*model.Message, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, username, content)
	}
	return &model.Message{Content: content}, nil
}

func (m *mockMessageUsecase) ListMessages(ctx context.Context, userID string) ([]model.Message, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, userID)
	}
	return []model.Message{}, nil
}

func (m *mockMessageUsecase) DeleteMessage(ctx context.Context, userID, messageID string) error {
	if m.DeleteMessageFunc != nil {
		return m.DeleteMessageFunc(ctx, userID, messageID)
	}
	return nil
}
