package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/YeahitsDivyansh/mystry-message-api/internal/middleware"
	"github.com/YeahitsDivyansh/mystry-message-api/internal/model"
	"github.com/YeahitsDivyansh/mystry-message-api/internal/usecase"
	"github.com/YeahitsDivyansh/mystry-message-api/shared/auth"
)

func newMessageRouter(messages *mockMessageUsecase, jwtAuth auth.JWTAuthenticator) http.Handler {
	h := NewMessageHandler(testLogger(), testValidator(), messages)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(jwtAuth))
			h.RegisterOwnerRoutes(r)
		})
	})
	return r
}

func sessionToken(t *testing.T, jwtAuth auth.JWTAuthenticator, userID string) string {
	t.Helper()

	token, err := jwtAuth.GenerateSessionToken(auth.SessionClaims{
		UserID:            userID,
		Username:          "alice",
		Verified:          true,
		AcceptingMessages: true,
	})
	require.NoError(t, err)
	return token
}

func TestOwnerRoutesRequireSession(t *testing.T) {
	jwtAuth := auth.NewJWTAuthenticator("secret", "test", "test", time.Hour)
	router := newMessageRouter(&mockMessageUsecase{}, jwtAuth)

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/accept-messages"},
		{http.MethodPost, "/api/accept-messages"},
		{http.MethodGet, "/api/messages"},
		{http.MethodDelete, "/api/messages/" + bson.NewObjectID().Hex()},
	}

	for _, tt := range requests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAcceptMessagesHandlers(t *testing.T) {
	jwtAuth := auth.NewJWTAuthenticator("secret", "test", "test", time.Hour)
	userID := bson.NewObjectID().Hex()

	t.Run("get returns current flag", func(t *testing.T) {
		messages := &mockMessageUsecase{
			AcceptingStatusFunc: func(_ context.Context, gotUserID string) (bool, error) {
				assert.Equal(t, userID, gotUserID)
				return false, nil
			},
		}
		router := newMessageRouter(messages, jwtAuth)

		req := httptest.NewRequest(http.MethodGet, "/api/accept-messages", nil)
		req.Header.Set("Authorization", "Bearer "+sessionToken(t, jwtAuth, userID))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["isAcceptingMessages"])
	})

	t.Run("post overwrites with caller state", func(t *testing.T) {
		messages := &mockMessageUsecase{
			SetAcceptingStatusFunc: func(_ context.Context, _ string, accepting bool) (bool, error) {
				assert.False(t, accepting)
				return accepting, nil
			},
		}
		router := newMessageRouter(messages, jwtAuth)

		req := httptest.NewRequest(
			http.MethodPost,
			"/api/accept-messages",
			strings.NewReader(`{"acceptMessages":false}`),
		)
		req.Header.Set("Authorization", "Bearer "+sessionToken(t, jwtAuth, userID))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("post without flag is rejected", func(t *testing.T) {
		router := newMessageRouter(&mockMessageUsecase{}, jwtAuth)

		req := httptest.NewRequest(http.MethodPost, "/api/accept-messages", strings.NewReader(`{}`))
		req.Header.Set("Authorization", "Bearer "+sessionToken(t, jwtAuth, userID))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get after user vanished", func(t *testing.T) {
		messages := &mockMessageUsecase{
			AcceptingStatusFunc: func(_ context.Context, _ string) (bool, error) {
				return false, usecase.ErrUserNotFound
			},
		}
		router := newMessageRouter(messages, jwtAuth)

		req := httptest.NewRequest(http.MethodGet, "/api/accept-messages", nil)
		req.Header.Set("Authorization", "Bearer "+sessionToken(t, jwtAuth, userID))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSendMessageHandler(t *testing.T) {
	jwtAuth := auth.NewJWTAuthenticator("secret", "test", "test", time.Hour)

	tests := []struct {
		name       string
		body       string
		sendErr    error
		wantStatus int
	}{
		{
			name:       "deposited",
			body:       `{"username":"alice","content":"hello"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "not accepting",
			body:       `{"username":"alice","content":"hello"}`,
			sendErr:    usecase.ErrNotAccepting,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown user",
			body:       `{"username":"ghost","content":"hello"}`,
			sendErr:    usecase.ErrUserNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "empty content",
			body:       `{"username":"alice","content":""}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := &mockMessageUsecase{
				SendMessageFunc: func(_ context.Context, _, content string) (*model.Message, error) {
					if tt.sendErr != nil {
						return nil, tt.sendErr
					}
					return &model.Message{ID: bson.NewObjectID(), Content: content, CreatedAt: time.Now()}, nil
				},
			}
			router := newMessageRouter(messages, jwtAuth)

			// No session header: deposits are sender-facing and unauthenticated.
			req := httptest.NewRequest(http.MethodPost, "/api/send-message", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestListMessagesHandler(t *testing.T) {
	jwtAuth := auth.NewJWTAuthenticator("secret", "test", "test", time.Hour)
	userID := bson.NewObjectID().Hex()

	t.Run("empty inbox is a success", func(t *testing.T) {
		router := newMessageRouter(&mockMessageUsecase{}, jwtAuth)

		req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
		req.Header.Set("Authorization", "Bearer "+sessionToken(t, jwtAuth, userID))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Success  bool            `json:"success"`
			Messages []model.Message `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.NotNil(t, body.Messages)
		assert.Empty(t, body.Messages)
	})

	t.Run("messages come back newest first", func(t *testing.T) {
		now := time.Now()
		messages := &mockMessageUsecase{
			ListMessagesFunc: func(_ context.Context, _ string) ([]model.Message, error) {
				return []model.Message{
					{ID: bson.NewObjectID(), Content: "newest", CreatedAt: now},
					{ID: bson.NewObjectID(), Content: "older", CreatedAt: now.Add(-time.Hour)},
				}, nil
			},
		}
		router := newMessageRouter(messages, jwtAuth)

		req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
		req.Header.Set("Authorization", "Bearer "+sessionToken(t, jwtAuth, userID))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Messages []model.Message `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "newest", body.Messages[0].Content)
		assert.Equal(t, "older", body.Messages[1].Content)
	})
}

func TestDeleteMessageHandler(t *testing.T) {
	jwtAuth := auth.NewJWTAuthenticator("secret", "test", "test", time.Hour)
	userID := bson.NewObjectID().Hex()
	messageID := bson.NewObjectID().Hex()

	tests := []struct {
		name       string
		deleteErr  error
		wantStatus int
	}{
		{name: "deleted", wantStatus: http.StatusOK},
		{name: "already gone", deleteErr: usecase.ErrMessageNotFound, wantStatus: http.StatusNotFound},
		{name: "owner vanished", deleteErr: usecase.ErrUserNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := &mockMessageUsecase{
				DeleteMessageFunc: func(_ context.Context, gotUserID, gotMessageID string) error {
					assert.Equal(t, userID, gotUserID)
					assert.Equal(t, messageID, gotMessageID)
					return tt.deleteErr
				},
			}
			router := newMessageRouter(messages, jwtAuth)

			req := httptest.NewRequest(http.MethodDelete, "/api/messages/"+messageID, nil)
			req.Header.Set("Authorization", "Bearer "+sessionToken(t, jwtAuth, userID))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
