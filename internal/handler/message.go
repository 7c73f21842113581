package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/YeahitsDivyansh/mystry-message-api/internal/middleware"
	"github.com/YeahitsDivyansh/mystry-message-api/internal/payload"
	"github.com/YeahitsDivyansh/mystry-message-api/internal/usecase"
	"github.com/YeahitsDivyansh/mystry-message-api/shared/httputil"
	"github.com/YeahitsDivyansh/mystry-message-api/shared/validation"
)

// MessageHandler serves the owner-facing inbox surface and the public
// anonymous deposit endpoint.
type MessageHandler struct {
	logger    *zerolog.Logger
	validator *validation.Validator
	messages  usecase.MessageUsecase
}

// NewMessageHandler creates a new MessageHandler instance.
func NewMessageHandler(
	logger *zerolog.Logger,
	validator *validation.Validator,
	messages usecase.MessageUsecase,
) *MessageHandler {
	return &MessageHandler{
		logger:    logger,
		validator: validator,
		messages:  messages,
	}
}

// RegisterPublicRoutes mounts the unauthenticated deposit route.
func (h *MessageHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/send-message", h.SendMessage)
}

// RegisterOwnerRoutes mounts the session-protected routes.
func (h *MessageHandler) RegisterOwnerRoutes(r chi.Router) {
	r.Get("/accept-messages", h.GetAcceptMessages)
	r.Post("/accept-messages", h.SetAcceptMessages)
	r.Get("/messages", h.ListMessages)
	r.Delete("/messages/{messageID}", h.DeleteMessage)
}

func (h *MessageHandler) GetAcceptMessages(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	accepting, err := h.messages.AcceptingStatus(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			httputil.RespondError(w, http.StatusNotFound, usecase.ErrUserNotFound.Error())
			return
		}

		h.logger.Error().Err(err).Msg("failed to retrieve message acceptance status")
		httputil.RespondError(w, http.StatusInternalServerError, "error retrieving message acceptance status")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, payload.AcceptMessagesResponse{
		Envelope:            httputil.Envelope{Success: true},
		IsAcceptingMessages: accepting,
	})
}

func (h *MessageHandler) SetAcceptMessages(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req payload.SetAcceptMessagesRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg, err := h.validator.Struct(req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, msg)
		return
	}

	accepting, err := h.messages.SetAcceptingStatus(r.Context(), session.UserID, *req.AcceptMessages)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			httputil.RespondError(w, http.StatusNotFound, "unable to find user to update message acceptance status")
			return
		}

		h.logger.Error().Err(err).Msg("failed to update message acceptance status")
		httputil.RespondError(w, http.StatusInternalServerError, "error updating message acceptance status")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, payload.AcceptMessagesResponse{
		Envelope:            httputil.Envelope{Success: true, Message: "message acceptance status updated successfully"},
		IsAcceptingMessages: accepting,
	})
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req payload.SendMessageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg, err := h.validator.Struct(req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, msg)
		return
	}

	_, err := h.messages.SendMessage(r.Context(), req.Username, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			httputil.RespondError(w, http.StatusNotFound, usecase.ErrUserNotFound.Error())
		case errors.Is(err, usecase.ErrNotAccepting):
			httputil.RespondError(w, http.StatusForbidden, usecase.ErrNotAccepting.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to deposit message")
			httputil.RespondError(w, http.StatusInternalServerError, "error sending message")
		}
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, "message sent successfully")
}

func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	messages, err := h.messages.ListMessages(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			httputil.RespondError(w, http.StatusNotFound, usecase.ErrUserNotFound.Error())
			return
		}

		h.logger.Error().Err(err).Msg("failed to list messages")
		httputil.RespondError(w, http.StatusInternalServerError, "error retrieving messages")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, payload.ListMessagesResponse{
		Envelope: httputil.Envelope{Success: true},
		Messages: messages,
	})
}

func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	messageID := chi.URLParam(r, "messageID")

	err := h.messages.DeleteMessage(r.Context(), session.UserID, messageID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMessageNotFound), errors.Is(err, usecase.ErrUserNotFound):
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to delete message")
			httputil.RespondError(w, http.StatusInternalServerError, "error deleting message")
		}
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "message deleted")
}
