package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/YeahitsDivyansh/mystry-message-api/internal/payload"
	"github.com/YeahitsDivyansh/mystry-message-api/internal/usecase"
	"github.com/YeahitsDivyansh/mystry-message-api/shared/httputil"
	"github.com/YeahitsDivyansh/mystry-message-api/shared/validation"
)

// AuthHandler serves the unauthenticated surface: sign-up, username
// availability, code verification and sign-in.
type AuthHandler struct {
	logger       *zerolog.Logger
	validator    *validation.Validator
	registration usecase.RegistrationUsecase
	verification usecase.VerificationUsecase
	auth         usecase.AuthUsecase

	// verifyNotFoundAsInternal keeps the legacy 500-on-unknown-user answer
	// for code verification behind a config switch.
	verifyNotFoundAsInternal bool
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(
	logger *zerolog.Logger,
	validator *validation.Validator,
	registration usecase.RegistrationUsecase,
	verification usecase.VerificationUsecase,
	auth usecase.AuthUsecase,
	verifyNotFoundAsInternal bool,
) *AuthHandler {
	return &AuthHandler{
		logger:                   logger,
		validator:                validator,
		registration:             registration,
		verification:             verification,
		auth:                     auth,
		verifyNotFoundAsInternal: verifyNotFoundAsInternal,
	}
}

// RegisterRoutes mounts the unauthenticated routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/sign-up", h.SignUp)
	r.Get("/check-username-unique", h.CheckUsernameUnique)
	r.Post("/verify-code", h.VerifyCode)
	r.Post("/sign-in", h.SignIn)
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req payload.SignUpRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg, err := h.validator.Struct(req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, msg)
		return
	}

	err := h.registration.SignUp(r.Context(), usecase.SignUpParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUsernameTaken), errors.Is(err, usecase.ErrEmailTaken):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, usecase.ErrEmailDelivery):
			h.logger.Error().Err(err).Msg("failed to send verification email")
			httputil.RespondError(w, http.StatusInternalServerError, usecase.ErrEmailDelivery.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to register user")
			httputil.RespondError(w, http.StatusInternalServerError, "error registering user")
		}
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, "user registered successfully, please verify your email")
}

func (h *AuthHandler) CheckUsernameUnique(w http.ResponseWriter, r *http.Request) {
	query := struct {
		Username string `validate:"required,username"`
	}{
		Username: r.URL.Query().Get("username"),
	}

	if msg, err := h.validator.Struct(query); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, msg)
		return
	}

	available, err := h.registration.IsUsernameAvailable(r.Context(), query.Username)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to check username availability")
		httputil.RespondError(w, http.StatusInternalServerError, "error checking username")
		return
	}

	// Both outcomes are 200: the flag carries the answer.
	if !available {
		httputil.RespondJSON(w, http.StatusOK, httputil.Envelope{
			Success: false,
			Message: "username is already taken",
		})
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "username is unique")
}

func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyCodeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg, err := h.validator.Struct(req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, msg)
		return
	}

	err := h.verification.VerifyCode(r.Context(), req.Username, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			status := http.StatusNotFound
			if h.verifyNotFoundAsInternal {
				status = http.StatusInternalServerError
			}
			httputil.RespondError(w, status, usecase.ErrUserNotFound.Error())
		case errors.Is(err, usecase.ErrCodeExpired), errors.Is(err, usecase.ErrInvalidCode):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to verify user")
			httputil.RespondError(w, http.StatusInternalServerError, "error verifying user")
		}
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "account verified successfully")
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req payload.SignInRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg, err := h.validator.Struct(req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, msg)
		return
	}

	token, err := h.auth.SignIn(r.Context(), usecase.SignInParams{
		Identifier: req.Identifier,
		Password:   req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials), errors.Is(err, usecase.ErrNotVerified):
			httputil.RespondError(w, http.StatusUnauthorized, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to sign in user")
			httputil.RespondError(w, http.StatusInternalServerError, "error signing in")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, payload.SignInResponse{
		Envelope: httputil.Envelope{Success: true, Message: "signed in successfully"},
		Token:    token,
	})
}
