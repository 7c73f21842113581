package validation

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/rs/zerolog"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Validator wraps a validator.Validate with an English translator so that
// validation failures can be rendered as user-facing messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator creates a Validator with the custom username rule registered.
func NewValidator(logger *zerolog.Logger) *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		logger.Fatal().Err(err).Msg("failed to register validator translations")
	}

	// username: 2-20 chars, alphanumeric and underscore only
	if err := validate.RegisterValidation("username", validUsername); err != nil {
		logger.Fatal().Err(err).Msg("failed to register username validation")
	}

	registerUsernameTranslation(validate, translator, logger)

	return &Validator{
		validate:   validate,
		translator: translator,
	}
}

// Struct validates a payload struct and returns a translated, comma-joined
// message suitable for the response envelope.
func (v *Validator) Struct(s any) (string, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return "", nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "invalid request", err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fieldErr.Translate(v.translator))
	}

	return strings.Join(messages, ", "), err
}

func validUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	if len(username) < 2 || len(username) > 20 {
		return false
	}

	return usernamePattern.MatchString(username)
}

func registerUsernameTranslation(validate *validator.Validate, translator ut.Translator, logger *zerolog.Logger) {
	err := validate.RegisterTranslation("username", translator,
		func(ut ut.Translator) error {
			return ut.Add("username", "{0} must be 2-20 characters of letters, numbers or underscores", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("username", fe.Field())
			return t
		},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register username translation")
	}
}
