package payload

import "github.com/YeahitsDivyansh/mystry-message-api/shared/httputil"

type SignUpRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SignInRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type SignInResponse struct {
	httputil.Envelope
	Token string `json:"token"`
}

type VerifyCodeRequest struct {
	Username string `json:"username" validate:"required"`
	Code     string `json:"code"     validate:"required,len=6,numeric"`
}
