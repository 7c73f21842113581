package payload

import (
	"github.com/YeahitsDivyansh/mystry-message-api/internal/model"
	"github.com/YeahitsDivyansh/mystry-message-api/shared/httputil"
)

// SetAcceptMessagesRequest carries the desired acceptance state. The flag is
// a pointer so an explicit false survives the required rule.
type SetAcceptMessagesRequest struct {
	AcceptMessages *bool `json:"acceptMessages" validate:"required"`
}

type AcceptMessagesResponse struct {
	httputil.Envelope
	IsAcceptingMessages bool `json:"isAcceptingMessages"`
}

type SendMessageRequest struct {
	Username string `json:"username" validate:"required,username"`
	Content  string `json:"content"  validate:"required,max=500"`
}

type ListMessagesResponse struct {
	httputil.Envelope
	Messages []model.Message `json:"messages"`
}
