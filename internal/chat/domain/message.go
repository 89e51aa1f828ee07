package domain

import (
	"time"

	"github.com/SoftbearStudios/kiomet/modules/kit/errx"
)

// MaxMessageLen bounds a single chat message in bytes.
const MaxMessageLen = 128

// Message is one chat line as broadcast to clients and written to the
// moderation log.
type Message struct {
	Id       string    `json:"id"`
	PlayerId uint32    `json:"playerId"`
	Alias    string    `json:"alias"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"sentAt"`
}

const (
	CodeEmptyMessage errx.Code = "CHAT_EMPTY_MESSAGE"
	CodeTooLong      errx.Code = "CHAT_MESSAGE_TOO_LONG"
	CodeRateLimited  errx.Code = "CHAT_RATE_LIMITED"
)

var (
	ErrEmptyMessage = errx.NewBiz(CodeEmptyMessage, "message is empty")
	ErrTooLong      = errx.NewBiz(CodeTooLong, "message is too long")
	ErrRateLimited  = errx.NewBiz(CodeRateLimited, "sending too fast")
)
