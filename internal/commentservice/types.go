package commentservice

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/rx0a/rayspace/internal/common"
)

type Comment struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

// SignedEvent is published on the guestbook exchange after a comment is stored.
type SignedEvent struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

type CommentModel struct {
	db *sql.DB
}

type CommentService struct {
	m      *CommentModel
	mb     common.MessageProducer
	logger *slog.Logger
}
