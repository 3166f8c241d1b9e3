package commentservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/rx0a/rayspace/internal/common"
)

func NewCommentService(db *sql.DB, mb common.MessageProducer, logger *slog.Logger) *CommentService {
	return &CommentService{m: newCommentModel(db), mb: mb, logger: logger}
}

// ListComments returns the guestbook, most recent first.
func (s *CommentService) ListComments(ctx context.Context) ([]Comment, error) {
	return s.m.list(ctx)
}

// RecentSignee returns the name of whoever signed the guestbook last.
func (s *CommentService) RecentSignee(ctx context.Context) (string, error) {
	c, err := s.m.latest(ctx)
	if err != nil {
		return "", err
	}

	return c.Name, nil
}

// SignGuestbook stores a comment for an authenticated user and announces it on the
// guestbook exchange. A failed publish is logged but does not fail the call.
func (s *CommentService) SignGuestbook(ctx context.Context, userID, name, text string) (*Comment, error) {
	text, plain := sanitizeComment(text)
	text = strings.TrimSpace(text)

	v := common.NewValidator()
	validateIdentity(v, userID, name)
	v.Check(plain, "comment", "must not contain markup")
	validateComment(v, text)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	c := &Comment{
		UserID:  userID,
		Name:    strings.TrimSpace(name),
		Comment: text,
	}

	if err := s.m.insert(ctx, c); err != nil {
		return nil, err
	}

	s.publishSigned(ctx, c)

	return c, nil
}

func (s *CommentService) publishSigned(ctx context.Context, c *Comment) {
	if s.mb == nil {
		return
	}

	msg, err := json.Marshal(SignedEvent{ID: c.ID, Name: c.Name, Comment: c.Comment, Timestamp: c.Timestamp})
	if err != nil {
		s.logger.Error("could not marshal guestbook event", slog.String("error", err.Error()))
		return
	}

	if err := s.mb.Publish(ctx, msg, common.CommentSignedKey, common.GuestbookExchange); err != nil {
		s.logger.Error("could not publish guestbook event", slog.Int64("comment_id", c.ID), slog.String("error", err.Error()))
	}
}
