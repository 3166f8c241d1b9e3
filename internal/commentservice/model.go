package commentservice

import (
	"context"
	"database/sql"
	"errors"
)

var ErrRecordNotFound = errors.New("record not found")

func newCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

func (m *CommentModel) insert(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (user_id, name, comment)
		VALUES ($1, $2, $3)
		RETURNING id, timestamp`

	return m.db.QueryRowContext(ctx, query, c.UserID, c.Name, c.Comment).Scan(&c.ID, &c.Timestamp)
}

// list returns every comment, most recent first.
func (m *CommentModel) list(ctx context.Context) ([]Comment, error) {
	query := `
		SELECT id, user_id, name, comment, timestamp
		FROM comments
		ORDER BY id DESC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Comment, &c.Timestamp); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (m *CommentModel) latest(ctx context.Context) (*Comment, error) {
	query := `
		SELECT id, user_id, name, comment, timestamp
		FROM comments
		ORDER BY id DESC
		LIMIT 1`

	var c Comment
	err := m.db.QueryRowContext(ctx, query).Scan(&c.ID, &c.UserID, &c.Name, &c.Comment, &c.Timestamp)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &c, nil
}
