package postservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrEditConflict   = errors.New("unable to update the record due to an edit conflict, please try again")
)

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

type postScanner interface {
	Scan(dest ...any) error
}

func scanDate(nt sql.NullTime) *Date {
	if !nt.Valid {
		return nil
	}
	d := NewDate(nt.Time)
	return &d
}

func scanPost(row postScanner) (*Post, error) {
	var (
		p         Post
		published sql.NullTime
	)

	err := row.Scan(&p.ID, &p.Title, &p.Content, &published, &p.Views, &p.CreatedAt, &p.UpdatedAt, &p.Version)
	if err != nil {
		return nil, err
	}
	p.PublishedDate = scanDate(published)

	return &p, nil
}

func (m *PostModel) insert(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (title, content, published_date, views)
		VALUES ($1, $2, $3, 0)
		RETURNING id, views, created_at, updated_at, version`

	return m.db.QueryRowContext(ctx, query, p.Title, p.Content, dateArg(p.PublishedDate)).Scan(&p.ID, &p.Views, &p.CreatedAt, &p.UpdatedAt, &p.Version)
}

func (m *PostModel) get(ctx context.Context, id int) (*Post, error) {
	query := `
		SELECT id, title, content, published_date, views, created_at, updated_at, version
		FROM posts
		WHERE id = $1`

	p, err := scanPost(m.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return p, nil
}

// list returns every post newest first.
func (m *PostModel) list(ctx context.Context) ([]Summary, error) {
	query := `
		SELECT id, title, published_date, views
		FROM posts
		ORDER BY id DESC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Summary{}
	for rows.Next() {
		var (
			s         Summary
			published sql.NullTime
		)
		err := rows.Scan(&s.ID, &s.Title, &published, &s.Views)
		if err != nil {
			return nil, err
		}
		s.PublishedDate = scanDate(published)
		posts = append(posts, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (m *PostModel) update(ctx context.Context, p *Post) error {
	query := `
		UPDATE posts
		SET title = $1, content = $2, published_date = $3, updated_at = $4, version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING updated_at, version`

	err := m.db.QueryRowContext(ctx, query, p.Title, p.Content, dateArg(p.PublishedDate), time.Now(), p.ID, p.Version).Scan(&p.UpdatedAt, &p.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

func (m *PostModel) delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM posts
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *PostModel) incrementViews(ctx context.Context, id int) (int, error) {
	query := `
		UPDATE posts
		SET views = views + 1
		WHERE id = $1
		RETURNING views`

	var views int
	err := m.db.QueryRowContext(ctx, query, id).Scan(&views)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, ErrRecordNotFound
		default:
			return 0, err
		}
	}

	return views, nil
}

func (m *PostModel) totalViews(ctx context.Context) (int64, error) {
	var total int64
	err := m.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(views), 0) FROM posts`).Scan(&total)
	return total, err
}
