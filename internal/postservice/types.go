package postservice

import (
	"database/sql"
	"time"

	"github.com/rx0a/rayspace/internal/common"
)

type Post struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	// Content is sanitised HTML.
	Content       string    `json:"content"`
	PublishedDate *Date     `json:"published_date"`
	Views         int       `json:"views"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int       `json:"version"`
}

// Summary is the list representation of a post, without content.
type Summary struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	PublishedDate *Date  `json:"published_date"`
	Views         int    `json:"views"`
}

type PostModel struct {
	db *sql.DB
}

type PostService struct {
	m   *PostModel
	c   *common.Cache
	now func() time.Time
}
