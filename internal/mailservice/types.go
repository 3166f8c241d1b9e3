package mailservice

import (
	"bytes"
	"context"
	"html/template"
	"sync"
	"time"

	"github.com/go-mail/mail/v2"

	"github.com/rx0a/rayspace/internal/common"
)

const (
	signatureTemplate = "guestbook_signature.tmpl"

	maxRetries = 5
	baseDelay  = 500 * time.Millisecond
)

type MailService struct {
	mb         common.MessageConsumer
	m          Mailer
	logger     MailLogger
	ownerEmail string
	siteURL    string
	baseDelay  time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

// SignedEvent mirrors the payload published by the guestbook on comment.signed.
type SignedEvent struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

type signatureData struct {
	Name      string
	Comment   string
	Timestamp time.Time
	SiteURL   string
}

type Mail struct {
	mu     sync.Mutex
	dialer Dialer
	parser TemplateParser
	sender string
}

type Mailer interface {
	send(recipient string, data any, templateFile string) error
}

// Template renders the embedded mail templates, parsing each file once.
type Template struct {
	mu     sync.Mutex
	parsed map[string]*template.Template
}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type TemplateParser interface {
	ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error)
}

// Config holds the SMTP settings and the notification recipient.
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Sender     string
	OwnerEmail string
	SiteURL    string
}
