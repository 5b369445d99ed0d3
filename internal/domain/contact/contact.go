package contact

import (
	"context"
	"time"
)

// Message is a note left through the public contact form.
type Message struct {
	ID        int64
	Name      string
	Email     string
	Subject   string
	Body      string
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, m *Message) (*Message, error)
	List(ctx context.Context) ([]*Message, error)
}
