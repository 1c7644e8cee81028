package domain

import (
	"context"
	"errors"
	"fmt"
)

type RegistrationRepository interface {
	// Write paths
	EnsureSchema(ctx context.Context) error
	InsertHotelWithItems(ctx context.Context, h Hotel, items []Item) (int64, error)
	InsertUser(ctx context.Context, u User) (int64, error)

	// Read paths
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	ListHotels(ctx context.Context, limit int) ([]Hotel, error)
}

// Messenger delivers a text message to a phone number through the external
// gateway. A single attempt per call; failures are reported, never retried.
type Messenger interface {
	Send(ctx context.Context, to, message string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Del(ctx context.Context, key string) error
}

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidPhone = errors.New("invalid phone format")
)

// ValidationError marks a missing or empty required field. It is a client
// error: the store is never touched and nothing is logged as a fault.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required fields missing: %v", e.Fields)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
