package domain

import "time"

// Hotel is one form submission: contact details plus the registered business.
// Rows are append-only; there is no update or delete path.
type Hotel struct {
	ID          int64
	Name        string
	PhoneNumber string
	Whatsapp    string
	HotelName   string
	Description *string
	Address     *string
	CreatedAt   time.Time
	Items       []Item
}

// Item is a catalog entry belonging to exactly one hotel. Items are written
// in the same transaction as their parent and never exist without it.
type Item struct {
	ID          int64
	HotelID     int64
	Name        string
	Description *string
	CreatedAt   time.Time
}

// User is a legacy contact-form submission (name + phone only).
type User struct {
	ID        int64
	Name      string
	Phone     string
	CreatedAt time.Time
}
