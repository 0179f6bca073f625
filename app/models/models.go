// Package models defines the wire and storage shapes of stockroom's
// resources.
package models

// User is an administrative account. Password is inbound-only and
// PasswordHash never leaves the process: Sanitized strips both before a
// user is written to the wire.
type User struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Role         string `json:"role,omitempty"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

// Sanitized returns a copy safe for responses.
func (u User) Sanitized() User {
	u.Password = ""
	u.PasswordHash = ""
	return u
}

// Item is one inventory row.
type Item struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	SKU         string `json:"sku,omitempty"`
	Quantity    int    `json:"quantity"`
	Location    string `json:"location,omitempty"`
	RestockedAt string `json:"restockedAt,omitempty"` // YYYY-MM-DD
}
