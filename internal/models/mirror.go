package models

import "time"

// MirrorDocument is one value in the local copy of the remote document store.
// Path is the full slash-separated key, e.g. "Jan 10 02:15/2021-01-10 14:15:07 +0000".
type MirrorDocument struct {
	Path      string    `gorm:"primaryKey" json:"path"`
	Value     float64   `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
