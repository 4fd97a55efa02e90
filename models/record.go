package models

import "time"

type Record struct {
	ID        string
	Text      string
	CreatedAt time.Time
}
