package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SessionVisit counts the index page views of one login session.
type SessionVisit struct {
	bun.BaseModel `bun:"table:session_visits,alias:sv" tstype:"-"`

	SessionID string    `bun:",pk" json:"session_id"`
	Count     int       `bun:",notnull" json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}
