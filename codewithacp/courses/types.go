package courses

import (
	"time"

	"codeberg.org/codewithacp/server/internal/database"
)

type Level string

const (
	LevelBeginner     Level = "BEGINNER"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

// price filter values accepted by List
const (
	PriceAll  = "all"
	PriceFree = "free"
	PricePaid = "paid"
)

type Repository struct {
	db database.DB
}

type Course struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Thumbnail       string    `json:"thumbnail"`
	PriceCents      int64     `json:"price_cents"`
	Currency        string    `json:"currency"`
	Level           Level     `json:"level"`
	DurationMinutes int       `json:"duration_minutes"`
	Instructor      string    `json:"instructor"`
	Category        string    `json:"category"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"review_count"`
	IsFree          bool      `json:"is_free"`
	CreatedAt       time.Time `json:"created_at"`
}

type ListFilter struct {
	Search   string // case-insensitive match on title and description
	Level    Level
	Category string
	Price    string // all, free or paid
	Limit    int
	Offset   int
}

// reports whether the level is one of the known course levels
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	default:
		return false
	}
}
