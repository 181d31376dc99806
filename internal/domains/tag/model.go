package tag

import (
	"time"

	"github.com/google/uuid"
)

// Tag entity - tags được share across articles, unique theo name
type Tag struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
