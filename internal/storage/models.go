package storage

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides common fields for all storage entities.
type BaseEntity struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBaseEntity assigns a time ordered id, so keys built from it sort by
// creation time.
func NewBaseEntity() BaseEntity {
	now := time.Now()

	return BaseEntity{
		ID:        uuid.Must(uuid.NewV7()),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}
