package recipes

import (
	"time"

	"gorm.io/gorm"
)

type Modelable interface {
	Exists() bool
}

// A Model is the essential data points for primary ID-based models in the
// recipes service, indicating when a record was created, last updated and
// soft deleted.
type Model struct {
	ID        uint           `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-"`
}

func (m Model) Exists() bool { return !m.CreatedAt.IsZero() }
