package models

import (
	"time"
)

// AudienceSubjectGlobal is the singleton key for the one audience row the
// public dashboard serves. The schema keeps a subject column so a future
// multi-subject variant only needs to stop hardcoding it.
const AudienceSubjectGlobal = "global"

// AudienceProfile is the canonical persisted audience breakdown.
// Historical rows stored loosely-shaped JSON under drifting key names; the
// audience package normalizes everything into this shape on write and
// tolerates the drift on read.
type AudienceProfile struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	Subject string `gorm:"uniqueIndex;not null" json:"subject"`

	GenderMen   int `json:"gender_men"`
	GenderWomen int `json:"gender_women"`

	AgeBands  JSONMap  `gorm:"type:jsonb" json:"age_bands"`
	Countries JSONList `gorm:"type:jsonb" json:"countries"` // element order = rank order
	Cities    JSONList `gorm:"type:jsonb" json:"cities"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (AudienceProfile) TableName() string {
	return "audience_profiles"
}
