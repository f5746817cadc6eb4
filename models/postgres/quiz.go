package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'Quiz' is one row of the quiz content bank. The engine only reads this
 * table; authoring/upload pipelines live outside this service.
 */
type Quiz struct {
	ID        uint           `gorm:"primaryKey"`
	Field     string         `gorm:"size:50;not null;index:idx_quizzes_field"`
	Question  string         `gorm:"type:text;not null"`
	Choices   datatypes.JSON `gorm:"type:jsonb;not null"` // JSON array of option strings
	Answer    int            `gorm:"not null"`            // index into Choices, never sent to clients
	CreatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP"`
}
