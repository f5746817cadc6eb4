package utils

import (
	"Quizrush/models/postgres"
	"fmt"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
)

// ErrorHandler handles global errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}

// UserExists checks that an account exists for the given email
func UserExists(db *gorm.DB, email string) error {
	var user postgres.User
	err := db.Where("email = ?", email).First(&user).Error
	return err
}

// FieldHasQuizzes reports whether the quiz bank holds any question for a
// field. Rooms for empty fields would never be able to start.
func FieldHasQuizzes(db *gorm.DB, field string) (bool, error) {
	var count int64
	err := db.Model(&postgres.Quiz{}).
		Where("field = ?", field).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// QuizFieldList returns the distinct fields available in the quiz bank
func QuizFieldList(db *gorm.DB) ([]string, error) {
	var fields []string
	err := db.Model(&postgres.Quiz{}).
		Distinct("field").
		Order("field ASC").
		Pluck("field", &fields).Error
	if err != nil {
		return nil, fmt.Errorf("error listing quiz fields: %v", err)
	}
	return fields, nil
}
