package quiz

import (
	battle_models "Quizrush/models/battle"
	"Quizrush/models/postgres"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"

	"gorm.io/gorm"
)

// Provider is the GORM-backed quiz content provider: it returns a shuffled
// ordered sequence with authoritative answers for a field selection. The
// content bank itself is maintained by the upload pipeline, not here.
type Provider struct {
	DB *gorm.DB
}

func NewProvider(db *gorm.DB) *Provider {
	return &Provider{DB: db}
}

// QuizSequence loads up to count quizzes for the field, shuffles them and
// fixes the order for the whole game.
func (p *Provider) QuizSequence(field string, timeLimitType string, count int) ([]battle_models.Quiz, error) {
	var rows []postgres.Quiz
	if err := p.DB.Where("field = ?", field).Limit(count * 3).Find(&rows).Error; err != nil {
		log.Printf("[QUIZ-PROVIDER-ERROR] Error querying quizzes for field %s: %v", field, err)
		return nil, fmt.Errorf("error querying quizzes: %v", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no quizzes available for field %q", field)
	}

	rand.Shuffle(len(rows), func(i, j int) {
		rows[i], rows[j] = rows[j], rows[i]
	})
	if len(rows) > count {
		rows = rows[:count]
	}

	sequence := make([]battle_models.Quiz, 0, len(rows))
	for _, row := range rows {
		var choices []string
		if err := json.Unmarshal(row.Choices, &choices); err != nil {
			log.Printf("[QUIZ-PROVIDER-ERROR] Quiz %d has malformed choices, skipping: %v", row.ID, err)
			continue
		}
		sequence = append(sequence, battle_models.Quiz{
			ID:       row.ID,
			Question: row.Question,
			Choices:  choices,
			Answer:   row.Answer,
		})
	}
	if len(sequence) == 0 {
		return nil, fmt.Errorf("no usable quizzes for field %q", field)
	}
	return sequence, nil
}
