package domain

import (
	"strings"
)

// AdvisoryRequest - единица работы пайплайна, живет только в рамках вызова
type AdvisoryRequest struct {
	Query string `json:"query"`
	Email string `json:"email"`
}

func (q *AdvisoryRequest) Validate() error {
	if strings.TrimSpace(q.Query) == "" || strings.TrimSpace(q.Email) == "" {
		return ErrMissingFields
	}

	return nil
}

// Sanitize трогает только email: вопрос уходит в промпт как есть
func (q *AdvisoryRequest) Sanitize() {
	q.Email = NormalizeEmail(q.Email)
}

type AdvisoryResponse struct {
	Advice        string        `json:"advice"`
	Location      string        `json:"location"`
	Coordinates   Coordinates   `json:"coordinates"`
	DataCollected DataCollected `json:"dataCollected"`
}

// DataCollected - true только если данные пришли от реального провайдера, а не из fallback
type DataCollected struct {
	Weather   bool `json:"weather"`
	CropPrice bool `json:"cropPrice"`
	Maps      bool `json:"maps"`
}
