package domain

import (
	"strings"
	"time"
)

// TutorSession is the read-only view of a learning session created by the
// chat/ingestion flow. The game never writes sessions; it only checks that
// one exists and, for local generation, reads the ingested material.
type TutorSession struct {
	ID            string    `json:"id"`
	CoreConcepts  []string  `json:"core_concepts"`
	Definitions   []string  `json:"definitions"`
	Examples      []string  `json:"examples"`
	CleanMarkdown string    `json:"clean_markdown"`
	CreatedAt     time.Time `json:"created_at"`
}

// HasMaterial reports whether the session carries anything a generator can
// build pairs from.
func (s *TutorSession) HasMaterial() bool {
	if s == nil {
		return false
	}
	return len(s.CoreConcepts) > 0 ||
		len(s.Definitions) > 0 ||
		strings.TrimSpace(s.CleanMarkdown) != ""
}

// NormalizeSessionID trims the identifier and returns ErrEmptySessionID when
// nothing is left.
func NormalizeSessionID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrEmptySessionID
	}
	return id, nil
}
