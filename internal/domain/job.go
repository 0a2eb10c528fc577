package domain

import (
	"strings"
	"time"
)

// JobSpecification describes the position candidates are ranked against.
// Created once per analysis request; immutable.
type JobSpecification struct {
	ID           string
	Owner        string
	Title        string
	Description  string
	Requirements string
	CreatedAt    time.Time
}

// Text returns the comparison basis for scoring: title, description and
// requirements joined into a single string.
func (j JobSpecification) Text() string {
	return strings.Join([]string{j.Title, j.Description, j.Requirements}, " ")
}
