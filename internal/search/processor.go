package search

import (
	"strings"

	"github.com/hyperjump/cutaway/internal/models"
)

// ProcessQuery trims the query text, then validates and applies defaults.
func ProcessQuery(query *models.SearchQuery) error {
	query.Query = strings.TrimSpace(query.Query)
	return query.Validate()
}
