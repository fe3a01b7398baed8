package postgres

import (
	"strings"

	"gorm.io/gorm"
)

// ApplyPagination applies limit/offset when set
func ApplyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

// ApplyDateRange restricts an ISO date column to [from, to]. Empty bounds are open.
func ApplyDateRange(query *gorm.DB, column, from, to string) *gorm.DB {
	if from != "" {
		query = query.Where(column+" >= ?", from)
	}
	if to != "" {
		query = query.Where(column+" <= ?", to)
	}
	return query
}

// likePattern builds a case-insensitive contains pattern
func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}
