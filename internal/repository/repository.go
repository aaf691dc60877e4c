// Package repository contains the GORM data access layer. Every firm-scoped
// query takes the firm ID as a required leading parameter so unscoped access
// is impossible to express.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"lawpractice-service/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
)

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505). The gorm postgres driver runs on pgx, which
// surfaces server errors as *pgconn.PgError.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// BuildPagination computes pagination metadata for list responses
func BuildPagination(page, limit int, total int64) *models.PaginationInfo {
	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}
	return &models.PaginationInfo{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
