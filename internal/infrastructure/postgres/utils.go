package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Isaac-VelizC/localstock-backend/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isContention verifica si un error es un conflicto de concurrencia recuperable:
// 55P03 lock_not_available, 40001 serialization_failure, 40P01 deadlock_detected.
func isContention(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "55P03", "40001", "40P01":
		return true
	}
	return false
}

// mapError traduce errores de pgx a errores de dominio cuando aplica.
func mapError(op string, err error) error {
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if isContention(err) {
		return fmt.Errorf("%w: %s", domain.ErrContention, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
