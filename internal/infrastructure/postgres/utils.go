package postgres

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/biblioteca-api/internal/domain"
)

// isUniqueViolation reporta si el error es una violación de constraint único
// (código 23505: ISBN de libro, nombre de ubicación, ticket de lector, email).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isConnectivityError reporta si el error viene de la conexión a la base
// (dial, red, timeout) y no de la consulta en sí.
func isConnectivityError(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// wrapErr envuelve los errores de los adaptadores con la operación que falló.
// Los fallos de conectividad se traducen a domain.ErrUnavailable, el único
// error por el que el caller puede reintentar.
func wrapErr(op string, err error) error {
	if isConnectivityError(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
