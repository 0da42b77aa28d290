package dto

// Límites de paginación para los listados del catálogo y las ventanas del
// historial del ledger.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ClampPage normaliza limit/offset: limit fuera de rango cae al default o al
// tope, offset negativo se trata como cero.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// PageResponse ventana servida en las respuestas de listado.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de toda respuesta de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
