package dto

// PageRequest paginación opcional para listados. Limit 0 devuelve todo.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=500"`
	Offset int `query:"offset" validate:"min=0"`
}

// Window devuelve los límites [from, to) de la página dentro de n elementos.
func (p PageRequest) Window(n int) (from, to int) {
	if p.Offset >= n {
		return n, n
	}
	from = p.Offset
	to = n
	if p.Limit > 0 && from+p.Limit < n {
		to = from + p.Limit
	}
	return from, to
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
