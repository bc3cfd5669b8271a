package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InsufficientStockResponse error de salida rechazada con el contexto que
// el usuario necesita para actuar.
type InsufficientStockResponse struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	CurrentStock int    `json:"current_stock"`
	Requested    int    `json:"requested"`
}
