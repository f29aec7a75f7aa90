package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"422"`
	Category string `json:"category" example:"CUT_REJECTED"`
	Message  string `json:"message" example:"Corte rejeitado (ExceedsSource): corte 1: 2500x500mm excede a origem 2000x3000mm"`
	// Reason só é preenchido para rejeições do motor de cortes.
	Reason string `json:"reason,omitempty" example:"ExceedsSource"`
}
