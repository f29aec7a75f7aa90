package middleware

import (
	"encoding/json"
	"net/http"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
)

// writeError escreve o mesmo corpo de erro JSON que os handlers.
func writeError(w http.ResponseWriter, err apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus())
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     err.HTTPStatus(),
		Category: err.Category(),
		Message:  err.Error(),
	})
}
