// Package response padroniza as respostas JSON e de erro dos handlers HTTP.
package response

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"acristock/internal/domain"
	apperror "acristock/internal/errors"
	"acristock/internal/pkg/logger"
)

// MaxBodyBytes limita o tamanho dos payloads JSON aceites.
const MaxBodyBytes = 1 << 20

// JSON escreve data como JSON com o status indicado.
func JSON(w http.ResponseWriter, log logger.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// Error traduz err para o status HTTP e escreve um domain.ErrorResponse.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category),
			map[string]interface{}{"path": r.URL.Path, "method": r.Method})
	}

	body := domain.ErrorResponse{Code: status, Category: category, Message: message}
	if reason, ok := apperror.RejectionReason(err); ok {
		body.Reason = string(reason)
	}
	JSON(w, log, status, body)
}

// Handle escreve data com successStatus quando err é nil; caso contrário, o erro.
func Handle(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err != nil {
		Error(w, r, log, err)
		return
	}
	JSON(w, log, successStatus, data)
}

// Decode lê o corpo JSON do pedido para dst, rejeitando campos desconhecidos.
func Decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return apperror.NewValidationError("O corpo do pedido está vazio.")
		}
		return apperror.NewValidationError(fmt.Sprintf("Payload JSON inválido: %v", err))
	}
	return nil
}
