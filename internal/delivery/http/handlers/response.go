package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeAck(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, domain.AckResponse{
		Message: domain.AckMessage{Ack: domain.AckStatus{Status: "ACK"}},
	})
}

// writeNack returns the protocol rejection envelope. A NACK is still
// transport-success, so the HTTP status stays 200; only a genuinely
// unexpected failure answers with a different transport status.
// Callers never see raw internal error strings for those.
func writeNack(w http.ResponseWriter, err error) {
	code, message := nackOf(err)
	writeJSON(w, nackStatusOf(err), domain.AckResponse{
		Message: domain.AckMessage{Ack: domain.AckStatus{Status: "NACK"}},
		Error:   &domain.AckError{Code: code, Message: message},
	})
}

func nackStatusOf(err error) int {
	var de *domain.DomainError
	if errors.As(err, &de) {
		if de.Kind == domain.KindUnexpected {
			return http.StatusInternalServerError
		}
		return http.StatusOK
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}

func nackOf(err error) (code, message string) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		if de.Kind == domain.KindUnexpected {
			return de.Code, "internal service error"
		}
		return de.Code, de.Message
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.CodeLookupFailure, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return domain.CodeConflict, err.Error()
	}
	return domain.CodeServiceError, "internal service error"
}

// statusOf maps the taxonomy to the richer statuses of the admin
// surface, where callers are HTTP clients rather than counterparties.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	}
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindPrecondition:
		return http.StatusUnprocessableEntity
	case domain.KindConsistency:
		return http.StatusConflict
	case domain.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
