package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	"github.com/ondc-labs/rsf-settlement-service/internal/protocol"
	recondto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/recon"
	settlementdto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/settlement"
	"github.com/ondc-labs/rsf-settlement-service/internal/usecase/recon"
	"github.com/ondc-labs/rsf-settlement-service/internal/usecase/settlement"
)

const maxBodySize = 1 << 20

// ProtocolHandler serves the signed network actions a counterparty
// posts to us: on_settle, recon and on_recon.
type ProtocolHandler struct {
	settlementUc    settlement.SettlementUsecase
	reconUc         recon.ReconUsecase
	participantRepo domain.ParticipantRepository
	gateway         domain.Gateway
	selfID          string
}

func NewProtocolHandler(
	settlementUc settlement.SettlementUsecase,
	reconUc recon.ReconUsecase,
	participantRepo domain.ParticipantRepository,
	gateway domain.Gateway,
	selfID string,
) *ProtocolHandler {
	return &ProtocolHandler{
		settlementUc:    settlementUc,
		reconUc:         reconUc,
		participantRepo: participantRepo,
		gateway:         gateway,
		selfID:          selfID,
	}
}

func (h *ProtocolHandler) Register(router *mux.Router) {
	router.HandleFunc("/on_settle", h.HandleOnSettle).Methods(http.MethodPost)
	router.HandleFunc("/recon", h.HandleRecon).Methods(http.MethodPost)
	router.HandleFunc("/on_recon", h.HandleOnRecon).Methods(http.MethodPost)
}

// admit reads and authenticates an inbound call: signature check
// against the sender's registered key, then the allowlist. Returns
// the raw body for decoding.
func (h *ProtocolHandler) admit(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeNack(w, domain.NewValidationError(domain.CodeInvalidPayload, "unreadable request body"))
		return nil, false
	}

	var envelope struct {
		Context domain.ProtocolContext `json:"context"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		writeNack(w, domain.NewValidationError(domain.CodeInvalidPayload, "malformed request body"))
		return nil, false
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		writeNack(w, domain.NewValidationError(domain.CodeMissingAuthorization, "authorization header is required"))
		return nil, false
	}

	callerID := h.callerOf(envelope.Context)
	caller, err := h.participantRepo.GetProfile(r.Context(), callerID)
	if err != nil {
		writeNack(w, domain.NewPreconditionError(domain.CodeLookupFailure, "unknown caller %s", callerID))
		return nil, false
	}
	if err := h.gateway.Verify(authHeader, body, caller.SigningPublicKey); err != nil {
		writeNack(w, err)
		return nil, false
	}

	self, err := h.participantRepo.GetProfile(r.Context(), h.selfID)
	if err != nil {
		writeNack(w, domain.NewUnexpectedError(err))
		return nil, false
	}
	if !self.AllowsCounterparty(callerID) {
		writeNack(w, domain.NewPreconditionError(domain.CodeLookupFailure, "counterparty %s is not allowlisted", callerID))
		return nil, false
	}

	return body, true
}

// callerOf resolves the sending participant from the message context:
// whichever side of the bap/bpp pair is not us.
func (h *ProtocolHandler) callerOf(pctx domain.ProtocolContext) string {
	if pctx.BapID == h.selfID {
		return pctx.BppID
	}
	return pctx.BapID
}

func (h *ProtocolHandler) HandleOnSettle(w http.ResponseWriter, r *http.Request) {
	body, ok := h.admit(w, r)
	if !ok {
		return
	}

	var request protocol.OnSettleRequest
	if err := json.Unmarshal(body, &request); err != nil {
		writeNack(w, domain.NewValidationError(domain.CodeInvalidPayload, "malformed on_settle body"))
		return
	}

	entries := make([]settlementdto.ConfirmationEntry, len(request.Message.Settlement.Orders))
	for i, order := range request.Message.Settlement.Orders {
		entries[i] = settlementdto.ConfirmationEntry{
			OrderID:           order.OrderID,
			SelfStatus:        order.SelfStatus,
			ProviderStatus:    order.ProviderStatus,
			SelfReference:     order.SelfReference,
			ProviderReference: order.ProviderReference,
		}
	}

	err := h.settlementUc.ApplyConfirmation(r.Context(), &settlementdto.OnSettleInput{
		ParticipantID: h.selfID,
		Context:       request.Context,
		Entries:       entries,
	})
	if err != nil {
		slog.Warn("on_settle rejected", "transaction_id", request.Context.TransactionID, "error", err.Error())
		writeNack(w, err)
		return
	}
	writeAck(w)
}

func (h *ProtocolHandler) HandleRecon(w http.ResponseWriter, r *http.Request) {
	body, ok := h.admit(w, r)
	if !ok {
		return
	}

	var request protocol.ReconRequest
	if err := json.Unmarshal(body, &request); err != nil {
		writeNack(w, domain.NewValidationError(domain.CodeInvalidPayload, "malformed recon body"))
		return
	}

	orders := make([]recondto.ReconOrderEntry, len(request.Message.Orders))
	for i, order := range request.Message.Orders {
		orders[i] = recondto.ReconOrderEntry{
			OrderID: order.OrderID,
			Amounts: toAmountSet(order.ReconData),
		}
	}

	err := h.reconUc.Receive(r.Context(), &recondto.InboundReconInput{
		ParticipantID: h.selfID,
		Context:       request.Context,
		Orders:        orders,
	})
	if err != nil {
		slog.Warn("recon rejected", "transaction_id", request.Context.TransactionID, "error", err.Error())
		writeNack(w, err)
		return
	}
	writeAck(w)
}

func (h *ProtocolHandler) HandleOnRecon(w http.ResponseWriter, r *http.Request) {
	body, ok := h.admit(w, r)
	if !ok {
		return
	}

	var request protocol.OnReconRequest
	if err := json.Unmarshal(body, &request); err != nil {
		writeNack(w, domain.NewValidationError(domain.CodeInvalidPayload, "malformed on_recon body"))
		return
	}

	orders := make([]recondto.OnReconOrderEntry, len(request.Message.Orders))
	for i, order := range request.Message.Orders {
		entry := recondto.OnReconOrderEntry{
			OrderID: order.OrderID,
			Accord:  order.Accord,
		}
		if order.OnReconData != nil {
			amounts := toAmountSet(*order.OnReconData)
			entry.CounterAmounts = &amounts
		}
		orders[i] = entry
	}

	err := h.reconUc.ApplyOnRecon(r.Context(), &recondto.InboundOnReconInput{
		ParticipantID: h.selfID,
		Context:       request.Context,
		Orders:        orders,
	})
	if err != nil {
		slog.Warn("on_recon rejected", "transaction_id", request.Context.TransactionID, "error", err.Error())
		writeNack(w, err)
		return
	}
	writeAck(w)
}

func toAmountSet(amounts protocol.ReconAmounts) recondto.AmountSet {
	return recondto.AmountSet{
		TotalOrderValue:   amounts.TotalOrderValue,
		Commission:        amounts.Commission,
		Tcs:               amounts.Tcs,
		Tds:               amounts.Tds,
		WithholdingAmount: amounts.WithholdingAmount,
		InterNpSettlement: amounts.InterNpSettlement,
	}
}
