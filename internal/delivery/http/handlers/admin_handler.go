package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	admindto "github.com/ondc-labs/rsf-settlement-service/internal/delivery/http/dto/admin"
	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	recondto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/recon"
	settlementdto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/settlement"
	"github.com/ondc-labs/rsf-settlement-service/internal/usecase/recon"
	"github.com/ondc-labs/rsf-settlement-service/internal/usecase/settlement"
)

// AdminHandler is the operator-facing surface: prepare and trigger
// settlements, drive reconciliation, inspect state. It sits behind the
// deployment's internal network, not the open protocol surface.
type AdminHandler struct {
	settlementUc    settlement.SettlementUsecase
	reconUc         recon.ReconUsecase
	participantRepo domain.ParticipantRepository
}

func NewAdminHandler(
	settlementUc settlement.SettlementUsecase,
	reconUc recon.ReconUsecase,
	participantRepo domain.ParticipantRepository,
) *AdminHandler {
	return &AdminHandler{settlementUc: settlementUc, reconUc: reconUc, participantRepo: participantRepo}
}

func (h *AdminHandler) Register(router *mux.Router) {
	router.HandleFunc("/admin/settlements/prepare", h.HandlePrepare).Methods(http.MethodPost)
	router.HandleFunc("/admin/settlements/settle", h.HandleSettle).Methods(http.MethodPost)
	router.HandleFunc("/admin/settlements", h.HandleList).Methods(http.MethodGet)
	router.HandleFunc("/admin/settlements/{order_id}", h.HandleGetByOrder).Methods(http.MethodGet)
	router.HandleFunc("/admin/recon/initiate", h.HandleReconInitiate).Methods(http.MethodPost)
	router.HandleFunc("/admin/recon/respond", h.HandleReconRespond).Methods(http.MethodPost)
	router.HandleFunc("/admin/recon/deactivate", h.HandleReconDeactivate).Methods(http.MethodPost)
	router.HandleFunc("/admin/participants/{participant_id}", h.HandleUpsertParticipant).Methods(http.MethodPut)
}

func (h *AdminHandler) HandlePrepare(w http.ResponseWriter, r *http.Request) {
	var request admindto.PrepareRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeAdminError(w, domain.NewValidationError(domain.CodeInvalidPayload, "malformed request body"))
		return
	}

	output, err := h.settlementUc.Prepare(r.Context(), &settlementdto.PrepareInput{
		ParticipantID: request.ParticipantID,
		OrderIDs:      request.OrderIDs,
	})
	if err != nil {
		writeAdminError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, admindto.PrepareResponse{
		Settlements: admindto.ToSettlementViews(output.Settlements),
	})
}

func (h *AdminHandler) HandleSettle(w http.ResponseWriter, r *http.Request) {
	var request admindto.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeAdminError(w, domain.NewValidationError(domain.CodeInvalidPayload, "malformed request body"))
		return
	}

	output, err := h.settlementUc.TriggerSettle(r.Context(), &settlementdto.TriggerSettleInput{
		ParticipantID:  request.ParticipantID,
		SettlementIDs:  request.SettlementIDs,
		SettlementType: request.SettlementType,
	})
	if err != nil {
		writeAdminError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admindto.SettleResponse{
		TransactionID: output.TransactionID,
		MessageID:     output.MessageID,
		Settlements:   admindto.ToSettlementViews(output.Settlements),
	})
}

func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.ParseInt(query.Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(query.Get("limit"), 10, 64)

	output, err := h.settlementUc.List(r.Context(), &settlementdto.ListInput{
		ParticipantID: query.Get("participant_id"),
		OrderID:       query.Get("order_id"),
		Status:        query.Get("status"),
		ReconStatus:   query.Get("recon_status"),
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		writeAdminError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admindto.ListResponse{
		Settlements: admindto.ToSettlementViews(output.Settlements),
		Pagination: admindto.Pagination{
			CurrentPage:  output.Pagination.CurrentPage,
			TotalPages:   output.Pagination.TotalPages,
			TotalItems:   output.Pagination.TotalItems,
			ItemsPerPage: output.Pagination.ItemsPerPage,
		},
	})
}

func (h *AdminHandler) HandleGetByOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["order_id"]
	participantID := r.URL.Query().Get("participant_id")

	settlementRecord, err := h.settlementUc.GetByOrderID(r.Context(), participantID, orderID)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admindto.ToSettlementView(settlementRecord))
}

func (h *AdminHandler) HandleReconInitiate(w http.ResponseWriter, r *http.Request) {
	var request admindto.ReconInitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeAdminError(w, domain.NewValidationError(domain.CodeInvalidPayload, "malformed request body"))
		return
	}

	output, err := h.reconUc.Initiate(r.Context(), &recondto.InitiateInput{
		ParticipantID: request.ParticipantID,
		SettlementIDs: request.SettlementIDs,
	})
	if err != nil {
		writeAdminError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admindto.ReconInitiateResponse{
		TransactionID: output.TransactionID,
		MessageID:     output.MessageID,
		Settlements:   admindto.ToSettlementViews(output.Settlements),
	})
}

func (h *AdminHandler) HandleReconRespond(w http.ResponseWriter, r *http.Request) {
	var request admindto.ReconRespondRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeAdminError(w, domain.NewValidationError(domain.CodeInvalidPayload, "malformed request body"))
		return
	}

	input := &recondto.RespondInput{
		ParticipantID: request.ParticipantID,
		TransactionID: request.TransactionID,
		Accord:        request.Accord,
	}
	if len(request.CounterAmounts) > 0 {
		input.CounterAmounts = make(map[string]recondto.AmountSet, len(request.CounterAmounts))
		for orderID, amounts := range request.CounterAmounts {
			input.CounterAmounts[orderID] = recondto.AmountSet{
				TotalOrderValue:   amounts.TotalOrderValue,
				Commission:        amounts.Commission,
				Tcs:               amounts.Tcs,
				Tds:               amounts.Tds,
				WithholdingAmount: amounts.WithholdingAmount,
				InterNpSettlement: amounts.InterNpSettlement,
			}
		}
	}

	if err := h.reconUc.Respond(r.Context(), input); err != nil {
		writeAdminError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) HandleReconDeactivate(w http.ResponseWriter, r *http.Request) {
	var request admindto.ReconDeactivateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeAdminError(w, domain.NewValidationError(domain.CodeInvalidPayload, "malformed request body"))
		return
	}

	err := h.reconUc.Deactivate(r.Context(), &recondto.DeactivateInput{
		ParticipantID: request.ParticipantID,
		OrderIDs:      request.OrderIDs,
		Reason:        request.Reason,
	})
	if err != nil {
		writeAdminError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpsertParticipant registers or refreshes a network participant
// profile. Rates arrive as decimal strings, percentages of taxable value.
func (h *AdminHandler) HandleUpsertParticipant(w http.ResponseWriter, r *http.Request) {
	participantID := mux.Vars(r)["participant_id"]

	var request admindto.ParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeAdminError(w, domain.NewValidationError(domain.CodeInvalidPayload, "malformed request body"))
		return
	}

	npTcs, err := decimal.NewFromString(valueOr(request.NpTcs, "0"))
	if err != nil {
		writeAdminError(w, domain.NewValidationError(domain.CodeInvalidPayload, "np_tcs is not a decimal number"))
		return
	}
	npTds, err := decimal.NewFromString(valueOr(request.NpTds, "0"))
	if err != nil {
		writeAdminError(w, domain.NewValidationError(domain.CodeInvalidPayload, "np_tds is not a decimal number"))
		return
	}

	profile := &domain.ParticipantProfile{
		ParticipantID:    participantID,
		Role:             request.Role,
		SubscriberURL:    request.SubscriberURL,
		Domain:           request.Domain,
		NpTcs:            npTcs,
		NpTds:            npTds,
		MSN:              request.MSN,
		BankAccountNo:    request.BankAccountNo,
		BankIfscCode:     request.BankIfscCode,
		ProviderName:     request.ProviderName,
		SigningPublicKey: request.SigningPublicKey,
		Counterparties:   request.Counterparties,
	}
	if err := h.participantRepo.UpsertProfile(r.Context(), profile); err != nil {
		writeAdminError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func writeAdminError(w http.ResponseWriter, err error) {
	code, message := nackOf(err)
	writeJSON(w, statusOf(err), admindto.ErrorResponse{Code: code, Message: message})
}
