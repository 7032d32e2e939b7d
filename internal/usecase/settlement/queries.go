package settlement

import (
	"context"

	"github.com/ondc-labs/rsf-settlement-service/internal/domain"
	settlementdto "github.com/ondc-labs/rsf-settlement-service/internal/usecase/dto/settlement"
)

func (uc *DefaultSettlementUsecase) GetByOrderID(ctx context.Context, participantID, orderID string) (*domain.Settlement, error) {
	return uc.settlementRepo.GetByOrderID(ctx, participantID, orderID)
}

func (uc *DefaultSettlementUsecase) List(ctx context.Context, input *settlementdto.ListInput) (*settlementdto.ListOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	settlements, total, err := uc.settlementRepo.List(ctx, domain.SettlementFilter{
		ParticipantID: input.ParticipantID,
		OrderID:       input.OrderID,
		Status:        input.Status,
		ReconStatus:   input.ReconStatus,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	return &settlementdto.ListOutput{
		Settlements: settlements,
		Pagination: settlementdto.Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}, nil
}
