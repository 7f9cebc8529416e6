package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thebank/coreledger/internal/adapter/http/dto"
	"github.com/thebank/coreledger/internal/adapter/http/middleware"
	"github.com/thebank/coreledger/internal/domain"
	"github.com/thebank/coreledger/internal/infrastructure/metrics"
	"github.com/thebank/coreledger/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	ExecuteTransfer(ctx context.Context, input usecase.ExecuteTransferInput) (*domain.Transfer, error)
	GetTransfer(ctx context.Context, id string) (*domain.Transfer, error)
	ListTransfersByAccount(ctx context.Context, input usecase.ListTransfersByAccountInput) ([]*domain.Transfer, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
	metrics    *metrics.Metrics
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService, m *metrics.Metrics) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, metrics: m}
}

// Create executes a transfer to a terminal state. A rejected transfer is
// answered with 422 and the persisted REJECTED record.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	idempotencyKey := r.Header.Get(middleware.IdempotencyKeyHeader)
	actingUserID := middleware.UserIDFromContext(r.Context())

	start := time.Now()
	transfer, err := h.transferUC.ExecuteTransfer(r.Context(), req.ToUseCaseInput(idempotencyKey, actingUserID))
	if h.metrics != nil {
		h.metrics.TransferDuration.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		var rejected *domain.RejectedError
		if errors.As(err, &rejected) {
			if h.metrics != nil {
				h.metrics.TransfersRejected.WithLabelValues(string(rejected.Reason)).Inc()
			}
			writeJSON(w, http.StatusUnprocessableEntity, dto.RejectedResponse{
				Error:    "transfer rejected",
				Reason:   string(rejected.Reason),
				Transfer: dto.TransferFromDomain(transfer),
			})

			return
		}

		status := mapDomainError(err)
		writeError(w, status, "failed to execute transfer", err.Error())

		return
	}

	if h.metrics != nil {
		h.metrics.TransfersCompleted.Inc()
		amount, _ := transfer.Amount.Float64()
		h.metrics.TransferAmount.Observe(amount)
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(transfer))
}

// Get retrieves a transfer by ID.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transfer ID", "")
		return
	}

	transfer, err := h.transferUC.GetTransfer(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get transfer", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// ListByAccount lists transfers for an account.
func (h *TransferHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	transfers, err := h.transferUC.ListTransfersByAccount(r.Context(), usecase.ListTransfersByAccountInput{
		AccountID: accountID,
		Limit:     parseIntQuery(r, "limit", 0),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transfers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransfersFromDomain(transfers))
}
