// Package api exposes the debit card facade over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cardkit/debitcard/card"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type contextKey string

const contextKeyCardID contextKey = "cardID"

// NewHandler returns a http handler serving the debit card endpoints
func NewHandler(facade *card.Facade, logger *zap.Logger) *Handler {
	return &Handler{facade: facade, logger: logger}
}

// Handler translates http requests into facade commands
type Handler struct {
	facade *card.Facade
	logger *zap.Logger
}

// HTTPHandler returns the route tree of the debit card endpoints
func (h *Handler) HTTPHandler() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)

	r.Post("/", h.CreateCard)

	r.Route("/{card_id}", func(r chi.Router) {
		r.Use(h.cardIDFromURL)

		r.Get("/", h.ViewCard)
		r.Put("/limit", h.AssignLimit)
		r.Put("/charge", h.ChargeCard)
		r.Put("/pay-off", h.PayOffCard)
		r.Put("/block", h.BlockCard)
		r.Put("/unblock", h.UnblockCard)
	})

	return r
}

// CreateCard creates a new card and returns its id
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := h.facade.CreateCard(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.With(zap.Error(err)).Error("failed to create a debit card")
		return
	}

	w.Header().Add("Location", "/v1/debit-cards/"+cardID.String())
	h.renderJSON(w, http.StatusCreated, map[string]string{"card_id": cardID.String()})
}

// ViewCard returns the summary of a card
func (h *Handler) ViewCard(w http.ResponseWriter, r *http.Request) {
	cardID := r.Context().Value(contextKeyCardID).(uuid.UUID)
	summary, err := h.facade.Summary(r.Context(), cardID)
	if err != nil {
		h.renderCardError(w, cardID, err)
		return
	}

	h.renderJSON(w, http.StatusOK, summary)
}

type limitRequest struct {
	Limit decimal.Decimal `json:"limit"`
}

// AssignLimit assigns the spending limit of a card
func (h *Handler) AssignLimit(w http.ResponseWriter, r *http.Request) {
	var req limitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderRequestError(w, err)
		return
	}

	cardID := r.Context().Value(contextKeyCardID).(uuid.UUID)
	h.renderResult(r.Context(), w, cardID, func(ctx context.Context) (card.OperationResult, error) {
		return h.facade.AssignLimit(ctx, card.AssignLimitCommand{CardID: cardID, Limit: req.Limit})
	})
}

type transactionRequest struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// ChargeCard charges an amount against a card
func (h *Handler) ChargeCard(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderRequestError(w, err)
		return
	}

	cardID := r.Context().Value(contextKeyCardID).(uuid.UUID)
	h.renderResult(r.Context(), w, cardID, func(ctx context.Context) (card.OperationResult, error) {
		return h.facade.ChargeCard(ctx, card.ChargeCardCommand{
			CardID:        cardID,
			TransactionID: req.TransactionID,
			Amount:        req.Amount,
		})
	})
}

// PayOffCard pays an amount back onto a card
func (h *Handler) PayOffCard(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderRequestError(w, err)
		return
	}

	cardID := r.Context().Value(contextKeyCardID).(uuid.UUID)
	h.renderResult(r.Context(), w, cardID, func(ctx context.Context) (card.OperationResult, error) {
		return h.facade.PayOffCard(ctx, card.PayOffCardCommand{
			CardID:        cardID,
			TransactionID: req.TransactionID,
			Amount:        req.Amount,
		})
	})
}

// BlockCard blocks a card
func (h *Handler) BlockCard(w http.ResponseWriter, r *http.Request) {
	cardID := r.Context().Value(contextKeyCardID).(uuid.UUID)
	h.renderResult(r.Context(), w, cardID, func(ctx context.Context) (card.OperationResult, error) {
		return h.facade.BlockCard(ctx, card.BlockCardCommand{CardID: cardID})
	})
}

// UnblockCard unblocks a card
func (h *Handler) UnblockCard(w http.ResponseWriter, r *http.Request) {
	cardID := r.Context().Value(contextKeyCardID).(uuid.UUID)
	h.renderResult(r.Context(), w, cardID, func(ctx context.Context) (card.OperationResult, error) {
		return h.facade.UnblockCard(ctx, card.UnblockCardCommand{CardID: cardID})
	})
}

func (h *Handler) cardIDFromURL(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cardIDStr := chi.URLParam(r, "card_id")
		cardID, err := uuid.Parse(cardIDStr)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			h.logger.With(
				zap.Error(err),
				zap.String("card_id", cardIDStr),
			).Debug("invalid card id in url")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyCardID, cardID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type resultResponse struct {
	Success bool   `json:"success"`
	Command string `json:"command"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) renderResult(
	ctx context.Context,
	w http.ResponseWriter,
	cardID uuid.UUID,
	execute func(context.Context) (card.OperationResult, error),
) {
	result, err := execute(ctx)
	if err != nil {
		h.renderCardError(w, cardID, err)
		return
	}

	response := resultResponse{
		Success: result.IsSuccess(),
		Command: result.Command().CommandName(),
	}

	status := http.StatusOK
	if !result.IsSuccess() {
		response.Error = result.Err().Error()

		if result.Err() == card.ErrCardNotFound {
			status = http.StatusNotFound
		} else {
			status = http.StatusBadRequest
		}
	}

	h.renderJSON(w, status, response)
}

func (h *Handler) renderCardError(w http.ResponseWriter, cardID uuid.UUID, err error) {
	switch err {
	case card.ErrCardNotFound:
		w.WriteHeader(http.StatusNotFound)
		h.logger.With(zap.Error(err)).Debug("unknown card id provided")
	case card.ErrVersionConflict:
		w.WriteHeader(http.StatusConflict)
		h.logger.With(
			zap.Error(err),
			zap.String("card_id", cardID.String()),
		).Debug("card was modified concurrently")
	default:
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.With(
			zap.Error(err),
			zap.String("card_id", cardID.String()),
		).Error("failed to handle card command")
	}
}

func (h *Handler) renderRequestError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusBadRequest)
	h.logger.With(zap.Error(err)).Info("invalid request body")
}

func (h *Handler) renderJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.With(zap.Error(err)).Error("failed to marshal response")
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.With(zap.Error(err)).Error("failed to write response")
	}
}
