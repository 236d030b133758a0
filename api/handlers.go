/*
handlers.go - HTTP handlers over the loyalty engine

PURPOSE:
  The thin presentational boundary: handlers decode requests, call
  Catalog/Ledger/RewardService, and encode DTOs. No business rules live
  here - the engine enforces them and handlers only translate its
  failures to status codes.

ERROR MAPPING:
  ErrInvalidAmount        -> 400
  ErrBusinessNotFound,
  ErrRewardNotFound       -> 404
  ErrInsufficientBalance  -> 409
  anything else           -> 500
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/loyalty-engine/loyalty"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Catalog *loyalty.Catalog
	Ledger  *loyalty.Ledger
	Rewards *loyalty.RewardService
	Store   loyalty.Store
	Scanner loyalty.EarnSource
}

// NewHandler wires the engine components behind the HTTP surface.
func NewHandler(catalog *loyalty.Catalog, ledger *loyalty.Ledger, store loyalty.Store, scanner loyalty.EarnSource) *Handler {
	return &Handler{
		Catalog: catalog,
		Ledger:  ledger,
		Rewards: loyalty.NewRewardService(catalog, ledger),
		Store:   store,
		Scanner: scanner,
	}
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListBusinesses returns all seeded businesses.
// GET /api/businesses
func (h *Handler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	businesses := h.Catalog.ListBusinesses()
	dtos := make([]BusinessDTO, len(businesses))
	for i, b := range businesses {
		dtos[i] = toBusinessDTO(b)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetBusiness returns a single business.
// GET /api/businesses/{id}
func (h *Handler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	id := loyalty.BusinessID(chi.URLParam(r, "id"))

	business, err := h.Catalog.GetBusiness(id)
	if err != nil {
		writeDomainError(w, "Failed to get business", err)
		return
	}
	writeJSON(w, http.StatusOK, toBusinessDTO(business))
}

// GetBusinessStats returns aggregate engagement for a business.
// GET /api/businesses/{id}/stats
func (h *Handler) GetBusinessStats(w http.ResponseWriter, r *http.Request) {
	id := loyalty.BusinessID(chi.URLParam(r, "id"))

	if _, err := h.Catalog.GetBusiness(id); err != nil {
		writeDomainError(w, "Failed to get business", err)
		return
	}

	stats, err := loyalty.StatsFor(r.Context(), h.Store, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats", err)
		return
	}

	writeJSON(w, http.StatusOK, BusinessStatsDTO{
		BusinessID:     string(stats.BusinessID),
		PointsIssued:   stats.PointsIssued,
		PointsRedeemed: stats.PointsRedeemed,
		Redemptions:    stats.Redemptions,
		Customers:      stats.Customers,
	})
}

// ListRewards returns catalog rewards, optionally filtered.
// GET /api/rewards?category=Discount&business_id=1
func (h *Handler) ListRewards(w http.ResponseWriter, r *http.Request) {
	filter := loyalty.RewardFilter{
		Category:   r.URL.Query().Get("category"),
		BusinessID: loyalty.BusinessID(r.URL.Query().Get("business_id")),
	}

	rewards := h.Catalog.ListRewards(filter)
	dtos := make([]RewardDTO, len(rewards))
	for i, rw := range rewards {
		dtos[i] = toRewardDTO(rw)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// GetBalances returns a user's per-business balances and total.
// GET /api/users/{id}/balances
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	userID := loyalty.UserID(chi.URLParam(r, "id"))

	snapshot, err := h.Ledger.Snapshot(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load balances", err)
		return
	}

	writeJSON(w, http.StatusOK, SnapshotDTO{
		UserID:      string(snapshot.UserID),
		TakenAt:     snapshot.TakenAt.Format(timeFormat),
		TotalPoints: snapshot.TotalPoints,
		Balances:    toBalanceDTOs(snapshot.Balances),
		Recent:      toTransactionDTOs(snapshot.Recent),
	})
}

// GetHistory returns a user's transactions, most recent first.
// GET /api/users/{id}/transactions?limit=20
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID := loyalty.UserID(chi.URLParam(r, "id"))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = parsed
	}

	txs, err := h.Ledger.History(r.Context(), userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load history", err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTOs(txs))
}

// GetProgress returns progress toward the next reward.
// GET /api/users/{id}/progress
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID := loyalty.UserID(chi.URLParam(r, "id"))

	progress, err := loyalty.ProgressFor(r.Context(), h.Ledger, h.Catalog, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute progress", err)
		return
	}

	dto := ProgressDTO{
		TotalPoints: progress.TotalPoints,
		PointsToGo:  progress.PointsToGo,
	}
	if progress.NextReward != nil {
		reward := toRewardDTO(*progress.NextReward)
		dto.NextReward = &reward
	}
	writeJSON(w, http.StatusOK, dto)
}

// Earn credits points to a user at a business, from an explicit point
// amount or a dollar purchase converted at the business earn rate.
// POST /api/users/{id}/earn
func (h *Handler) Earn(w http.ResponseWriter, r *http.Request) {
	userID := loyalty.UserID(chi.URLParam(r, "id"))

	var req EarnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	business, err := h.Catalog.GetBusiness(loyalty.BusinessID(req.BusinessID))
	if err != nil {
		writeDomainError(w, "Failed to resolve business", err)
		return
	}

	points := req.Points
	description := req.Description
	if req.Amount != "" {
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid amount", err)
			return
		}
		points = loyalty.PointsForPurchase(business, amount)
		if description == "" {
			description = "Purchase of $" + amount.StringFixed(2)
		}
	}

	tx, err := h.Ledger.Earn(r.Context(), userID, business.ID, points, description)
	if err != nil {
		writeDomainError(w, "Failed to earn points", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

// Redeem spends points on a catalog reward.
// POST /api/users/{id}/redeem
func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	userID := loyalty.UserID(chi.URLParam(r, "id"))

	var req RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tx, err := h.Rewards.Redeem(r.Context(), userID, loyalty.RewardID(req.RewardID))
	if err != nil {
		writeDomainError(w, "Failed to redeem reward", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

// Scan runs one simulated scan for a user: a random business and point
// award, recorded through the ledger.
// POST /api/users/{id}/scan
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	userID := loyalty.UserID(chi.URLParam(r, "id"))

	pump := &loyalty.Pump{Source: h.Scanner, Ledger: h.Ledger}
	event, tx, err := pump.Record(r.Context(), userID)
	if err != nil {
		writeDomainError(w, "Scan failed", err)
		return
	}

	business, err := h.Catalog.GetBusiness(event.BusinessID)
	if err != nil {
		writeDomainError(w, "Scan produced unknown business", err)
		return
	}

	writeJSON(w, http.StatusCreated, ScanResultDTO{
		Business:    toBusinessDTO(business),
		Points:      event.Points,
		Transaction: toTransactionDTO(tx),
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

const timeFormat = "2006-01-02T15:04:05Z07:00"

func toBalanceDTOs(balances map[loyalty.BusinessID]int64) []BalanceDTO {
	dtos := make([]BalanceDTO, 0, len(balances))
	for businessID, points := range balances {
		dtos = append(dtos, BalanceDTO{BusinessID: string(businessID), Points: points})
	}
	// Map iteration order is random; keep the payload stable.
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].BusinessID < dtos[j].BusinessID })
	return dtos
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine failures to status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, loyalty.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, message, err)
	case loyalty.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, loyalty.ErrInsufficientBalance):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
