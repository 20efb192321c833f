// Package http provides the HTTP transport layer.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/pearlfi/sponsorgate/app"
	"github.com/pearlfi/sponsorgate/domain/sponsor"
	"github.com/pearlfi/sponsorgate/ports"
)

// SponsorHandler serves the sponsorship API.
type SponsorHandler struct {
	service *app.SponsorService
	logger  zerolog.Logger
}

// NewSponsorHandler creates a new sponsorship API handler.
func NewSponsorHandler(service *app.SponsorService, logger zerolog.Logger) *SponsorHandler {
	return &SponsorHandler{service: service, logger: logger}
}

// SponsorRequest is the request body for POST /api/v1/sponsor.
type SponsorRequest struct {
	UserAddress          string  `json:"userAddress"`
	TransactionKindBytes string  `json:"transactionKindBytes"`
	EstimatedValueUSD    float64 `json:"estimatedValueUSD,omitempty"`
	Operation            string  `json:"operation,omitempty"`
}

// SponsorResponse is returned when a transaction was sponsored.
type SponsorResponse struct {
	Digest         string         `json:"digest"`
	Bytes          string         `json:"bytes"`
	SponsorAddress string         `json:"sponsorAddress,omitempty"`
	AttemptID      string         `json:"attemptId"`
	Remaining      sponsor.Limits `json:"remaining"`
}

// DenialResponse is returned when the user is over a sponsorship limit.
type DenialResponse struct {
	Error  string          `json:"error"`
	Reason string          `json:"reason"`
	Limits *sponsor.Limits `json:"limits,omitempty"`
}

// EligibilityResponse is returned by the eligibility endpoint.
type EligibilityResponse struct {
	Eligible bool            `json:"eligible"`
	Reason   string          `json:"reason,omitempty"`
	Limits   *sponsor.Limits `json:"limits,omitempty"`
}

// LimitsResponse is returned by the limits endpoint.
type LimitsResponse struct {
	UserAddress string         `json:"userAddress"`
	Remaining   sponsor.Limits `json:"remaining"`
	Limits      sponsor.Limits `json:"limits"`
}

// Sponsor sponsors gas for a liquidity position transaction.
//
//	@Summary		Sponsor a transaction
//	@Description	Checks the user's sponsorship limits and, if eligible, asks the gas provider to sponsor the transaction
//	@Tags			Sponsorship
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SponsorRequest	true	"Transaction to sponsor"
//	@Success		200		{object}	SponsorResponse	"Sponsored transaction"
//	@Failure		400		{object}	ErrorResponse	"Invalid request"
//	@Failure		403		{object}	DenialResponse	"Sponsorship limit reached"
//	@Failure		502		{object}	ErrorResponse	"Provider failure"
//	@Router			/api/v1/sponsor [post]
func (h *SponsorHandler) Sponsor(w http.ResponseWriter, r *http.Request) {
	var req SponsorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body is not valid JSON")
		return
	}

	if err := sponsor.ValidateAddress(req.UserAddress); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := sponsor.ValidateTransactionKind(req.TransactionKindBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := sponsor.ValidateValue(req.EstimatedValueUSD); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	outcome, err := h.service.Sponsor(r.Context(), req.UserAddress, req.TransactionKindBytes, req.EstimatedValueUSD, req.Operation)
	if err != nil {
		writeError(w, http.StatusBadGateway, "provider_error", "gas sponsorship failed")
		return
	}

	if outcome.Denied != nil {
		writeJSON(w, http.StatusForbidden, DenialResponse{
			Error:  "sponsorship denied",
			Reason: outcome.Denied.Reason,
			Limits: outcome.Denied.Limits,
		})
		return
	}

	writeJSON(w, http.StatusOK, SponsorResponse{
		Digest:         outcome.Result.Digest,
		Bytes:          outcome.Result.Bytes,
		SponsorAddress: outcome.Result.SponsorAddress,
		AttemptID:      outcome.AttemptID,
		Remaining:      outcome.Remaining,
	})
}

// Eligibility reports whether a user may have another position sponsored.
//
//	@Summary		Check eligibility
//	@Description	Reports whether the user is under their daily and monthly sponsorship limits. Never modifies usage.
//	@Tags			Sponsorship
//	@Produce		json
//	@Param			address	path		string	true	"User Sui address"
//	@Param			value	query		number	false	"Declared position value in USD"
//	@Success		200		{object}	EligibilityResponse
//	@Failure		400		{object}	ErrorResponse	"Invalid address or value"
//	@Router			/api/v1/eligibility/{address} [get]
func (h *SponsorHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if err := sponsor.ValidateAddress(address); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var declaredValue float64
	if raw := r.URL.Query().Get("value"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "value must be a number")
			return
		}
		declaredValue = v
	}
	if err := sponsor.ValidateValue(declaredValue); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.service.CheckEligibility(r.Context(), address, declaredValue)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "eligibility check failed")
		return
	}

	writeJSON(w, http.StatusOK, EligibilityResponse{
		Eligible: result.Eligible,
		Reason:   result.Reason,
		Limits:   result.Limits,
	})
}

// Limits returns a user's remaining sponsorship headroom.
//
//	@Summary		Get remaining limits
//	@Description	Returns how many sponsored positions the user has left today and this month
//	@Tags			Sponsorship
//	@Produce		json
//	@Param			address	path		string	true	"User Sui address"
//	@Success		200		{object}	LimitsResponse
//	@Failure		400		{object}	ErrorResponse	"Invalid address"
//	@Router			/api/v1/limits/{address} [get]
func (h *SponsorHandler) Limits(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if err := sponsor.ValidateAddress(address); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	remaining, err := h.service.RemainingLimits(r.Context(), address)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "limits lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, LimitsResponse{
		UserAddress: address,
		Remaining:   remaining,
		Limits:      h.service.Limits().Limits(),
	})
}

// Stats returns aggregate sponsorship statistics.
//
//	@Summary		Aggregate statistics
//	@Description	Returns sponsorship totals across all tracked users
//	@Tags			Sponsorship
//	@Produce		json
//	@Success		200	{object}	sponsor.Stats
//	@Router			/api/v1/stats [get]
func (h *SponsorHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.AggregateStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "stats aggregation failed")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	provider ports.SponsorshipProvider
	chain    ports.ChainClient
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(provider ports.SponsorshipProvider, chain ports.ChainClient) *HealthHandler {
	return &HealthHandler{provider: provider, chain: chain}
}

// Liveness returns a simple liveness check.
//
//	@Summary		Liveness check
//	@Description	Returns OK if the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	map[string]string	"status: ok"
//	@Router			/health [get]
//	@Router			/health/live [get]
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Readiness checks if the service can reach the provider and fullnode.
//
//	@Summary		Readiness check
//	@Description	Checks if the sponsorship provider and fullnode are reachable
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	map[string]string		"status: ok"
//	@Failure		503	{object}	map[string]interface{}	"status: unhealthy, error: message"
//	@Router			/health/ready [get]
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.chain != nil {
		if err := h.chain.HealthCheck(ctx); err != nil {
			writeUnhealthy(w, "fullnode", err)
			return
		}
	}
	if h.provider != nil {
		if err := h.provider.HealthCheck(ctx); err != nil {
			writeUnhealthy(w, "provider", err)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeUnhealthy(w http.ResponseWriter, component string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "unhealthy",
		"component": component,
		"error":     err.Error(),
	})
}

// VersionResponse is returned by the version endpoint.
type VersionResponse struct {
	Version string `json:"version"`
	Service string `json:"service"`
}

// Version returns the service version.
//
//	@Summary		Get service version
//	@Description	Returns version information for the sponsorgate service
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	VersionResponse	"Version information"
//	@Router			/version [get]
func Version(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(VersionResponse{
		Version: "dev",
		Service: "sponsorgate",
	})
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody holds the error code and message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}
