// SPDX-License-Identifier: Apache-2.0

package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/haldre/assistant-gateway/internal/domain"
	"github.com/haldre/assistant-gateway/internal/metrics"
	"github.com/haldre/assistant-gateway/internal/transport/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response        string `json:"response"`
	ProposalID      string `json:"proposal_id,omitempty"`
	ProposalSummary string `json:"proposal_summary,omitempty"`
}

type approvalRequest struct {
	Approve *bool `json:"approve"`
}

type approvalResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Detail string          `json:"detail,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics.Init()
	version := valueOrDefault(deps.Version, "dev")
	commit := valueOrDefault(deps.Commit, "none")
	buildDate := valueOrDefault(deps.BuildDate, "unknown")

	r := chi.NewRouter()
	r.Use(requestIDMiddleware())
	r.Use(requestLoggingMiddleware(logger))

	// ---------------- HEALTH ----------------

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.Health != nil {
			if err := deps.Health.Check(r.Context()); err != nil {
				logger.Error("health check failed", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]bool{"ok": false})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// ---------------- METRICS ----------------

	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// ---------------- VERSION ----------------

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version":    version,
			"commit":     commit,
			"build_date": buildDate,
		})
	})

	// ---------------- CHAT ----------------

	r.Group(func(r chi.Router) {
		if deps.ChatRatePerMin > 0 {
			r.Use(middleware.ChatRateLimit(deps.ChatRatePerMin, logger))
		}

		r.Post("/chat", func(w http.ResponseWriter, r *http.Request) {
			reqBody, err := decodeChatRequest(r)
			if err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}

			result, err := deps.Chat.Chat(r.Context(), reqBody.Message)
			if err != nil {
				logger.Error("chat failed", "error", err)
				http.Error(w, "failed to draft a response", http.StatusBadGateway)
				return
			}

			resp := chatResponse{Response: result.Response}
			if result.Proposed {
				resp.ProposalID = result.ProposalID.String()
				resp.ProposalSummary = result.ProposalSummary
			}
			writeJSON(w, http.StatusOK, resp)
		})
	})

	// ---------------- PROPOSALS ----------------

	r.Get("/proposals/pending", func(w http.ResponseWriter, r *http.Request) {
		views, err := deps.Proposals.ListPending(r.Context())
		if err != nil {
			logger.Error("list pending proposals failed", "error", err)
			http.Error(w, "failed to list proposals", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Proposals []domain.ProposalView `json:"proposals"`
		}{Proposals: views})
	})

	r.Group(func(r chi.Router) {
		if deps.AdminToken != "" {
			r.Use(middleware.AdminTokenAuth(deps.AdminToken, logger))
		}

		r.Post("/proposals/approve/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				http.Error(w, "invalid proposal ID", http.StatusBadRequest)
				return
			}

			reqBody, err := decodeApprovalRequest(r)
			if err != nil {
				http.Error(w, "invalid request body", http.StatusBadRequest)
				return
			}

			approve := true
			if reqBody.Approve != nil {
				approve = *reqBody.Approve
			}

			outcome, err := deps.Approver.Approve(r.Context(), id, approve)
			if err != nil {
				if errors.Is(err, domain.ErrProposalNotFound) {
					logger.Warn("proposal not found", "proposal_id", id)
					http.Error(w, "proposal not found", http.StatusNotFound)
					return
				}

				status := http.StatusInternalServerError
				if errors.Is(err, domain.ErrUnknownTool) {
					status = http.StatusBadRequest
				}
				logger.Error("approve proposal failed",
					"proposal_id", id,
					"approve", approve,
					"error", err,
				)
				writeJSON(w, status, approvalResponse{
					ID:     id.String(),
					Status: string(outcome.Status),
					Result: outcome.Result,
					Error:  err.Error(),
				})
				return
			}

			resp := approvalResponse{
				ID:     id.String(),
				Status: string(outcome.Status),
				Result: outcome.Result,
			}
			if outcome.AlreadyResolved {
				resp.Detail = "Proposal is not pending"
			}

			logger.Info("proposal resolution via API",
				"proposal_id", id,
				"approve", approve,
				"status", outcome.Status,
			)
			writeJSON(w, http.StatusOK, resp)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeChatRequest(r *http.Request) (chatRequest, error) {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return chatRequest{}, errors.New("missing request body")
	}

	var req chatRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return chatRequest{}, err
	}

	// Ensure there is only one JSON object.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return chatRequest{}, errors.New("request body must contain exactly one JSON object")
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return chatRequest{}, errors.New("message is required")
	}

	return req, nil
}

func decodeApprovalRequest(r *http.Request) (approvalRequest, error) {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return approvalRequest{}, nil
	}

	var req approvalRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return approvalRequest{}, nil
		}
		return approvalRequest{}, err
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return approvalRequest{}, errors.New("request body must contain exactly one JSON object")
	}

	return req, nil
}

func valueOrDefault(value, defaultValue string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	return trimmed
}
