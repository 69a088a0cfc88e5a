/*
handlers.go - HTTP handlers for the expenses API

PURPOSE:
  Maps HTTP requests onto the expense service and the raw document store,
  handling parameter extraction, JSON serialization and status codes.

ENDPOINTS:
  GET  /                              liveness greeting
  GET  /listSubcollections?docPath=   child collection ids of a document
  GET  /getUserExpenses?userId=       one user's per-period expenses
  GET  /getAllUserExpenses            flattened periods across all users
  GET  /user/{userId}/month/{month}   raw entries of one period
  POST /user/{userId}/approve/{month} add period to the approved set
  POST /user/{userId}/reject/{month}  remove period from the approved set
  GET  /expenses/summary              total/approved/rejected amounts
  GET  /fetchExpenses                 per-user nested expense map

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: missing or malformed required identifier
  - 404: user/users/records absent
  - 500: store failures and malformed stored data
  Missing parameters are rejected before any store access. Failures are
  logged here at the boundary; inner layers only wrap and return.

SEE ALSO:
  - dto.go: response data structures
  - server.go: router setup and middleware
  - expense/service.go: the domain operations behind these handlers
*/
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starfish/expenses-api/docstore"
	"github.com/starfish/expenses-api/expense"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Svc   *expense.Service
	Store docstore.Store
}

// NewHandler creates a new handler backed by the given store.
func NewHandler(svc *expense.Service, store docstore.Store) *Handler {
	return &Handler{Svc: svc, Store: store}
}

// Hello is the root liveness endpoint.
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello World!"))
}

// ListSubcollections returns the child collection ids of a document.
// GET /listSubcollections?docPath=users/alice
func (h *Handler) ListSubcollections(w http.ResponseWriter, r *http.Request) {
	docPath := r.URL.Query().Get("docPath")
	if docPath == "" {
		writeError(w, http.StatusBadRequest, "Document path is required", nil)
		return
	}

	ids, err := h.Store.ListCollections(r.Context(), docPath)
	if err != nil {
		if docstore.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Invalid document path", err)
			return
		}
		slog.ErrorContext(r.Context(), "Error listing collections", "error", err, "doc_path", docPath)
		writeError(w, http.StatusInternalServerError, "Failed to list subcollections", nil)
		return
	}

	writeJSON(w, http.StatusOK, ids)
}

// GetUserExpenses returns one user's expenses grouped by period.
// GET /getUserExpenses?userId=alice
func (h *Handler) GetUserExpenses(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User ID is required", nil)
		return
	}

	ue, err := h.Svc.AggregateUser(r.Context(), userID)
	if err != nil {
		switch {
		case docstore.IsNotFound(err):
			writeError(w, http.StatusNotFound, "User not found", nil)
		case docstore.IsClientError(err):
			writeError(w, http.StatusBadRequest, "Invalid user ID", err)
		default:
			slog.ErrorContext(r.Context(), "Error fetching user expenses", "error", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "Failed to fetch user expenses", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, toUserPeriodDTOs(ue))
}

// GetAllUserExpenses returns the flattened per-period view of every user.
// GET /getAllUserExpenses
func (h *Handler) GetAllUserExpenses(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Svc.AggregateAll(r.Context())
	if err != nil {
		if docstore.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "No users found", nil)
			return
		}
		slog.ErrorContext(r.Context(), "Error fetching all user expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch all user expenses", nil)
		return
	}

	writeJSON(w, http.StatusOK, toPeriodStatusDTOs(rows))
}

// GetUserMonth returns the raw expense entries of one user's period.
// GET /user/{userId}/month/{month}
func (h *Handler) GetUserMonth(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	month := chi.URLParam(r, "month")

	detail, err := h.Svc.UserMonth(r.Context(), userID, month)
	if err != nil {
		switch {
		case errors.Is(err, docstore.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User not found", nil)
		case errors.Is(err, docstore.ErrNoExpenseRecords):
			writeError(w, http.StatusNotFound, "No expense records found for this month", nil)
		case docstore.IsClientError(err):
			writeError(w, http.StatusBadRequest, "Invalid user ID or month", err)
		default:
			slog.ErrorContext(r.Context(), "Error fetching expense details", "error", err, "user_id", userID, "month", month)
			writeError(w, http.StatusInternalServerError, "Internal server error", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, MonthDetailDTO{
		Expenses:   detail.Entries,
		IsApproved: detail.Approved,
		UserName:   detail.Username,
	})
}

// ApproveMonth adds a month to the user's approved set.
// POST /user/{userId}/approve/{month}
func (h *Handler) ApproveMonth(w http.ResponseWriter, r *http.Request) {
	h.setApproval(w, r, true)
}

// RejectMonth removes a month from the user's approved set.
// POST /user/{userId}/reject/{month}
func (h *Handler) RejectMonth(w http.ResponseWriter, r *http.Request) {
	h.setApproval(w, r, false)
}

func (h *Handler) setApproval(w http.ResponseWriter, r *http.Request, approve bool) {
	userID := chi.URLParam(r, "userId")
	month := chi.URLParam(r, "month")

	changed, err := h.Svc.SetApproval(r.Context(), userID, month, approve)
	if err != nil {
		switch {
		case docstore.IsNotFound(err):
			writeError(w, http.StatusNotFound, "User not found", nil)
		case docstore.IsClientError(err):
			writeError(w, http.StatusBadRequest, "Invalid user ID or month", err)
		default:
			slog.ErrorContext(r.Context(), "Error updating approval", "error", err,
				"user_id", userID, "month", month, "approve", approve)
			writeError(w, http.StatusInternalServerError, "Internal server error", nil)
		}
		return
	}

	var msg string
	switch {
	case approve && changed:
		msg = "Month approved successfully"
	case approve && !changed:
		msg = "Month already approved"
	case !approve && changed:
		msg = "Month rejected successfully"
	default:
		msg = "Month not approved previously"
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// ExpensesSummary returns total/approved/rejected amounts across all users.
// GET /expenses/summary
func (h *Handler) ExpensesSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Svc.Summary(r.Context())
	if err != nil {
		if docstore.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "No users found", nil)
			return
		}
		slog.ErrorContext(r.Context(), "Error computing expense summary", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error", nil)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryDTO(sum))
}

// FetchExpenses returns every user with expenses nested by period.
// GET /fetchExpenses
func (h *Handler) FetchExpenses(w http.ResponseWriter, r *http.Request) {
	bundles, err := h.Svc.FetchAll(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Error fetching expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch expenses", nil)
		return
	}

	writeJSON(w, http.StatusOK, toUserBundleDTOs(bundles))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

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
