package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/export"
	applog "fintrack/internal/log"
	"fintrack/internal/storage"
)

const (
	dateLayout      = "2006-01-02"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// entryRequest carries the create body for both kinds. Source and Category
// are aliases; the one matching the endpoint's kind is used.
type entryRequest struct {
	Source   string      `json:"source,omitempty"`
	Category string      `json:"category,omitempty"`
	Amount   json.Number `json:"amount"`
	Date     string      `json:"date"`
	Icon     string      `json:"icon,omitempty"`
}

func (req entryRequest) label(kind core.Kind) string {
	if kind == core.KindIncome {
		return req.Source
	}
	return req.Category
}

// buildEntryPayload renders an entry for JSON responses. The label key is
// "source" for income and "category" for expense, amounts are euros.
func buildEntryPayload(e core.Entry) map[string]any {
	return map[string]any{
		"id":                e.ID,
		e.Kind.LabelField(): e.Label,
		"amount":            e.Amount.Euros(),
		"date":              e.Date.Format(dateLayout),
		"icon":              e.Icon,
		"createdAt":         e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func buildEntryPayloads(entries []core.Entry) []map[string]any {
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, buildEntryPayload(e))
	}
	return out
}

func (s *Server) handleCreateEntry(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entryRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		cents, err := core.ParseDecimalToCents(req.Amount.String())
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
			return
		}

		date, err := core.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}

		entry := core.Entry{
			UserID: userID(r.Context()),
			Kind:   kind,
			Label:  req.label(kind),
			Amount: core.Money{Cents: cents},
			Date:   date,
			Icon:   req.Icon,
		}

		created, err := s.entries.Create(r.Context(), entry)
		if err != nil {
			if isValidationError(err) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			s.logger.ErrorContext(r.Context(), "Entry creation failed",
				applog.FieldError, err.Error(),
				applog.FieldEntryKind, string(kind),
				applog.FieldUserID, entry.UserID)
			writeError(w, http.StatusInternalServerError, "could not save entry")
			return
		}

		writeJSON(w, http.StatusCreated, buildEntryPayload(created))
	}
}

func (s *Server) handleListEntries(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := s.listWindow(r)

		entries, err := s.entries.List(r.Context(), userID(r.Context()), kind, limit, offset)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Entry listing failed",
				applog.FieldError, err.Error(),
				applog.FieldEntryKind, string(kind))
			writeError(w, http.StatusInternalServerError, "could not list entries")
			return
		}

		writeJSON(w, http.StatusOK, buildEntryPayloads(entries))
	}
}

func (s *Server) handleDeleteEntry(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		uid := userID(r.Context())

		if err := s.entries.Delete(r.Context(), uid, kind, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "entry not found")
				return
			}
			s.logger.ErrorContext(r.Context(), "Entry deletion failed",
				applog.FieldError, err.Error(),
				applog.FieldEntryID, id,
				applog.FieldUserID, uid)
			writeError(w, http.StatusInternalServerError, "could not delete entry")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "entry deleted"})
	}
}

func (s *Server) handleDownloadEntries(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.entries.ListAll(r.Context(), userID(r.Context()), kind)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Export listing failed",
				applog.FieldError, err.Error(),
				applog.FieldOperation, applog.OpExport)
			writeError(w, http.StatusInternalServerError, "could not export entries")
			return
		}

		buf, err := export.Workbook(kind, entries)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Workbook build failed",
				applog.FieldError, err.Error(),
				applog.FieldOperation, applog.OpExport)
			writeError(w, http.StatusInternalServerError, "could not export entries")
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(kind)+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

// listWindow parses limit and offset query parameters, clamping them to the
// configured bounds.
func (s *Server) listWindow(r *http.Request) (limit, offset int) {
	limit = s.cfg.ListDefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > s.cfg.ListMaxLimit {
		limit = s.cfg.ListMaxLimit
	}

	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}
	return limit, offset
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidKind) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrEmptyLabel) ||
		errors.Is(err, core.ErrLabelTooLong)
}
