package http

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gocarina/gocsv"

	"finanzas/internal/core"
	applog "finanzas/internal/log"
	"finanzas/internal/storage"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	typ, err := optionalType(r)
	if err != nil {
		writeError(w, r, "Error al obtener las categorías", err)
		return
	}
	categories, err := s.ledger.Categories(r.Context(), typ)
	if err != nil {
		writeError(w, r, "Error al obtener las categorías", err)
		return
	}
	writeData(w, categories)
}

// transactionFilter reads the list filters shared by list and export.
func transactionFilter(r *http.Request) (storage.TransactionFilter, error) {
	var (
		f   storage.TransactionFilter
		err error
	)
	if f.Type, err = optionalType(r); err != nil {
		return f, err
	}
	if f.CategoryID, err = optionalID(r, "category_id"); err != nil {
		return f, err
	}
	if f.WeekID, err = optionalID(r, "week_id"); err != nil {
		return f, err
	}
	if f.From, err = optionalDate(r, "from"); err != nil {
		return f, err
	}
	if f.To, err = optionalDate(r, "to"); err != nil {
		return f, err
	}
	f.Search = searchTerm(r)
	return f, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := transactionFilter(r)
	if err != nil {
		writeError(w, r, "Error al obtener las transacciones", err)
		return
	}
	txs, err := s.ledger.Transactions(r.Context(), f)
	if err != nil {
		writeError(w, r, "Error al obtener las transacciones", err)
		return
	}
	writeData(w, txs)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "ID de transacción no válido", err)
		return
	}
	t, err := s.ledger.Transaction(r.Context(), id)
	if err != nil {
		writeError(w, r, "Transacción no encontrada", err)
		return
	}
	writeData(w, t)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(w, r, &t); err != nil {
		writeError(w, r, "Error al crear la transacción", err)
		return
	}
	t.ID = 0
	t.CreatedAt = time.Time{}
	t.Description = sanitizeInput(t.Description)

	id, err := s.ledger.CreateTransaction(r.Context(), t)
	if err != nil {
		writeError(w, r, "Error al crear la transacción", err)
		return
	}
	writeCreated(w, map[string]int64{"id": id}, "Transacción creada correctamente")
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "ID de transacción no proporcionado", err)
		return
	}
	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, r, "Error al eliminar la transacción", err)
		return
	}
	writeMessage(w, nil, "Transacción eliminada correctamente")
}

// transactionRow is the CSV export layout.
type transactionRow struct {
	ID          int64  `csv:"id"`
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Type        string `csv:"type"`
	CategoryID  int64  `csv:"category_id"`
	Amount      string `csv:"amount"`
	WeekID      int64  `csv:"week_id"`
}

func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := transactionFilter(r)
	if err != nil {
		writeError(w, r, "Error al exportar las transacciones", err)
		return
	}
	txs, err := s.ledger.Transactions(r.Context(), f)
	if err != nil {
		writeError(w, r, "Error al exportar las transacciones", err)
		return
	}

	rows := make([]transactionRow, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, transactionRow{
			ID:          t.ID,
			Date:        t.Date.String(),
			Description: t.Description,
			Type:        string(t.Type),
			CategoryID:  t.CategoryID,
			Amount:      t.Amount.StringFixed(2),
			WeekID:      t.WeekID,
		})
	}

	filename := fmt.Sprintf("transacciones-%s.csv", core.DateOf(s.now()).String())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csv.NewWriter(w))); err != nil {
		// Headers are already out; the body is truncated.
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to write CSV export", "error", err)
	}
}

func (s *Server) handleListWeeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := s.ledger.Weeks(r.Context())
	if err != nil {
		writeError(w, r, "Error al obtener las semanas", err)
		return
	}
	writeData(w, weeks)
}

func (s *Server) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "ID de semana no válido", err)
		return
	}
	week, err := s.ledger.Week(r.Context(), id)
	if err != nil {
		writeError(w, r, "Semana no encontrada", err)
		return
	}
	writeData(w, week)
}

// handleCurrentWeek accepts ?date= to ask about another day.
func (s *Server) handleCurrentWeek(w http.ResponseWriter, r *http.Request) {
	today, err := optionalDate(r, "date")
	if err != nil {
		writeError(w, r, "Fecha no válida", err)
		return
	}
	if today.IsZero() {
		today = core.DateOf(s.now())
	}
	week, err := s.ledger.CurrentWeek(r.Context(), today)
	if err != nil {
		writeError(w, r, "No hay semanas registradas", err)
		return
	}
	writeData(w, week)
}

func (s *Server) handleWeekSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "ID de semana no válido", err)
		return
	}
	summary, err := s.ledger.Summary(r.Context(), id)
	if err != nil {
		writeError(w, r, "Error al obtener el resumen", err)
		return
	}
	writeData(w, summary)
}

func (s *Server) handleCreateWeek(w http.ResponseWriter, r *http.Request) {
	var week core.Week
	if err := decodeJSON(w, r, &week); err != nil {
		writeError(w, r, "Error al crear la semana", err)
		return
	}
	week.ID = 0
	week.CreatedAt = time.Time{}

	id, err := s.ledger.CreateWeek(r.Context(), week)
	if err != nil {
		writeError(w, r, "Error al crear la semana", err)
		return
	}
	writeCreated(w, map[string]int64{"id": id}, "Semana creada correctamente")
}

func (s *Server) handleDeleteWeek(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "ID de semana no proporcionado", err)
		return
	}
	if err := s.ledger.DeleteWeek(r.Context(), id); err != nil {
		writeError(w, r, "Error al eliminar la semana", err)
		return
	}
	writeMessage(w, nil, "Semana eliminada correctamente")
}
