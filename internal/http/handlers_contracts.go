package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
	applog "finanzas/internal/log"
	"finanzas/internal/services"
	"finanzas/internal/storage"
)

func (s *Server) handleListContracts(w http.ResponseWriter, r *http.Request) {
	filter := storage.ContractFilter{
		Status: core.ContractStatus(strings.TrimSpace(r.URL.Query().Get("status"))),
		Search: searchTerm(r),
	}
	contracts, err := s.contracts.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, "Error al obtener los contratos", err)
		return
	}
	writeData(w, contracts)
}

func (s *Server) handleGetContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "ID de contrato no válido", err)
		return
	}
	contract, err := s.contracts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, "Contrato no encontrado", err)
		return
	}
	writeData(w, contract)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "ID de contrato no válido", err)
		return
	}
	schedule, err := s.contracts.Schedule(r.Context(), id)
	if err != nil {
		writeError(w, r, "Error al calcular el calendario de pagos", err)
		return
	}
	writeData(w, schedule)
}

func (s *Server) handleCreateContract(w http.ResponseWriter, r *http.Request) {
	var in services.NewContract
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, "Error al crear el contrato", err)
		return
	}
	in.Client.Name = sanitizeInput(in.Client.Name)
	in.Aval.Name = sanitizeInput(in.Aval.Name)

	ref, err := s.contracts.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, "Error al crear el contrato", err)
		return
	}
	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogContractCreated(r.Context(), ref.ID, ref.Folio, ref.ClientID, ref.AvalID)
	writeCreated(w, ref, "Contrato creado correctamente")
}

func (s *Server) handleDeleteContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "ID de contrato no proporcionado", err)
		return
	}
	res, err := s.contracts.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, "Error al eliminar el contrato", err)
		return
	}
	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogContractDeleted(r.Context(), res.ContractID, res.Folio, res.ClientDeleted, res.AvalDeleted)
	writeMessage(w, res, "Contrato eliminado correctamente")
}

type quoteRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Interest decimal.Decimal `json:"interest"`
	Term     int             `json:"term"`
}

type quoteResponse struct {
	WeeklyPayment decimal.Decimal `json:"weekly_payment"`
	TotalPayment  decimal.Decimal `json:"total_payment"`
	TotalInterest decimal.Decimal `json:"total_interest"`
}

// handleQuote runs the payment calculator without storing anything.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var in quoteRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, "Error al calcular el pago", err)
		return
	}
	if !in.Amount.IsPositive() {
		writeError(w, r, "Error al calcular el pago", fmt.Errorf("%w: amount must be greater than zero", core.ErrValidation))
		return
	}
	payment, err := services.QuoteWeeklyPayment(in.Amount, in.Interest, in.Term)
	if err != nil {
		writeError(w, r, "Error al calcular el pago", err)
		return
	}
	total := payment.Mul(decimal.NewFromInt(int64(in.Term)))
	writeData(w, quoteResponse{
		WeeklyPayment: payment,
		TotalPayment:  total,
		TotalInterest: total.Sub(core.RoundCents(in.Amount)),
	})
}
