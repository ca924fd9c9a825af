package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	"finanzas/internal/metrics"
	"finanzas/internal/storage"
)

// NewContract is the payload of a contract create: the two parties plus the
// loan terms, flattened the way the dashboard posts them.
type NewContract struct {
	Client core.Client `json:"client"`
	Aval   core.Aval   `json:"aval"`
	core.ContractTerms
}

func (n NewContract) Validate() error {
	if err := n.Client.Validate(); err != nil {
		return err
	}
	if err := n.Aval.Validate(); err != nil {
		return err
	}
	return n.ContractTerms.Validate()
}

// ContractService owns the contract lifecycle: validation, folio assignment,
// the transactional store units and the events that follow them.
type ContractService struct {
	repo      ContractRepository
	folios    core.FolioGenerator
	publisher EventPublisher
}

// NewContractService wires the service. folios defaults to core.UUIDFolios;
// publisher may be nil, in which case no events are sent.
func NewContractService(repo ContractRepository, folios core.FolioGenerator, publisher EventPublisher) *ContractService {
	if folios == nil {
		folios = core.UUIDFolios{}
	}
	return &ContractService{repo: repo, folios: folios, publisher: publisher}
}

func (s *ContractService) List(ctx context.Context, f storage.ContractFilter) ([]core.Contract, error) {
	return s.repo.List(ctx, f)
}

func (s *ContractService) Get(ctx context.Context, id int64) (core.Contract, error) {
	return s.repo.Get(ctx, id)
}

// Create validates the request, fills in the weekly payment when absent and
// stores client, aval and contract as one unit.
func (s *ContractService) Create(ctx context.Context, in NewContract) (storage.ContractRef, error) {
	if in.Status == "" {
		in.Status = core.StatusActive
	}
	if err := in.Validate(); err != nil {
		return storage.ContractRef{}, err
	}

	terms := in.ContractTerms
	if terms.WeeklyPayment.IsZero() {
		payment, err := QuoteWeeklyPayment(terms.Amount, terms.InterestRate, terms.TermWeeks)
		if err != nil {
			return storage.ContractRef{}, err
		}
		terms.WeeklyPayment = payment
	}

	folio := s.folios.Next()
	ref, err := s.repo.Create(ctx, in.Client, in.Aval, terms, folio)
	if err != nil {
		metrics.ContractUnitFailures.WithLabelValues("create").Inc()
		return storage.ContractRef{}, fmt.Errorf("create contract: %w", err)
	}
	metrics.ContractsCreated.Inc()

	s.publish(ctx, amqp.NewContractCreated(ref.ID, ref.Folio, ref.ClientID, ref.AvalID))
	return ref, nil
}

// Delete removes the contract and any client or aval left without contracts.
func (s *ContractService) Delete(ctx context.Context, id int64) (storage.DeleteResult, error) {
	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		metrics.ContractUnitFailures.WithLabelValues("delete").Inc()
		return storage.DeleteResult{}, fmt.Errorf("delete contract: %w", err)
	}
	metrics.ContractsDeleted.WithLabelValues(metrics.CleanupLabel(res.ClientDeleted, res.AvalDeleted)).Inc()

	s.publish(ctx, amqp.NewContractDeleted(res.ContractID, res.Folio, res.ClientID, res.AvalID,
		res.ClientDeleted, res.AvalDeleted))
	return res, nil
}

// Schedule returns the amortization table for a stored contract.
func (s *ContractService) Schedule(ctx context.Context, id int64) ([]core.Installment, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	principal, _ := c.Amount.Float64()
	rate, _ := c.InterestRate.Float64()
	return core.AmortizationSchedule(principal, rate, c.TermWeeks, c.StartDate)
}

// publish never fails the caller: the store already committed.
func (s *ContractService) publish(ctx context.Context, ev *amqp.ContractEvent) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping contract event", "type", string(ev.Type))
		return
	}
	if err := s.publisher.PublishContractEvent(ctx, ev); err != nil {
		metrics.EventsPublished.WithLabelValues(string(ev.Type), "error").Inc()
		slog.ErrorContext(ctx, "Failed to publish contract event",
			"type", string(ev.Type),
			"contract_id", ev.ContractID,
			"error", err)
		return
	}
	metrics.EventsPublished.WithLabelValues(string(ev.Type), "ok").Inc()
}

// QuoteWeeklyPayment runs the payment calculator on decimal inputs and rounds
// the result to cents.
func QuoteWeeklyPayment(amount, interest decimal.Decimal, termWeeks int) (decimal.Decimal, error) {
	principal, _ := amount.Float64()
	rate, _ := interest.Float64()
	p, err := core.ComputeWeeklyPayment(principal, rate, termWeeks)
	if err != nil {
		return decimal.Zero, err
	}
	return core.CentsFromFloat(p), nil
}
