package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
	applog "finanzas/internal/log"
	"finanzas/internal/metrics"
)

type (
	ContractReader interface {
		Get(ctx context.Context, id int64) (core.Contract, error)
	}

	ClientReader interface {
		Get(ctx context.Context, id int64) (core.Client, error)
	}

	AvalReader interface {
		Get(ctx context.Context, id int64) (core.Aval, error)
	}
)

// ContractNotifier turns contract events into e-mails to the parties.
type ContractNotifier struct {
	contracts ContractReader
	clients   ClientReader
	avales    AvalReader
	mailer    Mailer
	logger    *applog.Logger
}

// NewContractNotifier builds a notifier. A nil mailer logs events without
// sending anything.
func NewContractNotifier(contracts ContractReader, clients ClientReader, avales AvalReader, mailer Mailer, logger *applog.Logger) *ContractNotifier {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ContractNotifier{
		contracts: contracts,
		clients:   clients,
		avales:    avales,
		mailer:    mailer,
		logger:    logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleContractEvent processes a single event from the contract queue.
// Returning an error asks the consumer to redeliver.
func (n *ContractNotifier) HandleContractEvent(ctx context.Context, ev *amqp.ContractEvent) error {
	n.logger.InfoContext(ctx, "Processing contract event",
		"type", string(ev.Type),
		applog.FieldContractID, ev.ContractID,
		applog.FieldFolio, ev.Folio)

	switch ev.Type {
	case amqp.EventContractCreated:
		return n.contractCreated(ctx, ev)
	case amqp.EventContractDeleted:
		// The parties may already be gone; the cleanup outcome is only logged.
		n.logger.InfoContext(ctx, "Contract removed",
			applog.FieldContractID, ev.ContractID,
			applog.FieldFolio, ev.Folio,
			applog.FieldClientDeleted, ev.ClientDeleted,
			applog.FieldAvalDeleted, ev.AvalDeleted)
		metrics.NotificationsSent.WithLabelValues("skipped").Inc()
		return nil
	default:
		n.logger.WarnContext(ctx, "Ignoring unknown event type", "type", string(ev.Type))
		return nil
	}
}

func (n *ContractNotifier) contractCreated(ctx context.Context, ev *amqp.ContractEvent) error {
	contract, err := n.contracts.Get(ctx, ev.ContractID)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted before we got to it.
		n.logger.InfoContext(ctx, "Contract no longer exists, skipping notification",
			applog.FieldContractID, ev.ContractID)
		metrics.NotificationsSent.WithLabelValues("skipped").Inc()
		return nil
	}
	if err != nil {
		return fmt.Errorf("get contract %d: %w", ev.ContractID, err)
	}

	client, err := n.clients.Get(ctx, contract.ClientID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("get client %d: %w", contract.ClientID, err)
	}
	aval, err := n.avales.Get(ctx, contract.AvalID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("get aval %d: %w", contract.AvalID, err)
	}

	var recipients []string
	for _, addr := range []string{client.Email, aval.Email} {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if len(recipients) == 0 || n.mailer == nil {
		n.logger.InfoContext(ctx, "No recipients for contract notification",
			applog.FieldContractID, contract.ID,
			"mailer_configured", n.mailer != nil)
		metrics.NotificationsSent.WithLabelValues("skipped").Inc()
		return nil
	}

	msg := Message{
		To:      recipients,
		Subject: fmt.Sprintf("Contrato %s registrado", contract.Folio),
		Body:    contractCreatedBody(contract, client.Name, aval.Name),
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		metrics.NotificationsSent.WithLabelValues("error").Inc()
		return err
	}

	metrics.NotificationsSent.WithLabelValues("sent").Inc()
	n.logger.InfoContext(ctx, "Contract notification sent",
		applog.FieldContractID, contract.ID,
		"recipients", len(recipients))
	return nil
}

func contractCreatedBody(c core.Contract, clientName, avalName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Estimado(a) %s,\n\n", clientName)
	fmt.Fprintf(&b, "Se registró el contrato %s.\n\n", c.Folio)
	fmt.Fprintf(&b, "Monto: %s\n", core.FormatMoney(c.Amount))
	fmt.Fprintf(&b, "Tasa de interés anual: %s%%\n", c.InterestRate.String())
	fmt.Fprintf(&b, "Plazo: %d semanas\n", c.TermWeeks)
	fmt.Fprintf(&b, "Pago semanal: %s\n", core.FormatMoney(c.WeeklyPayment))
	fmt.Fprintf(&b, "Fecha de inicio: %s\n", c.StartDate.String())
	if avalName != "" {
		fmt.Fprintf(&b, "Aval: %s\n", avalName)
	}
	b.WriteString("\nAtentamente,\nFinanzas")
	return b.String()
}

// logMailer stands in when SMTP is not configured.
type logMailer struct{}

// LogMailer returns a Mailer that only logs what it would send.
func LogMailer() Mailer { return logMailer{} }

func (logMailer) Send(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "E-mail delivery disabled, message not sent",
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject)
	return nil
}
