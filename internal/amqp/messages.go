package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names a contract lifecycle event.
type EventType string

const (
	EventContractCreated EventType = "contract.created"
	EventContractDeleted EventType = "contract.deleted"
)

// ContractEvent is published after a contract unit commits. It carries ids
// only; consumers read the current rows from the store.
type ContractEvent struct {
	Type          EventType `json:"type"`
	ContractID    int64     `json:"contract_id"`
	Folio         string    `json:"folio"`
	ClientID      int64     `json:"client_id"`
	AvalID        int64     `json:"aval_id"`
	ClientDeleted bool      `json:"client_deleted"`
	AvalDeleted   bool      `json:"aval_deleted"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewContractCreated(contractID int64, folio string, clientID, avalID int64) *ContractEvent {
	return &ContractEvent{
		Type:       EventContractCreated,
		ContractID: contractID,
		Folio:      folio,
		ClientID:   clientID,
		AvalID:     avalID,
		Timestamp:  time.Now().UTC(),
	}
}

func NewContractDeleted(contractID int64, folio string, clientID, avalID int64, clientDeleted, avalDeleted bool) *ContractEvent {
	return &ContractEvent{
		Type:          EventContractDeleted,
		ContractID:    contractID,
		Folio:         folio,
		ClientID:      clientID,
		AvalID:        avalID,
		ClientDeleted: clientDeleted,
		AvalDeleted:   avalDeleted,
		Timestamp:     time.Now().UTC(),
	}
}

func (e *ContractEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ContractEventFromJSON decodes and sanity checks an event body.
func ContractEventFromJSON(data []byte) (*ContractEvent, error) {
	var ev ContractEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	switch ev.Type {
	case EventContractCreated, EventContractDeleted:
	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
	if ev.ContractID <= 0 {
		return nil, fmt.Errorf("event without contract id")
	}
	return &ev, nil
}
