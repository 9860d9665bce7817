package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"seiva/internal/core"
)

// EventKind names the change a mirror event describes.
type EventKind string

const (
	TransactionCreated EventKind = "transaction.created"
	TransactionDeleted EventKind = "transaction.deleted"
	StudentCreated     EventKind = "student.created"
	StudentDeleted     EventKind = "student.deleted"
	StudentStatusSet   EventKind = "student.status"
)

// MirrorEvent carries a single data change from the server to the worker.
// Created events embed the full record so the worker never has to call
// back into the hosted store.
type MirrorEvent struct {
	Kind      EventKind `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	Transaction *core.Transaction `json:"transaction,omitempty"`
	Student     *core.Student     `json:"student,omitempty"`

	// ID and Status are set for delete and status events.
	ID     core.ID     `json:"id,omitempty"`
	Status core.Status `json:"status,omitempty"`
}

func NewTransactionCreated(t core.Transaction) *MirrorEvent {
	return &MirrorEvent{Kind: TransactionCreated, Timestamp: time.Now(), Transaction: &t}
}

func NewTransactionDeleted(id core.ID) *MirrorEvent {
	return &MirrorEvent{Kind: TransactionDeleted, Timestamp: time.Now(), ID: id}
}

func NewStudentCreated(s core.Student) *MirrorEvent {
	return &MirrorEvent{Kind: StudentCreated, Timestamp: time.Now(), Student: &s}
}

func NewStudentDeleted(id core.ID) *MirrorEvent {
	return &MirrorEvent{Kind: StudentDeleted, Timestamp: time.Now(), ID: id}
}

func NewStudentStatusSet(id core.ID, status core.Status) *MirrorEvent {
	return &MirrorEvent{Kind: StudentStatusSet, Timestamp: time.Now(), ID: id, Status: status}
}

func (m *MirrorEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MirrorEventFromJSON(data []byte) (*MirrorEvent, error) {
	var msg MirrorEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Kind == "" {
		return nil, fmt.Errorf("mirror event missing kind")
	}
	return &msg, nil
}
