// Package audit exposes the audit_logs trail written by the write paths.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// TimelineFilters narrows the audit timeline.
type TimelineFilters struct {
	From     time.Time
	To       time.Time
	ActorID  *uuid.UUID
	Entity   string
	Action   string
	Page     int
	PageSize int
}

// Entry is one audit_logs row.
type Entry struct {
	ID         int64          `json:"id"`
	ActorID    *uuid.UUID     `json:"usuario_id"`
	ActorName  string         `json:"usuario_nome,omitempty"`
	Action     string         `json:"acao"`
	Entity     string         `json:"entidade"`
	EntityID   string         `json:"entidade_id"`
	Meta       map[string]any `json:"meta,omitempty"`
	OccurredAt time.Time      `json:"data"`
}

// PagingInfo describes a window without counting the whole table.
type PagingInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"limit"`
	HasNext  bool `json:"has_next"`
}

// Result is one page of the timeline.
type Result struct {
	Data   []Entry    `json:"data"`
	Paging PagingInfo `json:"pagination"`
}
