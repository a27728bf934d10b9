package models

import "time"

// Статусы тикета поддержки. Порядок фиксированный:
// open -> in_progress -> resolved/closed.
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// TicketMessage одно сообщение в переписке по тикету.
type TicketMessage struct {
	ID            string    `json:"id"`
	UserUID       string    `json:"userUid"`
	Message       string    `json:"message"`
	IsFromSupport bool      `json:"isFromSupport"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SupportTicket представляет обращение пользователя в поддержку
// с упорядоченным списком сообщений, хранящимся вместе с тикетом.
type SupportTicket struct {
	ID          string          `json:"id"`
	UserUID     string          `json:"-"`
	UserName    string          `json:"userName,omitempty"`
	UserEmail   string          `json:"userEmail,omitempty"`
	Subject     string          `json:"subject"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Priority    string          `json:"priority"`
	Status      string          `json:"status"`
	Messages    []TicketMessage `json:"messages"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TicketFilter описывает параметры выборки тикетов для персонала поддержки.
type TicketFilter struct {
	Status   string
	Priority string
	Category string
	Page     int
	Limit    int
}

// ValidTicketStatuses возвращает набор допустимых статусов тикета.
func ValidTicketStatuses() []string {
	return []string{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed}
}
