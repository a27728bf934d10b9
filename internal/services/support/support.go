// Package support содержит бизнес-логику тикетов поддержки:
// создание, переписка, смена статуса и выборки для персонала.
package support

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/storage/repository"
)

// ErrNotTicketOwner возвращается, когда клиент обращается к чужому тикету.
var ErrNotTicketOwner = errors.New("not a ticket owner")

// TicketRepository определяет методы для работы с тикетами в хранилище.
type TicketRepository interface {
	// CreateTicket добавляет новый тикет и возвращает его ID.
	CreateTicket(ctx context.Context, ticket models.SupportTicket) (string, error)
	// GetTicket возвращает тикет по ID вместе с сообщениями.
	GetTicket(ctx context.Context, id string) (*models.SupportTicket, error)
	// ListTicketsByUser возвращает тикеты пользователя, свежие первыми.
	ListTicketsByUser(ctx context.Context, userUID string) ([]*models.SupportTicket, error)
	// AppendTicketMessage дописывает сообщение в конец переписки.
	AppendTicketMessage(ctx context.Context, id string, msg models.TicketMessage) error
	// UpdateTicketStatus выставляет статус тикета.
	UpdateTicketStatus(ctx context.Context, id, status string) (int, error)
	// ListTickets возвращает тикеты по фильтру с пагинацией и общим числом.
	ListTickets(ctx context.Context, filter models.TicketFilter) ([]*models.SupportTicket, int, error)
}

// SupportService реализует бизнес-логику тикетов поддержки.
type SupportService struct {
	tickets TicketRepository
	log     *slog.Logger
}

// New создает новый экземпляр SupportService.
func New(tickets TicketRepository, log *slog.Logger) *SupportService {
	return &SupportService{
		tickets: tickets,
		log:     log,
	}
}

// Create открывает новый тикет от имени пользователя.
func (s *SupportService) Create(ctx context.Context, user *models.User, ticket models.SupportTicket) (*models.SupportTicket, error) {
	ticket.UserUID = user.UID
	ticket.UserName = user.FullName
	ticket.UserEmail = user.Email
	ticket.Status = models.TicketStatusOpen

	id, err := s.tickets.CreateTicket(ctx, ticket)
	if err != nil {
		return nil, err
	}
	s.log.Info("created support ticket", slog.String("id", id))
	return s.tickets.GetTicket(ctx, id)
}

// ListForUser возвращает тикеты пользователя.
func (s *SupportService) ListForUser(ctx context.Context, userUID string) ([]*models.SupportTicket, error) {
	return s.tickets.ListTicketsByUser(ctx, userUID)
}

// Get возвращает тикет по ID, если он принадлежит пользователю или
// пользователь относится к персоналу.
func (s *SupportService) Get(ctx context.Context, user *models.User, id string) (*models.SupportTicket, error) {
	ticket, err := s.tickets.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.UserUID != user.UID && !user.IsStaff() {
		return nil, ErrNotTicketOwner
	}
	return ticket, nil
}

// AddMessage дописывает сообщение в переписку тикета.
//
// Клиент может писать только в свой тикет; при этом тикет не меняется.
// Сообщение персонала помечается is_from_support, а открытый тикет
// переводится в in_progress.
func (s *SupportService) AddMessage(ctx context.Context, user *models.User, ticketID, text string) (*models.SupportTicket, error) {
	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserUID != user.UID && !user.IsStaff() {
		return nil, ErrNotTicketOwner
	}

	msg := models.TicketMessage{
		ID:            uuid.New().String(),
		UserUID:       user.UID,
		Message:       text,
		IsFromSupport: user.IsStaff(),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.tickets.AppendTicketMessage(ctx, ticketID, msg); err != nil {
		return nil, err
	}

	if msg.IsFromSupport && ticket.Status == models.TicketStatusOpen {
		if _, err := s.tickets.UpdateTicketStatus(ctx, ticketID, models.TicketStatusInProgress); err != nil {
			return nil, err
		}
	}

	return s.tickets.GetTicket(ctx, ticketID)
}

// UpdateStatus выставляет статус тикета.
func (s *SupportService) UpdateStatus(ctx context.Context, ticketID, status string) (*models.SupportTicket, error) {
	count, err := s.tickets.UpdateTicketStatus(ctx, ticketID, status)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, repository.ErrNotFound
	}
	return s.tickets.GetTicket(ctx, ticketID)
}

// ListAll возвращает тикеты по фильтру для персонала поддержки.
func (s *SupportService) ListAll(ctx context.Context, filter models.TicketFilter) ([]*models.SupportTicket, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.tickets.ListTickets(ctx, filter)
}
