package support_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/star-housekeeping/portal/internal/models"
	"github.com/star-housekeeping/portal/internal/services/support"
)

type TicketRepoMock struct {
	mock.Mock
}

func (m *TicketRepoMock) CreateTicket(ctx context.Context, ticket models.SupportTicket) (string, error) {
	args := m.Called(ctx, ticket)
	return args.String(0), args.Error(1)
}

func (m *TicketRepoMock) GetTicket(ctx context.Context, id string) (*models.SupportTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SupportTicket), args.Error(1)
}

func (m *TicketRepoMock) ListTicketsByUser(ctx context.Context, userUID string) ([]*models.SupportTicket, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SupportTicket), args.Error(1)
}

func (m *TicketRepoMock) AppendTicketMessage(ctx context.Context, id string, msg models.TicketMessage) error {
	args := m.Called(ctx, id, msg)
	return args.Error(0)
}

func (m *TicketRepoMock) UpdateTicketStatus(ctx context.Context, id, status string) (int, error) {
	args := m.Called(ctx, id, status)
	return args.Int(0), args.Error(1)
}

func (m *TicketRepoMock) ListTickets(ctx context.Context, filter models.TicketFilter) ([]*models.SupportTicket, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.SupportTicket), args.Int(1), args.Error(2)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSupportService_Create(t *testing.T) {
	repoMock := new(TicketRepoMock)
	user := &models.User{UID: "uid-1", FullName: "Test Customer", Email: "test@example.com", Role: models.RoleCustomer}

	repoMock.On("CreateTicket", mock.Anything, mock.MatchedBy(func(ticket models.SupportTicket) bool {
		return ticket.UserUID == "uid-1" &&
			ticket.UserName == "Test Customer" &&
			ticket.Status == models.TicketStatusOpen
	})).Return("ticket-1", nil).Once()
	repoMock.On("GetTicket", mock.Anything, "ticket-1").Return(&models.SupportTicket{
		ID: "ticket-1", UserUID: "uid-1", Status: models.TicketStatusOpen,
		Messages: []models.TicketMessage{},
	}, nil).Once()

	svc := support.New(repoMock, discardLogger())
	ticket, err := svc.Create(context.Background(), user, models.SupportTicket{
		Subject:     "Missed visit",
		Description: "The crew did not arrive on Tuesday morning",
		Category:    "general",
		Priority:    "high",
	})
	require.NoError(t, err)
	assert.Equal(t, "ticket-1", ticket.ID)
	repoMock.AssertExpectations(t)
}

func TestSupportService_AddMessage(t *testing.T) {
	ownerTicket := func() *models.SupportTicket {
		return &models.SupportTicket{
			ID: "ticket-1", UserUID: "uid-1", Status: models.TicketStatusOpen,
			Messages: []models.TicketMessage{},
		}
	}

	t.Run("non-owner customer is rejected and ticket untouched", func(t *testing.T) {
		repoMock := new(TicketRepoMock)
		repoMock.On("GetTicket", mock.Anything, "ticket-1").Return(ownerTicket(), nil).Once()

		stranger := &models.User{UID: "uid-2", Role: models.RoleCustomer}
		svc := support.New(repoMock, discardLogger())
		_, err := svc.AddMessage(context.Background(), stranger, "ticket-1", "let me in")
		require.ErrorIs(t, err, support.ErrNotTicketOwner)

		repoMock.AssertNotCalled(t, "AppendTicketMessage", mock.Anything, mock.Anything, mock.Anything)
		repoMock.AssertNotCalled(t, "UpdateTicketStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("owner message keeps status", func(t *testing.T) {
		repoMock := new(TicketRepoMock)
		repoMock.On("GetTicket", mock.Anything, "ticket-1").Return(ownerTicket(), nil).Twice()
		repoMock.On("AppendTicketMessage", mock.Anything, "ticket-1", mock.MatchedBy(func(msg models.TicketMessage) bool {
			return msg.UserUID == "uid-1" && !msg.IsFromSupport && msg.ID != ""
		})).Return(nil).Once()

		owner := &models.User{UID: "uid-1", Role: models.RoleCustomer}
		svc := support.New(repoMock, discardLogger())
		_, err := svc.AddMessage(context.Background(), owner, "ticket-1", "any update?")
		require.NoError(t, err)

		repoMock.AssertNotCalled(t, "UpdateTicketStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("staff reply flips open ticket to in_progress", func(t *testing.T) {
		repoMock := new(TicketRepoMock)
		repoMock.On("GetTicket", mock.Anything, "ticket-1").Return(ownerTicket(), nil).Twice()
		repoMock.On("AppendTicketMessage", mock.Anything, "ticket-1", mock.MatchedBy(func(msg models.TicketMessage) bool {
			return msg.IsFromSupport
		})).Return(nil).Once()
		repoMock.On("UpdateTicketStatus", mock.Anything, "ticket-1", models.TicketStatusInProgress).
			Return(1, nil).Once()

		staff := &models.User{UID: "uid-staff", Role: models.RoleSupport}
		svc := support.New(repoMock, discardLogger())
		_, err := svc.AddMessage(context.Background(), staff, "ticket-1", "we rescheduled your visit")
		require.NoError(t, err)
		repoMock.AssertExpectations(t)
	})
}

func TestSupportService_Get(t *testing.T) {
	ticket := &models.SupportTicket{ID: "ticket-1", UserUID: "uid-1"}

	tests := []struct {
		name    string
		user    *models.User
		wantErr error
	}{
		{name: "owner can read", user: &models.User{UID: "uid-1", Role: models.RoleCustomer}},
		{name: "support can read", user: &models.User{UID: "uid-9", Role: models.RoleSupport}},
		{name: "admin can read", user: &models.User{UID: "uid-9", Role: models.RoleAdmin}},
		{
			name:    "other customer rejected",
			user:    &models.User{UID: "uid-2", Role: models.RoleCustomer},
			wantErr: support.ErrNotTicketOwner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoMock := new(TicketRepoMock)
			repoMock.On("GetTicket", mock.Anything, "ticket-1").Return(ticket, nil).Once()

			svc := support.New(repoMock, discardLogger())
			got, err := svc.Get(context.Background(), tt.user, "ticket-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "ticket-1", got.ID)
			}
		})
	}
}

func TestSupportService_ListAll(t *testing.T) {
	repoMock := new(TicketRepoMock)
	repoMock.On("ListTickets", mock.Anything, models.TicketFilter{
		Status: models.TicketStatusOpen, Page: 1, Limit: 20,
	}).Return([]*models.SupportTicket{{ID: "ticket-1"}}, 1, nil).Once()

	svc := support.New(repoMock, discardLogger())
	tickets, total, err := svc.ListAll(context.Background(), models.TicketFilter{
		Status: models.TicketStatusOpen, Page: 0, Limit: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, tickets, 1)
	repoMock.AssertExpectations(t)
}
