// Package contact содержит бизнес-логику публичных форм сайта:
// обращения, отзывы и заявки на проверку доступности услуг.
package contact

import (
	"context"
	"log/slog"

	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/models"
)

// InquiryRepository определяет методы для сохранения обращений.
type InquiryRepository interface {
	// CreateInquiry сохраняет обращение и возвращает созданную запись.
	CreateInquiry(ctx context.Context, inquiry models.ContactInquiry) (*models.ContactInquiry, error)
}

// Mailer отправляет уведомления по формам сайта.
type Mailer interface {
	SendContactConfirmation(inquiry *models.ContactInquiry) error
	SendFeedbackThanks(feedback *models.Feedback) error
	SendAvailabilityConfirmation(req *models.AvailabilityRequest) error
}

// ContactService реализует бизнес-логику публичных форм.
type ContactService struct {
	inquiries InquiryRepository
	mail      Mailer
	log       *slog.Logger
}

// New создает новый экземпляр ContactService.
func New(inquiries InquiryRepository, mail Mailer, log *slog.Logger) *ContactService {
	return &ContactService{
		inquiries: inquiries,
		mail:      mail,
		log:       log,
	}
}

// Submit сохраняет обращение с контактной формы. Письма с
// подтверждением отправляются по принципу best effort: сбой почты не
// отменяет сохранённое обращение.
func (s *ContactService) Submit(ctx context.Context, inquiry models.ContactInquiry) (*models.ContactInquiry, error) {
	created, err := s.inquiries.CreateInquiry(ctx, inquiry)
	if err != nil {
		return nil, err
	}

	if err := s.mail.SendContactConfirmation(created); err != nil {
		s.log.Warn("failed to send contact confirmation", sl.Err(err))
	}
	return created, nil
}

// SubmitFeedback пересылает отзыв клиента командам по почте.
// Отзыв нигде не хранится, поэтому сбой отправки — это ошибка запроса.
func (s *ContactService) SubmitFeedback(_ context.Context, feedback models.Feedback) error {
	return s.mail.SendFeedbackThanks(&feedback)
}

// SubmitAvailabilityCheck пересылает заявку на проверку доступности
// услуг в отдел продаж.
func (s *ContactService) SubmitAvailabilityCheck(_ context.Context, req models.AvailabilityRequest) error {
	return s.mail.SendAvailabilityConfirmation(&req)
}
