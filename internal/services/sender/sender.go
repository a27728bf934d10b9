// Package sender отправляет почтовые уведомления портала: приветствие
// после регистрации, ссылку на сброс пароля, уведомления по тикетам и
// обращениям с сайта. Отправка выполняется по принципу best effort —
// ошибки логируются и не прерывают запрос.
package sender

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/star-housekeeping/portal/internal/config"
	"github.com/star-housekeeping/portal/internal/lib/sl"
	"github.com/star-housekeeping/portal/internal/lib/smtp"
	"github.com/star-housekeeping/portal/internal/models"
)

// SenderService отправляет письма через SMTP транспорт.
type SenderService struct {
	transport   smtp.TransportInterface
	departments config.Departments
	log         *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(cfg *config.Config, log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport:   transport,
		departments: cfg.Departments,
		log:         log,
	}
}

// SendWelcome отправляет приветственное письмо новому пользователю.
func (s *SenderService) SendWelcome(user *models.User) error {
	subject := "Welcome to Star Housekeeping!"
	bodyText := fmt.Sprintf(`Hello %s,

Thank you for creating an account with Star Housekeeping.
You can now browse our cleaning plans and manage your subscription
from your account page.

If you have any questions, reply to this email or call us at %s.

Star Housekeeping Team`, user.FullName, s.departments.ContactPhone)

	return s.sendEmail([]string{user.Email}, subject, bodyText)
}

// SendPasswordReset отправляет ссылку для сброса пароля.
func (s *SenderService) SendPasswordReset(user *models.User, resetToken string) error {
	subject := "Password Reset Request"
	bodyText := fmt.Sprintf(`Hello %s,

We received a request to reset the password for your account.
Use the token below to set a new password; it is valid for a limited time.

%s

If you did not request a password reset, you can safely ignore this email.

Star Housekeeping Team`, user.FullName, resetToken)

	return s.sendEmail([]string{user.Email}, subject, bodyText)
}

// SendTicketCreated уведомляет команду поддержки о новом тикете.
func (s *SenderService) SendTicketCreated(ticket *models.SupportTicket) error {
	subject := fmt.Sprintf("New Support Ticket #%s: %s", ticket.ID, ticket.Subject)
	bodyText := fmt.Sprintf(`A new support ticket has been created.

Ticket:   %s
From:     %s (%s)
Category: %s
Priority: %s

%s`, ticket.ID, ticket.UserName, ticket.UserEmail, ticket.Category,
		ticket.Priority, ticket.Description)

	return s.sendEmail([]string{s.departments.SupportEmail}, subject, bodyText)
}

// SendTicketStatusUpdated уведомляет пользователя о смене статуса тикета.
func (s *SenderService) SendTicketStatusUpdated(ticket *models.SupportTicket) error {
	subject := fmt.Sprintf("Support Ticket #%s Status Updated", ticket.ID)
	bodyText := fmt.Sprintf(`Hello %s,

The status of your support ticket %q has changed.

New status: %s

You can review the ticket and reply from your account page.

Star Housekeeping Team`, ticket.UserName, ticket.Subject, ticket.Status)

	return s.sendEmail([]string{ticket.UserEmail}, subject, bodyText)
}

// SendContactConfirmation подтверждает получение обращения с сайта и
// пересылает его адресной команде.
func (s *SenderService) SendContactConfirmation(inquiry *models.ContactInquiry) error {
	subject := "Thank you for contacting Star Housekeeping"
	bodyText := fmt.Sprintf(`Hello %s,

We have received your inquiry: %s

Our %s team will get back to you within one business day.

Star Housekeeping Team`, inquiry.Name, inquiry.Subject, inquiry.Department)

	if err := s.sendEmail([]string{inquiry.Email}, subject, bodyText); err != nil {
		return err
	}

	team := s.departmentEmail(inquiry.Department)
	teamSubject := fmt.Sprintf("New %s inquiry: %s", inquiry.Department, inquiry.Subject)
	teamBody := fmt.Sprintf(`From: %s (%s)

%s`, inquiry.Name, inquiry.Email, inquiry.Message)
	return s.sendEmail([]string{team}, teamSubject, teamBody)
}

// SendFeedbackThanks благодарит клиента за отзыв и пересылает отзыв команде.
func (s *SenderService) SendFeedbackThanks(feedback *models.Feedback) error {
	subject := "Thank you for your feedback!"
	bodyText := fmt.Sprintf(`Hello %s,

Thank you for taking the time to share your feedback with us.
Every response helps us improve our service.

Star Housekeeping Team`, feedback.Name)

	if err := s.sendEmail([]string{feedback.Email}, subject, bodyText); err != nil {
		return err
	}

	teamSubject := fmt.Sprintf("Customer Feedback - %s (%d/5)", feedback.Category, feedback.Rating)
	teamBody := fmt.Sprintf(`From: %s (%s)
Rating: %d/5

%s`, feedback.Name, feedback.Email, feedback.Rating, feedback.Message)
	return s.sendEmail([]string{s.departments.FeedbackEmail}, teamSubject, teamBody)
}

// SendAvailabilityConfirmation подтверждает получение заявки на проверку
// доступности услуг и пересылает её в отдел продаж.
func (s *SenderService) SendAvailabilityConfirmation(req *models.AvailabilityRequest) error {
	subject := "Service Availability Check Submitted"
	bodyText := fmt.Sprintf(`Hello %s,

We have received your service availability request for %s, %s %s.
Our sales team will confirm coverage for your address shortly.

Star Housekeeping Team`, req.FirstName, req.City, req.State, req.ZipCode)

	if err := s.sendEmail([]string{req.Email}, subject, bodyText); err != nil {
		return err
	}

	teamSubject := fmt.Sprintf("Service Availability Check - %s", req.ZipCode)
	teamBody := fmt.Sprintf(`Name:    %s %s
Email:   %s
Phone:   %s
Address: %s, %s, %s %s`, req.FirstName, req.LastName, req.Email, req.Phone,
		req.Street, req.City, req.State, req.ZipCode)
	return s.sendEmail([]string{s.departments.SalesEmail}, teamSubject, teamBody)
}

func (s *SenderService) departmentEmail(department string) string {
	switch department {
	case "sales":
		return s.departments.SalesEmail
	case "support":
		return s.departments.SupportEmail
	case "billing":
		return s.departments.BillingEmail
	default:
		return s.departments.ContactEmail
	}
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
