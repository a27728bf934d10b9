package models

import "time"

// ContactInquiry обращение с публичной контактной формы.
// Запись не привязана к пользователю; статус выставляется при создании.
type ContactInquiry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	Department string    `json:"department"`
	Phone      *string   `json:"phone,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Feedback отзыв клиента, отправляется только по почте и не сохраняется.
type Feedback struct {
	Name     string
	Email    string
	Rating   int
	Category string
	Message  string
}

// AvailabilityRequest заявка на проверку доступности услуг по адресу.
type AvailabilityRequest struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Street          string
	City            string
	State           string
	ZipCode         string
	CurrentProvider string
	MoveInDate      string
}
