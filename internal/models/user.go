// Package models содержит доменные структуры портала: пользователей,
// тарифные планы, платежи, тикеты поддержки и обращения с сайта.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей. Роль всегда одна из фиксированного набора.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
	RoleSupport  = "support"
)

// Статусы подписки пользователя.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
	StatusPending   = "pending"
)

// User представляет зарегистрированного пользователя портала.
//
// Хэш пароля хранится отдельно в таблице credentials и никогда
// не попадает в эту структуру и в ответы API.
type User struct {
	UID                string     `json:"id"`                 // Уникальный идентификатор пользователя
	Email              string     `json:"email"`              // Электронная почта (уникальная)
	FullName           string     `json:"fullName"`           // Полное имя
	Phone              string     `json:"phone"`              // Контактный телефон
	Address            string     `json:"address"`            // Адрес
	City               string     `json:"city"`               // Город
	State              string     `json:"state"`              // Штат
	ZipCode            string     `json:"zipCode"`            // Почтовый индекс
	PlanID             *string    `json:"planId,omitempty"`   // Текущий тарифный план (nil, если нет)
	SubscriptionStatus string     `json:"subscriptionStatus"` // Статус подписки
	Role               string     `json:"role"`               // Роль: customer, admin или support
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// IsStaff сообщает, относится ли пользователь к персоналу поддержки.
func (u *User) IsStaff() bool {
	return u.Role == RoleSupport || u.Role == RoleAdmin
}

// ValidRoles возвращает набор допустимых ролей.
func ValidRoles() []string {
	return []string{RoleCustomer, RoleAdmin, RoleSupport}
}

// ValidSubscriptionStatuses возвращает набор допустимых статусов подписки.
func ValidSubscriptionStatuses() []string {
	return []string{StatusActive, StatusInactive, StatusSuspended, StatusPending}
}
