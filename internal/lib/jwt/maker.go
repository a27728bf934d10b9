// Package jwt реализует выпуск и проверку JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки токенов с uid, email и ролью.
// MakerImpl — конкретная реализация с использованием секретного ключа и срока жизни.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для выпуска и разбора JWT токенов.
//
// Методы позволяют создавать токен с указанием uid, email и роли пользователя,
// а также разбирать токен и извлекать из него кастомные данные.
// Проверка чисто криптографическая, хранилище не затрагивается.
type Maker interface {
	// GenerateToken выпускает подписанный токен с uid, email и role
	GenerateToken(userUID, email, role string) (string, error)
	// GenerateTokenWithTTL выпускает токен с заданным временем жизни
	GenerateTokenWithTTL(userUID, email, role string, ttl time.Duration) (string, error)
	// ParseToken возвращает *CustomClaims с данными пользователя
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
