// Package models содержит доменные структуры сервиса: пользователя,
// профиль канала и элементы истории просмотров.
// Структуры используются в бизнес-логике, хранилище и при формировании ответов.
package models

import "time"

// User представляет зарегистрированного пользователя.
//
// PasswordHash и RefreshToken никогда не сериализуются в JSON: ни в ответы,
// ни в кэш.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"` // всегда в нижнем регистре
	Email        string    `json:"email"`
	FullName     string    `json:"fullname"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage"`
	WatchHistory []string  `json:"watchHistory"` // id видео в порядке просмотра
	PasswordHash string    `json:"-"`
	RefreshToken string    `json:"-"` // пустая строка, если активного refresh токена нет
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser данные для создания пользователя. Пароль уже захэширован.
type NewUser struct {
	Username     string
	Email        string
	FullName     string
	Avatar       string
	CoverImage   string
	PasswordHash string
}

// TokenPair пара токенов, выдаваемая при входе и обновлении.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
