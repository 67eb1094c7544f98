package api

import "time"

// PostRequest представляет тело запроса на создание или обновление поста
type PostRequest struct {
	Title   string `json:"title"`   // обязательное
	Content string `json:"content"` // обязательное
}

// CommentRequest представляет тело запроса на создание или обновление комментария
type CommentRequest struct {
	Message string `json:"message"`           // обязательное
	PostID  string `json:"post_id,omitempty"` // обязательное при создании, игнорируется при обновлении
}

// UpdateUserRequest представляет запрос на обновление профиля пользователя
// Пустые поля не изменяются
type UpdateUserRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// UserResponse представляет публичное представление пользователя
// Хеш пароля и refresh token никогда не попадают в ответ
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
