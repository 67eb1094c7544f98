package models

import "time"

// User представляет пользователя в системе
type User struct {
	ID           string    `json:"id"`            // UUID пользователя
	Username     string    `json:"username"`      // отображаемое имя
	Email        string    `json:"email"`         // уникальный email
	PasswordHash string    `json:"-"`             // bcrypt хеш пароля, никогда не отдается клиенту
	RefreshToken *string   `json:"-"`             // текущий refresh token (nil если сессии нет)
	CreatedAt    time.Time `json:"created_at"`    // время создания
	UpdatedAt    time.Time `json:"updated_at"`    // время последнего обновления
}

// Post представляет публикацию пользователя
type Post struct {
	ID        string    `json:"id"`         // UUID поста
	Title     string    `json:"title"`      // заголовок
	Content   string    `json:"content"`    // текст поста
	SenderID  string    `json:"sender_id"`  // ID автора
	CreatedAt time.Time `json:"created_at"` // время создания
	UpdatedAt time.Time `json:"updated_at"` // время последнего обновления
}

// Comment представляет комментарий к посту
type Comment struct {
	ID        string    `json:"id"`         // UUID комментария
	Message   string    `json:"message"`    // текст комментария
	SenderID  string    `json:"sender_id"`  // ID автора
	PostID    string    `json:"post_id"`    // ID поста
	CreatedAt time.Time `json:"created_at"` // время создания
	UpdatedAt time.Time `json:"updated_at"` // время последнего обновления
}
