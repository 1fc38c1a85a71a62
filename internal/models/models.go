package models

import "time"

// User is a registered participant. Its ID is derived from the email and is
// the key shared with the messaging directory.
type User struct {
	ID        string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Chat is one message/reply exchange. Rows are immutable once written.
type Chat struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterRequest is the JSON body for POST /register-user.
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisterResponse is the JSON body returned by POST /register-user.
type RegisterResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// ChatRequest is the JSON body for POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// ChatResponse is the JSON body returned by POST /chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// HistoryRequest is the JSON body for POST /chat-history.
type HistoryRequest struct {
	UserID string `json:"userId"`
}

// HistoryItem is one persisted exchange, projected to message and reply.
type HistoryItem struct {
	Message string `json:"message"`
	Reply   string `json:"reply"`
}

// HistoryResponse is the JSON body returned by POST /chat-history.
type HistoryResponse struct {
	Messages []HistoryItem `json:"messages"`
}
