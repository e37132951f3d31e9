package api

import "time"

// --- Post types ---

// CreatePostRequest is the request body for POST /api/v1/posts.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateTitleRequest is the request body for PUT /api/v1/posts/update-title/{id}.
// Only the title is mutable; content and author have no update path.
type UpdateTitleRequest struct {
	Title string `json:"title"`
}

// AuthorResponse is the public projection of a post's author. Only the
// username is exposed; email and credential fields never leave the server.
type AuthorResponse struct {
	Username string `json:"username"`
}

// PostResponse is the JSON representation of a single post.
type PostResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	AuthorID  string          `json:"author_id"`
	Author    *AuthorResponse `json:"author,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MessageResponse carries a human-readable confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// UpdateTitleResponse is returned by a successful title update.
type UpdateTitleResponse struct {
	Message string        `json:"message"`
	Post    *PostResponse `json:"post"`
}

// --- Auth types ---

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the signed bearer token for subsequent requests.
type LoginResponse struct {
	Token string `json:"token"`
}

// UserResponse is the JSON representation of a user account.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Token types ---

// CreateTokenRequest is the request body for POST /api/v1/tokens.
type CreateTokenRequest struct {
	Name      string `json:"name"`
	ExpiresIn string `json:"expires_in,omitempty"`
}

// TokenResponse is the JSON representation of a personal access token.
// The plaintext Token field is populated only in the create response.
type TokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Token      string     `json:"token,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TokenListResponse is the response for GET /api/v1/tokens.
type TokenListResponse struct {
	Tokens []*TokenResponse `json:"tokens"`
}
