package handler

import "time"

// --- Auth ---

// signupRequest leaves email optional: a repeat signup may name only the
// username. New accounts without an email are rejected by the service.
type signupRequest struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email"    validate:"omitempty,email,max=254"`
}

type signupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenRequest struct {
	Username         string `json:"username"          validate:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// --- Users ---

type createUserRequest struct {
	Username  string `json:"username"   validate:"required,max=150,username"`
	Email     string `json:"email"      validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name"  validate:"max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role"       validate:"omitempty,oneof=user moderator admin"`
}

// updateUserRequest is a PATCH payload; absent fields are left untouched.
type updateUserRequest struct {
	Username  *string `json:"username"   validate:"omitempty,max=150,username"`
	Email     *string `json:"email"      validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"       validate:"omitempty,oneof=user moderator admin"`
}

type userResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

// --- Catalog ---

type termRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"omitempty,max=50,slug"`
}

type termResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type createTitleRequest struct {
	Name        string   `json:"name"        validate:"required,max=256"`
	Year        int      `json:"year"        validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"    validate:"omitempty,slug"`
	Genre       []string `json:"genre"       validate:"dive,slug"`
}

type updateTitleRequest struct {
	Name        *string   `json:"name"        validate:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// titleResponse is the read representation with nested terms and rating.
type titleResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Year        int            `json:"year"`
	Rating      *float64       `json:"rating"`
	Description string         `json:"description"`
	Genre       []termResponse `json:"genre"`
	Category    *termResponse  `json:"category"`
}

// titleWriteResponse echoes a write with flat slug references.
type titleWriteResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Genre       []string `json:"genre"`
	Category    *string  `json:"category"`
}

// --- Feedback ---

type createReviewRequest struct {
	Text  string `json:"text"  validate:"required"`
	Score int    `json:"score"`
}

type updateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type reviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

type updateCommentRequest struct {
	Text *string `json:"text"`
}

type commentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

// --- Envelopes ---

type pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination pagination `json:"pagination"`
}

// ErrorResponse documents the error envelope rendered by the HTTP error handler.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
