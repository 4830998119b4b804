package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/anu235shka/movies-task/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type authResponse struct {
	User  domain.PublicUser `json:"user"`
	Token string            `json:"token"`
}

type identityResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// --- Entries ---

// budget accepts a JSON number, a numeric string, an empty string or null.
// Empty and null leave the budget absent.
type budget struct {
	Value *float64
}

func (b *budget) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		b.Value = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			b.Value = nil
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || !finite(f) {
			return fmt.Errorf("budget must be a number")
		}
		b.Value = &f
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil || !finite(f) {
		return fmt.Errorf("budget must be a number")
	}
	b.Value = &f
	return nil
}

// finite rejects NaN and ±Inf, which strconv accepts but JSON cannot encode.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (b *budget) ptr() *float64 {
	if b == nil {
		return nil
	}
	return b.Value
}

type createEntryRequest struct {
	Title      string  `json:"title"      validate:"required,max=300"`
	Type       string  `json:"type"       validate:"required,oneof=MOVIE TV_SHOW"`
	Director   *string `json:"director"   validate:"omitnil,max=300"`
	Budget     *budget `json:"budget"`
	Location   *string `json:"location"   validate:"omitnil,max=300"`
	Duration   *string `json:"duration"   validate:"omitnil,max=100"`
	YearOrTime *string `json:"yearOrTime" validate:"omitnil,max=100"`
	PosterURL  *string `json:"posterUrl"  validate:"omitnil,max=2048"`
}

// updateEntryRequest is a partial update; absent fields are left untouched.
type updateEntryRequest struct {
	Title      *string `json:"title"      validate:"omitnil,max=300"`
	Type       *string `json:"type"       validate:"omitnil,oneof=MOVIE TV_SHOW"`
	Director   *string `json:"director"   validate:"omitnil,max=300"`
	Budget     *budget `json:"budget"`
	Location   *string `json:"location"   validate:"omitnil,max=300"`
	Duration   *string `json:"duration"   validate:"omitnil,max=100"`
	YearOrTime *string `json:"yearOrTime" validate:"omitnil,max=100"`
	PosterURL  *string `json:"posterUrl"  validate:"omitnil,max=2048"`
}

type listEntriesQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
	Type   string `query:"type"`
}

type entryResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	Director   *string   `json:"director"`
	Budget     *float64  `json:"budget"`
	Location   *string   `json:"location"`
	Duration   *string   `json:"duration"`
	YearOrTime *string   `json:"yearOrTime"`
	PosterURL  *string   `json:"posterUrl"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type listEntriesResponse struct {
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"totalPages"`
	Data       []entryResponse `json:"data"`
}

type deleteResponse struct {
	Success bool `json:"success"`
}
