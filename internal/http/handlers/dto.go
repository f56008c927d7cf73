package handlers

import (
	"github.com/shopspring/decimal"
)

type EntryResponse struct {
	Code         int64           `json:"code"`
	Description  string          `json:"description"`
	DueDate      string          `json:"due_date"`
	PaymentDate  string          `json:"payment_date,omitempty"`
	Value        decimal.Decimal `json:"value" swaggertype:"string"`
	Type         string          `json:"type"`
	Note         string          `json:"note,omitempty"`
	CategoryCode int64           `json:"category_code"`
	PersonCode   int64           `json:"person_code"`
}

type Meta struct {
	TotalCount int64 `json:"total_count"`
	Page       *int  `json:"page,omitempty"`
	Size       *int  `json:"size,omitempty"`
	TotalPages *int  `json:"total_pages,omitempty"`
}

type EntriesSearchResult struct {
	Data []EntryResponse `json:"data"`
	Meta Meta            `json:"meta"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// OAuthError is the error body of the token endpoint.
type OAuthError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

type HealthResult struct {
	Status string `json:"status"`
}
