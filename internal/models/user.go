package models

// User is a Telegram user of the mini app
type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username,omitempty" db:"username"`
	Name         string `json:"name,omitempty" db:"name"`
	LanguageCode string `json:"language_code,omitempty" db:"language_code"`
	InviteURL    string `json:"invite_url,omitempty" db:"invite_url"`
	IsSubscribed bool   `json:"is_subscribed" db:"is_subscribed"`
}

// TokenResponse is returned by every login endpoint
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	IsSubscribed *bool  `json:"is_subscribed,omitempty"`
}
