// Package auth verifies Telegram Mini App launches and issues API tokens.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

var ErrBadSignature = errors.New("telegram init data signature mismatch")

// CheckWebAppSignature validates the hash field of Telegram WebApp init data.
// The secret is HMAC-SHA256("WebAppData", botToken) and the signed payload is
// every other field as sorted "key=value" lines.
func CheckWebAppSignature(botToken, initData string) bool {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return false
	}
	hash := values.Get("hash")
	if hash == "" {
		return false
	}
	values.Del("hash")

	want, err := hex.DecodeString(hash)
	if err != nil {
		return false
	}
	return hmac.Equal(signInitData(botToken, values), want)
}

func signInitData(botToken string, values url.Values) []byte {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + values.Get(k)
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	return mac.Sum(nil)
}

// SignInitData appends a valid hash to the given fields. Used by tooling and tests
// to produce init data the way the Telegram client does.
func SignInitData(botToken string, values url.Values) string {
	signed := url.Values{}
	for k, v := range values {
		if k != "hash" {
			signed[k] = v
		}
	}
	signed.Set("hash", hex.EncodeToString(signInitData(botToken, signed)))
	return signed.Encode()
}

// WebAppUser is the "user" object of the init data
type WebAppUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
}

// FullName joins first and last name the way the profile shows them
func (u WebAppUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// InitData is the decoded launch payload of the mini app
type InitData struct {
	User       WebAppUser
	StartParam string
	AuthDate   string
}

// ParseInitData decodes the query-string init data. It does not check the signature.
func ParseInitData(initData string) (InitData, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return InitData{}, fmt.Errorf("malformed init data: %w", err)
	}

	var out InitData
	raw := values.Get("user")
	if raw == "" {
		return out, errors.New("init data has no user")
	}
	if err := json.Unmarshal([]byte(raw), &out.User); err != nil {
		return out, fmt.Errorf("malformed init data user: %w", err)
	}
	if out.User.ID == 0 {
		return out, errors.New("init data user has no id")
	}
	out.StartParam = values.Get("start_param")
	out.AuthDate = values.Get("auth_date")
	return out, nil
}
