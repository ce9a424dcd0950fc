package auth

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const botToken = "123456:TEST-token"

func initData() url.Values {
	return url.Values{
		"user":        {`{"id":42,"first_name":"Ivan","last_name":"Petrov","username":"ivan","language_code":"ru"}`},
		"auth_date":   {"1700000000"},
		"start_param": {"ref_7"},
		"query_id":    {"AAH"},
	}
}

func TestCheckWebAppSignature(t *testing.T) {
	signed := SignInitData(botToken, initData())

	assert.True(t, CheckWebAppSignature(botToken, signed))
	assert.False(t, CheckWebAppSignature("other:token", signed))

	tampered, err := url.ParseQuery(signed)
	require.NoError(t, err)
	tampered.Set("auth_date", "1700000001")
	assert.False(t, CheckWebAppSignature(botToken, tampered.Encode()))

	assert.False(t, CheckWebAppSignature(botToken, "user=%7B%7D"))
	assert.False(t, CheckWebAppSignature(botToken, "hash=zz"))
	assert.False(t, CheckWebAppSignature(botToken, "%zz"))
}

func TestParseInitData(t *testing.T) {
	data, err := ParseInitData(SignInitData(botToken, initData()))
	require.NoError(t, err)

	assert.Equal(t, int64(42), data.User.ID)
	assert.Equal(t, "ivan", data.User.Username)
	assert.Equal(t, "Ivan Petrov", data.User.FullName())
	assert.Equal(t, "ref_7", data.StartParam)

	_, err = ParseInitData("auth_date=1")
	assert.Error(t, err)
	_, err = ParseInitData("user=notjson")
	assert.Error(t, err)
	_, err = ParseInitData(`user={"first_name":"x"}`)
	assert.Error(t, err)
}

func TestIssuer(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	token, err := issuer.Issue(RegularKeyword)
	require.NoError(t, err)

	kw, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, RegularKeyword, kw)
	assert.NoError(t, issuer.Verify(token, RegularKeyword))
	assert.ErrorIs(t, issuer.Verify(token, "admin"), ErrInvalidToken)

	other := NewIssuer("another secret", time.Hour)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not a token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_Expired(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	issuer.now = func() time.Time { return issued }
	token, err := issuer.Issue("admin")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
	assert.False(t, CheckPassword("", "hunter2"))
}
