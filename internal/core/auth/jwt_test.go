package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTer_RoundTrip(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "blog", TTL: time.Hour}
	tok, err := j.Issue("u-1", "admin")
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UID)
	assert.Equal(t, "admin", c.Role)
	assert.Equal(t, "u-1", c.Subject)
}

func TestJWTer_Rejects(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "blog", TTL: time.Hour}

	other := &JWTer{Secret: []byte("other"), Issuer: "blog", TTL: time.Hour}
	tok, err := other.Issue("u-1", "user")
	require.NoError(t, err)
	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIss := &JWTer{Secret: []byte("s3cret"), Issuer: "elsewhere", TTL: time.Hour}
	tok, err = wrongIss.Issue("u-1", "user")
	require.NoError(t, err)
	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := &JWTer{Secret: []byte("s3cret"), Issuer: "blog", TTL: -time.Hour}
	tok, err = expired.Issue("u-1", "user")
	require.NoError(t, err)
	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UID: "u-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = j.Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = j.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
