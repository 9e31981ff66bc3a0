package authorization

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"

	"github.com/qr-forever/resolver/uuid"
)

//TokenPrefix must stay stable: issued keys embed it and reimplementations
//must keep parsing them
const TokenPrefix = "qrf"

var ErrMalformedToken = errors.New("missing or malformed api key token")

//token grammar: qrf_<id>_<secret>, id 12-64 alphanumeric,
//secret 24-128 alphanumeric
var tokenPattern = regexp.MustCompile(`^` + TokenPrefix + `_([A-Za-z0-9]{12,64})_([A-Za-z0-9]{24,128})$`)

//BuildToken composes the plaintext token returned to the caller exactly
//once on key creation
func BuildToken(id, secret string) string {
	return TokenPrefix + "_" + id + "_" + secret
}

//ParseToken returns id and secret of the token or ErrMalformedToken on
//any grammar deviation
func ParseToken(token string) (string, string, error) {
	groups := tokenPattern.FindStringSubmatch(token)
	if groups == nil {
		return "", "", ErrMalformedToken
	}

	return groups[1], groups[2], nil
}

//HashSecret returns the only persisted form of an api key secret
func HashSecret(secret string) string {
	digest := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(digest[:])
}

func GenerateKeyID() string {
	return uuid.NewAlphanumeric()
}

func GenerateKeySecret() string {
	return uuid.NewAlphanumeric() + uuid.NewAlphanumeric()
}
