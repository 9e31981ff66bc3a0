package uuid

import (
	"strings"

	googleuuid "github.com/google/uuid"
)

var mock bool

func InitMock() {
	mock = true
}

func New() string {
	if mock {
		return "mockeduuid"
	}

	return googleuuid.New().String()
}

//NewAlphanumeric returns a uuid with dashes stripped: 32 hex characters,
//safe for the alphanumeric segments of api key tokens
func NewAlphanumeric() string {
	return strings.ReplaceAll(New(), "-", "")
}
