package authorization

import (
	"crypto/subtle"
	"errors"

	"github.com/qr-forever/resolver/meta"
)

var (
	ErrKeyNotFound = errors.New("api key not found or inactive")
	ErrWrongSecret = errors.New("invalid api key secret")
)

//Service verifies bearer api key tokens against stored records
type Service struct {
	storage meta.Storage
}

func NewService(storage meta.Storage) *Service {
	return &Service{storage: storage}
}

//Authenticate parses the token first (malformed input never hits the
//storage), then looks the id up and compares secret digests
func (s *Service) Authenticate(token string) (*meta.APIKey, error) {
	id, secret, err := ParseToken(token)
	if err != nil {
		return nil, err
	}

	apiKey, err := s.storage.GetAPIKey(id)
	if err != nil {
		return nil, err
	}

	if apiKey == nil || !apiKey.Active {
		return nil, ErrKeyNotFound
	}

	if subtle.ConstantTimeCompare([]byte(HashSecret(secret)), []byte(apiKey.SecretHash)) != 1 {
		return nil, ErrWrongSecret
	}

	return apiKey, nil
}
