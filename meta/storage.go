package meta

import (
	"io"
	"time"

	"github.com/spf13/viper"
)

const (
	RedisType    = "Redis"
	InMemoryType = "InMemory"
)

//APIKey is the only persisted credential form: the raw secret is never
//stored, only its digest. Records are deactivated, never deleted.
type APIKey struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	SecretHash       string     `json:"secret_hash"`
	CreditsRemaining int64      `json:"credits_remaining"`
	TotalCalls       int64      `json:"total_calls"`
	Active           bool       `json:"active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	LastUsedAt       *time.Time `json:"last_used_at,omitempty"`
}

//Clone returns a copy so that callers can mutate without touching
//storage internals
func (k *APIKey) Clone() *APIKey {
	cloned := *k
	if k.LastUsedAt != nil {
		lastUsed := *k.LastUsedAt
		cloned.LastUsedAt = &lastUsed
	}
	return &cloned
}

type Storage interface {
	io.Closer

	//api keys
	GetAPIKey(id string) (*APIKey, error)
	SaveAPIKey(key *APIKey) error

	Type() string
}

//NewStorage returns redis backed storage if meta.redis is configured,
//otherwise process-local in-memory storage
func NewStorage(meta *viper.Viper) (Storage, error) {
	if meta == nil {
		return NewInMemory(), nil
	}

	host := meta.GetString("redis.host")
	if host == "" {
		return NewInMemory(), nil
	}

	port := meta.GetInt("redis.port")
	password := meta.GetString("redis.password")

	if port == 0 {
		port = 6379
	}

	return NewRedis(host, port, password)
}
