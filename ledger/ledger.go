package ledger

import (
	"errors"
	"math"

	"github.com/qr-forever/resolver/meta"
	"github.com/qr-forever/resolver/timestamp"
)

var ErrInsufficientCredits = errors.New("insufficient credits")

//Ledger applies credit mutations to api key records and persists them.
//Consume is an un-isolated read-modify-write: concurrent metered requests
//against the same key can race when the storage backend is shared across
//instances. This is a documented consistency gap, not fixed by in-process
//locking.
type Ledger struct {
	storage meta.Storage
}

func NewLedger(storage meta.Storage) *Ledger {
	return &Ledger{storage: storage}
}

//Consume fails without mutation when no credits remain, otherwise
//decrements credits, bumps the call counter and restamps the record
func (l *Ledger) Consume(apiKey *meta.APIKey) (*meta.APIKey, error) {
	if apiKey.CreditsRemaining <= 0 {
		return nil, ErrInsufficientCredits
	}

	now := timestamp.Now()
	updated := apiKey.Clone()
	updated.CreditsRemaining--
	updated.TotalCalls++
	updated.LastUsedAt = &now
	updated.UpdatedAt = now

	if err := l.storage.SaveAPIKey(updated); err != nil {
		return nil, err
	}

	return updated, nil
}

//TopUp adds max(0, floor(credits)) to the remaining balance
func (l *Ledger) TopUp(apiKey *meta.APIKey, credits float64) (*meta.APIKey, error) {
	updated := apiKey.Clone()
	updated.CreditsRemaining += normalizeCredits(credits)
	updated.UpdatedAt = timestamp.Now()

	if err := l.storage.SaveAPIKey(updated); err != nil {
		return nil, err
	}

	return updated, nil
}

//NormalizeCredits clamps a requested credit amount to a non-negative
//whole number
func NormalizeCredits(credits float64) int64 {
	return normalizeCredits(credits)
}

func normalizeCredits(credits float64) int64 {
	if credits <= 0 || math.IsNaN(credits) {
		return 0
	}

	//values at or above 2^63 overflow the int64 conversion
	if credits >= math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(math.Floor(credits))
}
