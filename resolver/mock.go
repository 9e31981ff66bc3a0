package resolver

import (
	"encoding/json"

	"github.com/qr-forever/resolver/logging"
)

//MockRecord is a configuration-injected stand-in for live ledger data
type MockRecord struct {
	TargetType TargetType `json:"targetType"`
	Target     string     `json:"target"`
	TxHash     string     `json:"txHash"`
}

//ParseMockRecords parses the configured mock dataset json. The parse is
//tolerant: an empty or invalid payload yields no mock dataset.
func ParseMockRecords(payload string) map[string]MockRecord {
	if payload == "" {
		return nil
	}

	records := map[string]MockRecord{}
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		logging.Warnf("Malformed mock records json, ignoring the mock dataset: %v", err)
		return nil
	}

	return records
}
