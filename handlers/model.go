package handlers

import (
	"github.com/qr-forever/resolver/meta"
	"github.com/qr-forever/resolver/timestamp"
)

type KeySummary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	CreditsRemaining int64  `json:"creditsRemaining"`
	TotalCalls       int64  `json:"totalCalls"`
	Active           bool   `json:"active"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
	LastUsedAt       string `json:"lastUsedAt,omitempty"`
}

func keySummary(apiKey *meta.APIKey) *KeySummary {
	summary := &KeySummary{
		ID:               apiKey.ID,
		Name:             apiKey.Name,
		CreditsRemaining: apiKey.CreditsRemaining,
		TotalCalls:       apiKey.TotalCalls,
		Active:           apiKey.Active,
		CreatedAt:        timestamp.ToISOFormat(apiKey.CreatedAt),
		UpdatedAt:        timestamp.ToISOFormat(apiKey.UpdatedAt),
	}
	if apiKey.LastUsedAt != nil {
		summary.LastUsedAt = timestamp.ToISOFormat(*apiKey.LastUsedAt)
	}

	return summary
}

type ResolveResponse struct {
	Verified         bool   `json:"verified"`
	Chain            string `json:"chain"`
	RecordID         string `json:"recordId"`
	TargetType       string `json:"targetType"`
	Target           string `json:"target"`
	Destination      string `json:"destination"`
	LastUpdateTxHash string `json:"lastUpdateTxHash"`
	CreditsRemaining int64  `json:"creditsRemaining"`
}
