package notifications

import (
	"context"
	"time"

	"github.com/carlmjohnson/requests"

	"github.com/qr-forever/resolver/safego"
	"github.com/qr-forever/resolver/timestamp"
)

const notifyTimeout = 10 * time.Second

//UsageEvent describes one billable metered resolution
type UsageEvent struct {
	APIKeyID         string `json:"api_key_id"`
	RecordID         string `json:"record_id"`
	CreditsRemaining int64  `json:"credits_remaining"`
	TotalCalls       int64  `json:"total_calls"`
	Timestamp        string `json:"timestamp"`
}

//BillingNotifier posts usage events to the configured webhook.
//Delivery is at-most-once and best-effort: the call is detached from the
//triggering request and any failure is swallowed.
type BillingNotifier struct {
	webhookURL string
	authHeader string
}

func NewBillingNotifier(webhookURL, authHeader string) *BillingNotifier {
	return &BillingNotifier{webhookURL: webhookURL, authHeader: authHeader}
}

func (bn *BillingNotifier) Configured() bool {
	return bn.webhookURL != ""
}

//Notify sends the event in a detached goroutine. The caller's response
//must never wait for it.
func (bn *BillingNotifier) Notify(event *UsageEvent) {
	if !bn.Configured() {
		return
	}

	if event.Timestamp == "" {
		event.Timestamp = timestamp.NowUTC()
	}

	safego.Run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		builder := requests.
			URL(bn.webhookURL).
			BodyJSON(event)
		if bn.authHeader != "" {
			builder = builder.Header("Authorization", bn.authHeader)
		}

		//failures are swallowed: not retried, not surfaced
		_ = builder.Fetch(ctx)
	})
}
