package timestamp

import "time"

//format of timestamps rendered in API responses and billing events
const Layout = "2006-01-02T15:04:05.000000Z"

func NowUTC() string {
	return Now().Format(Layout)
}

func ToISOFormat(t time.Time) string {
	return t.Format(Layout)
}
