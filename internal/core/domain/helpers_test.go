package domain_test

import "time"

func mustDay() time.Time {
	return time.Date(2026, 5, 1, 15, 30, 0, 0, time.UTC)
}
