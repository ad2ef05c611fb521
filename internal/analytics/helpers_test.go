package analytics_test

import (
	"time"

	"github.com/project-tktt/go-tracker/internal/analytics"
	"github.com/project-tktt/go-tracker/internal/domain"
)

// All tests pin "now" to 2025-01-15 12:00 UTC and view dates in UTC so the
// clock never leaks into assertions.
var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestProcessor() *analytics.Processor {
	return analytics.NewProcessor(func() time.Time { return testNow }, time.UTC)
}

func named(status, ts string) domain.StatusEvent {
	return domain.StatusEvent{Status: domain.StatusNamed(status), Timestamp: ts}
}

func coded(code int, ts string) domain.StatusEvent {
	return domain.StatusEvent{Status: domain.StatusCoded(code), Timestamp: ts}
}

func app(companyID string, events ...domain.StatusEvent) domain.TrackedApplication {
	return domain.TrackedApplication{CompanyID: companyID, StatusEvents: events}
}

func salaried(companyID string, salary float64, period int) domain.TrackedApplication {
	job := app(companyID, named("applied", "2025-01-10T09:00:00"))
	job.Salary = &salary
	job.SalaryPeriod = period
	return job
}

func f64(v float64) *float64 { return &v }
