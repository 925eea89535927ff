// Package reporting renders subscription status reports for the tenant
// directory as CSV or PDF.
package reporting

import (
	"time"

	"github.com/nuqta-dev/tenadmin/internal/i18n"
	"github.com/nuqta-dev/tenadmin/internal/subscription"
	"github.com/nuqta-dev/tenadmin/pkg/saas"
)

// Row is one tenant's report line with its derived status.
type Row struct {
	Tenant  saas.Tenant
	Eval    subscription.Evaluation
	Display string
}

// ReportData is the input to the CSV and PDF writers.
type ReportData struct {
	GeneratedAt time.Time
	Rows        []Row
	Counts      map[subscription.Status]int
}

// Build evaluates every tenant against now and assembles the report.
// Tenants with unparseable date windows are skipped.
func Build(tenants []saas.Tenant, now time.Time, locale i18n.Locale) *ReportData {
	data := &ReportData{
		GeneratedAt: now,
		Counts:      make(map[subscription.Status]int),
	}

	for _, t := range tenants {
		start, end, err := t.SubscriptionWindow()
		if err != nil {
			continue
		}
		ev := subscription.Evaluate(now, start, end)
		data.Counts[ev.Status]++
		data.Rows = append(data.Rows, Row{
			Tenant:  t,
			Eval:    ev,
			Display: subscription.DisplayText(ev, locale),
		})
	}
	return data
}
