package reporting

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nuqta-dev/tenadmin/internal/i18n"
	"github.com/nuqta-dev/tenadmin/internal/subscription"
	"github.com/nuqta-dev/tenadmin/pkg/saas"
)

func sampleTenants() []saas.Tenant {
	return []saas.Tenant{
		{ID: 1, EnglishName: "Acme Cafe", Subdomain: "acme", StartDate: "2025-01-01", EndDate: "2026-01-01", SubscriptionPrice: "767.23", Currency: saas.CurrencySAR, IsActive: true},
		{ID: 2, EnglishName: "Gone Grill", Subdomain: "gone", StartDate: "2024-01-01", EndDate: "2025-01-01"},
		{ID: 3, EnglishName: "Soon Sushi", Subdomain: "soon", StartDate: "2025-01-01", EndDate: "2025-06-30"},
		{ID: 4, EnglishName: "Broken Dates", Subdomain: "broken", StartDate: "not-a-date", EndDate: "2026-01-01"},
	}
}

func TestBuildCountsAndSkips(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	data := Build(sampleTenants(), now, i18n.English)

	if len(data.Rows) != 3 {
		t.Fatalf("expected 3 rows (unparseable skipped), got %d", len(data.Rows))
	}
	if data.Counts[subscription.StatusActive] != 1 {
		t.Errorf("active count = %d, want 1", data.Counts[subscription.StatusActive])
	}
	if data.Counts[subscription.StatusExpired] != 1 {
		t.Errorf("expired count = %d, want 1", data.Counts[subscription.StatusExpired])
	}
	if data.Counts[subscription.StatusExpiring] != 1 {
		t.Errorf("expiring count = %d, want 1", data.Counts[subscription.StatusExpiring])
	}
	for _, r := range data.Rows {
		if r.Display == "" {
			t.Errorf("tenant %d has empty display text", r.Tenant.ID)
		}
	}
}

func TestCSVGenerate(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	data := Build(sampleTenants(), now, i18n.English)

	out, err := NewCSVGenerator().Generate(data)
	if err != nil {
		t.Fatalf("generate CSV: %v", err)
	}

	s := string(out)
	for _, want := range []string{
		"# Tenant Subscription Report",
		"English Name",
		"Acme Cafe",
		"expired",
		"expiring",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("CSV output missing %q", want)
		}
	}
	if strings.Contains(s, "Broken Dates") {
		t.Error("CSV output should not contain tenant with unparseable dates")
	}
}

func TestPDFGenerate(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	data := Build(sampleTenants(), now, i18n.English)

	out, err := NewPDFGenerator().Generate(data)
	if err != nil {
		t.Fatalf("generate PDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("output does not start with PDF magic")
	}
}

func TestPDFGenerateManyRowsPaginates(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	tenants := make([]saas.Tenant, 0, 80)
	for i := 1; i <= 80; i++ {
		tenants = append(tenants, saas.Tenant{
			ID: i, EnglishName: "Tenant", Subdomain: "t", StartDate: "2025-01-01", EndDate: "2026-01-01",
		})
	}
	data := Build(tenants, now, i18n.English)

	out, err := NewPDFGenerator().Generate(data)
	if err != nil {
		t.Fatalf("generate PDF: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty PDF output")
	}
}
