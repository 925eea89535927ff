package reporting

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/nuqta-dev/tenadmin/internal/subscription"
)

// CSVGenerator handles CSV report generation.
type CSVGenerator struct{}

// NewCSVGenerator creates a new CSV generator.
func NewCSVGenerator() *CSVGenerator {
	return &CSVGenerator{}
}

// Generate creates a CSV report from the provided data.
func (g *CSVGenerator) Generate(data *ReportData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := g.writeHeader(w, data); err != nil {
		return nil, fmt.Errorf("write CSV header section: %w", err)
	}
	if err := g.writeSummary(w, data); err != nil {
		return nil, fmt.Errorf("write CSV summary section: %w", err)
	}
	if err := g.writeData(w, data); err != nil {
		return nil, fmt.Errorf("write CSV data section: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("CSV write error: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *CSVGenerator) writeHeader(w *csv.Writer, data *ReportData) error {
	headers := [][]string{
		{"# Tenant Subscription Report"},
		{"# Generated:", data.GeneratedAt.Format(time.RFC3339)},
		{"# Tenants:", strconv.Itoa(len(data.Rows))},
		{""},
	}
	for _, row := range headers {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (g *CSVGenerator) writeSummary(w *csv.Writer, data *ReportData) error {
	rows := [][]string{
		{"# Summary"},
		{"Status", "Count"},
	}
	for _, status := range []subscription.Status{
		subscription.StatusActive,
		subscription.StatusExpiring,
		subscription.StatusExpired,
	} {
		rows = append(rows, []string{string(status), strconv.Itoa(data.Counts[status])})
	}
	rows = append(rows, []string{""})

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (g *CSVGenerator) writeData(w *csv.Writer, data *ReportData) error {
	if err := w.Write([]string{
		"ID", "English Name", "Arabic Name", "Subdomain",
		"Start Date", "End Date", "Status", "Days Until Expiry",
		"Price", "Currency", "Trial", "Active",
	}); err != nil {
		return err
	}

	for _, r := range data.Rows {
		t := r.Tenant
		record := []string{
			strconv.Itoa(t.ID),
			t.EnglishName,
			t.ArabicName,
			t.Subdomain,
			t.StartDate,
			t.EndDate,
			string(r.Eval.Status),
			strconv.Itoa(r.Eval.DaysUntilExpiry),
			t.SubscriptionPrice,
			string(t.Currency),
			strconv.FormatBool(t.OnTrial),
			strconv.FormatBool(t.IsActive),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
