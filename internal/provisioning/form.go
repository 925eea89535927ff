package provisioning

import (
	"strconv"
	"strings"

	"github.com/nuqta-dev/tenadmin/internal/config"
	"github.com/nuqta-dev/tenadmin/pkg/saas"
)

// Form is the single cross-stage input record. The UI mutates it in place
// between stage advances; numeric fields are kept as strings until the
// coercion step at submission, matching the backend contract.
type Form struct {
	// Stage 1: tenant and subscription
	ArabicName        string
	EnglishName       string
	Subdomain         string
	CommercialRecord  string
	ActivityType      saas.ActivityType
	OtherActivityType string
	StartDate         string
	EndDate           string
	SubscriptionPrice string
	Currency          saas.CurrencyCode
	OnTrial           bool
	IsActive          bool
	Kitchen           bool
	Delivery          bool
	NumUsers          string
	NumBranches       string

	// Stage 2: client contact
	ClientArabicName  string
	ClientEnglishName string
	ClientEmail       string
	ClientPhone       string

	// Stage 3: manager access
	ManagerUsername string
	ManagerEmail    string
	ManagerPassword string
	ManagerRole     saas.ManagerRole
}

// effectiveActivity substitutes the free-text value when "other" is chosen.
func (f Form) effectiveActivity() string {
	if f.ActivityType == saas.ActivityOther {
		return strings.TrimSpace(f.OtherActivityType)
	}
	return string(f.ActivityType)
}

// hasManagerCredentials reports whether the edit flow should also submit a
// manager update.
func (f Form) hasManagerCredentials() bool {
	return strings.TrimSpace(f.ManagerUsername) != "" && f.ManagerPassword != ""
}

// tenantPayload builds the Stage-1 creation payload, applying the configured
// fallbacks to optional fields left blank.
func (f Form) tenantPayload(d config.Defaults) saas.NewTenant {
	nt := saas.NewTenant{
		ArabicName:        f.ArabicName,
		EnglishName:       f.EnglishName,
		CommercialRecord:  intOr(f.CommercialRecord, d.CommercialRecord),
		ActivityType:      f.effectiveActivity(),
		StartDate:         stringOr(f.StartDate, d.StartDate),
		EndDate:           stringOr(f.EndDate, d.EndDate),
		SubscriptionPrice: stringOr(f.SubscriptionPrice, d.SubscriptionPrice),
		Currency:          f.Currency,
		OnTrial:           f.OnTrial,
		IsActive:          f.IsActive,
		Subdomain:         f.Subdomain,
		NumUsers:          intOr(f.NumUsers, d.Capacity),
		NumBranches:       intOr(f.NumBranches, d.Capacity),
		ModulesEnabled: saas.Modules{
			Kitchen:  f.Kitchen,
			Reports:  true,
			Sellers:  true,
			Delivery: f.Delivery,
		},
	}
	return nt
}

// clientPayload builds the Stage-2 payload correlated to the created tenant.
func (f Form) clientPayload(tenantID int) saas.NewClientContact {
	return saas.NewClientContact{
		ArabicName:  f.ClientArabicName,
		EnglishName: f.ClientEnglishName,
		Email:       f.ClientEmail,
		Phone:       f.ClientPhone,
		TenantID:    tenantID,
	}
}

// managerPayload builds the Stage-3 payload scoped to the tenant's schema.
func (f Form) managerPayload(schema string) saas.NewManager {
	role := f.ManagerRole
	if role == "" {
		role = saas.RoleManager
	}
	return saas.NewManager{
		Username: f.ManagerUsername,
		Email:    f.ManagerEmail,
		Password: f.ManagerPassword,
		Role:     role,
		Schema:   schema,
	}
}

// mergeTenant produces the edit-mode PATCH payload: edited fields win,
// everything left blank falls back to the loaded record.
func mergeTenant(orig saas.Tenant, f Form) saas.UpdateTenant {
	return saas.UpdateTenant{
		ArabicName:        stringOr(f.ArabicName, orig.ArabicName),
		EnglishName:       stringOr(f.EnglishName, orig.EnglishName),
		CommercialRecord:  intOr(f.CommercialRecord, orig.CommercialRecord),
		ActivityType:      stringOr(f.effectiveActivity(), orig.ActivityType),
		StartDate:         stringOr(f.StartDate, orig.StartDate),
		EndDate:           stringOr(f.EndDate, orig.EndDate),
		SubscriptionPrice: stringOr(f.SubscriptionPrice, orig.SubscriptionPrice),
		Currency:          currencyOr(f.Currency, orig.Currency),
		OnTrial:           f.OnTrial,
		IsActive:          f.IsActive,
		Subdomain:         stringOr(f.Subdomain, orig.Subdomain),
		NumUsers:          intOr(f.NumUsers, orig.NumUsers),
		NumBranches:       intOr(f.NumBranches, orig.NumBranches),
		ModulesEnabled: saas.Modules{
			Kitchen:  f.Kitchen,
			Reports:  true,
			Sellers:  true,
			Delivery: f.Delivery,
		},
	}
}

// formFromTenant pre-fills the form from a loaded record for edit mode.
func formFromTenant(t saas.Tenant) Form {
	f := Form{
		ArabicName:        t.ArabicName,
		EnglishName:       t.EnglishName,
		Subdomain:         t.Subdomain,
		ActivityType:      saas.ActivityType(t.ActivityType),
		StartDate:         t.StartDate,
		EndDate:           t.EndDate,
		SubscriptionPrice: t.SubscriptionPrice,
		Currency:          t.Currency,
		OnTrial:           t.OnTrial,
		IsActive:          t.IsActive,
		Kitchen:           t.ModulesEnabled.Kitchen,
		Delivery:          t.ModulesEnabled.Delivery,
	}
	if t.CommercialRecord > 0 {
		f.CommercialRecord = strconv.Itoa(t.CommercialRecord)
	}
	if t.NumUsers > 0 {
		f.NumUsers = strconv.Itoa(t.NumUsers)
	}
	if t.NumBranches > 0 {
		f.NumBranches = strconv.Itoa(t.NumBranches)
	}
	return f
}

func validPrice(s string) bool {
	n, err := strconv.ParseFloat(s, 64)
	return err == nil && n > 0
}

func stringOr(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func intOr(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func currencyOr(value, fallback saas.CurrencyCode) saas.CurrencyCode {
	if value != "" {
		return value
	}
	return fallback
}
