package saas

import (
	"strconv"
	"time"
)

// DateLayout is the calendar-date wire format used by the backend.
const DateLayout = "2006-01-02"

// ActivityType is the tenant's line of business. ActivityOther is replaced
// by the free-text value on submission.
type ActivityType string

const (
	ActivityCafe       ActivityType = "cafe"
	ActivityRestaurant ActivityType = "restaurant"
	ActivityCatering   ActivityType = "catering"
	ActivityOther      ActivityType = "other"
)

// CurrencyCode is the subscription billing currency.
type CurrencyCode string

const (
	CurrencySAR CurrencyCode = "SAR"
	CurrencyUSD CurrencyCode = "USD"
	CurrencyEUR CurrencyCode = "EUR"
)

// Modules holds the tenant's feature toggles. Reports and sellers are always
// enabled by the backend; only kitchen and delivery are operator-editable.
type Modules struct {
	Kitchen  bool `json:"kitchen"`
	Reports  bool `json:"reports"`
	Sellers  bool `json:"sellers"`
	Delivery bool `json:"Delivery"`
}

// Tenant is a subscribing organization as returned by the backend.
type Tenant struct {
	ID                int          `json:"id"`
	ArabicName        string       `json:"arabic_name"`
	EnglishName       string       `json:"english_name"`
	CommercialRecord  int          `json:"Commercial_Record"`
	ActivityType      string       `json:"Activity_Type"`
	StartDate         string       `json:"Start_Date"`
	EndDate           string       `json:"End_Date"`
	SubscriptionPrice string       `json:"Subscription_Price"`
	Currency          CurrencyCode `json:"Currency"`
	OnTrial           bool         `json:"on_trial"`
	IsActive          bool         `json:"is_active"`
	ModulesEnabled    Modules      `json:"modules_enabled"`
	Subdomain         string       `json:"subdomain"`
	NumUsers          int          `json:"no_users"`
	NumBranches       int          `json:"no_branches"`
}

// SubscriptionWindow parses the tenant's date window.
func (t Tenant) SubscriptionWindow() (start, end time.Time, err error) {
	start, err = time.Parse(DateLayout, t.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.Parse(DateLayout, t.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// SchemaKey is the tenant-scoping key for manager provisioning calls: the
// subdomain, falling back to the stringified id when absent.
func (t Tenant) SchemaKey() string {
	if t.Subdomain != "" {
		return t.Subdomain
	}
	return strconv.Itoa(t.ID)
}

// NewTenant is the Stage-1 creation payload.
type NewTenant struct {
	ArabicName        string       `json:"arabic_name"`
	EnglishName       string       `json:"english_name"`
	CommercialRecord  int          `json:"Commercial_Record"`
	ActivityType      string       `json:"Activity_Type"`
	StartDate         string       `json:"Start_Date"`
	EndDate           string       `json:"End_Date"`
	SubscriptionPrice string       `json:"Subscription_Price"`
	Currency          CurrencyCode `json:"Currency"`
	OnTrial           bool         `json:"on_trial"`
	IsActive          bool         `json:"is_active"`
	ModulesEnabled    Modules      `json:"modules_enabled"`
	Subdomain         string       `json:"subdomain"`
	NumUsers          int          `json:"no_users"`
	NumBranches       int          `json:"no_branches"`
}

// UpdateTenant is the PATCH payload for an existing tenant. The caller sends
// the full merged record; the backend treats it as a partial update.
type UpdateTenant = NewTenant

// ClientContact is the tenant's primary contact profile.
type ClientContact struct {
	ID          int    `json:"id"`
	ArabicName  string `json:"arabic_name"`
	EnglishName string `json:"english_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	TenantID    int    `json:"tenantId"`
	ManagerID   int    `json:"manager_id,omitempty"`
}

// NewClientContact is the Stage-2 creation payload. TenantID correlates the
// contact with the tenant created in Stage 1.
type NewClientContact struct {
	ArabicName  string `json:"arabic_name"`
	EnglishName string `json:"english_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	TenantID    int    `json:"tenantId"`
}

// UpdateClientContact is the PUT payload for an existing contact.
type UpdateClientContact = NewClientContact

// ManagerRole is the provisioned account's role.
type ManagerRole string

const (
	RoleManager ManagerRole = "manager"
	RoleAdmin   ManagerRole = "admin"
	RoleUser    ManagerRole = "user"
)

// Manager is a tenant-scoped administrative login.
type Manager struct {
	ID       int         `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     ManagerRole `json:"role"`
	Schema   string      `json:"schema"`
}

// NewManager is the Stage-3 creation payload. Schema is the tenant's
// subdomain (or stringified id) and routes the call to the tenant's schema.
type NewManager struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     ManagerRole `json:"role"`
	Schema   string      `json:"schema"`
}

// UpdateManager is the payload for updating an existing manager account.
type UpdateManager struct {
	Username string      `json:"username,omitempty"`
	Email    string      `json:"email,omitempty"`
	Password string      `json:"password,omitempty"`
	Role     ManagerRole `json:"role,omitempty"`
}

// Account is the authenticated operator as reported by /api/saas/me/.
type Account struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Session holds the bearer token pair issued at login.
type Session struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Currency is an independent reference record (distinct from CurrencyCode,
// the subscription billing enum).
type Currency struct {
	ID       int    `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	IsActive bool   `json:"is_active"`
}

// NewCurrency is the creation payload for a currency record.
type NewCurrency struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	IsActive bool   `json:"is_active"`
}

// MeasureUnit is an independent reference record for measurement units.
type MeasureUnit struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	IsActive     bool   `json:"is_active"`
}

// NewMeasureUnit is the creation payload for a measure unit.
type NewMeasureUnit struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	IsActive     bool   `json:"is_active"`
}
