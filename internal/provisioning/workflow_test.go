package provisioning

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuqta-dev/tenadmin/internal/apierr"
	"github.com/nuqta-dev/tenadmin/internal/notify"
	"github.com/nuqta-dev/tenadmin/pkg/saas"
)

type managerUpdateCall struct {
	ID      int
	Schema  string
	Payload saas.UpdateManager
}

// fakeAPI records every call the workflow issues.
type fakeAPI struct {
	mu sync.Mutex

	tenantCalls  []saas.NewTenant
	tenantResult saas.Tenant
	tenantErr    error

	clientCalls  []saas.NewClientContact
	clientResult saas.ClientContact
	clientErr    error

	managerCalls []saas.NewManager
	managerErr   error

	updateTenantCalls  []saas.UpdateTenant
	updateTenantResult saas.Tenant
	updateTenantErr    error

	updateManagerCalls []managerUpdateCall
	updateManagerErr   error

	block chan struct{} // when set, CreateTenant waits on it
}

func (f *fakeAPI) CreateTenant(ctx context.Context, nt saas.NewTenant) (saas.Tenant, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tenantCalls = append(f.tenantCalls, nt)
	return f.tenantResult, f.tenantErr
}

func (f *fakeAPI) UpdateTenant(ctx context.Context, id int, ut saas.UpdateTenant) (saas.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateTenantCalls = append(f.updateTenantCalls, ut)
	return f.updateTenantResult, f.updateTenantErr
}

func (f *fakeAPI) CreateClient(ctx context.Context, nc saas.NewClientContact) (saas.ClientContact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clientCalls = append(f.clientCalls, nc)
	return f.clientResult, f.clientErr
}

func (f *fakeAPI) CreateTenantUser(ctx context.Context, nm saas.NewManager) (saas.Manager, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.managerCalls = append(f.managerCalls, nm)
	return saas.Manager{ID: 1, Username: nm.Username}, f.managerErr
}

func (f *fakeAPI) UpdateManager(ctx context.Context, id int, schema string, um saas.UpdateManager) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateManagerCalls = append(f.updateManagerCalls, managerUpdateCall{ID: id, Schema: schema, Payload: um})
	return f.updateManagerErr
}

func validStage1Form(f *Form) {
	f.ArabicName = "أ"
	f.EnglishName = "A"
	f.Subdomain = "acme"
	f.ActivityType = saas.ActivityCafe
	f.StartDate = "2025-01-01"
	f.EndDate = "2025-12-31"
	f.SubscriptionPrice = "100"
}

func validStage2Form(f *Form) {
	f.ClientArabicName = "ب"
	f.ClientEnglishName = "B"
	f.ClientEmail = "b@x.com"
	f.ClientPhone = "0500000000"
}

func validStage3Form(f *Form) {
	f.ManagerUsername = "mgr"
	f.ManagerEmail = "m@x.com"
	f.ManagerPassword = "secret1"
}

func TestCreateHappyPath(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		tenantResult: saas.Tenant{ID: 1, Subdomain: "acme"},
		clientResult: saas.ClientContact{ID: 10, TenantID: 1},
	}

	var completed bool
	w := NewCreate(api, Options{OnComplete: func() { completed = true }})
	require.Equal(t, StageTenant, w.Stage())

	validStage1Form(w.Form())
	require.NoError(t, w.Advance(context.Background()))
	require.Equal(t, StageClient, w.Stage())
	require.NotNil(t, w.Submitted().Tenant)
	assert.Equal(t, 1, w.Submitted().Tenant.ID)

	validStage2Form(w.Form())
	require.NoError(t, w.Advance(context.Background()))
	require.Equal(t, StageManager, w.Stage())

	validStage3Form(w.Form())
	require.NoError(t, w.Advance(context.Background()))
	assert.Equal(t, StageComplete, w.Stage())
	assert.True(t, completed)

	require.Len(t, api.clientCalls, 1)
	assert.Equal(t, 1, api.clientCalls[0].TenantID)

	require.Len(t, api.managerCalls, 1)
	assert.Equal(t, "acme", api.managerCalls[0].Schema)
	assert.Equal(t, "mgr", api.managerCalls[0].Username)

	err := w.Advance(context.Background())
	assert.ErrorIs(t, err, ErrComplete)
}

func TestValidationBlocksWithoutNetworkCall(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	w := NewCreate(api, Options{})

	validStage1Form(w.Form())
	w.Form().Subdomain = ""

	err := w.Advance(context.Background())
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	_, ok := verrs.Field("subdomain")
	assert.True(t, ok, "expected a field error on subdomain")

	assert.Empty(t, api.tenantCalls, "validation failure must not reach the network")
	assert.Equal(t, StageTenant, w.Stage())
}

func TestDateOrderingInvariant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"start before end passes", "2025-01-01", "2025-12-31", false},
		{"equal dates rejected", "2025-01-01", "2025-01-01", true},
		{"start after end rejected", "2025-12-31", "2025-01-01", true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAPI{tenantResult: saas.Tenant{ID: 1, Subdomain: "acme"}}
			w := NewCreate(api, Options{})
			validStage1Form(w.Form())
			w.Form().StartDate = tc.start
			w.Form().EndDate = tc.end

			err := w.Advance(context.Background())
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			_, ok := verrs.Field("end_date")
			assert.True(t, ok, "expected a field error on end_date")
		})
	}
}

func TestPartialFailureRetainsTenantAndRetries(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		tenantResult: saas.Tenant{ID: 5, Subdomain: "acme"},
		clientErr:    apierr.Normalize("create_client", 500, []byte(`{"message":"backend exploded"}`)),
	}

	var notifications []notify.Notification
	w := NewCreate(api, Options{
		Notifier: notify.Func(func(n notify.Notification) { notifications = append(notifications, n) }),
	})

	validStage1Form(w.Form())
	require.NoError(t, w.Advance(context.Background()))

	validStage2Form(w.Form())
	err := w.Advance(context.Background())
	require.Error(t, err)

	// Workflow holds at stage 2; the committed tenant is retained.
	assert.Equal(t, StageClient, w.Stage())
	require.NotNil(t, w.Submitted().Tenant)
	assert.Equal(t, 5, w.Submitted().Tenant.ID)

	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelError, notifications[0].Level)
	assert.Contains(t, notifications[0].Message.EN, "backend exploded")

	// Retry reuses tenant id 5 without re-invoking Stage 1.
	api.clientErr = nil
	api.clientResult = saas.ClientContact{ID: 11, TenantID: 5}
	require.NoError(t, w.Advance(context.Background()))

	assert.Len(t, api.tenantCalls, 1, "stage 1 must not be re-submitted")
	require.Len(t, api.clientCalls, 2)
	assert.Equal(t, 5, api.clientCalls[0].TenantID)
	assert.Equal(t, 5, api.clientCalls[1].TenantID)
}

func TestStage1CoercionDefaults(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{tenantResult: saas.Tenant{ID: 1, Subdomain: "acme"}}
	w := NewCreate(api, Options{})

	f := w.Form()
	f.ArabicName = "أ"
	f.EnglishName = "A"
	f.Subdomain = "acme"
	f.ActivityType = saas.ActivityRestaurant
	// Optional fields left blank.

	require.NoError(t, w.Advance(context.Background()))
	require.Len(t, api.tenantCalls, 1)

	nt := api.tenantCalls[0]
	assert.Equal(t, 123, nt.CommercialRecord)
	assert.Equal(t, 1, nt.NumUsers)
	assert.Equal(t, 1, nt.NumBranches)
	assert.Equal(t, "767.23", nt.SubscriptionPrice)
	assert.Equal(t, "2025-08-01", nt.StartDate)
	assert.Equal(t, "2030-01-01", nt.EndDate)
	assert.True(t, nt.ModulesEnabled.Reports)
	assert.True(t, nt.ModulesEnabled.Sellers)
}

func TestOtherActivitySubstitution(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{tenantResult: saas.Tenant{ID: 1}}
	w := NewCreate(api, Options{})

	validStage1Form(w.Form())
	w.Form().ActivityType = saas.ActivityOther

	err := w.Advance(context.Background())
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	_, ok := verrs.Field("other_activity_type")
	require.True(t, ok)

	w.Form().OtherActivityType = "bakery"
	require.NoError(t, w.Advance(context.Background()))
	require.Len(t, api.tenantCalls, 1)
	assert.Equal(t, "bakery", api.tenantCalls[0].ActivityType)
}

func TestSchemaFallsBackToTenantID(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		tenantResult: saas.Tenant{ID: 42}, // backend returned no subdomain
		clientResult: saas.ClientContact{ID: 10},
	}
	w := NewCreate(api, Options{})

	validStage1Form(w.Form())
	require.NoError(t, w.Advance(context.Background()))
	validStage2Form(w.Form())
	require.NoError(t, w.Advance(context.Background()))
	validStage3Form(w.Form())
	require.NoError(t, w.Advance(context.Background()))

	require.Len(t, api.managerCalls, 1)
	assert.Equal(t, "42", api.managerCalls[0].Schema)
}

func TestPreviousIsPureNavigation(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		tenantResult: saas.Tenant{ID: 1, Subdomain: "acme"},
	}
	w := NewCreate(api, Options{})

	assert.False(t, w.Previous(), "cannot step back from stage 1")

	validStage1Form(w.Form())
	require.NoError(t, w.Advance(context.Background()))
	require.Equal(t, StageClient, w.Stage())

	calls := len(api.tenantCalls) + len(api.clientCalls)
	assert.True(t, w.Previous())
	assert.Equal(t, StageTenant, w.Stage())
	assert.Equal(t, calls, len(api.tenantCalls)+len(api.clientCalls), "previous must not touch the network")

	// The committed tenant is not undone.
	assert.NotNil(t, w.Submitted().Tenant)
}

func TestBusyGateRejectsDoubleSubmission(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		tenantResult: saas.Tenant{ID: 1, Subdomain: "acme"},
		block:        make(chan struct{}),
	}
	w := NewCreate(api, Options{})
	validStage1Form(w.Form())

	done := make(chan error, 1)
	go func() {
		done <- w.Advance(context.Background())
	}()

	// Wait until the first submission is in flight.
	require.Eventually(t, w.Busy, 2*time.Second, time.Millisecond)

	err := w.Advance(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(api.block)
	require.NoError(t, <-done)
	assert.Len(t, api.tenantCalls, 1)
}

func TestEditModeAdvanceIsNavigationOnly(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	original := saas.Tenant{
		ID:           7,
		ArabicName:   "أ",
		EnglishName:  "A",
		Subdomain:    "acme",
		ActivityType: string(saas.ActivityCafe),
		StartDate:    "2025-01-01",
		EndDate:      "2025-12-31",
	}
	w := NewEdit(api, original, 3, Options{})

	// The client contact fields stay blank: they are never submitted in
	// edit mode and must not block navigation to the manager stage.
	require.NoError(t, w.Advance(context.Background()))
	require.Equal(t, StageClient, w.Stage())

	require.NoError(t, w.Advance(context.Background()))
	require.Equal(t, StageManager, w.Stage())

	assert.Empty(t, api.tenantCalls)
	assert.Empty(t, api.clientCalls)
	assert.Empty(t, api.managerCalls)
}

func TestEditSaveMergesOverOriginal(t *testing.T) {
	t.Parallel()

	original := saas.Tenant{
		ID:                7,
		ArabicName:        "أ",
		EnglishName:       "A",
		CommercialRecord:  555,
		ActivityType:      string(saas.ActivityCafe),
		StartDate:         "2025-01-01",
		EndDate:           "2025-12-31",
		SubscriptionPrice: "100",
		Currency:          saas.CurrencySAR,
		Subdomain:         "acme",
		NumUsers:          4,
		NumBranches:       2,
	}
	api := &fakeAPI{updateTenantResult: original}
	w := NewEdit(api, original, 3, Options{})

	// Operator edits only the english name and clears nothing else.
	w.Form().EnglishName = "Acme Trading"
	w.Form().SubscriptionPrice = ""

	require.NoError(t, w.Save(context.Background()))
	require.Len(t, api.updateTenantCalls, 1)

	ut := api.updateTenantCalls[0]
	assert.Equal(t, "Acme Trading", ut.EnglishName)
	assert.Equal(t, "أ", ut.ArabicName)
	assert.Equal(t, "100", ut.SubscriptionPrice, "blank fields fall back to the prior value")
	assert.Equal(t, 555, ut.CommercialRecord)
	assert.Equal(t, saas.CurrencySAR, ut.Currency)

	assert.Empty(t, api.updateManagerCalls, "no manager update without credentials in the form")
	assert.Equal(t, StageComplete, w.Stage())
}

func TestEditSaveWithManagerCredentials(t *testing.T) {
	t.Parallel()

	original := saas.Tenant{
		ID: 7, ArabicName: "أ", EnglishName: "A", Subdomain: "acme",
		ActivityType: string(saas.ActivityCafe),
		StartDate:    "2025-01-01", EndDate: "2025-12-31",
	}
	api := &fakeAPI{updateTenantResult: original}
	w := NewEdit(api, original, 3, Options{})

	validStage3Form(w.Form())
	require.NoError(t, w.Save(context.Background()))

	require.Len(t, api.updateManagerCalls, 1)
	call := api.updateManagerCalls[0]
	assert.Equal(t, 3, call.ID, "manager id comes from the loaded record")
	assert.Equal(t, "acme", call.Schema)
	assert.Equal(t, "mgr", call.Payload.Username)
}

func TestEditSaveManagerIDFallback(t *testing.T) {
	t.Parallel()

	original := saas.Tenant{
		ID: 7, ArabicName: "أ", EnglishName: "A", Subdomain: "acme",
		ActivityType: string(saas.ActivityCafe),
		StartDate:    "2025-01-01", EndDate: "2025-12-31",
	}
	api := &fakeAPI{updateTenantResult: original}
	w := NewEdit(api, original, 0, Options{})

	validStage3Form(w.Form())
	require.NoError(t, w.Save(context.Background()))

	require.Len(t, api.updateManagerCalls, 1)
	assert.Equal(t, 1, api.updateManagerCalls[0].ID)
}

func TestSaveRejectedInCreateMode(t *testing.T) {
	t.Parallel()

	w := NewCreate(&fakeAPI{}, Options{})
	err := w.Save(context.Background())
	assert.ErrorIs(t, err, ErrNotEditMode)
}

func TestManagerFailureHoldsStage(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		tenantResult: saas.Tenant{ID: 1, Subdomain: "acme"},
		clientResult: saas.ClientContact{ID: 10},
		managerErr:   apierr.Normalize("create_tenant_user", 500, nil),
	}
	w := NewCreate(api, Options{})

	validStage1Form(w.Form())
	require.NoError(t, w.Advance(context.Background()))
	validStage2Form(w.Form())
	require.NoError(t, w.Advance(context.Background()))
	validStage3Form(w.Form())

	err := w.Advance(context.Background())
	require.Error(t, err)
	assert.Equal(t, StageManager, w.Stage())

	// Tenant and client committed earlier are not compensated.
	assert.NotNil(t, w.Submitted().Tenant)
	assert.NotNil(t, w.Submitted().Client)
}

func TestPasswordLengthValidation(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		tenantResult: saas.Tenant{ID: 1, Subdomain: "acme"},
		clientResult: saas.ClientContact{ID: 10},
	}
	w := NewCreate(api, Options{})

	validStage1Form(w.Form())
	require.NoError(t, w.Advance(context.Background()))
	validStage2Form(w.Form())
	require.NoError(t, w.Advance(context.Background()))

	validStage3Form(w.Form())
	w.Form().ManagerPassword = "short"

	err := w.Advance(context.Background())
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	msg, ok := verrs.Field("manager_password")
	require.True(t, ok)
	assert.Equal(t, "Password must be at least 6 characters", msg.EN)
	assert.Empty(t, api.managerCalls)
}

func TestLooseEmailPattern(t *testing.T) {
	t.Parallel()

	assert.True(t, looseEmail("b@x.com"))
	assert.True(t, looseEmail("weird@localhost.localdomain"))
	assert.False(t, looseEmail("missing-at.com"))
	assert.False(t, looseEmail("missing-dot@com"))
	assert.False(t, looseEmail(""))
}

func TestStageStringer(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "tenant", StageTenant.String())
	assert.Equal(t, "client", StageClient.String())
	assert.Equal(t, "manager", StageManager.String())
	assert.Equal(t, "complete", StageComplete.String())
}

func TestRemoteErrorPassthrough(t *testing.T) {
	t.Parallel()

	remote := apierr.Normalize("create_tenant", 409, []byte(`{"message":"subdomain taken"}`))
	api := &fakeAPI{tenantErr: remote}
	w := NewCreate(api, Options{})

	validStage1Form(w.Form())
	err := w.Advance(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, remote) || errors.As(err, new(*apierr.RemoteError)))
	assert.Equal(t, StageTenant, w.Stage())
	assert.Nil(t, w.Submitted().Tenant)
}
