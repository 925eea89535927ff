// Package provisioning implements the three-stage tenant provisioning
// workflow as an explicit state machine: current stage, accumulated
// cross-stage data, and per-stage validation, independent of any UI layer.
//
// Create mode commits each stage to the backend as it advances. A stage
// failure holds position and is retried by the operator; records committed
// by earlier stages are never rolled back (forward-only, no compensating
// transaction). Edit mode navigates freely and commits only on Save.
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/nuqta-dev/tenadmin/internal/apierr"
	"github.com/nuqta-dev/tenadmin/internal/config"
	"github.com/nuqta-dev/tenadmin/internal/i18n"
	"github.com/nuqta-dev/tenadmin/internal/notify"
	"github.com/nuqta-dev/tenadmin/pkg/saas"
)

// Mode selects between creating a new tenant and editing an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Stage is the workflow position. Stages only move one step at a time;
// there is no way to reach StageManager without passing the first two.
type Stage int

const (
	StageTenant Stage = iota + 1
	StageClient
	StageManager
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageTenant:
		return "tenant"
	case StageClient:
		return "client"
	case StageManager:
		return "manager"
	case StageComplete:
		return "complete"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

var (
	// ErrBusy is returned while a stage submission is in flight. The UI
	// disables the submit control on it; there is no request cancellation.
	ErrBusy = errors.New("provisioning: a submission is already in flight")

	// ErrComplete is returned once the workflow has finished.
	ErrComplete = errors.New("provisioning: workflow is complete")

	// ErrNotEditMode is returned when Save is called on a create workflow.
	ErrNotEditMode = errors.New("provisioning: save is only valid in edit mode")
)

// API is the subset of the SaaS client the workflow depends on.
type API interface {
	CreateTenant(ctx context.Context, nt saas.NewTenant) (saas.Tenant, error)
	UpdateTenant(ctx context.Context, id int, ut saas.UpdateTenant) (saas.Tenant, error)
	CreateClient(ctx context.Context, nc saas.NewClientContact) (saas.ClientContact, error)
	CreateTenantUser(ctx context.Context, nm saas.NewManager) (saas.Manager, error)
	UpdateManager(ctx context.Context, id int, schema string, um saas.UpdateManager) error
}

// Submitted accumulates the records committed by earlier stages. Stage 3's
// schema parameter is causally dependent on Stage 1's response.
type Submitted struct {
	Tenant *saas.Tenant
	Client *saas.ClientContact
}

// Options configures a workflow.
type Options struct {
	Notifier   notify.Notifier
	Defaults   config.Defaults
	Locale     i18n.Locale
	OnComplete func()
}

// Workflow is the provisioning state machine.
type Workflow struct {
	api        API
	notifier   notify.Notifier
	defaults   config.Defaults
	onComplete func()

	mu        sync.Mutex
	mode      Mode
	stage     Stage
	form      Form
	original  *saas.Tenant
	managerID int
	submitted Submitted
	busy      bool
}

// NewCreate starts a create-mode workflow at Stage 1.
func NewCreate(api API, opts Options) *Workflow {
	return newWorkflow(api, ModeCreate, opts)
}

// NewEdit starts an edit-mode workflow over the loaded tenant record.
// managerID is the id of the tenant's existing manager account, zero when
// unknown.
func NewEdit(api API, tenant saas.Tenant, managerID int, opts Options) *Workflow {
	w := newWorkflow(api, ModeEdit, opts)
	w.original = &tenant
	w.managerID = managerID
	w.form = formFromTenant(tenant)
	return w
}

func newWorkflow(api API, mode Mode, opts Options) *Workflow {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard
	}
	defaults := opts.Defaults
	if defaults == (config.Defaults{}) {
		defaults = config.StandardDefaults()
	}
	return &Workflow{
		api:        api,
		notifier:   notifier,
		defaults:   defaults,
		onComplete: opts.OnComplete,
		mode:       mode,
		stage:      StageTenant,
	}
}

// Form returns the mutable form. Callers edit it between advances; the
// workflow itself only reads it while a submission is in flight.
func (w *Workflow) Form() *Form { return &w.form }

// Stage returns the current position.
func (w *Workflow) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Mode returns the workflow mode.
func (w *Workflow) Mode() Mode { return w.mode }

// Busy reports whether a submission is in flight.
func (w *Workflow) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

// Submitted returns the records committed so far.
func (w *Workflow) Submitted() Submitted {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitted
}

// Previous steps back one stage. It never triggers a network call and never
// undoes records already committed by earlier stages.
func (w *Workflow) Previous() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return false
	}
	if w.stage > StageTenant && w.stage < StageComplete {
		w.stage--
		return true
	}
	return false
}

// Advance validates the current stage and moves forward. In create mode the
// stage's payload is committed to the backend first; a rejection holds the
// stage and surfaces the error for retry. In edit mode advancing is pure
// navigation until the final stage, where it delegates to Save.
func (w *Workflow) Advance(ctx context.Context) error {
	stage, err := w.beginSubmission()
	if err != nil {
		return err
	}
	defer w.endSubmission()

	switch stage {
	case StageTenant:
		return w.advanceTenant(ctx)
	case StageClient:
		return w.advanceClient(ctx)
	case StageManager:
		if w.mode == ModeEdit {
			return w.saveEdit(ctx)
		}
		return w.advanceManager(ctx)
	default:
		return ErrComplete
	}
}

// Save is the edit-mode terminal submit, valid regardless of the stage the
// UI is currently showing.
func (w *Workflow) Save(ctx context.Context) error {
	if w.mode != ModeEdit {
		return ErrNotEditMode
	}
	if _, err := w.beginSubmission(); err != nil {
		return err
	}
	defer w.endSubmission()

	return w.saveEdit(ctx)
}

func (w *Workflow) beginSubmission() (Stage, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return 0, ErrBusy
	}
	if w.stage == StageComplete {
		return 0, ErrComplete
	}
	w.busy = true
	return w.stage, nil
}

func (w *Workflow) endSubmission() {
	w.mu.Lock()
	w.busy = false
	w.mu.Unlock()
}

func (w *Workflow) advanceTenant(ctx context.Context) error {
	if w.mode == ModeEdit {
		// Navigation only; saveEdit validates before submitting.
		w.setStage(StageClient)
		return nil
	}

	if errs := w.form.validateStage1(); len(errs) > 0 {
		return errs
	}

	tenant, err := w.api.CreateTenant(ctx, w.form.tenantPayload(w.defaults))
	if err != nil {
		w.notifyRemote(msgTenantCreateFailed, err)
		return err
	}
	log.Info().Int("tenant_id", tenant.ID).Str("subdomain", tenant.Subdomain).Msg("Tenant created")

	w.mu.Lock()
	w.submitted.Tenant = &tenant
	w.mu.Unlock()

	w.setStage(StageClient)
	return nil
}

func (w *Workflow) advanceClient(ctx context.Context) error {
	if w.mode == ModeEdit {
		// Navigation only; the client payload is never submitted in edit
		// mode, so its fields are not validated here either.
		w.setStage(StageManager)
		return nil
	}

	if errs := w.form.validateStage2(); len(errs) > 0 {
		return errs
	}

	tenant := w.Submitted().Tenant
	contact, err := w.api.CreateClient(ctx, w.form.clientPayload(tenant.ID))
	if err != nil {
		w.notifyRemote(msgClientCreateFailed, err)
		return err
	}
	log.Info().Int("client_id", contact.ID).Int("tenant_id", tenant.ID).Msg("Client contact created")

	w.mu.Lock()
	w.submitted.Client = &contact
	w.mu.Unlock()

	w.setStage(StageManager)
	return nil
}

func (w *Workflow) advanceManager(ctx context.Context) error {
	if errs := w.form.validateStage3(); len(errs) > 0 {
		return errs
	}

	tenant := w.Submitted().Tenant
	if _, err := w.api.CreateTenantUser(ctx, w.form.managerPayload(tenant.SchemaKey())); err != nil {
		w.notifyRemote(msgManagerCreateFailed, err)
		return err
	}
	log.Info().Str("schema", tenant.SchemaKey()).Msg("Manager account created")

	w.finish(msgWorkflowComplete)
	return nil
}

func (w *Workflow) saveEdit(ctx context.Context) error {
	if errs := w.form.validateStage1(); len(errs) > 0 {
		return errs
	}
	submitManager := w.form.hasManagerCredentials()
	if submitManager {
		if errs := w.form.validateStage3(); len(errs) > 0 {
			return errs
		}
	}

	tenant, err := w.api.UpdateTenant(ctx, w.original.ID, mergeTenant(*w.original, w.form))
	if err != nil {
		w.notifyRemote(msgTenantUpdateFailed, err)
		return err
	}
	if tenant.ID == 0 {
		tenant = *w.original
	}

	if submitManager {
		managerID := w.managerID
		if managerID == 0 {
			// The loaded client record carried no manager id; the update
			// targets the configured fallback account.
			managerID = w.defaults.ManagerID
			log.Warn().Int("manager_id", managerID).Msg("Manager id missing from loaded record; using configured fallback")
		}
		um := saas.UpdateManager{
			Username: w.form.ManagerUsername,
			Email:    w.form.ManagerEmail,
			Password: w.form.ManagerPassword,
			Role:     w.form.ManagerRole,
		}
		if err := w.api.UpdateManager(ctx, managerID, tenant.SchemaKey(), um); err != nil {
			w.notifyRemote(msgManagerUpdateFailed, err)
			return err
		}
	}

	w.finish(msgTenantSaved)
	return nil
}

func (w *Workflow) setStage(stage Stage) {
	w.mu.Lock()
	w.stage = stage
	w.mu.Unlock()
}

func (w *Workflow) finish(message i18n.Message) {
	w.setStage(StageComplete)
	w.notifier.Notify(notify.Notification{Level: notify.LevelSuccess, Message: message})
	if w.onComplete != nil {
		w.onComplete()
	}
}

func (w *Workflow) notifyRemote(base i18n.Message, err error) {
	msg := base
	var remote *apierr.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		msg.EN = fmt.Sprintf("%s: %s", base.EN, remote.Message)
		msg.AR = fmt.Sprintf("%s: %s", base.AR, remote.Message)
	}
	w.notifier.Notify(notify.Notification{Level: notify.LevelError, Message: msg})
}
