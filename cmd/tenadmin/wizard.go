package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nuqta-dev/tenadmin/internal/i18n"
	"github.com/nuqta-dev/tenadmin/internal/notify"
	"github.com/nuqta-dev/tenadmin/internal/provisioning"
	"github.com/nuqta-dev/tenadmin/pkg/saas"
)

// prompter reads wizard input line by line from stdin.
type prompter struct {
	reader *bufio.Reader
}

func newPrompter() *prompter {
	return &prompter{reader: bufio.NewReader(os.Stdin)}
}

// line prompts for a value; an empty answer keeps the current one.
func (p *prompter) line(label, current string) string {
	if current != "" {
		fmt.Fprintf(os.Stderr, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(os.Stderr, "%s: ", label)
	}
	answer, err := p.reader.ReadString('\n')
	if err != nil {
		return current
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return current
	}
	return answer
}

func (p *prompter) boolean(label string, current bool) bool {
	hint := "y/N"
	if current {
		hint = "Y/n"
	}
	fmt.Fprintf(os.Stderr, "%s [%s]: ", label, hint)
	answer, err := p.reader.ReadString('\n')
	if err != nil {
		return current
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return current
	}
}

// cliNotifier prints workflow notifications to stderr in the configured
// locale.
func cliNotifier(locale i18n.Locale) notify.Notifier {
	return notify.Func(func(n notify.Notification) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Level, n.Message.In(locale))
	})
}

// runWizard drives a provisioning workflow stage by stage. Validation errors
// re-prompt the same stage; remote failures hold the stage and offer a retry
// that never re-invokes already-completed stages.
func runWizard(cmd *cobra.Command, p *prompter, w *provisioning.Workflow) error {
	for w.Stage() != provisioning.StageComplete {
		form := w.Form()
		switch w.Stage() {
		case provisioning.StageTenant:
			promptStageTenant(p, form)
		case provisioning.StageClient:
			promptStageClient(p, form)
		case provisioning.StageManager:
			promptStageManager(p, form, w.Mode())
		}

		if err := w.Advance(cmd.Context()); err != nil {
			var verrs provisioning.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message.In(cfg.Locale))
				}
				continue
			}
			fmt.Fprintf(os.Stderr, "Submission failed: %v\n", err)
			if !p.boolean("Retry", true) {
				return err
			}
		}
	}
	return nil
}

func promptStageTenant(p *prompter, f *provisioning.Form) {
	fmt.Fprintln(os.Stderr, "-- Tenant --")
	f.ArabicName = p.line("Arabic name", f.ArabicName)
	f.EnglishName = p.line("English name", f.EnglishName)
	f.Subdomain = p.line("Subdomain", f.Subdomain)
	f.CommercialRecord = p.line("Commercial record (blank for default)", f.CommercialRecord)
	f.ActivityType = saas.ActivityType(p.line("Activity type (cafe/restaurant/catering/other)", string(f.ActivityType)))
	if f.ActivityType == saas.ActivityOther {
		f.OtherActivityType = p.line("Other activity", f.OtherActivityType)
	}
	f.StartDate = p.line("Start date (YYYY-MM-DD, blank for default)", f.StartDate)
	f.EndDate = p.line("End date (YYYY-MM-DD, blank for default)", f.EndDate)
	f.SubscriptionPrice = p.line("Subscription price (blank for default)", f.SubscriptionPrice)
	f.Currency = saas.CurrencyCode(p.line("Currency (SAR/USD/EUR)", string(f.Currency)))
	f.OnTrial = p.boolean("On trial", f.OnTrial)
	f.IsActive = p.boolean("Active", f.IsActive)
	f.Kitchen = p.boolean("Kitchen module", f.Kitchen)
	f.Delivery = p.boolean("Delivery module", f.Delivery)
	f.NumUsers = p.line("User capacity (blank for default)", f.NumUsers)
	f.NumBranches = p.line("Branch capacity (blank for default)", f.NumBranches)
}

func promptStageClient(p *prompter, f *provisioning.Form) {
	fmt.Fprintln(os.Stderr, "-- Client contact --")
	f.ClientArabicName = p.line("Client Arabic name", f.ClientArabicName)
	f.ClientEnglishName = p.line("Client English name", f.ClientEnglishName)
	f.ClientEmail = p.line("Client email", f.ClientEmail)
	f.ClientPhone = p.line("Client phone", f.ClientPhone)
}

func promptStageManager(p *prompter, f *provisioning.Form, mode provisioning.Mode) {
	if mode == provisioning.ModeEdit {
		fmt.Fprintln(os.Stderr, "-- Manager access (leave blank to keep unchanged) --")
	} else {
		fmt.Fprintln(os.Stderr, "-- Manager access --")
	}
	f.ManagerUsername = p.line("Manager username", f.ManagerUsername)
	f.ManagerEmail = p.line("Manager email", f.ManagerEmail)
	if password, err := readPassword("Manager password: "); err == nil && password != "" {
		f.ManagerPassword = password
	}
	f.ManagerRole = saas.ManagerRole(p.line("Role (manager/admin/user)", string(f.ManagerRole)))
}
