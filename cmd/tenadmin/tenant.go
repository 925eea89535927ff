package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nuqta-dev/tenadmin/internal/directory"
	"github.com/nuqta-dev/tenadmin/internal/provisioning"
	"github.com/nuqta-dev/tenadmin/internal/subscription"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage tenants",
}

var (
	tenantListText   string
	tenantListStatus string
)

var tenantListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tenants with their subscription status",
	RunE: func(cmd *cobra.Command, args []string) error {
		tenants, err := client.ListTenants(cmd.Context())
		if err != nil {
			return fmt.Errorf("list tenants: %w", err)
		}

		store := directory.NewStore()
		store.Replace(tenants)
		rows := store.Filter(directory.Query{
			Text:   tenantListText,
			Status: directory.StatusFilter(tenantListStatus),
			Now:    time.Now(),
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSUBDOMAIN\tEND DATE\tSTATUS")
		for _, t := range rows {
			statusText := "-"
			if start, end, err := t.SubscriptionWindow(); err == nil {
				ev := subscription.Evaluate(time.Now(), start, end)
				statusText = subscription.DisplayText(ev, cfg.Locale)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.EnglishName, t.Subdomain, t.EndDate, statusText)
		}
		return w.Flush()
	},
}

var tenantCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Provision a new tenant interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := provisioning.NewCreate(client, provisioning.Options{
			Notifier: cliNotifier(cfg.Locale),
			Defaults: cfg.Defaults,
			Locale:   cfg.Locale,
		})
		if err := runWizard(cmd, newPrompter(), w); err != nil {
			return err
		}

		submitted := w.Submitted()
		if submitted.Tenant != nil {
			fmt.Printf("Created tenant %d (%s)\n", submitted.Tenant.ID, submitted.Tenant.SchemaKey())
		}
		return nil
	},
}

var editManagerID int

var tenantEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an existing tenant interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid tenant id %q", args[0])
		}

		tenants, err := client.ListTenants(cmd.Context())
		if err != nil {
			return fmt.Errorf("list tenants: %w", err)
		}
		store := directory.NewStore()
		store.Replace(tenants)
		tenant, ok := store.Get(id)
		if !ok {
			return fmt.Errorf("tenant %d not found", id)
		}

		w := provisioning.NewEdit(client, tenant, editManagerID, provisioning.Options{
			Notifier: cliNotifier(cfg.Locale),
			Defaults: cfg.Defaults,
			Locale:   cfg.Locale,
		})
		if err := runWizard(cmd, newPrompter(), w); err != nil {
			return err
		}
		fmt.Printf("Updated tenant %d\n", id)
		return nil
	},
}

var deleteSchema string

var tenantDeleteCmd = &cobra.Command{
	Use:   "delete <client-id>",
	Short: "Delete a client record (and its tenant schema when given)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid client id %q", args[0])
		}

		if err := client.DeleteClient(cmd.Context(), id, deleteSchema); err != nil {
			return fmt.Errorf("delete client: %w", err)
		}
		log.Info().Int("client_id", id).Str("schema", deleteSchema).Msg("Client deleted")
		fmt.Printf("Deleted client %d\n", id)
		return nil
	},
}

func init() {
	tenantListCmd.Flags().StringVar(&tenantListText, "filter", "", "free-text or wildcard filter over names and subdomain")
	tenantListCmd.Flags().StringVar(&tenantListStatus, "status", "all", "status bucket: all, active, expired")
	tenantEditCmd.Flags().IntVar(&editManagerID, "manager-id", 0, "manager account id to update alongside the tenant")
	tenantDeleteCmd.Flags().StringVar(&deleteSchema, "schema", "", "tenant schema to drop together with the client record")

	tenantCmd.AddCommand(tenantListCmd)
	tenantCmd.AddCommand(tenantCreateCmd)
	tenantCmd.AddCommand(tenantEditCmd)
	tenantCmd.AddCommand(tenantDeleteCmd)
}
