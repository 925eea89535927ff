package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nuqta-dev/tenadmin/internal/branches"
)

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Manage locally tracked tenant branches",
}

func openBranchStore() (*branches.Store, error) {
	store, err := branches.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open branch database: %w", err)
	}
	return store, nil
}

var branchListCmd = &cobra.Command{
	Use:   "list <tenant-id>",
	Short: "List branches tracked for a tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tenantID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid tenant id %q", args[0])
		}
		store, err := openBranchStore()
		if err != nil {
			return err
		}
		defer store.Close()

		list, err := store.ListByTenant(cmd.Context(), tenantID)
		if err != nil {
			return fmt.Errorf("list branches: %w", err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLOCATION\tUPDATED")
		for _, b := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.EnglishName, b.EnglishLocation, b.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var (
	branchArabicName      string
	branchArabicLocation  string
	branchEnglishLocation string
)

var branchAddCmd = &cobra.Command{
	Use:   "add <tenant-id> <english-name>",
	Short: "Track a new branch for a tenant",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tenantID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid tenant id %q", args[0])
		}
		store, err := openBranchStore()
		if err != nil {
			return err
		}
		defer store.Close()

		created, err := store.Create(cmd.Context(), branches.Branch{
			TenantID:        tenantID,
			ArabicName:      branchArabicName,
			EnglishName:     args[1],
			ArabicLocation:  branchArabicLocation,
			EnglishLocation: branchEnglishLocation,
		})
		if err != nil {
			return fmt.Errorf("create branch: %w", err)
		}
		fmt.Printf("Created branch %s\n", created.ID)
		return nil
	},
}

var branchRemoveCmd = &cobra.Command{
	Use:   "remove <branch-id>",
	Short: "Stop tracking a branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openBranchStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete branch: %w", err)
		}
		fmt.Printf("Removed branch %s\n", args[0])
		return nil
	},
}

func init() {
	branchAddCmd.Flags().StringVar(&branchArabicName, "arabic-name", "", "branch name in Arabic")
	branchAddCmd.Flags().StringVar(&branchArabicLocation, "arabic-location", "", "branch location in Arabic")
	branchAddCmd.Flags().StringVar(&branchEnglishLocation, "location", "", "branch location in English")
	branchCmd.AddCommand(branchListCmd, branchAddCmd, branchRemoveCmd)
}
