package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nuqta-dev/tenadmin/pkg/saas"
)

var currencyCmd = &cobra.Command{
	Use:   "currency",
	Short: "Manage currency reference records",
}

var currencyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List currencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		currencies, err := client.ListCurrencies(cmd.Context())
		if err != nil {
			return fmt.Errorf("list currencies: %w", err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCODE\tNAME\tSYMBOL\tACTIVE")
		for _, c := range currencies {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", c.ID, c.Code, c.Name, c.Symbol, c.IsActive)
		}
		return w.Flush()
	},
}

var (
	currencyName   string
	currencySymbol string
	currencyActive bool
)

var currencyAddCmd = &cobra.Command{
	Use:   "add <code>",
	Short: "Create a currency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := client.CreateCurrency(cmd.Context(), saas.NewCurrency{
			Code:     args[0],
			Name:     currencyName,
			Symbol:   currencySymbol,
			IsActive: currencyActive,
		})
		if err != nil {
			return fmt.Errorf("create currency: %w", err)
		}
		fmt.Printf("Created currency %d (%s)\n", created.ID, created.Code)
		return nil
	},
}

var currencyUpdateCmd = &cobra.Command{
	Use:   "update <id> <code>",
	Short: "Update a currency",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid currency id %q", args[0])
		}
		updated, err := client.UpdateCurrency(cmd.Context(), id, saas.NewCurrency{
			Code:     args[1],
			Name:     currencyName,
			Symbol:   currencySymbol,
			IsActive: currencyActive,
		})
		if err != nil {
			return fmt.Errorf("update currency: %w", err)
		}
		fmt.Printf("Updated currency %d\n", updated.ID)
		return nil
	},
}

var currencyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a currency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid currency id %q", args[0])
		}
		if err := client.DeleteCurrency(cmd.Context(), id); err != nil {
			return fmt.Errorf("delete currency: %w", err)
		}
		fmt.Printf("Deleted currency %d\n", id)
		return nil
	},
}

var unitCmd = &cobra.Command{
	Use:   "unit",
	Short: "Manage measurement unit reference records",
}

var unitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List measurement units",
	RunE: func(cmd *cobra.Command, args []string) error {
		units, err := client.ListMeasureUnits(cmd.Context())
		if err != nil {
			return fmt.Errorf("list measure units: %w", err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tABBREVIATION\tACTIVE")
		for _, u := range units {
			fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", u.ID, u.Name, u.Abbreviation, u.IsActive)
		}
		return w.Flush()
	},
}

var (
	unitAbbreviation string
	unitActive       bool
)

var unitAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a measurement unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := client.CreateMeasureUnit(cmd.Context(), saas.NewMeasureUnit{
			Name:         args[0],
			Abbreviation: unitAbbreviation,
			IsActive:     unitActive,
		})
		if err != nil {
			return fmt.Errorf("create measure unit: %w", err)
		}
		fmt.Printf("Created unit %d (%s)\n", created.ID, created.Name)
		return nil
	},
}

var unitUpdateCmd = &cobra.Command{
	Use:   "update <id> <name>",
	Short: "Update a measurement unit",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid unit id %q", args[0])
		}
		updated, err := client.UpdateMeasureUnit(cmd.Context(), id, saas.NewMeasureUnit{
			Name:         args[1],
			Abbreviation: unitAbbreviation,
			IsActive:     unitActive,
		})
		if err != nil {
			return fmt.Errorf("update measure unit: %w", err)
		}
		fmt.Printf("Updated unit %d\n", updated.ID)
		return nil
	},
}

var unitDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a measurement unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid unit id %q", args[0])
		}
		if err := client.DeleteMeasureUnit(cmd.Context(), id); err != nil {
			return fmt.Errorf("delete measure unit: %w", err)
		}
		fmt.Printf("Deleted unit %d\n", id)
		return nil
	},
}

func init() {
	currencyAddCmd.Flags().StringVar(&currencyName, "name", "", "display name")
	currencyAddCmd.Flags().StringVar(&currencySymbol, "symbol", "", "currency symbol")
	currencyAddCmd.Flags().BoolVar(&currencyActive, "active", true, "mark the currency active")
	currencyUpdateCmd.Flags().StringVar(&currencyName, "name", "", "display name")
	currencyUpdateCmd.Flags().StringVar(&currencySymbol, "symbol", "", "currency symbol")
	currencyUpdateCmd.Flags().BoolVar(&currencyActive, "active", true, "mark the currency active")
	currencyCmd.AddCommand(currencyListCmd, currencyAddCmd, currencyUpdateCmd, currencyDeleteCmd)

	unitAddCmd.Flags().StringVar(&unitAbbreviation, "abbr", "", "abbreviation")
	unitAddCmd.Flags().BoolVar(&unitActive, "active", true, "mark the unit active")
	unitUpdateCmd.Flags().StringVar(&unitAbbreviation, "abbr", "", "abbreviation")
	unitUpdateCmd.Flags().BoolVar(&unitActive, "active", true, "mark the unit active")
	unitCmd.AddCommand(unitListCmd, unitAddCmd, unitUpdateCmd, unitDeleteCmd)
}
