package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Inspect the account store",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored accounts without passwords",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		accounts, err := a.service.ListAccounts(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tIDENTIFIER\tNAME\tROLE")
		for _, account := range accounts {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", account.ID, account.Identifier(), account.FullName, account.Role)
		}
		return w.Flush()
	},
}

func init() {
	accountsCmd.AddCommand(accountsListCmd)
	rootCmd.AddCommand(accountsCmd)
}
