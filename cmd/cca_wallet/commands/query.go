package commands

import (
	"github.com/spf13/cobra"
)

// addresses: print the address directory of the selected chain.
func addressesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addresses",
		Short: "List the account addresses of the selected chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := appCtx.directory.GetAddresses(cmd.Context(), appCtx.selector.Current())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entry)
		},
	}
}

// balance <address>: print the balances of one address.
func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "Show the balances of an address on the selected chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := appCtx.balances.GetBalance(cmd.Context(), args[0], appCtx.selector.Current())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entry)
		},
	}
}
