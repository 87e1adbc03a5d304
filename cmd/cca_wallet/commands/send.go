package commands

import (
	"fmt"

	"cca_wallet/internal/domain/entity"

	"github.com/spf13/cobra"
)

// send: submit one bank transfer through the wallet bridge.
func sendCmd() *cobra.Command {
	var intent entity.TransferIntent
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Sign and broadcast a transfer on the selected chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			intent.ChainID = appCtx.selector.Current()
			outcome, err := appCtx.transactions.Submit(cmd.Context(), intent)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), outcome); err != nil {
				return err
			}
			if !outcome.Succeeded() {
				return fmt.Errorf("transfer failed (%s): %w", entity.ReasonCode(outcome.Reason), outcome.Reason)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&intent.FromAddress, "from", "", "sender address")
	cmd.Flags().StringVar(&intent.ToAddress, "to", "", "recipient address")
	cmd.Flags().StringVar(&intent.Amount, "amount", "", "integer amount in base units")
	cmd.Flags().StringVar(&intent.Denom, "denom", "", "denom to send")
	for _, name := range []string{"from", "to", "amount", "denom"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
