package commands

import (
	"fmt"
	"io"

	"cca_wallet/internal/infrastructure/configloader"
	"cca_wallet/internal/pkg/logger"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	configPath  string
	chainID     string
	development bool
	appCtx      *application
)

func Execute() error {
	root := &cobra.Command{
		Use:           "cca_wallet",
		Short:         "Wallet data layer for the cca chain",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configloader.Load(configloader.ResolvePath(configPath))
			if err != nil {
				return err
			}
			if chainID != "" {
				cfg.SelectedChain = chainID
			}

			zl, err := logger.NewZap(cfg.Logging.Level, development || cfg.Logging.Level == "debug")
			if err != nil {
				return fmt.Errorf("failed to initialize zap logger: %w", err)
			}
			logger.BridgeZap(zl, cfg.Logging.Level)

			appCtx = newApplication(cfg, zl)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appCtx != nil {
				_ = appCtx.zap.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $"+configloader.PathEnvVar+" or "+configloader.DefaultPath+")")
	root.PersistentFlags().StringVar(&chainID, "chain", "", "chain id to operate on (overrides selectedChain)")
	root.PersistentFlags().BoolVar(&development, "dev", false, "human readable development logging")

	root.AddCommand(serveCmd(), addressesCmd(), balanceCmd(), sendCmd())
	return root.Execute()
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
