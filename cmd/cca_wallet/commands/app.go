package commands

import (
	"time"

	"cca_wallet/internal/app/chaingate"
	"cca_wallet/internal/app/provider"
	"cca_wallet/internal/app/service"
	"cca_wallet/internal/domain/entity"
	"cca_wallet/internal/infrastructure/chainrest"
	"cca_wallet/internal/infrastructure/configloader"
	walletclient "cca_wallet/internal/infrastructure/network/client"
	networkdefinition "cca_wallet/internal/infrastructure/network/definition"
	"cca_wallet/internal/pkg/logger"

	"go.uber.org/zap"
)

// application holds the wired services shared by every command.
type application struct {
	cfg          *configloader.Config
	zap          *zap.Logger
	chains       *networkdefinition.ChainDefinitionProvider
	selector     *provider.ChainSelector
	directory    *service.AddressDirectoryService
	balances     *service.BalanceService
	transactions *service.TransactionService
}

func newApplication(cfg *configloader.Config, zl *zap.Logger) *application {
	chains := networkdefinition.NewChainDefinitionProvider(logger.NewComponentAdapter("chains"), cfg.Chains)

	restClient := chainrest.NewClient(chainrest.Options{
		Timeout:    time.Duration(cfg.RestClient.RequestTimeoutMillis) * time.Millisecond,
		RateLimit:  cfg.RestClient.RateLimit,
		BurstLimit: cfg.RestClient.BurstLimit,
	}, zl)

	directory := service.NewAddressDirectoryService(chains, restClient, logger.NewComponentAdapter("addresses"))
	balances := service.NewBalanceService(chains, restClient, logger.NewComponentAdapter("balances"))

	bridge := walletclient.NewWalletBridge(
		cfg.WalletBridge.BaseURL,
		time.Duration(cfg.WalletBridge.RequestTimeoutMillis)*time.Millisecond,
		zl,
	)
	wallet := walletclient.NewWalletConnector(bridge, logger.NewComponentAdapter("wallet"))

	txLogger := logger.NewComponentAdapter("transactions")
	transactions := service.NewTransactionService(wallet, balances, txLogger,
		service.WithFeePolicy(service.FeePolicy{
			Amount:   cfg.Transaction.FeeAmount,
			GasLimit: cfg.Transaction.GasLimit,
		}),
		service.WithStateObserver(func(attempt uint64, from, to entity.SubmissionState) {
			txLogger.Debug("Submission state changed", "attempt", attempt, "from", from.String(), "to", to.String())
		}),
	)

	selector := provider.NewChainSelector(cfg.SelectedChain, logger.NewComponentAdapter("selection"))
	selector.OnSwitch(func(prev, _ string) {
		directory.CancelAll()
		balances.CancelAll()
		directory.Invalidate(prev)
	})

	if !chaingate.Check(selector.Current()).Authorized {
		logger.Warn("Selected chain is not authorized, reads will report invalidChain",
			"chain_id", selector.Current(), "authorized", chaingate.AuthorizedChainID)
	}

	return &application{
		cfg:          cfg,
		zap:          zl,
		chains:       chains,
		selector:     selector,
		directory:    directory,
		balances:     balances,
		transactions: transactions,
	}
}
