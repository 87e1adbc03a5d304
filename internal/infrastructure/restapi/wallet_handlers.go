package restapi

import (
	"errors"
	"net/http"

	"cca_wallet/internal/app/port"
	"cca_wallet/internal/app/querycache"
	"cca_wallet/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Error string `json:"error"`
}

// SelectionRequest is the body of PUT /selection.
type SelectionRequest struct {
	ChainID string `json:"chainId"`
}

// SelectionResponse reports the selected chain and whether it passes the gate.
type SelectionResponse struct {
	ChainID    string `json:"chainId"`
	Authorized bool   `json:"authorized"`
}

// APIOutcome is the JSON form of a TransactionOutcome.
type APIOutcome struct {
	Status          entity.OutcomeStatus `json:"status"`
	TransactionHash string               `json:"transactionHash,omitempty"`
	RawLog          string               `json:"rawLog,omitempty"`
	Reason          string               `json:"reason,omitempty"`
	Code            uint32               `json:"code,omitempty"`
	Error           string               `json:"error,omitempty"`
}

// GateFunc tells whether chainID passes the chain gate.
type GateFunc func(chainID string) bool

// WalletHandler serves the wallet data layer over HTTP.
type WalletHandler struct {
	selection port.ChainSelection
	chains    port.ChainDefinitionProvider
	directory port.AddressDirectory
	balances  port.BalanceCache
	submitter port.TransactionSubmitter
	gate      GateFunc
	logger    port.Logger
}

// NewWalletHandler creates a new instance of WalletHandler.
func NewWalletHandler(
	selection port.ChainSelection,
	chains port.ChainDefinitionProvider,
	directory port.AddressDirectory,
	balances port.BalanceCache,
	submitter port.TransactionSubmitter,
	gate GateFunc,
	logger port.Logger,
) *WalletHandler {
	return &WalletHandler{
		selection: selection,
		chains:    chains,
		directory: directory,
		balances:  balances,
		submitter: submitter,
		gate:      gate,
		logger:    logger,
	}
}

// GetSelectionHandler returns the selected chain.
func (h *WalletHandler) GetSelectionHandler(c *gin.Context) {
	chainID := h.selection.Current()
	c.JSON(http.StatusOK, SelectionResponse{ChainID: chainID, Authorized: h.gate(chainID)})
}

// PutSelectionHandler changes the selected chain.
func (h *WalletHandler) PutSelectionHandler(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ChainID == "" {
		c.JSON(http.StatusBadRequest, APIError{Error: "chainId is required"})
		return
	}
	h.selection.Select(req.ChainID)
	c.JSON(http.StatusOK, SelectionResponse{ChainID: req.ChainID, Authorized: h.gate(req.ChainID)})
}

// ListChainsHandler returns every known chain definition.
func (h *WalletHandler) ListChainsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"chains": h.chains.GetAllChainDefinitions()})
}

// GetAddressesHandler returns the address directory of a chain.
func (h *WalletHandler) GetAddressesHandler(c *gin.Context) {
	chainID := c.Param("chainId")
	entry, err := h.directory.GetAddresses(c.Request.Context(), chainID)
	if err != nil {
		h.writeReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// InvalidateAddressesHandler drops the cached directory of a chain.
func (h *WalletHandler) InvalidateAddressesHandler(c *gin.Context) {
	h.directory.Invalidate(c.Param("chainId"))
	c.Status(http.StatusNoContent)
}

// GetBalanceHandler returns the balances of one address.
func (h *WalletHandler) GetBalanceHandler(c *gin.Context) {
	entry, err := h.balances.GetBalance(c.Request.Context(), c.Param("address"), c.Param("chainId"))
	if err != nil {
		h.writeReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// RefreshBalanceHandler rereads the balances of one address.
func (h *WalletHandler) RefreshBalanceHandler(c *gin.Context) {
	entry, err := h.balances.Refetch(c.Request.Context(), c.Param("address"), c.Param("chainId"))
	if err != nil {
		h.writeReadError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// SubmitTransferHandler submits a transfer on the chain in the path.
func (h *WalletHandler) SubmitTransferHandler(c *gin.Context) {
	var intent entity.TransferIntent
	if err := c.ShouldBindJSON(&intent); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid transfer body: " + err.Error()})
		return
	}
	intent.ChainID = c.Param("chainId")

	outcome, err := h.submitter.Submit(c.Request.Context(), intent)
	if err != nil {
		if errors.Is(err, entity.ErrIncompleteIntent) {
			c.JSON(http.StatusUnprocessableEntity, APIError{Error: err.Error()})
			return
		}
		if errors.Is(err, entity.ErrUnauthorizedChain) {
			c.JSON(http.StatusForbidden, APIError{Error: err.Error()})
			return
		}
		h.logger.Error("Transfer submission failed unexpectedly", "chain_id", intent.ChainID, "error", err)
		c.JSON(http.StatusInternalServerError, APIError{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toAPIOutcome(outcome))
}

func toAPIOutcome(o entity.TransactionOutcome) APIOutcome {
	out := APIOutcome{
		Status:          o.Status,
		TransactionHash: o.TransactionHash,
		RawLog:          o.RawLog,
	}
	if o.Reason != nil {
		out.Reason = entity.ReasonCode(o.Reason)
		out.Error = o.Reason.Error()
		var rejected *entity.ChainRejectedError
		if errors.As(o.Reason, &rejected) {
			out.Code = rejected.Code
			out.RawLog = rejected.RawLog
		}
	}
	return out
}

func (h *WalletHandler) writeReadError(c *gin.Context, err error) {
	var fetchErr *entity.FetchError
	switch {
	case errors.Is(err, entity.ErrAddressRequired):
		c.JSON(http.StatusBadRequest, APIError{Error: err.Error()})
	case querycache.IsCancelled(err):
		c.JSON(http.StatusServiceUnavailable, APIError{Error: "request cancelled"})
	case errors.As(err, &fetchErr):
		c.JSON(http.StatusBadGateway, APIError{Error: err.Error()})
	default:
		h.logger.Error("Unexpected read failure", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, APIError{Error: err.Error()})
	}
}
