package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cca_wallet/internal/domain/entity"

	sdk "github.com/cosmos/cosmos-sdk/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	connectPath         = "/v1/connect"
	signAndBroadcastURL = "/v1/sign-and-broadcast"
)

type connectRequest struct {
	ChainID string `json:"chainId"`
}

type connectResponse struct {
	Connected bool   `json:"connected"`
	Address   string `json:"address,omitempty"`
}

// encodedMsg is the amino-style {typeUrl, value} pair wallets accept.
type encodedMsg struct {
	TypeURL string  `json:"typeUrl"`
	Value   sdk.Msg `json:"value"`
}

type signAndBroadcastRequest struct {
	ChainID  string       `json:"chainId"`
	Signer   string       `json:"signer"`
	Messages []encodedMsg `json:"messages"`
	Fee      entity.Fee   `json:"fee"`
}

// WalletBridge talks to an external wallet process that holds the keys and
// performs signing and broadcasting on request.
type WalletBridge struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewWalletBridge creates a new instance of WalletBridge.
func NewWalletBridge(baseURL string, timeout time.Duration, logger *zap.Logger) *WalletBridge {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &WalletBridge{
		client:  &fasthttp.Client{Name: "cca_wallet"},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("WalletBridge"),
	}
}

// Connect asks the wallet to connect to chainID.
func (b *WalletBridge) Connect(ctx context.Context, chainID string) error {
	var resp connectResponse
	if err := b.post(ctx, connectPath, connectRequest{ChainID: chainID}, &resp); err != nil {
		return err
	}
	if !resp.Connected {
		return fmt.Errorf("wallet declined connection to %s", chainID)
	}
	b.logger.Info("Wallet connected", zap.String("chainId", chainID), zap.String("address", resp.Address))
	return nil
}

// SignAndBroadcast hands msgs to the wallet. Any failure to obtain a response
// is a TransportError.
func (b *WalletBridge) SignAndBroadcast(ctx context.Context, chainID, signer string, msgs []sdk.Msg, fee entity.Fee) (*entity.BroadcastResult, error) {
	req := signAndBroadcastRequest{
		ChainID:  chainID,
		Signer:   signer,
		Messages: make([]encodedMsg, 0, len(msgs)),
		Fee:      fee,
	}
	for _, msg := range msgs {
		req.Messages = append(req.Messages, encodedMsg{TypeURL: sdk.MsgTypeURL(msg), Value: msg})
	}

	var res entity.BroadcastResult
	if err := b.post(ctx, signAndBroadcastURL, req, &res); err != nil {
		return nil, &entity.TransportError{Err: err}
	}
	b.logger.Debug("Broadcast result received",
		zap.String("chainId", chainID),
		zap.Uint32("code", res.Code),
		zap.String("txHash", res.TransactionHash))
	return &res, nil
}

type result struct {
	status int
	body   []byte
	err    error
}

func (b *WalletBridge) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request for %s: %w", path, err)
	}
	requestURL := b.baseURL + path

	deadline := time.Now().Add(b.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	done := make(chan result, 1)
	go func() {
		req := fasthttp.AcquireRequest()
		defer fasthttp.ReleaseRequest(req)
		req.SetRequestURI(requestURL)
		req.Header.SetMethod(fasthttp.MethodPost)
		req.Header.SetContentType("application/json")
		req.SetBody(payload)

		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseResponse(resp)

		err := b.client.DoDeadline(req, resp, deadline)
		done <- result{status: resp.StatusCode(), body: append([]byte(nil), resp.Body()...), err: err}
	}()

	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if r.err != nil {
		b.logger.Error("Wallet bridge request failed", zap.String("url", requestURL), zap.Error(r.err))
		return fmt.Errorf("failed to execute request to %s: %w", requestURL, r.err)
	}
	if r.status < 200 || r.status >= 300 {
		b.logger.Error("Wallet bridge returned an error status",
			zap.String("url", requestURL),
			zap.Int("statusCode", r.status),
			zap.ByteString("responseBody", r.body))
		return fmt.Errorf("wallet bridge %s failed with status %d: %s", path, r.status, strings.TrimSpace(string(r.body)))
	}
	if err := json.Unmarshal(r.body, out); err != nil {
		return fmt.Errorf("failed to unmarshal wallet bridge response from %s: %w", requestURL, err)
	}
	return nil
}
