package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrAddressRequired is returned by balance reads for an empty address.
	ErrAddressRequired = errors.New("address is required to fetch account balance")
	// ErrIncompleteIntent means one of from, to, amount or denom is empty.
	ErrIncompleteIntent = errors.New("transfer intent is incomplete")
	// ErrConnection wraps any failure to connect the wallet.
	ErrConnection = errors.New("wallet connection failed")
	// ErrSigningUnavailable means the wallet gave no signing client. Not retryable.
	ErrSigningUnavailable = errors.New("failed to get signing client")
	// ErrMalformedTransfer means the intent could not be turned into a bank message.
	ErrMalformedTransfer = errors.New("malformed transfer")
	// ErrUnauthorizedChain means a transfer targeted a chain other than the authorized one.
	ErrUnauthorizedChain = errors.New("chain is not authorized for transfers")
	// ErrUnknownChain is returned by the endpoint resolver.
	ErrUnknownChain = errors.New("unknown chain")
)

// FetchError is a transport failure or non-2xx response on a read.
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to fetch %s", e.Resource)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ChainRejectedError means the broadcast reached the chain and came back with a non-zero code.
type ChainRejectedError struct {
	Code   uint32
	RawLog string
}

func (e *ChainRejectedError) Error() string {
	return fmt.Sprintf("transaction failed with code %d: %s", e.Code, e.RawLog)
}

// TransportError means the broadcast never produced a response from the chain.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("broadcast transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ReasonCode is a stable machine-readable name for a failure reason.
func ReasonCode(err error) string {
	var rejected *ChainRejectedError
	var transport *TransportError
	var fetch *FetchError
	switch {
	case err == nil:
		return ""
	// wallet failures keep their cause wrapped, which may itself be a transport error
	case errors.Is(err, ErrSigningUnavailable):
		return "signing_unavailable"
	case errors.Is(err, ErrConnection):
		return "connection_error"
	case errors.As(err, &rejected):
		return "chain_rejected"
	case errors.As(err, &transport):
		return "transport_error"
	case errors.As(err, &fetch):
		return "fetch_error"
	case errors.Is(err, ErrMalformedTransfer):
		return "malformed_transfer"
	default:
		return "unknown"
	}
}
