// Package chaingate restricts chain reads and transfers to the one chain this
// dapp is authorized to operate against.
package chaingate

// AuthorizedChainID is the only chain this core operates on.
const AuthorizedChainID = "cca"

// Result is the outcome of a gate check.
type Result struct {
	Authorized bool
}

// Check reports whether chainID is the authorized chain. It has no side effects.
func Check(chainID string) Result {
	return Result{Authorized: chainID == AuthorizedChainID}
}
