package chainrest

import jsoniter "github.com/json-iterator/go"

// accountsResponse is the body of GET /cosmos/auth/v1beta1/accounts. Entries
// are kept raw because account types differ in shape.
type accountsResponse struct {
	Accounts   []jsoniter.RawMessage `json:"accounts"`
	Pagination *pageResponse         `json:"pagination,omitempty"`
}

type accountEntry struct {
	Type    string `json:"@type"`
	Address string `json:"address"`
}

// balancesResponse is the body of GET /cosmos/bank/v1beta1/balances/{address}.
type balancesResponse struct {
	Balances   []coinJSON    `json:"balances"`
	Pagination *pageResponse `json:"pagination,omitempty"`
}

type coinJSON struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

type pageResponse struct {
	NextKey *string `json:"next_key"`
	Total   string  `json:"total"`
}

// errorResponse is the gRPC-gateway error body.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
