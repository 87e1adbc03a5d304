package entity

// TransferIntent is the transient form state the UI submits.
type TransferIntent struct {
	FromAddress string `json:"fromAddress"`
	ToAddress   string `json:"toAddress"`
	Amount      string `json:"amount"`
	Denom       string `json:"denom"`
	ChainID     string `json:"chainId"`
}

// Fee is attached to every broadcast. Gas is a decimal string, as wallets expect it.
type Fee struct {
	Amount []Coin `json:"amount"`
	Gas    string `json:"gas"`
}

// BroadcastResult is what the signing/broadcast primitive reports back.
type BroadcastResult struct {
	Code            uint32 `json:"code"`
	TransactionHash string `json:"transactionHash"`
	RawLog          string `json:"rawLog"`
}

// SubmissionState is a step of one submission attempt.
type SubmissionState int

const (
	StateIdle SubmissionState = iota
	StateConnecting
	StateSigning
	StateBroadcasting
	StateSucceeded
	StateFailed
)

func (s SubmissionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateSigning:
		return "signing"
	case StateBroadcasting:
		return "broadcasting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OutcomeStatus tags a TransactionOutcome.
type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeFailed    OutcomeStatus = "failed"
)

// TransactionOutcome is the terminal result of one submission attempt.
// Reason is set only for failed outcomes and is one of the error kinds in errors.go.
type TransactionOutcome struct {
	Status          OutcomeStatus `json:"status"`
	TransactionHash string        `json:"transactionHash,omitempty"`
	RawLog          string        `json:"rawLog,omitempty"`
	Reason          error         `json:"-"`
}

// Succeeded reports whether the chain accepted the transfer.
func (o TransactionOutcome) Succeeded() bool {
	return o.Status == OutcomeSucceeded
}

// NewSucceededOutcome builds the outcome for a code 0 broadcast.
func NewSucceededOutcome(hash, rawLog string) TransactionOutcome {
	return TransactionOutcome{Status: OutcomeSucceeded, TransactionHash: hash, RawLog: rawLog}
}

// NewFailedOutcome builds a failed outcome carrying reason.
func NewFailedOutcome(reason error) TransactionOutcome {
	return TransactionOutcome{Status: OutcomeFailed, Reason: reason}
}
