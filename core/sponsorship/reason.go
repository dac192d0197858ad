package sponsorship

// Reason explains a Decision. It is only surfaced to logs and metrics, never to clients.
type Reason string

const (
	ReasonSponsored           Reason = "sponsored"
	ReasonChainMismatch       Reason = "chain_mismatch"
	ReasonEntryPointMismatch  Reason = "entrypoint_mismatch"
	ReasonAccountUnverified   Reason = "account_unverified"
	ReasonDecodeFailure       Reason = "decode_failure"
	ReasonUnsupportedFunction Reason = "unsupported_function"
	ReasonEmptyBatch          Reason = "empty_batch"
	ReasonBatchTooLarge       Reason = "batch_too_large"
	ReasonMagicSpendMissing   Reason = "magic_spend_missing"
	ReasonTargetNotAllowed    Reason = "target_not_allowed"
)

// Decision is the outcome of one evaluation
type Decision struct {
	Sponsor bool
	Reason  Reason
	// Target and Function describe the evaluated call when decoding got that far
	Target   string
	Function string
}

func reject(reason Reason) Decision {
	return Decision{Reason: reason}
}
