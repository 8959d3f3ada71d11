package derive

import "errors"

// Precondition violations. Callers must treat these as fatal for the run.
var (
	ErrUnknownQuoter         = errors.New("unknown quoter type")
	ErrMissingQuoterField    = errors.New("missing quoter field")
	ErrOracleIndexUnresolved = errors.New("oracle index unresolved")
	ErrZeroDerivativeSupply  = errors.New("zero derivative supply with non-zero funds")
	ErrMissingDecimals       = errors.New("missing coin decimals")
	ErrInconsistentBankFunds = errors.New("available funds exceed total funds")
)
