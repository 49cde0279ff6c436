package wallet

import "fmt"

// ProvisioningError is returned when the wallet service fails or returns an
// incomplete wallet.
type ProvisioningError struct {
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *ProvisioningError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to create wallet: %d - %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to create wallet: %v", e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// FundingError is returned when the funding transfer cannot be submitted or
// confirmed. Signature is set when the transfer was submitted but not
// confirmed.
type FundingError struct {
	Signature string
	Err       error
}

func (e *FundingError) Error() string {
	return fmt.Sprintf("failed to fund wallet: %v", e.Err)
}

func (e *FundingError) Unwrap() error { return e.Err }
