package models

import "fmt"

// ProviderError is returned by dispatchers when the push provider could not accept a
// notification. Details holds the provider's error payload when one was returned,
// otherwise the transport error message.
type ProviderError struct {
	Provider   string
	StatusCode int
	Details    any
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: provider responded with status %d: %v", e.Provider, e.StatusCode, e.Details)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Details)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
