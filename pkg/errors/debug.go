package errors

import "errors"

// Dump captures the diagnostic view of an error chain for log enrichment.
type Dump struct {
	Code       Code
	TopMessage string
	Chain      []string
}

// DumpError walks the error chain and returns its loggable form.
func DumpError(err error) Dump {
	dump := Dump{Code: CodeInternal}
	if err == nil {
		return dump
	}

	dump.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		dump.Code = typed.Code()
	}

	for current := err; current != nil; current = errors.Unwrap(current) {
		dump.Chain = append(dump.Chain, current.Error())
	}
	return dump
}
