package enums

import "fmt"

// AccessRequestStatus tracks the review state of a public access request.
type AccessRequestStatus string

const (
	AccessRequestPendente AccessRequestStatus = "pendente"
	AccessRequestAprovado AccessRequestStatus = "aprovado"
	AccessRequestRecusado AccessRequestStatus = "recusado"
)

var validAccessRequestStatuses = []AccessRequestStatus{
	AccessRequestPendente,
	AccessRequestAprovado,
	AccessRequestRecusado,
}

func (s AccessRequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AccessRequestStatus.
func (s AccessRequestStatus) IsValid() bool {
	for _, candidate := range validAccessRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAccessRequestStatus converts raw input into an AccessRequestStatus.
func ParseAccessRequestStatus(value string) (AccessRequestStatus, error) {
	for _, candidate := range validAccessRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid access request status %q", value)
}
