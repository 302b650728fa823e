package enums

import "fmt"

// AppointmentStatus tracks the lifecycle of an appointment. The transition
// model is deliberately permissive: any valid status may move to any other
// valid status via explicit user action.
type AppointmentStatus string

const (
	AppointmentPendente   AppointmentStatus = "pendente"
	AppointmentConfirmado AppointmentStatus = "confirmado"
	AppointmentConcluido  AppointmentStatus = "concluido"
	AppointmentCancelado  AppointmentStatus = "cancelado"
)

var validAppointmentStatuses = []AppointmentStatus{
	AppointmentPendente,
	AppointmentConfirmado,
	AppointmentConcluido,
	AppointmentCancelado,
}

func (s AppointmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AppointmentStatus.
func (s AppointmentStatus) IsValid() bool {
	for _, candidate := range validAppointmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the status change is allowed. Every pair of
// valid statuses is permitted, including moves back to pendente.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	return s.IsValid() && next.IsValid()
}

// ParseAppointmentStatus converts raw input into an AppointmentStatus.
func ParseAppointmentStatus(value string) (AppointmentStatus, error) {
	for _, candidate := range validAppointmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid appointment status %q", value)
}
