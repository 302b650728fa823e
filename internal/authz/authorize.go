package authz

import (
	"github.com/agendahub/agenda-backend/pkg/enums"
	"github.com/agendahub/agenda-backend/pkg/errors"
)

// Authorize checks set membership of the actor's role against the allowed
// roles. Order carries no meaning; an empty allowed set admits any valid
// role.
func Authorize(role enums.Role, allowed ...enums.Role) error {
	if !role.IsValid() {
		return errors.New(errors.CodeForbidden, "unrecognized role")
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, candidate := range allowed {
		if role == candidate {
			return nil
		}
	}
	return errors.New(errors.CodeForbidden, "role not permitted for this operation")
}
