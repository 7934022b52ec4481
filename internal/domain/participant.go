package domain

import "fmt"

// ParticipantRole is a member's role inside a group chat room.
type ParticipantRole string

const (
	RoleCreator ParticipantRole = "creator"
	RoleAdmin   ParticipantRole = "admin"
	RoleUser    ParticipantRole = "user"
)

// Valid reports whether r is one of the known participant roles.
func (r ParticipantRole) Valid() bool {
	switch r {
	case RoleCreator, RoleAdmin, RoleUser:
		return true
	}
	return false
}

// CanManage reports whether a member with role r may add, update or remove participants.
func (r ParticipantRole) CanManage() bool {
	return r == RoleCreator || r == RoleAdmin
}

// ParticipantChange is one item of a batch participant operation. Role is
// ignored for removals.
type ParticipantChange struct {
	UserID int64           `json:"user_id"`
	Role   ParticipantRole `json:"role"`
}

// ParticipantErrorCode is the machine-readable reason of a rejected change.
type ParticipantErrorCode string

const (
	CodeNotFound  ParticipantErrorCode = "NOT_FOUND"
	CodeForbidden ParticipantErrorCode = "FORBIDDEN"
	CodeDuplicate ParticipantErrorCode = "DUPLICATE"
)

// ParticipantError describes why a single change of a batch was rejected.
// swagger:model ParticipantError
type ParticipantError struct {
	Message string               `json:"message"`
	UserID  int64                `json:"user_id"`
	GroupID int64                `json:"group_id"`
	Code    ParticipantErrorCode `json:"code"`
}

// ParticipantErrors is the aggregate returned when any change of a batch is
// rejected. Nothing of the batch may be applied when it is returned.
type ParticipantErrors struct {
	Deleting bool
	Items    []ParticipantError
}

func (e *ParticipantErrors) Error() string {
	if e.Deleting {
		return "failed to remove participants"
	}
	return "failed to add participants into the group"
}

// EvaluateParticipantChange applies the role-transition rules to one change.
// userExists and existing are the results of looking up the target user and
// its current membership in room roomID; existing is nil when the user is not
// a member. It returns nil when the change is allowed.
//
// Rules, first match wins:
//   - the target user must exist
//   - a removal needs an existing membership
//   - the creator membership is never removed or changed, by anyone
//   - adding or updating to the role already held is a duplicate
//   - an admin cannot remove or demote another admin, but may promote a user
//
// A creator acting on the room bypasses the admin restrictions on other members.
func EvaluateParticipantChange(roomID int64, change ParticipantChange, userExists bool, existing *Participant, acting ParticipantRole, isDeleting bool) *ParticipantError {
	reject := func(code ParticipantErrorCode, format string, args ...any) *ParticipantError {
		return &ParticipantError{
			Message: fmt.Sprintf(format, args...),
			UserID:  change.UserID,
			GroupID: roomID,
			Code:    code,
		}
	}

	if !userExists {
		return reject(CodeNotFound, "User not found")
	}
	if existing == nil {
		if isDeleting {
			return reject(CodeNotFound, "Can't find participant with ID %d in the group.", change.UserID)
		}
		return nil
	}
	if existing.Role == RoleCreator {
		switch {
		case acting == RoleAdmin && isDeleting:
			return reject(CodeForbidden, "Admin cannot delete group creator")
		case acting == RoleAdmin:
			return reject(CodeForbidden, "Admin cannot demote group creator")
		case isDeleting:
			return reject(CodeForbidden, "Group creator cannot be removed")
		default:
			return reject(CodeForbidden, "Group creator role cannot be changed")
		}
	}
	if !isDeleting && existing.Role == change.Role {
		return reject(CodeDuplicate, "Participant with ID %d already exists in the group.", change.UserID)
	}
	if acting == RoleAdmin && existing.Role == RoleAdmin {
		if isDeleting {
			return reject(CodeForbidden, "Can't delete user with role admin with current role (admin)")
		}
		if change.Role == RoleUser {
			return reject(CodeForbidden, "Can't demote admin to user with current role (admin)")
		}
	}
	return nil
}
