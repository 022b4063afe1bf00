// Package policy holds the authorization rules for task operations as pure
// decision functions. It performs no I/O: the task must arrive with its
// assignments loaded, and every caller routes through CanPerform instead of
// re-deriving role checks per endpoint.
package policy

import (
	"github.com/kite-oss/task-schedule-api/internal/models"
)

type Operation string

const (
	OpView          Operation = "view"
	OpEdit          Operation = "edit"
	OpDelete        Operation = "delete"
	OpMarkCompleted Operation = "mark_completed"
	OpViewComments  Operation = "view_comments"
)

// CanCreate reports whether user may create tasks. Creation has no task to
// inspect, so it sits outside CanPerform.
func CanCreate(user models.User) bool {
	return user.Role == models.RoleAdmin || user.Role == models.RoleStaff || user.IsSuperuser
}

// CanManageUsers reports whether user may create, update or delete
// accounts.
func CanManageUsers(user models.User) bool {
	return user.Role == models.RoleAdmin || user.Role == models.RoleStaff || user.IsSuperuser
}

// CanPerform reports whether user may perform op on task. Roles are checked
// with explicit conditions, never via a hierarchy: admin does not imply
// staff and vice versa, each rule names the roles it grants.
func CanPerform(user models.User, task models.Task, op Operation) bool {
	switch op {
	case OpView:
		switch user.Role {
		case models.RoleAdmin, models.RoleStaff:
			return true
		case models.RoleHOD:
			return user.IsSuperuser || task.HasDepartmentAssignment(user.Department)
		case models.RoleFaculty:
			return user.IsSuperuser || task.IsAssignedTo(user.ID)
		}
		return user.IsSuperuser

	case OpEdit, OpMarkCompleted:
		// HOD and faculty are read-only regardless of ownership, and the
		// completed transition is held to the same gate even in flows where
		// edit is granted more broadly.
		return user.Role == models.RoleAdmin || user.Role == models.RoleStaff || user.IsSuperuser

	case OpDelete:
		if user.Role == models.RoleAdmin || user.Role == models.RoleStaff || user.IsSuperuser {
			return true
		}
		// The original creator may always remove their own task, matched by
		// identity or by the legacy raw email.
		if task.CreatedByMatches(user) {
			return true
		}
		return user.Role == models.RoleHOD && task.HasDepartmentAssignment(user.Department)

	case OpViewComments:
		// HOD is denied by organizational decision even though the task
		// itself is visible to them.
		if user.Role == models.RoleHOD && !user.IsSuperuser {
			return false
		}
		return CanPerform(user, task, OpView)
	}

	return false
}
