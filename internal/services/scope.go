package services

import (
	"github.com/kite-oss/task-schedule-api/internal/models"
	"github.com/kite-oss/task-schedule-api/internal/repository"
)

// taskScopeFor maps a role to the slice of tasks it may see.
func taskScopeFor(user models.User) repository.TaskScope {
	if user.IsSuperuser {
		return repository.TaskScope{All: true}
	}
	switch user.Role {
	case models.RoleAdmin, models.RoleStaff:
		return repository.TaskScope{All: true}
	case models.RoleHOD:
		return repository.TaskScope{Department: user.Department}
	case models.RoleFaculty:
		id := user.ID
		return repository.TaskScope{AssigneeID: &id}
	}
	return repository.TaskScope{}
}

// commentScopeFor maps a role to the comment feed it may see. HOD gets the
// empty scope: they are denied follow-up comments outright, even on
// department tasks they can otherwise view.
func commentScopeFor(user models.User) repository.TaskScope {
	if user.Role == models.RoleHOD && !user.IsSuperuser {
		return repository.TaskScope{}
	}
	return taskScopeFor(user)
}
