package models

import (
	"time"

	"github.com/kite-oss/task-schedule-api/internal/constants"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleHOD     Role = "hod"
	RoleStaff   Role = "staff"
	RoleFaculty Role = "faculty"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHOD, RoleStaff, RoleFaculty:
		return true
	}
	return false
}

type User struct {
	ID         uint64 `gorm:"primarykey" json:"id"`
	Email      string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name       string `gorm:"type:varchar(255)" json:"name"`
	Role       Role   `gorm:"type:varchar(10);not null;default:'staff';index:idx_users_role_department" json:"role"`
	Department string `gorm:"type:varchar(50);index:idx_users_role_department" json:"department,omitempty"`
	// PasswordHash is empty for non-login accounts (faculty created
	// without a credential).
	PasswordHash string    `gorm:"type:varchar(255)" json:"-"`
	IsSuperuser  bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Assignments []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
}

// CanLogin reports whether the account holds a usable credential.
func (u User) CanLogin() bool {
	return u.PasswordHash != ""
}

// DepartmentOrGeneral returns the profile department, or the GENERAL
// sentinel when the profile has none. Used when snapshotting the
// department onto an assignment.
func (u User) DepartmentOrGeneral() string {
	if u.Department == "" {
		return constants.DepartmentGeneral
	}
	return u.Department
}
