package constants

// Context keys
const (
	ContextKeyUser = "current_user"
)

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// History feed windows
const (
	RecentActivityLimit = 10
	RecentCommentLimit  = 20
)

const MinPasswordLength = 6

// DepartmentGeneral is the sentinel department recorded on an assignment
// when the assignee has no department on their profile.
const DepartmentGeneral = "GENERAL"

// Departments is the fixed set of valid profile departments.
var Departments = []string{
	"CSE",
	"ECE",
	"MECH",
	"IT",
	"CSBS",
	"AIML",
	"AIDS",
	"CYS",
	"OFFICE",
	"MBA",
	"INNOVATION TEAM",
	"OTHERS",
	"PLACEMENT",
	"RA",
	"S&H",
	"IQSC",
}

// IsValidDepartment reports whether dept is in the fixed department set.
func IsValidDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}
