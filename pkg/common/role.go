package common

type Role string

const (
	Admin              Role = "Admin"
	Researcher         Role = "Researcher"
	ProcurementOfficer Role = "ProcurementOfficer"
)

func (r Role) Valid() bool {
	switch r {
	case Admin, Researcher, ProcurementOfficer:
		return true
	}
	return false
}

type Perm string

const (
	Read   Perm = "read"
	Create Perm = "create"
	Update Perm = "update"
	// UpdateOwn allows editing rows the caller created.
	UpdateOwn Perm = "update_own"
)
