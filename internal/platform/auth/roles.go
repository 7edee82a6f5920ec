package auth

// Role is the closed set of console roles. Permissions are never derived from
// role strings at call sites; each role maps to a fixed capability set
// resolved here once.
type Role string

const (
	RoleSuperUser   Role = "super_user"
	RoleClinicAdmin Role = "clinic_admin"
	RoleDoctor      Role = "doctor"
	RoleNurse       Role = "nurse"
	RolePharmacy    Role = "pharmacy"
)

// Capability is a single permission a role grants.
type Capability string

const (
	CapManageClinics      Capability = "clinics:manage"
	CapViewClinics        Capability = "clinics:view"
	CapManageStaff        Capability = "staff:manage"
	CapViewStaff          Capability = "staff:view"
	CapManagePatients     Capability = "patients:manage"
	CapViewPatients       Capability = "patients:view"
	CapManageAppointments Capability = "appointments:manage"
	CapViewAppointments   Capability = "appointments:view"
	CapManageMedicines    Capability = "medicines:manage"
	CapViewMedicines      Capability = "medicines:view"
	CapPrescribe          Capability = "prescriptions:write"
	CapViewPrescriptions  Capability = "prescriptions:view"
	CapViewStats          Capability = "stats:view"
)

var roleCapabilities = map[Role][]Capability{
	RoleSuperUser: {
		CapManageClinics, CapViewClinics,
		CapManageStaff, CapViewStaff,
		CapManagePatients, CapViewPatients,
		CapManageAppointments, CapViewAppointments,
		CapManageMedicines, CapViewMedicines,
		CapPrescribe, CapViewPrescriptions,
		CapViewStats,
	},
	RoleClinicAdmin: {
		CapViewClinics,
		CapManageStaff, CapViewStaff,
		CapManagePatients, CapViewPatients,
		CapManageAppointments, CapViewAppointments,
		CapViewMedicines,
		CapViewPrescriptions,
		CapViewStats,
	},
	RoleDoctor: {
		CapViewClinics,
		CapViewStaff,
		CapManagePatients, CapViewPatients,
		CapManageAppointments, CapViewAppointments,
		CapViewMedicines,
		CapPrescribe, CapViewPrescriptions,
		CapViewStats,
	},
	RoleNurse: {
		CapViewClinics,
		CapViewStaff,
		CapViewPatients,
		CapManageAppointments, CapViewAppointments,
		CapViewMedicines,
		CapViewStats,
	},
	RolePharmacy: {
		CapManageMedicines, CapViewMedicines,
		CapViewPatients,
		CapViewPrescriptions,
		CapViewStats,
	},
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role grants the capability.
func (r Role) Can(cap Capability) bool {
	for _, c := range roleCapabilities[r] {
		if c == cap {
			return true
		}
	}
	return false
}

// Capabilities returns the full capability set of the role.
func (r Role) Capabilities() []Capability {
	caps := roleCapabilities[r]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}
