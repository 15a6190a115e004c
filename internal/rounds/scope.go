package rounds

const (
	ActorAdmin   = "admin"
	ActorStudent = "student"
)

// Actor is the authenticated principal acting on the workflow. Credential
// verification happens upstream; the engine only checks the scope.
type Actor struct {
	ID    uint
	Kind  string // "admin" or "student"
	Scope Scope
}

type scopeKind int

const (
	scopeNone scopeKind = iota
	scopeGlobal
	scopeDepartment
)

// Scope is the capability attached to an actor: everything, one department,
// or nothing.
type Scope struct {
	kind         scopeKind
	departmentID uint
}

func GlobalScope() Scope {
	return Scope{kind: scopeGlobal}
}

func DepartmentScope(departmentID uint) Scope {
	return Scope{kind: scopeDepartment, departmentID: departmentID}
}

func NoScope() Scope {
	return Scope{}
}

// Allows reports whether the scope covers administrative actions on the given
// department.
func (s Scope) Allows(departmentID uint) bool {
	switch s.kind {
	case scopeGlobal:
		return true
	case scopeDepartment:
		return s.departmentID == departmentID
	}
	return false
}

// Global reports whether the scope covers site-wide configuration.
func (s Scope) Global() bool {
	return s.kind == scopeGlobal
}
