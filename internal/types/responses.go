package types

// ActorResponse is the shared shape for the authenticated account in
// auth responses, covering both admins and students.
type ActorResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Kind         string `json:"kind"`
	Role         string `json:"role,omitempty"`
	DepartmentID *uint  `json:"department_id,omitempty"`
}
