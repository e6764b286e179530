package user

type Role string

const (
	RoleMember Role = "member"
	RoleRunner Role = "runner"
	RoleAdmin  Role = "admin"
)

var roleLevels = map[Role]int{
	RoleMember: 1,
	RoleRunner: 2,
	RoleAdmin:  3,
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// AtLeast reports whether r ranks at or above min in member < runner < admin.
func (r Role) AtLeast(min Role) bool {
	have, ok := roleLevels[r]
	want, minOK := roleLevels[min]
	return ok && minOK && have >= want
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
