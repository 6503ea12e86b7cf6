package enums

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// RoleFromAdmin maps the backend's admin flag onto a Role.
func RoleFromAdmin(admin bool) Role {
	if admin {
		return RoleAdmin
	}
	return RoleMember
}
