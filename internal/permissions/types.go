package permissions

import "clearview/internal/domain/services"

// Wildcard matches any resource or action
const Wildcard = "*"

// Role is one entry of the embedded policy
type Role struct {
	Name        string              `yaml:"-" json:"name"`
	Description string              `yaml:"description" json:"description"`
	Grants      map[string][]string `yaml:"grants" json:"grants"`
}

// Policy is the root of roles.yaml
type Policy struct {
	Roles map[string]*Role `yaml:"roles"`
}

// allows reports whether the role grants action on resource
func (r *Role) allows(resource string, action services.Action) bool {
	for _, res := range []string{resource, Wildcard} {
		for _, a := range r.Grants[res] {
			if a == Wildcard || a == string(action) {
				return true
			}
		}
	}
	return false
}
