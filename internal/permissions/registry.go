// Package permissions decides which admin roles may perform which actions,
// using a policy embedded at build time.
package permissions

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"clearview/internal/domain"
	"clearview/internal/domain/services"

	"gopkg.in/yaml.v3"
)

//go:embed config/roles.yaml
var configFiles embed.FS

var validActions = map[string]bool{
	Wildcard:                       true,
	string(services.ActionRead):    true,
	string(services.ActionCreate):  true,
	string(services.ActionUpdate):  true,
	string(services.ActionReorder): true,
	string(services.ActionDelete):  true,
	string(services.ActionRestore): true,
	string(services.ActionPurge):   true,
	string(services.ActionPublish): true,
}

// Registry holds the loaded role policy. It is read-only after construction.
type Registry struct {
	roles map[string]*Role
}

// NewRegistry loads the embedded policy
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/roles.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read roles.yaml: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from policy YAML
func Parse(data []byte) (*Registry, error) {
	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roles: %w", err)
	}
	if len(policy.Roles) == 0 {
		return nil, fmt.Errorf("policy defines no roles")
	}

	for name, role := range policy.Roles {
		if role == nil {
			return nil, fmt.Errorf("role %s is empty", name)
		}
		role.Name = name
		for resource, actions := range role.Grants {
			for _, a := range actions {
				if !validActions[a] {
					return nil, fmt.Errorf("role %s: unknown action %q on %s", name, a, resource)
				}
			}
		}
	}

	return &Registry{roles: policy.Roles}, nil
}

// Check implements services.PermissionChecker
func (r *Registry) Check(ctx context.Context, role, resource string, action services.Action) error {
	def, ok := r.roles[role]
	if !ok {
		return &domain.ForbiddenError{Message: fmt.Sprintf("unknown role %q", role)}
	}
	if !def.allows(resource, action) {
		return &domain.ForbiddenError{Message: fmt.Sprintf("role %s may not %s %s", role, action, resource)}
	}
	return nil
}

// Role returns a role definition
func (r *Registry) Role(name string) (*Role, bool) {
	role, ok := r.roles[name]
	return role, ok
}

// RoleNames returns the defined roles, sorted
func (r *Registry) RoleNames() []string {
	names := make([]string, 0, len(r.roles))
	for name := range r.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ services.PermissionChecker = (*Registry)(nil)
