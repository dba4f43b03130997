package services

import "context"

// Action is something an admin can do to a resource
type Action string

const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionReorder Action = "reorder"
	ActionDelete  Action = "delete"
	ActionRestore Action = "restore"
	ActionPurge   Action = "purge"
	ActionPublish Action = "publish"
)

// PermissionChecker decides whether a role may perform an action on a resource.
// Resources are collection and record kind names (faqs, testimonials, ...).
//
// Handlers call the checker before touching a manager, so managers stay
// free of authorization concerns.
type PermissionChecker interface {
	// Check returns nil when allowed, domain.ErrForbidden (wrapped) otherwise
	Check(ctx context.Context, role, resource string, action Action) error
}
