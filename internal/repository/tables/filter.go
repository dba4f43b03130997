package tables

import (
	recordsRepo "clearview/internal/domain/repositories/records"
)

// LifecycleWhere renders the WHERE clause for a record listing.
// Boolean literals are valid in both PostgreSQL and SQLite.
func LifecycleWhere(filter recordsRepo.ListFilter) string {
	if filter.PublicOnly {
		return "WHERE is_deleted = FALSE AND is_active = TRUE"
	}
	switch filter.State {
	case recordsRepo.FilterDeleted:
		return "WHERE is_deleted = TRUE"
	case recordsRepo.FilterAll:
		return ""
	default:
		return "WHERE is_deleted = FALSE"
	}
}
