// Package policy holds the single ownership-scoping rule applied to every
// owner-scoped query. Clients are scoped by who created them, invoices by
// their owning user; invoice items are never scoped directly and are only
// reachable through an already-scoped invoice.
package policy

import "gorm.io/gorm"

// ScopeOwner restricts a query to rows whose owner column equals userID.
// An unauthenticated request carries an empty userID, which matches no
// rows: reads come back empty rather than failing.
func ScopeOwner(column, userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", userID)
	}
}

// OwnedClients scopes a query to clients created by userID.
func OwnedClients(userID string) func(*gorm.DB) *gorm.DB {
	return ScopeOwner("created_by_id", userID)
}

// OwnedInvoices scopes a query to invoices owned by userID.
func OwnedInvoices(userID string) func(*gorm.DB) *gorm.DB {
	return ScopeOwner("user_id", userID)
}
