package policy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"invoicing-backend/models"
)

func setupPolicyTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Client{}, &models.Invoice{}, &models.InvoiceItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestScopeFiltersByOwner(t *testing.T) {
	db := setupPolicyTestDB(t)

	alice := models.User{FirstName: "Alice", LastName: "A", Email: "alice@test"}
	bob := models.User{FirstName: "Bob", LastName: "B", Email: "bob@test"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	require.NoError(t, db.Create(&models.Client{FirstName: "C1", LastName: "X", Email: "c1@test", CreatedById: alice.Id}).Error)
	require.NoError(t, db.Create(&models.Client{FirstName: "C2", LastName: "X", Email: "c2@test", CreatedById: alice.Id}).Error)
	require.NoError(t, db.Create(&models.Client{FirstName: "C3", LastName: "X", Email: "c3@test", CreatedById: bob.Id}).Error)

	var got []models.Client
	require.NoError(t, db.Scopes(OwnedClients(alice.Id)).Find(&got).Error)
	require.Len(t, got, 2)
	for _, c := range got {
		require.Equal(t, alice.Id, c.CreatedById)
	}

	got = nil
	require.NoError(t, db.Scopes(OwnedClients(bob.Id)).Find(&got).Error)
	require.Len(t, got, 1)
	require.Equal(t, "C3", got[0].FirstName)
}

func TestScopeUnauthenticatedMatchesNothing(t *testing.T) {
	db := setupPolicyTestDB(t)

	owner := models.User{FirstName: "Owner", LastName: "O", Email: "owner@test"}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&models.Client{FirstName: "C", LastName: "X", Email: "c@test", CreatedById: owner.Id}).Error)
	require.NoError(t, db.Create(&models.Invoice{Title: "I", UserId: owner.Id}).Error)

	var clients []models.Client
	require.NoError(t, db.Scopes(OwnedClients("")).Find(&clients).Error)
	require.Empty(t, clients, "anonymous scope must match no clients")

	var invoices []models.Invoice
	require.NoError(t, db.Scopes(OwnedInvoices("")).Find(&invoices).Error)
	require.Empty(t, invoices, "anonymous scope must match no invoices")
}

func TestScopeOwnerOnInvoices(t *testing.T) {
	db := setupPolicyTestDB(t)

	alice := models.User{FirstName: "Alice", LastName: "A", Email: "alice@test"}
	bob := models.User{FirstName: "Bob", LastName: "B", Email: "bob@test"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	require.NoError(t, db.Create(&models.Invoice{Title: "Alice 1", UserId: alice.Id}).Error)
	require.NoError(t, db.Create(&models.Invoice{Title: "Bob 1", UserId: bob.Id}).Error)

	// A scoped lookup of another user's invoice id behaves exactly like a
	// missing row.
	var bobInvoice models.Invoice
	require.NoError(t, db.Where("title = ?", "Bob 1").First(&bobInvoice).Error)

	var got models.Invoice
	err := db.Scopes(OwnedInvoices(alice.Id)).First(&got, bobInvoice.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
