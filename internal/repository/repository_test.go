package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"medtracker/internal/db"
	"medtracker/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB, false))

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gormDB
}

func createUser(t *testing.T, repo UserRepository, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		IsActive:     true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func createMedicine(t *testing.T, repo MedicineRepository, ownerID uint, name string) *model.Medicine {
	t.Helper()
	medicine := &model.Medicine{Name: name, Dosage: "100mg", Frequency: "daily", UserID: ownerID}
	require.NoError(t, repo.Create(context.Background(), medicine))
	return medicine
}
