package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tupleap/authgate/internal/database"
	"github.com/tupleap/authgate/internal/model"
	"github.com/tupleap/authgate/internal/util"
)

// These tests need a running ClickHouse; set TEST_DATABASE_URL to run them,
// e.g. clickhouse://default:@localhost:9000/tupleap_test
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := database.Connect(url)
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema(context.Background()))
	return db
}

func issueTestCode(t *testing.T, repo AuthCodeRepository, tenantID, username string) *model.AuthCode {
	t.Helper()
	code, err := util.GenerateAuthCode()
	require.NoError(t, err)
	ac, err := repo.Insert(context.Background(), model.CreateAuthCodeParams{
		AuthCode:  code,
		TenantID:  tenantID,
		Username:  username,
		CreatedBy: "admin",
	})
	require.NoError(t, err)
	return ac
}

func TestAuthCodeRepository_InsertAndFind(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewAuthCodeRepository(db.DB)
	ctx := context.Background()

	ac := issueTestCode(t, repo, "demo001", "alice")

	t.Run("finds inserted code", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, ac.AuthCode)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "demo001", found.TenantID)
		assert.Equal(t, "alice", found.Username)
		assert.True(t, found.IsActive)
		assert.Equal(t, uint64(0), found.UsageCount)
		assert.Nil(t, found.ExpiresAt)
	})

	t.Run("returns nil for unknown code", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "tupleap_does_not_exist")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestAuthCodeRepository_InsertWithExpiry(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewAuthCodeRepository(db.DB)
	ctx := context.Background()

	code, err := util.GenerateAuthCode()
	require.NoError(t, err)
	expiresAt := time.Now().Add(time.Hour).UTC().Truncate(time.Millisecond)

	_, err = repo.Insert(ctx, model.CreateAuthCodeParams{
		AuthCode:  code,
		TenantID:  "demo001",
		Username:  "alice",
		CreatedBy: "admin",
		ExpiresAt: &expiresAt,
	})
	require.NoError(t, err)

	found, err := repo.FindByCode(ctx, code)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.ExpiresAt)
	assert.WithinDuration(t, expiresAt, *found.ExpiresAt, time.Millisecond)
}

func TestAuthCodeRepository_List(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewAuthCodeRepository(db.DB)
	ctx := context.Background()

	tenant := "list_" + time.Now().Format("150405.000")
	first := issueTestCode(t, repo, tenant, "alice")
	second := issueTestCode(t, repo, tenant, "bob")
	issueTestCode(t, repo, tenant+"_other", "carol")

	t.Run("filters by tenant and orders by code", func(t *testing.T) {
		codes, err := repo.List(ctx, ListFilter{TenantID: tenant})
		require.NoError(t, err)
		require.Len(t, codes, 2)

		for _, ac := range codes {
			assert.Equal(t, tenant, ac.TenantID)
		}
		assert.LessOrEqual(t, codes[0].AuthCode, codes[1].AuthCode)

		got := map[string]bool{codes[0].AuthCode: true, codes[1].AuthCode: true}
		assert.True(t, got[first.AuthCode])
		assert.True(t, got[second.AuthCode])
	})

	t.Run("applies limit", func(t *testing.T) {
		codes, err := repo.List(ctx, ListFilter{TenantID: tenant, Limit: 1})
		require.NoError(t, err)
		assert.Len(t, codes, 1)
	})

	t.Run("filters by username", func(t *testing.T) {
		codes, err := repo.List(ctx, ListFilter{TenantID: tenant, Username: "bob"})
		require.NoError(t, err)
		require.Len(t, codes, 1)
		assert.Equal(t, second.AuthCode, codes[0].AuthCode)
	})
}
