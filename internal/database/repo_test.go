package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giraffe/internal/models"
)

func setupRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	require.NoError(t, Migrate(db, logger))

	return New(db, logger)
}

func makeAccount(t *testing.T, r *Repo, name string) models.Account {
	t.Helper()
	a, err := r.CreateAccount(context.Background(), name, "taxable", nil)
	require.NoError(t, err)
	return a
}

func TestMigrate_Idempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	require.NoError(t, Migrate(db, logger))
	require.NoError(t, Migrate(db, logger))

	// Seeds run once, not per migration.
	r := New(db, logger)
	roles, err := r.ListRoles(context.Background())
	require.NoError(t, err)
	assert.Len(t, roles, 4)
}

func TestAccountLifecycle(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	inst := "Fidelity"
	a, err := r.CreateAccount(ctx, "Brokerage", "taxable", &inst)
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	assert.Equal(t, "Brokerage", a.Name)

	a, err = r.UpdateAccount(ctx, a.ID, "Brokerage Main", "roth", nil)
	require.NoError(t, err)
	assert.Equal(t, "Brokerage Main", a.Name)
	assert.Equal(t, "roth", a.Type)

	list, err := r.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, r.DeleteAccount(ctx, a.ID))
	_, err = r.GetAccount(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = r.DeleteAccount(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountDerivedBalances(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	a := makeAccount(t, r, "Main")

	_, err := r.CreateCashMovement(ctx, a.ID, "deposit", decimal.NewFromInt(10000), "2024-01-01", nil)
	require.NoError(t, err)
	_, err = r.CreateCashMovement(ctx, a.ID, "withdrawal", decimal.NewFromInt(500), "2024-01-10", nil)
	require.NoError(t, err)
	_, err = r.CreateDividend(ctx, a.ID, "AAPL", decimal.NewFromInt(120), "2024-02-01", nil)
	require.NoError(t, err)

	got, err := r.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.InDelta(t, 9620.0, got.CashBalance, 1e-9)
	assert.InDelta(t, 120.0, got.RealizedGain, 1e-9)
}

func TestCashMovement_SignNormalization(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	a := makeAccount(t, r, "Main")

	// Caller sign is ignored; the type decides.
	m, err := r.CreateCashMovement(ctx, a.ID, "withdrawal", decimal.NewFromInt(200), "2024-01-05", nil)
	require.NoError(t, err)
	assert.InDelta(t, -200.0, m.Amount, 1e-9)

	m, err = r.UpdateCashMovement(ctx, m.ID, "deposit", decimal.NewFromInt(-300), "2024-01-05", nil)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, m.Amount, 1e-9)

	m, err = r.CreateCashMovement(ctx, a.ID, "fee", decimal.NewFromFloat(9.99), "2024-01-06", nil)
	require.NoError(t, err)
	assert.InDelta(t, -9.99, m.Amount, 1e-9)
}

func TestSeededReferenceData(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	roles, err := r.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 4)
	assert.Equal(t, "MEGA", roles[0].Name)

	themes, err := r.ListThemes(ctx)
	require.NoError(t, err)
	assert.Len(t, themes, 6)
}

func TestCreateRole_DuplicateName(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	_, err := r.CreateRole(ctx, "MEGA", nil)
	assert.ErrorIs(t, err, ErrDuplicateName)

	tag, err := r.CreateRole(ctx, "SPECULATIVE", nil)
	require.NoError(t, err)
	// Appended after the seeded rows.
	assert.Equal(t, int64(5), tag.SortOrder)
}

func TestDeleteRole_ClearsStockPriceLink(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.UpsertPrice(ctx, "AAPL", decimal.NewFromInt(180), "Apple Inc."))

	roles, err := r.ListRoles(ctx)
	require.NoError(t, err)
	roleID := roles[0].ID

	_, err = r.UpdateResearch(ctx, "AAPL", ResearchParams{RoleID: &roleID})
	require.NoError(t, err)

	p, err := r.GetPrice(ctx, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, p.RoleID)
	require.NotNil(t, p.RoleName)
	assert.Equal(t, "MEGA", *p.RoleName)

	require.NoError(t, r.DeleteRole(ctx, roleID))

	p, err = r.GetPrice(ctx, "AAPL")
	require.NoError(t, err)
	assert.Nil(t, p.RoleID)
	assert.Nil(t, p.RoleName)
}

func TestSettingsUpsert(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	settings, err := r.ListSettings(ctx)
	require.NoError(t, err)
	defaults := map[string]string{}
	for _, s := range settings {
		defaults[s.Key] = s.Value
	}
	assert.Equal(t, "Giraffe Terminal", defaults["app_name"])

	_, err = r.SetSetting(ctx, "app_name", "My Portfolio")
	require.NoError(t, err)

	settings, err = r.ListSettings(ctx)
	require.NoError(t, err)
	for _, s := range settings {
		if s.Key == "app_name" {
			assert.Equal(t, "My Portfolio", s.Value)
		}
	}
}

func TestResearchUpdate_PreservesRatings(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	rating := 4.5
	notes := "wide moat"
	_, err := r.UpdateResearch(ctx, "MSFT", ResearchParams{
		OverallRating: &rating,
		OverallNotes:  &notes,
	})
	require.NoError(t, err)

	p, err := r.GetPrice(ctx, "MSFT")
	require.NoError(t, err)
	require.NotNil(t, p.OverallRating)
	assert.InDelta(t, 4.5, *p.OverallRating, 1e-9)
	require.NotNil(t, p.ResearchUpdatedAt)

	// A later price refresh must not clobber research fields.
	require.NoError(t, r.UpsertPrice(ctx, "MSFT", decimal.NewFromInt(420), "Microsoft Corporation"))
	p, err = r.GetPrice(ctx, "MSFT")
	require.NoError(t, err)
	assert.InDelta(t, 420.0, p.Price, 1e-9)
	require.NotNil(t, p.OverallRating)
	assert.InDelta(t, 4.5, *p.OverallRating, 1e-9)
}
