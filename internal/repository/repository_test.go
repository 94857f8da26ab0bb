package repository

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ladybert/web-api-client/internal/model"
	"github.com/Ladybert/web-api-client/pkg/config"
	"github.com/Ladybert/web-api-client/pkg/database"
	prom "github.com/Ladybert/web-api-client/prometheus"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.Default().DB
	cfg.Driver = config.DriverSQLite
	cfg.Path = filepath.Join(t.TempDir(), "repository.db")
	cfg.LogLevel = "silent"

	db, err := database.Open(&cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedUnitTypes(t *testing.T, db *gorm.DB, n int) []model.UnitType {
	t.Helper()

	base := time.Date(2024, 8, 2, 10, 0, 0, 0, time.UTC)
	types := make([]model.UnitType, n)
	for i := range types {
		types[i] = model.UnitType{
			Name:      fmt.Sprintf("type-%02d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&types[i]).Error)
	}
	return types
}

func TestRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	seedUnitTypes(t, db, 12)
	repo := New[model.UnitType](db)
	ctx := context.Background()

	t.Run("first page", func(t *testing.T) {
		page, err := repo.List(ctx, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(12), page.Total)
		require.Len(t, page.Items, 5)
		assert.Equal(t, "type-11", page.Items[0].Name)
		assert.Equal(t, "type-07", page.Items[4].Name)
	})

	t.Run("last partial page", func(t *testing.T) {
		page, err := repo.List(ctx, 3, 5)
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "type-01", page.Items[0].Name)
		assert.Equal(t, "type-00", page.Items[1].Name)
	})

	t.Run("past the end", func(t *testing.T) {
		page, err := repo.List(ctx, 4, 5)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, int64(12), page.Total)
	})

	t.Run("offset beyond int range", func(t *testing.T) {
		for _, p := range []int{3689348814741910324, math.MaxInt} {
			page, err := repo.List(ctx, p, 5)
			require.NoError(t, err)
			assert.Empty(t, page.Items)
			assert.Equal(t, int64(12), page.Total)
			assert.Equal(t, p, page.Page)
		}
	})

	t.Run("page below one is clamped", func(t *testing.T) {
		page, err := repo.List(ctx, 0, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
	})

	t.Run("invalid page size", func(t *testing.T) {
		_, err := repo.List(ctx, 1, 0)
		assert.Error(t, err)
	})
}

func TestRepository_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := New[model.UnitType](db)
	ctx := context.Background()

	_, err := repo.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Update(ctx, &model.UnitType{ID: 42, Name: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Delete(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := repo.Exists(ctx, 42)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_CreateUpdateDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := New[model.UnitType](db)
	ctx := context.Background()

	ut := &model.UnitType{Name: "Apartment"}
	require.NoError(t, repo.Create(ctx, ut))
	require.NotZero(t, ut.ID)
	created := ut.CreatedAt

	ut.Name = "Townhouse"
	require.NoError(t, repo.Update(ctx, ut))

	got, err := repo.Get(ctx, ut.ID)
	require.NoError(t, err)
	assert.Equal(t, "Townhouse", got.Name)
	assert.WithinDuration(t, created, got.CreatedAt, time.Second)

	require.NoError(t, repo.Delete(ctx, ut.ID))
	_, err = repo.Get(ctx, ut.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_PreloadAndImages(t *testing.T) {
	db := setupTestDB(t)
	types := seedUnitTypes(t, db, 1)
	repo := New[model.Unit](db, WithPreload("UnitType"))
	ctx := context.Background()

	unit := &model.Unit{
		Name:       "A-101",
		Images:     model.ImagePaths{"storage/unit/a.png", "storage/unit/b.png"},
		UnitTypeID: types[0].ID,
		UnitType:   &model.UnitType{ID: types[0].ID, Name: "must not be written"},
	}
	require.NoError(t, repo.Create(ctx, unit))

	got, err := repo.Get(ctx, unit.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UnitType)
	assert.Equal(t, types[0].Name, got.UnitType.Name)
	assert.Equal(t, model.ImagePaths{"storage/unit/a.png", "storage/unit/b.png"}, got.Images)

	page, err := repo.List(ctx, 1, 5)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.NotNil(t, page.Items[0].UnitType)
}

func TestRepository_LegacyImageColumn(t *testing.T) {
	db := setupTestDB(t)
	types := seedUnitTypes(t, db, 1)
	repo := New[model.ResidentialEstate](db)
	ctx := context.Background()

	err := db.Exec(
		"INSERT INTO residential_estates (housing_name, image, unit_type_id, description, size, location, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		"Green Park", "storage/residential_estate/old.jpg", types[0].ID, "desc", "120", "Bandung", time.Now(), time.Now(),
	).Error
	require.NoError(t, err)

	page, err := repo.List(ctx, 1, 5)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, model.ImagePaths{"storage/residential_estate/old.jpg"}, page.Items[0].Images)
}

func TestUnitTypeRepository_CascadeDelete(t *testing.T) {
	db := setupTestDB(t)
	types := seedUnitTypes(t, db, 2)
	ctx := context.Background()

	units := New[model.Unit](db)
	estates := New[model.ResidentialEstate](db)
	unitTypes := NewUnitTypeRepository(db)

	require.NoError(t, units.Create(ctx, &model.Unit{Name: "A-1", UnitTypeID: types[0].ID, Images: model.ImagePaths{"storage/unit/1.png"}}))
	require.NoError(t, units.Create(ctx, &model.Unit{Name: "A-2", UnitTypeID: types[1].ID, Images: model.ImagePaths{"storage/unit/2.png"}}))
	require.NoError(t, estates.Create(ctx, &model.ResidentialEstate{HousingName: "E-1", UnitTypeID: types[0].ID, Images: model.ImagePaths{"storage/residential_estate/1.png"}}))

	paths, err := unitTypes.DependentImages(ctx, types[0].ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"storage/unit/1.png", "storage/residential_estate/1.png"}, paths)

	require.NoError(t, unitTypes.Delete(ctx, types[0].ID))

	unitPage, err := units.List(ctx, 1, 5)
	require.NoError(t, err)
	require.Len(t, unitPage.Items, 1)
	assert.Equal(t, "A-2", unitPage.Items[0].Name)

	estatePage, err := estates.List(ctx, 1, 5)
	require.NoError(t, err)
	assert.Empty(t, estatePage.Items)
}

func TestRepository_RecordsDBMetrics(t *testing.T) {
	db := setupTestDB(t)
	metrics := prom.NewMetrics("test", prometheus.NewRegistry())
	repo := New[model.UnitType](db, WithMetrics(metrics))

	_, err := repo.List(context.Background(), 1, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, testutil.CollectAndCount(metrics.DBOperationDuration))
}
