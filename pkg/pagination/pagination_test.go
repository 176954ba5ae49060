package pagination

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func paramsFor(t *testing.T, rawQuery string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return FromQuery(c)
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{
			name:  "defaults",
			query: "",
			want:  Params{Page: 1, Limit: 10, Order: "ASC"},
		},
		{
			name:  "explicit_values",
			query: "page=3&limit=25&search=antminer&sortBy=ask_price&order=desc",
			want:  Params{Page: 3, Limit: 25, Search: "antminer", SortBy: "ask_price", Order: "DESC"},
		},
		{
			name:  "out_of_range_values_clamped",
			query: "page=-1&limit=5000",
			want:  Params{Page: 1, Limit: 100, Order: "ASC"},
		},
		{
			name:  "garbage_order_falls_back_to_asc",
			query: "order=sideways",
			want:  Params{Page: 1, Limit: 10, Order: "ASC"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paramsFor(t, tt.query))
		})
	}
}

type rig struct {
	ID    uint `gorm:"primarykey"`
	Name  string
	Watts int
}

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "pagination_test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&rig{}))

	rigs := []rig{
		{Name: "alpha", Watts: 3000},
		{Name: "beta", Watts: 2000},
		{Name: "gamma", Watts: 1000},
		{Name: "Gamma Max", Watts: 4000},
		{Name: "delta", Watts: 5000},
	}
	require.NoError(t, db.Create(&rigs).Error)
	return db
}

func TestApply(t *testing.T) {
	t.Run("counts_before_paginating", func(t *testing.T) {
		db := seededDB(t)

		tx, meta, err := Apply(db.Model(&rig{}), Params{Page: 2, Limit: 2})
		require.NoError(t, err)

		var rigs []rig
		require.NoError(t, tx.Find(&rigs).Error)
		assert.Len(t, rigs, 2)
		assert.EqualValues(t, 5, meta.Total)
		assert.Equal(t, 3, meta.TotalPages)
	})

	t.Run("case_insensitive_search", func(t *testing.T) {
		db := seededDB(t)

		tx, meta, err := Apply(db.Model(&rig{}), Params{Page: 1, Limit: 10, Search: "GAMMA"}, "name")
		require.NoError(t, err)

		var rigs []rig
		require.NoError(t, tx.Find(&rigs).Error)
		assert.Len(t, rigs, 2)
		assert.EqualValues(t, 2, meta.Total)
	})

	t.Run("sorting", func(t *testing.T) {
		db := seededDB(t)

		tx, _, err := Apply(db.Model(&rig{}), Params{Page: 1, Limit: 10, SortBy: "watts", Order: "DESC"})
		require.NoError(t, err)

		var rigs []rig
		require.NoError(t, tx.Find(&rigs).Error)
		require.Len(t, rigs, 5)
		assert.Equal(t, "delta", rigs[0].Name)
	})

	t.Run("malicious_sort_column_ignored", func(t *testing.T) {
		db := seededDB(t)

		tx, _, err := Apply(db.Model(&rig{}), Params{Page: 1, Limit: 10, SortBy: "watts; DROP TABLE rigs", Order: "ASC"})
		require.NoError(t, err)

		var rigs []rig
		require.NoError(t, tx.Find(&rigs).Error)
		assert.Len(t, rigs, 5)
	})
}
