package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRow struct {
	ID   uint
	Name string
}

func TestNewGormDBSQLiteMigrates(t *testing.T) {
	db, err := NewGormDB(DriverSQLite, "file::memory:", false, &sampleRow{})
	require.NoError(t, err)

	require.NoError(t, db.Create(&sampleRow{Name: "foil"}).Error)

	var count int64
	require.NoError(t, db.Model(&sampleRow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNewGormDBRejectsUnknownDriver(t *testing.T) {
	_, err := NewGormDB("mongo", "whatever", false)
	assert.ErrorContains(t, err, "unsupported database driver")
}
