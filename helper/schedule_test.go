package helper

import (
	"testing"
	"time"

	"install_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat(v float64) *float64 { return &v }

func TestRankEngineersByDistance(t *testing.T) {
	db := setupTestDB(t)

	// London-ish reference point
	engineers := []model.Engineer{
		{FirstName: "Far", LastName: "North", Postcode: "M1 1AA", PhoneNumber: "1",
			Latitude: ptrFloat(53.48), Longitude: ptrFloat(-2.24), IsActive: true},
		{FirstName: "Near", LastName: "By", Postcode: "SW1A 1AA", PhoneNumber: "2",
			Latitude: ptrFloat(51.50), Longitude: ptrFloat(-0.14), IsActive: true},
		{FirstName: "No", LastName: "Coords", Postcode: "E1 6AN", PhoneNumber: "3", IsActive: true},
		{FirstName: "In", LastName: "Active", Postcode: "SW1A 2AA", PhoneNumber: "4",
			Latitude: ptrFloat(51.50), Longitude: ptrFloat(-0.12), IsActive: false},
	}
	for i := range engineers {
		require.NoError(t, db.Create(&engineers[i]).Error)
	}

	ranked, err := RankEngineersByDistance(51.5074, -0.1278)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "Near", ranked[0].Engineer.FirstName)
	assert.Equal(t, "Far", ranked[1].Engineer.FirstName)
	assert.Greater(t, ranked[1].DistanceKm, ranked[0].DistanceKm)

	// Missing coordinates sort last with a sentinel distance
	assert.Equal(t, "No", ranked[2].Engineer.FirstName)
	assert.Equal(t, float64(-1), ranked[2].DistanceKm)
}

func TestEngineerAvailability(t *testing.T) {
	db := setupTestDB(t)

	engineer := model.Engineer{FirstName: "Avail", LastName: "Able", Postcode: "N1 1AA", PhoneNumber: "5", IsActive: true}
	require.NoError(t, db.Create(&engineer).Error)

	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	available, reason, err := EngineerAvailable(engineer.ID, day)
	require.NoError(t, err)
	assert.True(t, available)
	assert.Empty(t, reason)

	timeOff := model.EngineerTimeOff{
		EngineerId: engineer.ID,
		StartDate:  day.AddDate(0, 0, -1),
		EndDate:    day.AddDate(0, 0, 1),
		Reason:     "holiday",
	}
	require.NoError(t, db.Create(&timeOff).Error)

	available, reason, err = EngineerAvailable(engineer.ID, day)
	require.NoError(t, err)
	assert.False(t, available)
	assert.Contains(t, reason, "time off")

	// A booked install on another day still blocks only that day
	other := day.AddDate(0, 0, 7)
	order := createTestOrder(t, db, model.StatusScheduled)
	require.NoError(t, db.Model(order).Updates(map[string]interface{}{
		"engineer_id":            engineer.ID,
		"scheduled_install_date": other,
	}).Error)

	available, reason, err = EngineerAvailable(engineer.ID, other)
	require.NoError(t, err)
	assert.False(t, available)
	assert.Contains(t, reason, "booked")
}
