package seed

import (
	"context"
	"testing"

	"github.com/parkspot/parking-service/internal/models"
	"github.com/parkspot/parking-service/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// aboveAll never occupies a slot, so seeded structures start fully empty
// apart from the demo booking's claim.
type aboveAll struct{}

func (aboveAll) Float64() float64 { return 0.99 }

func TestRun(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, Run(context.Background(), store, aboveAll{}))

	structures, err := store.Structures().FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, structures, 3)

	assert.Equal(t, "spot-1", structures[0].ID)
	assert.Equal(t, 100, structures[0].TotalSlots)
	assert.Equal(t, 80, structures[1].TotalSlots)
	assert.Equal(t, 60, structures[2].TotalSlots)

	for _, s := range structures {
		assert.Equal(t, s.CountEmptySlots(), s.AvailableSlots, "counter drift on %s", s.ID)
	}

	// the active demo booking holds one slot on spot-2
	spot2, err := store.Structures().FindByID(context.Background(), "spot-2")
	require.NoError(t, err)
	assert.Equal(t, 79, spot2.AvailableSlots)
	assert.Equal(t, models.SlotBooked, spot2.FindSlot("slot-spot-2-1-5").Status)

	bookings, err := store.Bookings().FindByUserID(context.Background(), "demo-user")
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	var active, completed int
	for _, b := range bookings {
		switch b.Status {
		case models.BookingActive:
			active++
			assert.Equal(t, int64(28000), b.TotalCost)
		case models.BookingCompleted:
			completed++
			assert.Equal(t, int64(10000), b.TotalCost)
		}
	}
	assert.Equal(t, 1, active)
	assert.Equal(t, 1, completed)

	for _, id := range []string{"demo-admin", "demo-user"} {
		_, err := store.Users().FindByID(context.Background(), id)
		assert.NoError(t, err, "missing seeded user %s", id)
	}
}

func TestRun_SkipsNonEmptyStore(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Structures().Create(context.Background(), &models.ParkingStructure{
		ID: "existing", Name: "Existing Lot", TotalSlots: 1, AvailableSlots: 1,
	}))

	require.NoError(t, Run(context.Background(), store, aboveAll{}))

	structures, err := store.Structures().FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, structures, 1)
	assert.Equal(t, "existing", structures[0].ID)
}

func TestCategoryRotation(t *testing.T) {
	fs := floorSpec{letter: "A", slotCount: 30, evEvery: 10, accEvery: 15}

	assert.Equal(t, models.CategoryEV, categoryAt(0, fs))
	assert.Equal(t, models.CategoryRegular, categoryAt(1, fs))
	assert.Equal(t, models.CategoryEV, categoryAt(10, fs))
	assert.Equal(t, models.CategoryAccessible, categoryAt(15, fs))
	assert.Equal(t, models.CategoryEV, categoryAt(20, fs))

	noAcc := floorSpec{letter: "P", slotCount: 25, evEvery: 8}
	assert.Equal(t, models.CategoryRegular, categoryAt(15, noAcc))
}
