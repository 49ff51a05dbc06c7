//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/parkspot/parking-service/internal/models"
	"github.com/parkspot/parking-service/internal/repository/postgresql"
	"github.com/parkspot/parking-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noTransitions struct{}

func (noTransitions) Float64() float64 { return 0.99 }

func newInventoryService() service.InventoryService {
	return service.NewInventoryService(postgresql.NewStore(testDB), nil, noTransitions{})
}

func provisionTestStructure(t *testing.T, svc service.InventoryService, slotsPerFloor int) *models.ParkingStructure {
	t.Helper()
	structure, err := svc.ProvisionStructure(context.Background(), service.ProvisionParams{
		Name:          "Central Mall Parking",
		Address:       "Jl. Sudirman No. 123, Jakarta",
		DistanceLabel: "0.5 km",
		Rating:        4.8,
		PricePerHour:  5000,
		Categories:    []models.SlotCategory{models.CategoryRegular},
		FloorCount:    1,
		SlotsPerFloor: slotsPerFloor,
	})
	require.NoError(t, err)
	return structure
}

// 20 drivers race for the same slot → exactly one active booking.
func TestConcurrentSlotClaim(t *testing.T) {
	cleanTables()
	svc := newInventoryService()
	structure := provisionTestStructure(t, svc, 1)
	slotID := structure.Floors[0].Slots[0].ID

	totalUsers := 20
	var wg sync.WaitGroup
	results := make(chan *models.Booking, totalUsers)
	errs := make(chan error, totalUsers)

	wg.Add(totalUsers)
	for i := 0; i < totalUsers; i++ {
		go func(userIdx int) {
			defer wg.Done()
			booking, err := svc.BookSlot(context.Background(), service.BookingParams{
				UserID:        fmt.Sprintf("user-%03d", userIdx),
				StructureID:   structure.ID,
				SlotID:        slotID,
				DurationHours: 2,
				LicensePlate:  fmt.Sprintf("B%03dXYZ", userIdx),
				PaymentMethod: "GoPay",
			})
			if err != nil {
				errs <- err
				return
			}
			results <- booking
		}(i)
	}
	wg.Wait()
	close(results)
	close(errs)

	booked := 0
	for range results {
		booked++
	}
	rejected := 0
	for err := range errs {
		assert.ErrorIs(t, err, service.ErrSlotUnavailable)
		rejected++
	}

	assert.Equal(t, 1, booked, "exactly one driver should claim the slot")
	assert.Equal(t, totalUsers-1, rejected)

	// Verify DB counts
	var dbActive int64
	testDB.Model(&models.Booking{}).Where("slot_id = ? AND status = ?", slotID, models.BookingActive).Count(&dbActive)
	assert.Equal(t, int64(1), dbActive)

	current, err := svc.GetStructure(context.Background(), structure.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, current.AvailableSlots)
	assert.Equal(t, current.CountEmptySlots(), current.AvailableSlots)
}

// Book, complete, book again → counter returns to its starting point.
func TestBookingLifecycle(t *testing.T) {
	cleanTables()
	svc := newInventoryService()
	structure := provisionTestStructure(t, svc, 3)
	slotID := structure.Floors[0].Slots[0].ID

	booking, err := svc.BookSlot(context.Background(), service.BookingParams{
		UserID: "demo-user", StructureID: structure.ID, SlotID: slotID,
		DurationHours: 2, LicensePlate: "B1234XYZ", PaymentMethod: "Visa ****1234",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), booking.TotalCost)

	mid, err := svc.GetStructure(context.Background(), structure.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, mid.AvailableSlots)
	assert.Equal(t, models.SlotBooked, mid.FindSlot(slotID).Status)

	_, err = svc.CompleteBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	after, err := svc.GetStructure(context.Background(), structure.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, after.AvailableSlots)
	assert.Equal(t, models.SlotEmpty, after.FindSlot(slotID).Status)

	// the freed slot can be claimed again
	_, err = svc.BookSlot(context.Background(), service.BookingParams{
		UserID: "other-user", StructureID: structure.ID, SlotID: slotID,
		DurationHours: 1, LicensePlate: "B5678ABC", PaymentMethod: "GoPay",
	})
	assert.NoError(t, err)
}

// Concurrent double-complete of one booking → exactly one succeeds and the
// slot is freed exactly once.
func TestConcurrentDoubleComplete(t *testing.T) {
	cleanTables()
	svc := newInventoryService()
	structure := provisionTestStructure(t, svc, 2)

	booking, err := svc.BookSlot(context.Background(), service.BookingParams{
		UserID: "demo-user", StructureID: structure.ID, SlotID: structure.Floors[0].Slots[0].ID,
		DurationHours: 1, LicensePlate: "B1234XYZ", PaymentMethod: "GoPay",
	})
	require.NoError(t, err)

	attempts := 5
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.CompleteBooking(context.Background(), booking.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, service.ErrBookingNotActive)
		}
	}
	assert.Equal(t, 1, succeeded)

	current, err := svc.GetStructure(context.Background(), structure.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, current.AvailableSlots)
	assert.Equal(t, current.CountEmptySlots(), current.AvailableSlots)
}

// Deleting a structure with an active booking is rejected.
func TestDeleteStructureWithActiveBooking(t *testing.T) {
	cleanTables()
	svc := newInventoryService()
	structure := provisionTestStructure(t, svc, 2)

	booking, err := svc.BookSlot(context.Background(), service.BookingParams{
		UserID: "demo-user", StructureID: structure.ID, SlotID: structure.Floors[0].Slots[0].ID,
		DurationHours: 1, LicensePlate: "B1234XYZ", PaymentMethod: "GoPay",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteStructure(context.Background(), structure.ID), service.ErrStructureInUse)

	_, err = svc.CancelBooking(context.Background(), booking.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStructure(context.Background(), structure.ID))

	var slots int64
	testDB.Model(&models.Slot{}).Count(&slots)
	assert.Equal(t, int64(0), slots, "slots should be removed with their structure")
}

// RefreshOccupancy persists recomputed counters across a reload.
func TestRefreshOccupancyPersists(t *testing.T) {
	cleanTables()
	svc := newInventoryService()
	structure := provisionTestStructure(t, svc, 10)

	refreshed, err := svc.RefreshOccupancy(context.Background(), structure.ID)
	require.NoError(t, err)
	assert.Equal(t, refreshed.CountEmptySlots(), refreshed.AvailableSlots)

	reloaded, err := svc.GetStructure(context.Background(), structure.ID)
	require.NoError(t, err)
	assert.Equal(t, refreshed.AvailableSlots, reloaded.AvailableSlots)
	assert.Equal(t, reloaded.CountEmptySlots(), reloaded.AvailableSlots)
}
