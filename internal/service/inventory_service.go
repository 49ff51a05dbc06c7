package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parkspot/parking-service/internal/models"
	"github.com/parkspot/parking-service/internal/repository"
	"github.com/parkspot/parking-service/pkg/rabbitmq"
)

var (
	ErrStructureNotFound = errors.New("parking structure not found")
	ErrSlotNotFound      = errors.New("slot not found in structure")
	ErrSlotUnavailable   = errors.New("slot is no longer available")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingNotActive  = errors.New("booking is not active")
	ErrStructureInUse    = errors.New("structure has active bookings")
	ErrInvalidInput      = errors.New("invalid input")
)

// Rand is the randomness source behind RefreshOccupancy. Tests swap in a
// scripted sequence to make the sensor simulation deterministic.
type Rand interface {
	Float64() float64
}

// Occupancy refresh transition probabilities: an occupied slot frees up
// with probability 0.3, an empty one fills with probability 0.1. Booked
// slots are never touched.
const (
	pFree   = 0.3
	pOccupy = 0.1
)

type ProvisionParams struct {
	Name          string
	Address       string
	DistanceLabel string
	Rating        float64
	PricePerHour  int64
	Categories    []models.SlotCategory
	Lat           float64
	Lng           float64
	FloorCount    int
	SlotsPerFloor int
}

type MetadataParams struct {
	Name          string
	Address       string
	DistanceLabel string
	Rating        float64
	PricePerHour  int64
	Categories    []models.SlotCategory
	Lat           float64
	Lng           float64
}

type BookingParams struct {
	UserID        string
	StructureID   string
	SlotID        string
	DurationHours int
	LicensePlate  string
	PaymentMethod string
}

type StructureFilter struct {
	Query       string
	MaxDistance float64
	PriceRange  string // "low" | "medium" | "high"
	Category    models.SlotCategory
}

type DashboardStats struct {
	AvailableSlots int              `json:"available_slots"`
	TotalSlots     int              `json:"total_slots"`
	TodayBookings  int              `json:"today_bookings"`
	TotalRevenue   int64            `json:"total_revenue"`
	RecentBookings []models.Booking `json:"recent_bookings"`
}

type InventoryService interface {
	ProvisionStructure(ctx context.Context, params ProvisionParams) (*models.ParkingStructure, error)
	UpdateMetadata(ctx context.Context, structureID string, params MetadataParams) (*models.ParkingStructure, error)
	DeleteStructure(ctx context.Context, structureID string) error
	GetStructure(ctx context.Context, structureID string) (*models.ParkingStructure, error)
	ListStructures(ctx context.Context, filter StructureFilter) ([]models.ParkingStructure, error)
	BookSlot(ctx context.Context, params BookingParams) (*models.Booking, error)
	CompleteBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	RefreshOccupancy(ctx context.Context, structureID string) (*models.ParkingStructure, error)
	ComputeStats(ctx context.Context, userID string) (*DashboardStats, error)
	ListBookings(ctx context.Context, userID string) ([]models.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
}

type inventoryService struct {
	store     repository.Store
	publisher *rabbitmq.Publisher
	rng       Rand
	locks     *structureLocks
}

func NewInventoryService(store repository.Store, publisher *rabbitmq.Publisher, rng Rand) InventoryService {
	return &inventoryService{
		store:     store,
		publisher: publisher,
		rng:       rng,
		locks:     newStructureLocks(),
	}
}

// Slot categories rotate deterministically over the slot index within a
// floor: every 10th slot is EV, every 15th accessible, the rest regular.
// Floors are lettered A..E, then F for anything deeper.
var floorLetters = []string{"A", "B", "C", "D", "E"}

func slotCategoryAt(index int) models.SlotCategory {
	switch {
	case index%10 == 0:
		return models.CategoryEV
	case index%15 == 0:
		return models.CategoryAccessible
	default:
		return models.CategoryRegular
	}
}

func floorLetter(floorIndex int) string {
	if floorIndex < len(floorLetters) {
		return floorLetters[floorIndex]
	}
	return "F"
}

func (s *inventoryService) ProvisionStructure(ctx context.Context, params ProvisionParams) (*models.ParkingStructure, error) {
	if params.FloorCount < 1 {
		return nil, fmt.Errorf("%w: floor_count must be at least 1", ErrInvalidInput)
	}
	if params.SlotsPerFloor < 1 {
		return nil, fmt.Errorf("%w: slots_per_floor must be at least 1", ErrInvalidInput)
	}
	if len(params.Categories) == 0 {
		return nil, fmt.Errorf("%w: at least one category is required", ErrInvalidInput)
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	structure := &models.ParkingStructure{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now(),
		Name:          params.Name,
		Address:       params.Address,
		DistanceLabel: params.DistanceLabel,
		Rating:        params.Rating,
		PricePerHour:  params.PricePerHour,
		Categories:    params.Categories,
		Lat:           params.Lat,
		Lng:           params.Lng,
	}

	for f := 0; f < params.FloorCount; f++ {
		floor := models.Floor{
			ID:          uuid.NewString(),
			StructureID: structure.ID,
			Number:      f + 1,
		}
		for i := 0; i < params.SlotsPerFloor; i++ {
			floor.Slots = append(floor.Slots, models.Slot{
				ID:          uuid.NewString(),
				FloorID:     floor.ID,
				Label:       fmt.Sprintf("%s%d", floorLetter(f), i+1),
				Status:      models.SlotEmpty,
				Category:    slotCategoryAt(i),
				FloorNumber: f + 1,
			})
		}
		structure.Floors = append(structure.Floors, floor)
	}

	structure.TotalSlots = params.FloorCount * params.SlotsPerFloor
	structure.AvailableSlots = structure.TotalSlots

	if err := s.store.Structures().Create(ctx, structure); err != nil {
		return nil, fmt.Errorf("create structure: %w", err)
	}

	s.publish("structure.provisioned", structure)
	return structure, nil
}

func (s *inventoryService) UpdateMetadata(ctx context.Context, structureID string, params MetadataParams) (*models.ParkingStructure, error) {
	mu := s.locks.forStructure(structureID)
	mu.Lock()
	defer mu.Unlock()

	var updated *models.ParkingStructure
	err := s.store.Atomic(ctx, func(st repository.Store) error {
		structure, err := st.Structures().FindByID(ctx, structureID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrStructureNotFound
			}
			return fmt.Errorf("load structure: %w", err)
		}

		// Metadata only. Floors, slots and counters stay untouched.
		structure.Name = params.Name
		structure.Address = params.Address
		structure.DistanceLabel = params.DistanceLabel
		structure.Rating = params.Rating
		structure.PricePerHour = params.PricePerHour
		structure.Categories = params.Categories
		structure.Lat = params.Lat
		structure.Lng = params.Lng

		if err := st.Structures().Update(ctx, structure); err != nil {
			return fmt.Errorf("update structure: %w", err)
		}
		updated = structure
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *inventoryService) DeleteStructure(ctx context.Context, structureID string) error {
	mu := s.locks.forStructure(structureID)
	mu.Lock()
	defer mu.Unlock()

	return s.store.Atomic(ctx, func(st repository.Store) error {
		if _, err := st.Structures().FindByID(ctx, structureID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrStructureNotFound
			}
			return fmt.Errorf("load structure: %w", err)
		}

		// Deleting out from under an active booking would leave it dangling,
		// so it is rejected instead.
		active := models.BookingActive
		inFlight, err := st.Bookings().FindByStructureID(ctx, structureID, &active)
		if err != nil {
			return fmt.Errorf("check active bookings: %w", err)
		}
		if len(inFlight) > 0 {
			return ErrStructureInUse
		}

		if err := st.Structures().Delete(ctx, structureID); err != nil {
			return fmt.Errorf("delete structure: %w", err)
		}
		return nil
	})
}

func (s *inventoryService) GetStructure(ctx context.Context, structureID string) (*models.ParkingStructure, error) {
	structure, err := s.store.Structures().FindByID(ctx, structureID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStructureNotFound
		}
		return nil, err
	}
	return structure, nil
}

func (s *inventoryService) ListStructures(ctx context.Context, filter StructureFilter) ([]models.ParkingStructure, error) {
	structures, err := s.store.Structures().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.ParkingStructure, 0, len(structures))
	for _, structure := range structures {
		if matchesFilter(&structure, filter) {
			out = append(out, structure)
		}
	}
	return out, nil
}

func matchesFilter(s *models.ParkingStructure, f StructureFilter) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(s.Name), q) &&
			!strings.Contains(strings.ToLower(s.Address), q) {
			return false
		}
	}
	if f.MaxDistance > 0 {
		if d, ok := parseDistance(s.DistanceLabel); !ok || d > f.MaxDistance {
			return false
		}
	}
	switch f.PriceRange {
	case "low":
		if s.PricePerHour > 5000 {
			return false
		}
	case "medium":
		if s.PricePerHour <= 5000 || s.PricePerHour > 8000 {
			return false
		}
	case "high":
		if s.PricePerHour <= 8000 {
			return false
		}
	}
	if f.Category != "" {
		found := false
		for _, c := range s.Categories {
			if c == f.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// parseDistance reads the numeric prefix of a display label like "0.5 km".
func parseDistance(label string) (float64, bool) {
	fields := strings.Fields(strings.TrimSpace(label))
	if len(fields) == 0 {
		return 0, false
	}
	d, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return d, true
}

// BookSlot is the single mutation path that claims a slot. The booking row,
// the slot flip to booked and the counter decrement commit together under
// the structure's lock; the slot status is re-read inside it so a slot
// claimed between validation and commit is rejected, not double-booked.
func (s *inventoryService) BookSlot(ctx context.Context, params BookingParams) (*models.Booking, error) {
	mu := s.locks.forStructure(params.StructureID)
	mu.Lock()
	defer mu.Unlock()

	var booking *models.Booking
	err := s.store.Atomic(ctx, func(st repository.Store) error {
		structure, err := st.Structures().FindByID(ctx, params.StructureID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrStructureNotFound
			}
			return fmt.Errorf("load structure: %w", err)
		}

		slot := structure.FindSlot(params.SlotID)
		if slot == nil {
			return ErrSlotNotFound
		}
		if slot.Status != models.SlotEmpty {
			return ErrSlotUnavailable
		}
		if params.DurationHours <= 0 {
			return fmt.Errorf("%w: duration_hours must be positive", ErrInvalidInput)
		}
		if strings.TrimSpace(params.LicensePlate) == "" {
			return fmt.Errorf("%w: license_plate is required", ErrInvalidInput)
		}
		if strings.TrimSpace(params.PaymentMethod) == "" {
			return fmt.Errorf("%w: payment_method is required", ErrInvalidInput)
		}

		now := time.Now()
		booking = &models.Booking{
			ID:            uuid.NewString(),
			UserID:        params.UserID,
			StructureID:   structure.ID,
			StructureName: structure.Name,
			Location:      structure.Address,
			SlotID:        slot.ID,
			SlotLabel:     slot.Label,
			LicensePlate:  params.LicensePlate,
			DurationHours: params.DurationHours,
			PaymentMethod: params.PaymentMethod,
			TotalCost:     int64(params.DurationHours) * structure.PricePerHour,
			Status:        models.BookingActive,
			Date:          now.Format("2006-01-02"),
			Time:          now.Format("15:04"),
			CreatedAt:     now,
		}

		if err := st.Bookings().Create(ctx, booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		slot.Status = models.SlotBooked
		structure.AvailableSlots--
		if err := st.Structures().Update(ctx, structure); err != nil {
			return fmt.Errorf("update structure: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("booking.created", booking)
	return booking, nil
}

func (s *inventoryService) CompleteBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.closeBooking(ctx, bookingID, models.BookingCompleted)
	if err != nil {
		return nil, err
	}
	s.publish("booking.completed", booking)
	return booking, nil
}

func (s *inventoryService) CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.closeBooking(ctx, bookingID, models.BookingCancelled)
	if err != nil {
		return nil, err
	}
	s.publish("booking.cancelled", booking)
	return booking, nil
}

// closeBooking reverses a slot allocation: booking leaves active, the slot
// returns to empty and the counter goes back up by exactly one. Closing a
// booking that is not active fails without touching any counter, so a
// double complete can never free a slot twice.
func (s *inventoryService) closeBooking(ctx context.Context, bookingID string, target models.BookingStatus) (*models.Booking, error) {
	current, err := s.store.Bookings().FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	mu := s.locks.forStructure(current.StructureID)
	mu.Lock()
	defer mu.Unlock()

	var closed *models.Booking
	err = s.store.Atomic(ctx, func(st repository.Store) error {
		booking, err := st.Bookings().FindByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}
		if booking.Status != models.BookingActive {
			return ErrBookingNotActive
		}

		structure, err := st.Structures().FindByID(ctx, booking.StructureID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Deletion is blocked while bookings are active, so an
				// active booking always has its structure.
				return ErrStructureNotFound
			}
			return fmt.Errorf("load structure: %w", err)
		}

		if slot := structure.FindSlot(booking.SlotID); slot != nil && slot.Status != models.SlotEmpty {
			slot.Status = models.SlotEmpty
			structure.AvailableSlots++
			if err := st.Structures().Update(ctx, structure); err != nil {
				return fmt.Errorf("update structure: %w", err)
			}
		}

		booking.Status = target
		if err := st.Bookings().Update(ctx, booking); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		closed = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

// RefreshOccupancy simulates a sensor sweep. Occupied slots free up with
// probability pFree, empty ones fill with pOccupy, booked slots are left
// alone. Since many slots change at once the counter is recounted from
// scratch rather than adjusted incrementally.
func (s *inventoryService) RefreshOccupancy(ctx context.Context, structureID string) (*models.ParkingStructure, error) {
	mu := s.locks.forStructure(structureID)
	mu.Lock()
	defer mu.Unlock()

	var refreshed *models.ParkingStructure
	err := s.store.Atomic(ctx, func(st repository.Store) error {
		structure, err := st.Structures().FindByID(ctx, structureID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrStructureNotFound
			}
			return fmt.Errorf("load structure: %w", err)
		}

		for fi := range structure.Floors {
			for si := range structure.Floors[fi].Slots {
				slot := &structure.Floors[fi].Slots[si]
				switch slot.Status {
				case models.SlotOccupied:
					if s.rng.Float64() < pFree {
						slot.Status = models.SlotEmpty
					}
				case models.SlotEmpty:
					if s.rng.Float64() < pOccupy {
						slot.Status = models.SlotOccupied
					}
				}
			}
		}

		structure.AvailableSlots = structure.CountEmptySlots()
		if err := st.Structures().Update(ctx, structure); err != nil {
			return fmt.Errorf("update structure: %w", err)
		}
		refreshed = structure
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refreshed, nil
}

func (s *inventoryService) ComputeStats(ctx context.Context, userID string) (*DashboardStats, error) {
	structures, err := s.store.Structures().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.store.Bookings().FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{RecentBookings: []models.Booking{}}
	for _, structure := range structures {
		stats.AvailableSlots += structure.AvailableSlots
		stats.TotalSlots += structure.TotalSlots
	}

	today := time.Now().Format("2006-01-02")
	for _, b := range bookings {
		if b.Date == today {
			stats.TodayBookings++
		}
		if b.Status == models.BookingCompleted {
			stats.TotalRevenue += b.TotalCost
		}
	}

	// Bookings come back newest first.
	if len(bookings) > 3 {
		bookings = bookings[:3]
	}
	stats.RecentBookings = bookings
	return stats, nil
}

func (s *inventoryService) ListBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.store.Bookings().FindByUserID(ctx, userID)
}

func (s *inventoryService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.store.Bookings().FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *inventoryService) publish(routingKey string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		log.Printf("[InventoryService] publish %s failed: %v", routingKey, err)
	}
}
