package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetreserve/internal/db"
	"fleetreserve/internal/entities"
	"fleetreserve/internal/httperrors"
	"fleetreserve/internal/repository"
)

// memStore is an in-memory double for the vehicle and reservation
// repositories, mirroring the atomic create/cancel semantics of the SQL
// implementation.
type memStore struct {
	vehicles     map[string]*db.Vehicle
	users        map[string]*db.User
	reservations map[string]*db.Reservation
}

func newMemStore() *memStore {
	return &memStore{
		vehicles:     map[string]*db.Vehicle{},
		users:        map[string]*db.User{},
		reservations: map[string]*db.Reservation{},
	}
}

func (m *memStore) addVehicle(id, brand, model, registration string) {
	m.vehicles[id] = &db.Vehicle{
		ID: id, Brand: brand, Model: model, RegistrationNumber: registration,
		Status: db.VehicleStatusAvailable,
	}
}

func (m *memStore) addUser(id, email string) {
	m.users[id] = &db.User{ID: id, Email: email, FirstName: "Test", LastName: "User"}
}

func (m *memStore) List(_ context.Context) ([]db.Vehicle, error) {
	var vehicles []db.Vehicle
	for _, v := range m.vehicles {
		vehicles = append(vehicles, *v)
	}
	return vehicles, nil
}

// GetByID on the vehicle interface.
func (m *memStore) GetByID(_ context.Context, id string) (*db.Vehicle, error) {
	v, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrVehicleNotFound
	}
	found := *v
	return &found, nil
}

func (m *memStore) Create(_ context.Context, res *db.Reservation) ([]db.Reservation, error) {
	vehicle, ok := m.vehicles[res.VehicleID]
	if !ok {
		return nil, repository.ErrVehicleNotFound
	}
	var conflicts []db.Reservation
	for _, existing := range m.reservations {
		if existing.VehicleID != res.VehicleID || !existing.IsActive() {
			continue
		}
		if !existing.StartDate.After(res.EndDate) && !res.StartDate.After(existing.EndDate) {
			conflicts = append(conflicts, *existing)
		}
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}
	stored := *res
	m.reservations[res.ID] = &stored
	vehicle.Status = db.VehicleStatusReserved
	vehicle.UpdatedAt = res.CreatedAt
	return nil, nil
}

func (m *memStore) Cancel(_ context.Context, id, userID string, now time.Time) (*db.Reservation, error) {
	res, ok := m.reservations[id]
	if !ok || res.UserID != userID {
		return nil, repository.ErrReservationNotFound
	}
	if res.Status == db.ReservationStatusCancelled {
		return nil, repository.ErrReservationCancelled
	}
	res.Status = db.ReservationStatusCancelled
	res.UpdatedAt = now

	active := 0
	for _, other := range m.reservations {
		if other.VehicleID == res.VehicleID && other.IsActive() {
			active++
		}
	}
	if active == 0 {
		if vehicle, ok := m.vehicles[res.VehicleID]; ok {
			vehicle.Status = db.VehicleStatusAvailable
			vehicle.UpdatedAt = now
		}
	}
	cancelled := *res
	return &cancelled, nil
}

func (m *memStore) ListActiveForVehicle(_ context.Context, vehicleID string) ([]db.Reservation, error) {
	var active []db.Reservation
	for _, res := range m.reservations {
		if res.VehicleID == vehicleID && res.IsActive() {
			active = append(active, *res)
		}
	}
	return active, nil
}

func (m *memStore) toResponse(res *db.Reservation) *entities.ReservationResponse {
	out := &entities.ReservationResponse{
		ID: res.ID, UserID: res.UserID, VehicleID: res.VehicleID,
		StartDate: res.StartDate, EndDate: res.EndDate, Reason: res.Reason,
		Status: res.Status, CreatedAt: res.CreatedAt, UpdatedAt: res.UpdatedAt,
	}
	if v, ok := m.vehicles[res.VehicleID]; ok {
		out.Vehicle = &entities.VehicleSummary{
			ID: v.ID, Brand: v.Brand, Model: v.Model,
			RegistrationNumber: v.RegistrationNumber, Status: v.Status,
		}
	}
	if u, ok := m.users[res.UserID]; ok {
		out.User = &entities.UserSummary{
			ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName,
		}
	}
	return out
}

func (m *memStore) GetReservationByID(_ context.Context, id string) (*entities.ReservationResponse, error) {
	res, ok := m.reservations[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	return m.toResponse(res), nil
}

func (m *memStore) ListForUser(_ context.Context, userID string) ([]entities.ReservationResponse, error) {
	out := []entities.ReservationResponse{}
	for _, res := range m.reservations {
		if res.UserID == userID {
			out = append(out, *m.toResponse(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) ListAll(_ context.Context) ([]entities.ReservationResponse, error) {
	out := []entities.ReservationResponse{}
	for _, res := range m.reservations {
		out = append(out, *m.toResponse(res))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// reservationRepo adapts memStore so both interfaces can be satisfied
// despite the GetByID name collision.
type reservationRepo struct{ *memStore }

func (r reservationRepo) GetByID(ctx context.Context, id string) (*entities.ReservationResponse, error) {
	return r.memStore.GetReservationByID(ctx, id)
}

func newTestService() (*ReservationService, *memStore) {
	store := newMemStore()
	store.addVehicle("veh-1", "Toyota", "Corolla", "TG-1234-AB")
	store.addVehicle("veh-2", "Honda", "Civic", "TG-5678-CD")
	store.addUser("user-1", "alice@example.com")
	store.addUser("user-2", "bob@example.com")
	svc := NewReservationService(reservationRepo{store}, store, nil)
	return svc, store
}

func TestCreateReservation_Succeeds(t *testing.T) {
	svc, store := newTestService()

	res, err := svc.CreateReservation(context.Background(), "user-1", "veh-1", day(10, 10), day(10, 12), "client visit")
	require.NoError(t, err)

	assert.Equal(t, db.ReservationStatusConfirmed, res.Status)
	assert.Equal(t, "user-1", res.UserID)
	assert.Equal(t, "veh-1", res.VehicleID)
	require.NotNil(t, res.Vehicle)
	assert.Equal(t, "Toyota", res.Vehicle.Brand)
	require.NotNil(t, res.User)
	assert.Equal(t, "alice@example.com", res.User.Email)

	assert.Equal(t, db.VehicleStatusReserved, store.vehicles["veh-1"].Status)
}

func TestCreateReservation_OverlapRejected(t *testing.T) {
	svc, store := newTestService()

	_, err := svc.CreateReservation(context.Background(), "user-1", "veh-1", day(10, 10), day(10, 12), "trip")
	require.NoError(t, err)

	_, err = svc.CreateReservation(context.Background(), "user-2", "veh-1", day(10, 11), day(10, 13), "errand")
	var conflict *httperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, day(10, 10), conflict.Conflicts[0].StartDate)
	assert.Equal(t, day(10, 12), conflict.Conflicts[0].EndDate)
	assert.Equal(t, "trip", conflict.Conflicts[0].Reason)

	// Nothing written for the rejected request.
	assert.Len(t, store.reservations, 1)
}

func TestCreateReservation_TouchingBoundaryConflicts(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateReservation(context.Background(), "user-1", "veh-1", day(10, 10), day(10, 12), "trip")
	require.NoError(t, err)

	// Starts exactly when the first ends: closed intervals, still a conflict.
	_, err = svc.CreateReservation(context.Background(), "user-2", "veh-1", day(10, 12), day(10, 14), "errand")
	var conflict *httperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestCreateReservation_OtherVehicleUnaffected(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateReservation(context.Background(), "user-1", "veh-1", day(10, 10), day(10, 12), "trip")
	require.NoError(t, err)

	_, err = svc.CreateReservation(context.Background(), "user-2", "veh-2", day(10, 10), day(10, 12), "trip")
	assert.NoError(t, err)
}

func TestCreateReservation_CancelledReservationsIgnored(t *testing.T) {
	svc, _ := newTestService()

	first, err := svc.CreateReservation(context.Background(), "user-1", "veh-1", day(10, 10), day(10, 12), "trip")
	require.NoError(t, err)
	_, err = svc.CancelReservation(context.Background(), "user-1", first.ID)
	require.NoError(t, err)

	_, err = svc.CreateReservation(context.Background(), "user-2", "veh-1", day(10, 11), day(10, 13), "errand")
	assert.NoError(t, err)
}

func TestCreateReservation_PastStartRejected(t *testing.T) {
	svc, store := newTestService()

	past := time.Now().UTC().Add(-time.Hour)
	_, err := svc.CreateReservation(context.Background(), "user-1", "veh-1", past, past.Add(2*time.Hour), "trip")

	var httpErr *httperrors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
	assert.Empty(t, store.reservations)
}

func TestCreateReservation_EndNotAfterStartRejected(t *testing.T) {
	svc, store := newTestService()

	var httpErr *httperrors.HTTPError
	_, err := svc.CreateReservation(context.Background(), "user-1", "veh-1", day(10, 12), day(10, 10), "trip")
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)

	_, err = svc.CreateReservation(context.Background(), "user-1", "veh-1", day(10, 12), day(10, 12), "trip")
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)

	assert.Empty(t, store.reservations)
}

func TestCreateReservation_UnknownVehicle(t *testing.T) {
	svc, _ := newTestService()

	var httpErr *httperrors.HTTPError
	_, err := svc.CreateReservation(context.Background(), "user-1", "nope", day(10, 10), day(10, 12), "trip")
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
}

func TestCancelReservation_AlreadyCancelled(t *testing.T) {
	svc, _ := newTestService()

	res, err := svc.CreateReservation(context.Background(), "user-1", "veh-1", day(10, 10), day(10, 12), "trip")
	require.NoError(t, err)

	_, err = svc.CancelReservation(context.Background(), "user-1", res.ID)
	require.NoError(t, err)

	var httpErr *httperrors.HTTPError
	_, err = svc.CancelReservation(context.Background(), "user-1", res.ID)
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestCancelReservation_OtherUsersReservationIsNotFound(t *testing.T) {
	svc, store := newTestService()

	res, err := svc.CreateReservation(context.Background(), "user-1", "veh-1", day(10, 10), day(10, 12), "trip")
	require.NoError(t, err)

	var httpErr *httperrors.HTTPError
	_, err = svc.CancelReservation(context.Background(), "user-2", res.ID)
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)

	// Untouched.
	assert.Equal(t, db.ReservationStatusConfirmed, store.reservations[res.ID].Status)
}

func TestCancelReservation_VehicleReleasedOnlyWhenNoActiveRemain(t *testing.T) {
	svc, store := newTestService()

	first, err := svc.CreateReservation(context.Background(), "user-1", "veh-1", day(10, 10), day(10, 12), "trip")
	require.NoError(t, err)
	second, err := svc.CreateReservation(context.Background(), "user-1", "veh-1", day(12, 10), day(12, 12), "errand")
	require.NoError(t, err)

	cancelled, err := svc.CancelReservation(context.Background(), "user-1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, db.ReservationStatusCancelled, cancelled.Status)
	// One active reservation remains, the blunt flag stays reserved.
	assert.Equal(t, db.VehicleStatusReserved, store.vehicles["veh-1"].Status)

	_, err = svc.CancelReservation(context.Background(), "user-1", second.ID)
	require.NoError(t, err)
	assert.Equal(t, db.VehicleStatusAvailable, store.vehicles["veh-1"].Status)
}

func TestCheckAvailability(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateReservation(context.Background(), "user-1", "veh-1", day(10, 10), day(10, 12), "trip")
	require.NoError(t, err)

	busy, err := svc.CheckAvailability(context.Background(), "veh-1", day(10, 11), day(10, 13))
	require.NoError(t, err)
	assert.False(t, busy.Available)
	require.Len(t, busy.ConflictingReservations, 1)
	assert.Equal(t, "trip", busy.ConflictingReservations[0].Reason)

	free, err := svc.CheckAvailability(context.Background(), "veh-1", day(11, 10), day(11, 12))
	require.NoError(t, err)
	assert.True(t, free.Available)
	assert.Empty(t, free.ConflictingReservations)

	var httpErr *httperrors.HTTPError
	_, err = svc.CheckAvailability(context.Background(), "nope", day(10, 10), day(10, 12))
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
}

func TestReservationLifecycleScenario(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	first, err := svc.CreateReservation(ctx, "user-1", "veh-1", day(10, 10), day(10, 12), "trip")
	require.NoError(t, err)
	assert.Equal(t, db.VehicleStatusReserved, store.vehicles["veh-1"].Status)

	_, err = svc.CreateReservation(ctx, "user-2", "veh-1", day(10, 11), day(10, 13), "x")
	var conflict *httperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, first.StartDate, conflict.Conflicts[0].StartDate)

	_, err = svc.CancelReservation(ctx, "user-1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, db.VehicleStatusAvailable, store.vehicles["veh-1"].Status)

	_, err = svc.CreateReservation(ctx, "user-2", "veh-1", day(10, 11), day(10, 13), "x")
	require.NoError(t, err)
	assert.Equal(t, db.VehicleStatusReserved, store.vehicles["veh-1"].Status)
}
