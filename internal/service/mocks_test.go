package service

import (
	"context"

	"github.com/catDaddyDev/starter-restaurant-reservation/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockReservationStore struct {
	mock.Mock
}

func (m *mockReservationStore) CreateReservation(ctx context.Context, r *models.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockReservationStore) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *mockReservationStore) ListReservationsByDate(ctx context.Context, date string) ([]*models.Reservation, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}

func (m *mockReservationStore) SearchReservationsByPhone(ctx context.Context, digits string) ([]*models.Reservation, error) {
	args := m.Called(ctx, digits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}

func (m *mockReservationStore) UpdateReservation(ctx context.Context, id int64, r *models.Reservation) error {
	args := m.Called(ctx, id, r)
	return args.Error(0)
}

func (m *mockReservationStore) UpdateReservationStatus(ctx context.Context, id int64, status models.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type mockTableStore struct {
	mock.Mock
}

func (m *mockTableStore) CreateTable(ctx context.Context, t *models.Table) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTableStore) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Table), args.Error(1)
}

func (m *mockTableStore) ListTables(ctx context.Context) ([]*models.Table, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Table), args.Error(1)
}

func (m *mockTableStore) SeatReservation(ctx context.Context, tableID, reservationID int64) (*models.Table, error) {
	args := m.Called(ctx, tableID, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Table), args.Error(1)
}

func (m *mockTableStore) CompleteSeating(ctx context.Context, tableID int64) (*models.Table, int64, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).(*models.Table), args.Get(1).(int64), args.Error(2)
}

type mockDayCache struct {
	mock.Mock
}

func (m *mockDayCache) GetDay(ctx context.Context, date string) ([]*models.Reservation, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}

func (m *mockDayCache) SetDay(ctx context.Context, date string, reservations []*models.Reservation) error {
	args := m.Called(ctx, date, reservations)
	return args.Error(0)
}

func (m *mockDayCache) InvalidateDay(ctx context.Context, date string) error {
	args := m.Called(ctx, date)
	return args.Error(0)
}
