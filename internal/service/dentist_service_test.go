package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleDentists() []model.Dentist {
	return []model.Dentist{
		{
			ID:         1,
			Name:       "Anna Petrova",
			PriceRange: model.PriceRange{Min: 1000, Max: 5000},
			Clinic:     model.Clinic{ID: 10, Name: "Smile", City: "Moscow"},
			Services: []model.Service{
				{ID: 1, Name: "Consultation", Price: 1000},
				{ID: 2, Name: "Teeth cleaning", Price: 5000},
			},
		},
		{
			ID:         2,
			Name:       "Oleg Sidorov",
			PriceRange: model.PriceRange{Min: 8000, Max: 30000},
			Clinic:     model.Clinic{ID: 20, Name: "Dental Pro", City: "Kazan"},
			Services: []model.Service{
				{ID: 3, Name: "Implant", Price: 30000},
			},
		},
		{
			ID:         3,
			Name:       "Irina Volkova",
			PriceRange: model.PriceRange{Min: 2000, Max: 9000},
			Clinic:     model.Clinic{ID: 10, Name: "Smile", City: "moscow "},
			Services: []model.Service{
				{ID: 1, Name: "Consultation", Price: 2000},
				{ID: 4, Name: "Filling", Price: 9000},
			},
		},
	}
}

func ids(dentists []model.Dentist) []int64 {
	out := make([]int64, 0, len(dentists))
	for _, d := range dentists {
		out = append(out, d.ID)
	}
	return out
}

func price(v float64) *float64 {
	return &v
}

func TestFilterDentists(t *testing.T) {
	all := sampleDentists()

	tests := []struct {
		name   string
		filter DentistFilter
		want   []int64
	}{
		{name: "empty filter", filter: DentistFilter{}, want: []int64{1, 2, 3}},
		{name: "city ignores case", filter: DentistFilter{City: "MOSCOW"}, want: []int64{1, 3}},
		{name: "service id any", filter: DentistFilter{ServiceIDs: []int64{3, 4}}, want: []int64{2, 3}},
		{name: "service name substring", filter: DentistFilter{ServiceName: "clean"}, want: []int64{1}},
		{name: "min price overlaps", filter: DentistFilter{MinPrice: price(6000)}, want: []int64{2, 3}},
		{name: "max price overlaps", filter: DentistFilter{MaxPrice: price(1500)}, want: []int64{1}},
		{name: "price window", filter: DentistFilter{MinPrice: price(5000), MaxPrice: price(8000)}, want: []int64{1, 2, 3}},
		{name: "combined", filter: DentistFilter{City: "moscow", ServiceIDs: []int64{4}}, want: []int64{3}},
		{name: "nothing", filter: DentistFilter{City: "Omsk"}, want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterDentists(all, tt.filter)))
		})
	}
}

func TestDentistFilterIsEmpty(t *testing.T) {
	assert.True(t, DentistFilter{}.IsEmpty())
	assert.False(t, DentistFilter{ServiceName: "x"}.IsEmpty())
}

func TestDentistServiceUsesCache(t *testing.T) {
	ctx := context.Background()
	clinic := newFakeClinic()
	clinic.dentists = sampleDentists()
	cache := &fakeCache{}
	svc := NewDentistService(clinic, cache, zap.NewNop())

	list, err := svc.List(ctx, DentistFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, 1, clinic.dentistCalls)
	assert.Equal(t, 1, cache.sets)

	d, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Oleg Sidorov", d.Name)
	assert.Equal(t, 1, clinic.dentistCalls)

	require.NoError(t, svc.Refresh(ctx))
	_, err = svc.List(ctx, DentistFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, clinic.dentistCalls)
}

func TestDentistServiceCacheFailureFallsBack(t *testing.T) {
	clinic := newFakeClinic()
	clinic.dentists = sampleDentists()
	svc := NewDentistService(clinic, &fakeCache{getErr: errors.New("redis down")}, zap.NewNop())

	list, err := svc.List(context.Background(), DentistFilter{City: "Kazan"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(list))
}

func TestDentistServiceWithoutCache(t *testing.T) {
	ctx := context.Background()
	clinic := newFakeClinic()
	clinic.dentists = sampleDentists()
	svc := NewDentistService(clinic, nil, zap.NewNop())

	_, err := svc.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrDentistNotFound)

	cities, err := svc.Cities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kazan", "Moscow"}, cities)

	assert.NoError(t, svc.Refresh(ctx))
}
