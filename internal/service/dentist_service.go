package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
	"go.uber.org/zap"
)

type DentistService struct {
	api    DentistsAPI
	cache  DentistCache
	logger *zap.Logger
}

// NewDentistService создаёт сервис справочника. cache может быть nil.
func NewDentistService(api DentistsAPI, cache DentistCache, logger *zap.Logger) *DentistService {
	return &DentistService{
		api:    api,
		cache:  cache,
		logger: logger,
	}
}

// DentistFilter фильтр справочника врачей. Пустые поля не ограничивают выборку.
type DentistFilter struct {
	City        string
	ServiceIDs  []int64
	ServiceName string
	MinPrice    *float64
	MaxPrice    *float64
}

// IsEmpty true если фильтр ничего не ограничивает
func (f DentistFilter) IsEmpty() bool {
	return f.City == "" && len(f.ServiceIDs) == 0 && f.ServiceName == "" &&
		f.MinPrice == nil && f.MaxPrice == nil
}

// List возвращает врачей, подходящих под фильтр
func (s *DentistService) List(ctx context.Context, filter DentistFilter) ([]model.Dentist, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return FilterDentists(all, filter), nil
}

// Get возвращает врача по ID
func (s *DentistService) Get(ctx context.Context, dentistID int64) (*model.Dentist, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == dentistID {
			return &all[i], nil
		}
	}
	return nil, ErrDentistNotFound
}

// Cities возвращает отсортированный список городов, где есть врачи
func (s *DentistService) Cities(ctx context.Context) ([]string, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var cities []string
	for _, d := range all {
		city := strings.TrimSpace(d.Clinic.City)
		key := strings.ToLower(city)
		if city == "" || seen[key] {
			continue
		}
		seen[key] = true
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities, nil
}

// Refresh сбрасывает кэш справочника
func (s *DentistService) Refresh(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

// all справочник из кэша или из API. Ошибки кэша не мешают работе.
func (s *DentistService) all(ctx context.Context) ([]model.Dentist, error) {
	if s.cache != nil {
		dentists, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("Dentist cache read failed", zap.Error(err))
		} else if ok {
			return dentists, nil
		}
	}

	dentists, err := s.api.AvailableDentists(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dentists: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dentists); err != nil {
			s.logger.Warn("Dentist cache write failed", zap.Error(err))
		}
	}

	s.logger.Debug("Dentists loaded from clinic API", zap.Int("count", len(dentists)))
	return dentists, nil
}

// FilterDentists применяет фильтр к списку, сохраняя порядок
func FilterDentists(dentists []model.Dentist, f DentistFilter) []model.Dentist {
	out := make([]model.Dentist, 0, len(dentists))
	for _, d := range dentists {
		if matchDentist(d, f) {
			out = append(out, d)
		}
	}
	return out
}

func matchDentist(d model.Dentist, f DentistFilter) bool {
	if f.City != "" && !strings.EqualFold(strings.TrimSpace(d.Clinic.City), strings.TrimSpace(f.City)) {
		return false
	}

	if len(f.ServiceIDs) > 0 {
		found := false
		for _, id := range f.ServiceIDs {
			if _, ok := d.ServiceByID(id); ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.ServiceName != "" {
		needle := strings.ToLower(strings.TrimSpace(f.ServiceName))
		found := false
		for _, svc := range d.Services {
			if strings.Contains(strings.ToLower(svc.Name), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	// диапазоны цен должны пересекаться
	if f.MinPrice != nil && d.PriceRange.Max < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && d.PriceRange.Min > *f.MaxPrice {
		return false
	}

	return true
}
