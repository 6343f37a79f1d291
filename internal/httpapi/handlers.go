package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/dentist_booking_bot/internal/booking"
	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
	"github.com/Freeeeeet/dentist_booking_bot/internal/service"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type dentistsResponse struct {
	Count    int             `json:"count"`
	Dentists []model.Dentist `json:"dentists"`
}

func (s *Server) listDentists(c echo.Context) error {
	filter, err := parseDentistFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	dentists, err := s.directory.List(c.Request().Context(), filter)
	if err != nil {
		s.logger.Error("Failed to list dentists", zap.Error(err))
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "clinic api unavailable"})
	}
	if dentists == nil {
		dentists = []model.Dentist{}
	}

	return c.JSON(http.StatusOK, dentistsResponse{Count: len(dentists), Dentists: dentists})
}

// parseDentistFilter: serviceId можно передать несколько раз или через запятую
func parseDentistFilter(c echo.Context) (service.DentistFilter, error) {
	filter := service.DentistFilter{
		City:        strings.TrimSpace(c.QueryParam("city")),
		ServiceName: strings.TrimSpace(c.QueryParam("service")),
	}

	for _, raw := range c.QueryParams()["serviceId"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return filter, errors.New("serviceId must be an integer")
			}
			filter.ServiceIDs = append(filter.ServiceIDs, id)
		}
	}

	var err error
	if filter.MinPrice, err = parsePrice(c.QueryParam("minPrice")); err != nil {
		return filter, errors.New("minPrice must be a number")
	}
	if filter.MaxPrice, err = parsePrice(c.QueryParam("maxPrice")); err != nil {
		return filter, errors.New("maxPrice must be a number")
	}
	return filter, nil
}

func parsePrice(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, errors.New("bad price")
	}
	return &v, nil
}

type slotViewParams struct {
	anchor    civil.Date
	align     slots.Alignment
	day       civil.Date
	pinned    *civil.DateTime
	tentative *civil.DateTime
}

func (s *Server) slotView(c echo.Context) error {
	dentistID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || dentistID <= 0 {
		return badRequest(c, "dentist id must be a positive integer")
	}

	p, err := s.parseSlotViewParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	sess, err := s.viewer.Preview(c.Request().Context(), dentistID, booking.Options{
		Align:  p.align,
		Anchor: p.anchor,
		Pinned: p.pinned,
	})
	if err != nil {
		s.logger.Error("Failed to build slot view", zap.Int64("dentist_id", dentistID), zap.Error(err))
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "could not load slots"})
	}

	// Выбор делается в своём дне, затем открывается запрошенный день.
	// Для новой записи смена дня сбрасывает выбор, как и в боте.
	if p.tentative != nil {
		sel := slots.SelectionOf(*p.tentative)
		if err := sess.ViewDay(sel.Date); err != nil {
			return badRequest(c, "tentative: "+err.Error())
		}
		if err := sess.Select(sel.Time); err != nil {
			return badRequest(c, "tentative: "+err.Error())
		}
	}
	if !p.day.IsZero() {
		if err := sess.ViewDay(p.day); err != nil {
			return badRequest(c, "day: "+err.Error())
		}
	}

	return c.JSON(http.StatusOK, sess.View())
}

func (s *Server) parseSlotViewParams(c echo.Context) (slotViewParams, error) {
	p := slotViewParams{align: s.defaultAlign}
	clock := s.viewer.Clock()

	if raw := c.QueryParam("align"); raw != "" {
		align, err := slots.ParseAlignment(raw)
		if err != nil {
			return p, err
		}
		p.align = align
	}

	if raw := c.QueryParam("anchor"); raw != "" {
		d, err := civil.ParseDate(raw)
		if err != nil {
			return p, errors.New("anchor must be YYYY-MM-DD")
		}
		p.anchor = d
	}

	if raw := c.QueryParam("day"); raw != "" {
		d, err := civil.ParseDate(raw)
		if err != nil {
			return p, errors.New("day must be YYYY-MM-DD")
		}
		p.day = d
	}

	for _, item := range []struct {
		name string
		dst  **civil.DateTime
	}{
		{"pinned", &p.pinned},
		{"tentative", &p.tentative},
	} {
		raw := c.QueryParam(item.name)
		if raw == "" {
			continue
		}
		dt, err := clock.ParseSlotTime(raw)
		if err != nil {
			return p, errors.New(item.name + " must be YYYY-MM-DDTHH:mm")
		}
		*item.dst = &dt
	}

	return p, nil
}
