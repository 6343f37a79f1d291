package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/Freeeeeet/dentist_booking_bot/internal/booking"
	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
	"github.com/Freeeeeet/dentist_booking_bot/internal/service"
	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Directory источник списка врачей
type Directory interface {
	List(ctx context.Context, filter service.DentistFilter) ([]model.Dentist, error)
}

// SlotViewer строит временную сессию выбора времени и загружает слоты
type SlotViewer interface {
	Preview(ctx context.Context, dentistID int64, opts booking.Options) (*booking.Session, error)
	Clock() *slots.Clock
}

// Server HTTP API для просмотра врачей и свободного времени
type Server struct {
	echo         *echo.Echo
	directory    Directory
	viewer       SlotViewer
	defaultAlign slots.Alignment
	logger       *zap.Logger
}

// NewServer собирает echo с маршрутами и middleware
func NewServer(directory Directory, viewer SlotViewer, defaultAlign slots.Alignment, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:         e,
		directory:    directory,
		viewer:       viewer,
		defaultAlign: defaultAlign,
		logger:       logger,
	}

	e.Use(echomw.Recover())
	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware("dentist-api")))
	e.Use(echomw.RequestID())
	e.Use(requestLogger(logger))

	e.GET("/healthz", s.health)

	v1 := e.Group("/v1")
	v1.GET("/dentists", s.listDentists)
	v1.GET("/dentists/:id/slot-view", s.slotView)

	return s
}

// Handler возвращает http.Handler для тестов
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start слушает addr до Shutdown
func (s *Server) Start(addr string) error {
	s.logger.Info("HTTP API listening", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
