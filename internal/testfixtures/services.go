package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/community-slots/internal/application"
	"github.com/example/community-slots/internal/recurrence"
)

// ServiceFactory builds application services wired to a deterministic clock
// and identifier sequence.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Engine      *recurrence.Engine
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory returns a factory at ReferenceTime expanding in Tokyo
// with the default horizon.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	if factory.Engine == nil {
		factory.Engine = recurrence.NewEngine(Tokyo, recurrence.DefaultHorizonMonths)
	}
	return factory
}

func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) { factory.Clock = clock }
}

func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) { factory.IDGenerator = generator }
}

func WithEngine(engine *recurrence.Engine) ServiceFactoryOption {
	return func(factory *ServiceFactory) { factory.Engine = engine }
}

// SlotServiceDeps captures dependencies for constructing a slot service.
// Nil fields fall back to the factory defaults.
type SlotServiceDeps struct {
	Slots    application.SlotRepository
	Previews *recurrence.PreviewCache
	Logger   *slog.Logger
}

func (f *ServiceFactory) NewSlotService(deps SlotServiceDeps) *application.SlotService {
	return application.NewSlotServiceWithLogger(
		deps.Slots,
		f.Engine,
		deps.Previews,
		f.IDGenerator.NextFunc(),
		f.Clock.NowFunc(),
		discardIfNil(deps.Logger),
	)
}

// ReservationServiceDeps captures dependencies for constructing a
// reservation service.
type ReservationServiceDeps struct {
	Reservations application.ReservationRepository
	Slots        application.SlotReader
	Logger       *slog.Logger
}

func (f *ServiceFactory) NewReservationService(deps ReservationServiceDeps) *application.ReservationService {
	return application.NewReservationServiceWithLogger(
		deps.Reservations,
		deps.Slots,
		f.IDGenerator.NextFunc(),
		f.Clock.NowFunc(),
		discardIfNil(deps.Logger),
	)
}

func discardIfNil(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.DiscardHandler)
}
