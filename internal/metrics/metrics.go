package metrics

import (
	"context"
	"sync"

	"github.com/DJprogre33/booking-app/internal/telemetry"
)

var (
	// Booking counters
	BookingsCreated    *telemetry.Counter
	BookingsDeleted    *telemetry.Counter
	CapacityRejections *telemetry.Counter

	// Histograms
	BookingDuration *telemetry.Histogram

	initOnce sync.Once
	initErr  error
)

// Init initializes all booking metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	BookingsCreated, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_created_total",
		Description: "Total number of bookings committed",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsDeleted, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_deleted_total",
		Description: "Total number of bookings deleted",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	CapacityRejections, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_capacity_rejections_total",
		Description: "Total number of reservations rejected for lack of capacity",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingDuration, err = telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "booking_create_duration_seconds",
		Description: "Latency of the reservation workflow",
		Unit:        "s",
	})
	if err != nil {
		return err
	}

	return nil
}

// IncCreated records a committed booking. Safe to call before Init.
func IncCreated(ctx context.Context) {
	if BookingsCreated != nil {
		BookingsCreated.Inc(ctx)
	}
}

// IncDeleted records a deleted booking. Safe to call before Init.
func IncDeleted(ctx context.Context) {
	if BookingsDeleted != nil {
		BookingsDeleted.Inc(ctx)
	}
}

// IncCapacityRejected records a reservation rejected for lack of capacity.
// Safe to call before Init.
func IncCapacityRejected(ctx context.Context) {
	if CapacityRejections != nil {
		CapacityRejections.Inc(ctx)
	}
}

// ObserveBookingDuration records reservation workflow latency in seconds.
// Safe to call before Init.
func ObserveBookingDuration(ctx context.Context, seconds float64) {
	if BookingDuration != nil {
		BookingDuration.Record(ctx, seconds)
	}
}
