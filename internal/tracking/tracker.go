package tracking

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/localmart/localmart-client/internal/api"
	"github.com/localmart/localmart-client/pkg/logger"
	"github.com/localmart/localmart-client/pkg/maps"
)

const earthRadiusMeters = 6371000.0

// OrderAPI is the slice of the API client the tracker needs.
type OrderAPI interface {
	TrackOrder(ctx context.Context, orderID string) (*api.OrderTracking, error)
}

// RouteEstimator supplies road distance and duration between points.
type RouteEstimator interface {
	RouteMatrix(ctx context.Context, origins, destinations []maps.LatLng) ([]maps.MatrixElement, error)
}

// Tracker reports where the courier is relative to the drop-off point. Road
// estimates come from the routes API when one is configured; otherwise the
// straight-line distance is all the UI gets.
type Tracker struct {
	orders OrderAPI
	routes RouteEstimator
	log    *logger.Logger
}

// NewTracker builds a tracker. routes may be nil.
func NewTracker(orders OrderAPI, routes RouteEstimator, log *logger.Logger) (*Tracker, error) {
	if orders == nil {
		return nil, fmt.Errorf("order api is required")
	}
	return &Tracker{orders: orders, routes: routes, log: log}, nil
}

// Snapshot is one observation of an order's delivery progress.
type Snapshot struct {
	Tracking       api.OrderTracking
	DistanceMeters int
	Duration       time.Duration
	RoadEstimate   bool
}

// Snapshot fetches the order's tracking state and estimates the courier's
// distance to the drop-off point.
func (t *Tracker) Snapshot(ctx context.Context, orderID string, dropoff api.Location) (*Snapshot, error) {
	tracking, err := t.orders.TrackOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Tracking: *tracking}
	if tracking.Courier == nil {
		return snap, nil
	}

	snap.DistanceMeters = int(haversineMeters(*tracking.Courier, dropoff))

	if t.routes == nil {
		return snap, nil
	}

	elements, err := t.routes.RouteMatrix(ctx,
		[]maps.LatLng{{Latitude: tracking.Courier.Latitude, Longitude: tracking.Courier.Longitude}},
		[]maps.LatLng{{Latitude: dropoff.Latitude, Longitude: dropoff.Longitude}},
	)
	if err != nil || len(elements) == 0 {
		if t.log != nil {
			t.log.Warn(t.log.WithOrderID(ctx, orderID), "route matrix unavailable, using straight-line distance")
		}
		return snap, nil
	}

	snap.DistanceMeters = elements[0].DistanceMeters
	snap.Duration = elements[0].Duration
	snap.RoadEstimate = true
	return snap, nil
}

// Watch polls the order's tracking state at the given interval and hands each
// observation to observe. It returns when the order reaches a terminal status
// or the context is canceled.
func (t *Tracker) Watch(ctx context.Context, orderID string, dropoff api.Location, interval time.Duration, observe func(*Snapshot)) error {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		snap, err := t.Snapshot(ctx, orderID, dropoff)
		if err != nil {
			return err
		}
		if observe != nil {
			observe(snap)
		}
		if terminalStatus(snap.Tracking.Status) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func terminalStatus(status string) bool {
	return status == "delivered" || status == "cancelled"
}

// haversineMeters is the great-circle distance between two points.
func haversineMeters(a, b api.Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
