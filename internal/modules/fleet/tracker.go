// README: Fleet tracker polls drone telemetry on a fixed cadence and reconciles vehicle positions.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"skyhail/internal/metrics"
	"skyhail/internal/modules/vehicle"
	"skyhail/internal/telemetry"
	"skyhail/internal/types"
)

const defaultModel = "CopterExpress-d1"

type TelemetrySource interface {
	ListUnits(ctx context.Context) ([]telemetry.Unit, error)
	GetState(ctx context.Context, unitID string) (*telemetry.State, error)
}

type VehicleRegistry interface {
	Get(ctx context.Context, id types.ID) (*vehicle.Vehicle, error)
	Add(ctx context.Context, v vehicle.Vehicle) error
	UpdatePosition(ctx context.Context, id types.ID, p types.Point) error
}

type Tracker struct {
	source   TelemetrySource
	vehicles VehicleRegistry
	registry Registry
	log      *zap.Logger
	interval time.Duration
	simTag   string

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewTracker(source TelemetrySource, vehicles VehicleRegistry, registry Registry, log *zap.Logger, interval time.Duration, simTag string) *Tracker {
	return &Tracker{
		source:   source,
		vehicles: vehicles,
		registry: registry,
		log:      log,
		interval: interval,
		simTag:   simTag,
	}
}

// Start launches the polling loop. Calling Start on a running tracker is a
// no-op.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}
	ctx, t.cancel = context.WithCancel(ctx)
	go t.run(ctx)
}

// Stop cancels future polls. It does not wait for an in-flight cycle, whose
// per-unit failures are simply logged.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Tracker) run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.Reconcile(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Reconcile(ctx)
		}
	}
}

// Reconcile performs one reconciliation cycle: list units, filter to
// simulation units, and fan out per-unit upserts. Each unit's failure is
// captured independently; no failure aborts the batch or the loop.
func (t *Tracker) Reconcile(ctx context.Context) {
	units, err := t.source.ListUnits(ctx)
	if err != nil {
		t.log.Warn("list telemetry units", zap.Error(err))
		metrics.TrackerReconcileErrors.Inc()
		return
	}

	var wg sync.WaitGroup
	for _, u := range units {
		if !strings.Contains(u.Description, t.simTag) {
			continue
		}
		wg.Add(1)
		go func(u telemetry.Unit) {
			defer wg.Done()
			if err := t.reconcileUnit(ctx, u); err != nil {
				t.log.Warn("reconcile unit",
					zap.String("unit_id", u.ID), zap.Error(err))
				metrics.TrackerReconcileErrors.Inc()
			}
		}(u)
	}
	wg.Wait()
	metrics.TrackerCycles.Inc()
}

func (t *Tracker) reconcileUnit(ctx context.Context, u telemetry.Unit) error {
	vehicleID, ok := t.registry.Resolve(u.ID)
	if !ok {
		return fmt.Errorf("unit %s has no vehicle registration", u.ID)
	}

	state, err := t.source.GetState(ctx, u.ID)
	if err != nil {
		return err
	}
	pos := types.Point{Lat: state.Location.Lat, Long: state.Location.Lon}

	_, err = t.vehicles.Get(ctx, vehicleID)
	switch {
	case err == nil:
		return t.vehicles.UpdatePosition(ctx, vehicleID, pos)
	case errors.Is(err, vehicle.ErrNotFound):
		return t.vehicles.Add(ctx, vehicle.Vehicle{
			ID:     vehicleID,
			Model:  defaultModel,
			Icon:   iconURL(vehicleID),
			Coords: pos,
			Status: vehicle.StatusAvailable,
		})
	default:
		return err
	}
}

func iconURL(id types.ID) string {
	return fmt.Sprintf("https://lorempixel.com/100/100/abstract/?%s", string(id))
}
