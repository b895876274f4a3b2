package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fabricsync/fabricsync/pkg/controller"
	"github.com/fabricsync/fabricsync/pkg/log"
	"github.com/fabricsync/fabricsync/pkg/metrics"
	"github.com/fabricsync/fabricsync/pkg/session"
	"github.com/fabricsync/fabricsync/pkg/source"
	"github.com/fabricsync/fabricsync/pkg/types"
	"github.com/fabricsync/fabricsync/pkg/wire"
)

// Syncer drives the periodic full sync: every period it claims the
// region's sync session, pushes the model in dependency order, and
// releases the session.
type Syncer struct {
	src    source.Source
	w      *controller.Wrapper
	sess   *session.Manager
	period time.Duration
	logger zerolog.Logger
}

// New wires a syncer from its collaborators.
func New(src source.Source, w *controller.Wrapper, sess *session.Manager, period time.Duration) *Syncer {
	return &Syncer{
		src:    src,
		w:      w,
		sess:   sess,
		period: period,
		logger: log.WithComponent("syncer").With().Str("region", w.Region()).Logger(),
	}
}

// Run loops until the context is cancelled. A session conflict is not
// fatal: another adapter holds the region, so we back off until the
// next tick.
func (s *Syncer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		if err := s.SyncOnce(); err != nil {
			if errors.Is(err, session.ErrSyncUnavailable) {
				s.logger.Info().Msg("region sync held by another requester, backing off")
			} else {
				s.logger.Error().Err(err).Msg("sync failed")
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// SyncOnce performs one full sync bracketed by a sync session. On a
// mid-push failure the session is still ended; the next run
// re-applies idempotently.
func (s *Syncer) SyncOnce() error {
	if err := s.sess.BeginSync(); err != nil {
		if errors.Is(err, session.ErrSyncUnavailable) {
			metrics.SyncSessionsTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
		} else {
			metrics.SyncSessionsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		}
		return err
	}

	pushErr := s.push()

	if err := s.sess.EndSync(); err != nil {
		metrics.SyncSessionsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		if pushErr != nil {
			return fmt.Errorf("push failed (%v) and sync end failed: %w", pushErr, err)
		}
		return err
	}
	if pushErr != nil {
		metrics.SyncSessionsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return pushErr
	}

	metrics.SyncSessionsTotal.WithLabelValues(metrics.OutcomeCompleted).Inc()
	metrics.LastSyncTimestamp.SetToCurrentTime()
	return nil
}

// push walks the model in referential dependency order: tenants, then
// per tenant its networks and segments, then instances, ports and
// bindings.
func (s *Syncer) push() error {
	tenants, err := s.src.ListTenants()
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}
	if len(tenants) == 0 {
		return nil
	}

	tenantIDs := make([]string, 0, len(tenants))
	for _, t := range tenants {
		tenantIDs = append(tenantIDs, t.ID)
	}
	if err := s.w.CreateTenantBulk(tenantIDs); err != nil {
		return err
	}
	metrics.RecordsPushed.WithLabelValues(string(wire.KindTenant)).Add(float64(len(tenantIDs)))

	for _, t := range tenants {
		if err := s.pushTenant(t.ID); err != nil {
			return fmt.Errorf("failed to push tenant %s: %w", t.ID, err)
		}
	}
	return nil
}

func (s *Syncer) pushTenant(tenantID string) error {
	networks, err := s.src.ListNetworks(tenantID)
	if err != nil {
		return err
	}
	if len(networks) > 0 {
		if err := s.w.CreateNetworkBulk(tenantID, networks); err != nil {
			return err
		}
		metrics.RecordsPushed.WithLabelValues(string(wire.KindNetwork)).Add(float64(len(networks)))
	}

	ports, err := s.src.ListPorts(tenantID)
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		return nil
	}

	portIDs := make([]string, 0, len(ports))
	portMap := make(map[string]types.Port, len(ports))
	for _, p := range ports {
		portIDs = append(portIDs, p.ID)
		portMap[p.ID] = p
	}

	profiles, err := s.src.PortProfiles(portIDs)
	if err != nil {
		return err
	}

	devices := source.DevicesFromPorts(ports)
	if err := s.w.CreateInstanceBulk(tenantID, portMap, devices, profiles); err != nil {
		return err
	}
	metrics.RecordsPushed.WithLabelValues(string(wire.KindPort)).Add(float64(len(ports)))
	metrics.RecordsPushed.WithLabelValues(string(wire.KindInstance)).Add(float64(len(devices)))
	return nil
}
