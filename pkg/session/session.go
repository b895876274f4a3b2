package session

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fabricsync/fabricsync/pkg/batch"
	"github.com/fabricsync/fabricsync/pkg/controller"
	"github.com/fabricsync/fabricsync/pkg/log"
	"github.com/fabricsync/fabricsync/pkg/wire"
)

// State is the sync session machine state.
type State string

const (
	StateIdle           State = "IDLE"
	StateSyncRequested  State = "SYNC_REQUESTED"
	StateSyncInProgress State = "SYNC_IN_PROGRESS"
	StateSyncFailed     State = "SYNC_FAILED"
)

// syncStatus value the controller reports while a sync is held.
const statusInProgress = "syncInProgress"

var (
	// ErrSyncUnavailable means another requester holds the region's
	// sync session. Callers back off and re-poll; the manager never
	// retries internally.
	ErrSyncUnavailable = errors.New("sync unavailable: held by another requester")

	// ErrSessionActive is a usage error: BeginSync while a session is
	// already in flight. The manager is not reentrant.
	ErrSessionActive = errors.New("sync session already active")

	// ErrNoSession is a usage error: EndSync without an active session.
	ErrNoSession = errors.New("no sync session active")

	// ErrSessionLost means the controller's sync requester no longer
	// matches our request id; another actor took over mid-batch.
	ErrSessionLost = errors.New("sync session lost to another requester")
)

// IDGenerator produces sync request ids. Injected so tests can use a
// deterministic generator.
type IDGenerator func() string

// Manager controls one logical sync session against a controller
// region. It holds at most one in-flight request id.
type Manager struct {
	mu        sync.Mutex
	region    string
	interval  int
	requester string
	tr        controller.Transport
	newID     IDGenerator
	paths     batch.Paths

	state     State
	requestID string
	logger    zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithIDGenerator substitutes the request id generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Manager) { m.newID = gen }
}

// WithRequester overrides the requester name sent to the controller.
func WithRequester(name string) Option {
	return func(m *Manager) { m.requester = name }
}

// NewManager creates a session manager for one region. The requester
// defaults to the local host's short name.
func NewManager(region string, syncInterval int, tr controller.Transport, opts ...Option) *Manager {
	m := &Manager{
		region:    region,
		interval:  syncInterval,
		requester: shortHostname(),
		tr:        tr,
		newID:     uuid.NewString,
		paths:     batch.Paths{Region: region},
		state:     StateIdle,
		logger:    log.WithComponent("session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func shortHostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return strings.SplitN(name, ".", 2)[0]
}

// State returns the current machine state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// RequestID returns the in-flight request id, empty outside a session.
func (m *Manager) RequestID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestID
}

// BeginSync claims the region's sync session: it checks the region's
// current sync status, registers the region, and starts a sync with a
// fresh request id. Fails with ErrSyncUnavailable when another
// requester holds the session, without retrying.
func (m *Manager) BeginSync() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateSyncRequested || m.state == StateSyncInProgress {
		return ErrSessionActive
	}
	m.state = StateSyncRequested

	if err := m.beginLocked(); err != nil {
		m.state = StateSyncFailed
		m.requestID = ""
		return err
	}
	m.state = StateSyncInProgress
	m.logger.Info().Str("region", m.region).Str("request_id", m.requestID).Msg("sync session started")
	return nil
}

func (m *Manager) beginLocked() error {
	statusPath := m.paths.RegionResource(m.region)
	status, err := m.tr.Send(statusPath, batch.GET, nil)
	if err != nil {
		return fmt.Errorf("failed to read region status: %w", err)
	}
	if len(status) > 0 {
		if s, _ := status[0]["syncStatus"].(string); s == statusInProgress {
			return ErrSyncUnavailable
		}
	}

	// Idempotent region upsert before claiming the session.
	register := []wire.RegionRecord{{Name: m.region, SyncInterval: m.interval}}
	if _, err := m.tr.Send(statusPath, batch.PUT, register); err != nil {
		return fmt.Errorf("failed to register region: %w", err)
	}

	requestID := m.newID()
	body := map[string]string{
		"requester": m.requester,
		"requestId": requestID,
	}
	resp, err := m.tr.Send(m.paths.Sync(), batch.POST, body)
	if err != nil {
		return fmt.Errorf("failed to start sync: %w", err)
	}
	if len(resp) == 0 {
		return &controller.ProtocolError{Path: m.paths.Sync(), Reason: "empty sync-start response"}
	}
	echoedStatus, _ := resp[0]["syncStatus"].(string)
	echoedID, _ := resp[0]["requestId"].(string)
	if echoedStatus != statusInProgress || echoedID != requestID {
		return &controller.ProtocolError{
			Path:   m.paths.Sync(),
			Reason: fmt.Sprintf("sync-start echo mismatch: status=%q requestId=%q", echoedStatus, echoedID),
		}
	}

	m.requestID = requestID
	return nil
}

// EndSync releases the session. It succeeds only while the controller
// still shows our request id as the requester; otherwise the session
// was lost to another actor and the caller's batch is unsafe.
func (m *Manager) EndSync() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateSyncInProgress {
		return ErrNoSession
	}

	resp, err := m.tr.Send(m.paths.Sync(), batch.DELETE, nil)
	if err != nil {
		m.state = StateSyncFailed
		return fmt.Errorf("failed to end sync: %w", err)
	}
	if len(resp) == 0 {
		m.state = StateSyncFailed
		return &controller.ProtocolError{Path: m.paths.Sync(), Reason: "empty sync-end response"}
	}
	requester, _ := resp[0]["requester"].(string)
	if requester != m.requestID {
		m.state = StateSyncFailed
		m.requestID = ""
		return ErrSessionLost
	}

	m.logger.Info().Str("region", m.region).Str("request_id", m.requestID).Msg("sync session ended")
	m.state = StateIdle
	m.requestID = ""
	return nil
}
