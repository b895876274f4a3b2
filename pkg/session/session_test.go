package session

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabricsync/fabricsync/pkg/batch"
	"github.com/fabricsync/fabricsync/pkg/controller"
	"github.com/fabricsync/fabricsync/pkg/log"
)

func TestMain(m *testing.M) {
	log.Init(log.Config{Level: log.ErrorLevel, JSONOutput: true, Output: io.Discard})
	os.Exit(m.Run())
}

type call struct {
	path string
	verb batch.Verb
	body interface{}
}

// fakeSender scripts controller responses and records every call.
type fakeSender struct {
	calls     []call
	responses [][]map[string]interface{}
	errs      []error
}

func (f *fakeSender) Send(path string, verb batch.Verb, body interface{}) ([]map[string]interface{}, error) {
	f.calls = append(f.calls, call{path, verb, body})
	var resp []map[string]interface{}
	if len(f.responses) > 0 {
		resp = f.responses[0]
		f.responses = f.responses[1:]
	}
	var err error
	if len(f.errs) > 0 {
		err = f.errs[0]
		f.errs = f.errs[1:]
	}
	return resp, err
}

const testRequestID = "thisWillBeRandomInProd"

func newTestManager(tr controller.Transport) *Manager {
	return NewManager("RegionOne", 10, tr,
		WithIDGenerator(func() string { return testRequestID }),
		WithRequester("host1"),
	)
}

// TestBeginSync tests the successful begin sequence: status read,
// region registration, sync start with echoed request id
func TestBeginSync(t *testing.T) {
	tr := &fakeSender{
		responses: [][]map[string]interface{}{
			{{"name": "RegionOne", "syncStatus": ""}},
			{{}},
			{{"syncStatus": "syncInProgress", "requestId": testRequestID}},
		},
	}
	m := newTestManager(tr)

	require.NoError(t, m.BeginSync())
	assert.Equal(t, StateSyncInProgress, m.State())
	assert.Equal(t, testRequestID, m.RequestID())

	require.Len(t, tr.calls, 3)
	assert.Equal(t, call{"region/RegionOne", batch.GET, nil}, tr.calls[0])
	assert.Equal(t, "region/RegionOne", tr.calls[1].path)
	assert.Equal(t, batch.PUT, tr.calls[1].verb)
	assert.Equal(t, call{
		path: "region/RegionOne/sync",
		verb: batch.POST,
		body: map[string]string{"requester": "host1", "requestId": testRequestID},
	}, tr.calls[2])
}

// TestBeginSyncConflict tests that a foreign in-progress sync fails
// fast without retrying
func TestBeginSyncConflict(t *testing.T) {
	tr := &fakeSender{
		responses: [][]map[string]interface{}{
			{{"name": "RegionOne", "syncStatus": "syncInProgress", "requester": "other-host"}},
		},
	}
	m := newTestManager(tr)

	err := m.BeginSync()
	require.ErrorIs(t, err, ErrSyncUnavailable)
	assert.Equal(t, StateSyncFailed, m.State())
	assert.Len(t, tr.calls, 1, "no further calls after a conflict")
	assert.Empty(t, m.RequestID())
}

// TestBeginSyncEchoMismatch tests that a wrong echoed request id is a
// protocol error, not a started session
func TestBeginSyncEchoMismatch(t *testing.T) {
	tr := &fakeSender{
		responses: [][]map[string]interface{}{
			{{"syncStatus": ""}},
			{{}},
			{{"syncStatus": "syncInProgress", "requestId": "someone-elses-id"}},
		},
	}
	m := newTestManager(tr)

	err := m.BeginSync()
	var protoErr *controller.ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, StateSyncFailed, m.State())
}

// TestBeginSyncNotReentrant tests that nested BeginSync is a usage
// error
func TestBeginSyncNotReentrant(t *testing.T) {
	tr := &fakeSender{
		responses: [][]map[string]interface{}{
			{{"syncStatus": ""}},
			{{}},
			{{"syncStatus": "syncInProgress", "requestId": testRequestID}},
		},
	}
	m := newTestManager(tr)

	require.NoError(t, m.BeginSync())
	assert.ErrorIs(t, m.BeginSync(), ErrSessionActive)
}

// TestBeginSyncAfterFailure tests that a failed begin can be retried
// by the caller
func TestBeginSyncAfterFailure(t *testing.T) {
	tr := &fakeSender{
		responses: [][]map[string]interface{}{
			{{"syncStatus": "syncInProgress"}},
			// second attempt succeeds
			{{"syncStatus": ""}},
			{{}},
			{{"syncStatus": "syncInProgress", "requestId": testRequestID}},
		},
	}
	m := newTestManager(tr)

	require.ErrorIs(t, m.BeginSync(), ErrSyncUnavailable)
	require.NoError(t, m.BeginSync())
	assert.Equal(t, StateSyncInProgress, m.State())
}

func inProgressManager(t *testing.T, extra ...[]map[string]interface{}) (*Manager, *fakeSender) {
	t.Helper()
	responses := [][]map[string]interface{}{
		{{"syncStatus": ""}},
		{{}},
		{{"syncStatus": "syncInProgress", "requestId": testRequestID}},
	}
	responses = append(responses, extra...)
	tr := &fakeSender{responses: responses}
	m := newTestManager(tr)
	require.NoError(t, m.BeginSync())
	return m, tr
}

// TestEndSync tests the successful end sequence
func TestEndSync(t *testing.T) {
	m, tr := inProgressManager(t, []map[string]interface{}{{"requester": testRequestID}})

	require.NoError(t, m.EndSync())
	assert.Equal(t, StateIdle, m.State())
	assert.Empty(t, m.RequestID())

	last := tr.calls[len(tr.calls)-1]
	assert.Equal(t, call{"region/RegionOne/sync", batch.DELETE, nil}, last)
}

// TestEndSyncLost tests that a foreign requester in the end response
// is a lost session
func TestEndSyncLost(t *testing.T) {
	m, _ := inProgressManager(t, []map[string]interface{}{{"requester": "someone-else"}})

	require.ErrorIs(t, m.EndSync(), ErrSessionLost)
	assert.Equal(t, StateSyncFailed, m.State())
}

// TestEndSyncWithoutSession tests the usage error
func TestEndSyncWithoutSession(t *testing.T) {
	m := newTestManager(&fakeSender{})
	assert.ErrorIs(t, m.EndSync(), ErrNoSession)
}
