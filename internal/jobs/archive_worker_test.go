package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/clearsight-ai/reportforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	puts    []string
	failFor map[string]error
}

func (m *memStore) Put(ctx context.Context, report domain.ArchivedReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[report.ID]; ok {
		return err
	}
	m.puts = append(m.puts, report.ID)
	return nil
}

func (m *memStore) stored() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.puts...)
}

func TestArchiveWorker_UploadsQueuedReports(t *testing.T) {
	store := &memStore{}
	w := NewArchiveWorker(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Enqueue(domain.ArchivedReport{ID: "r1"})
	w.Enqueue(domain.ArchivedReport{ID: "r2"})

	require.Eventually(t, func() bool {
		return len(store.stored()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"r1", "r2"}, store.stored())
}

func TestArchiveWorker_StopDrainsBacklog(t *testing.T) {
	store := &memStore{}
	w := NewArchiveWorker(store)

	// Queue before starting so the backlog exists at stop time.
	w.Enqueue(domain.ArchivedReport{ID: "r1"})

	go w.Start(context.Background())
	w.Stop()

	assert.Equal(t, []string{"r1"}, store.stored())
}

func TestArchiveWorker_FailedUploadDoesNotStopOthers(t *testing.T) {
	store := &memStore{failFor: map[string]error{"bad": errors.New("bucket gone")}}
	w := NewArchiveWorker(store)
	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	w.Enqueue(domain.ArchivedReport{ID: "good"})

	require.Eventually(t, func() bool {
		return len(store.stored()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	assert.Equal(t, []string{"good"}, store.stored())
}
