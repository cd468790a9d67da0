package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	gosync "sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Reconciler replays queued records against the server. Replay is
// sequential per record and not transactional across records: partial
// progress persists if a pass is interrupted. There is no backoff, no
// attempt cap, and no idempotency key; a replay after a dropped response
// can double-create a sale on the server.
type Reconciler struct {
	queue   *Queue
	client  *http.Client
	baseURL string
	storeID string

	mu        gosync.Mutex
	wasOnline bool
	cron      *cron.Cron
}

func NewReconciler(queue *Queue, baseURL, storeID string) *Reconciler {
	return &Reconciler{
		queue:   queue,
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		storeID: storeID,
	}
}

// endpointFor maps a record kind to its server endpoint.
func (r *Reconciler) endpointFor(kind string) string {
	switch kind {
	case KindCredit:
		return r.baseURL + "/api/credits"
	default:
		return r.baseURL + "/api/sales"
	}
}

// SyncPass replays all unsynced records once, in insertion order. Passes
// are serialized: a trigger arriving while one is running waits its turn.
func (r *Reconciler) SyncPass(ctx context.Context) (synced, failed int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.queue.Unsynced()
	if err != nil {
		return 0, 0, err
	}

	for _, record := range records {
		select {
		case <-ctx.Done():
			return synced, failed, ctx.Err()
		default:
		}

		serverID, replayErr := r.replay(ctx, record)
		if replayErr != nil {
			log.Printf("[sync] record %d (%s) failed: %v", record.ID, record.Kind, replayErr)
			if markErr := r.queue.MarkFailed(record.ID, replayErr.Error()); markErr != nil {
				log.Printf("[sync] record %d: failed to record error: %v", record.ID, markErr)
			}
			failed++
			continue
		}

		if markErr := r.queue.MarkSynced(record.ID, serverID); markErr != nil {
			log.Printf("[sync] record %d: synced on server but local flag update failed: %v", record.ID, markErr)
			failed++
			continue
		}
		synced++
	}

	return synced, failed, nil
}

// replay POSTs one record and extracts the server-assigned id.
func (r *Reconciler) replay(ctx context.Context, record QueuedRecord) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpointFor(record.Kind),
		bytes.NewReader([]byte(record.Payload)))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-store-id", r.storeID)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("server returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var created struct {
		ID string `json:"ID"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("unreadable server response: %w", err)
	}
	return created.ID, nil
}

// observeOnline records a connectivity sample and reports whether it
// flipped from offline to online. Guarded by mu: cron firings run in
// their own goroutines, and one can arrive while a long pass from the
// previous firing is still draining the queue.
func (r *Reconciler) observeOnline(online bool) (transitioned bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	transitioned = online && !r.wasOnline
	r.wasOnline = online
	return transitioned
}

// Online probes the server's health endpoint.
func (r *Reconciler) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// StartScheduler polls connectivity every minute and runs a pass on every
// observed offline-to-online transition, plus whenever records are pending
// while online.
func (r *Reconciler) StartScheduler() {
	c := cron.New()

	c.AddFunc("* * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		online := r.Online(ctx)
		transitioned := r.observeOnline(online)

		if !online {
			return
		}

		pending, err := r.queue.PendingCount()
		if err != nil {
			log.Printf("[sync] pending count failed: %v", err)
			return
		}
		if pending == 0 && !transitioned {
			return
		}

		synced, failed, err := r.SyncPass(ctx)
		if err != nil {
			log.Printf("[sync] pass aborted: %v", err)
			return
		}
		if synced > 0 || failed > 0 {
			log.Printf("[sync] pass finished: %d synced, %d still pending", synced, failed)
		}
	})

	c.Start()
	r.cron = c
	log.Println("Offline sync scheduler started")
}

// Stop halts the scheduler; an in-flight pass finishes its current record.
func (r *Reconciler) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
