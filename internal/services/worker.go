package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueRun(runID uuid.UUID)
}

type worker struct {
	matchRepo    repositories.MatchRepository
	matcher      MatcherService
	runQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
}

func NewWorker(
	matchRepo repositories.MatchRepository,
	matcher MatcherService,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &worker{
		matchRepo:    matchRepo,
		matcher:      matcher,
		runQueue:     make(chan uuid.UUID, 100),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting match worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processRuns(ctx, i+1)
	}

	// Re-enqueue queued runs that never made it onto the channel, e.g.
	// after a restart.
	w.wg.Add(1)
	go w.pollPendingRuns(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping match worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Match worker stopped")
}

// EnqueueRun implements Worker.
func (w *worker) EnqueueRun(runID uuid.UUID) {
	select {
	case w.runQueue <- runID:
		log.Printf("📥 Match run %s enqueued\n", runID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue run %s\n", runID)
	}
}

func (w *worker) processRuns(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case runID := <-w.runQueue:
			log.Printf("👷 Worker #%d processing run %s\n", workerID, runID)
			if err := w.matcher.ProcessRun(ctx, runID); err != nil {
				log.Printf("❌ Worker #%d failed run %s: %v\n", workerID, runID, err)
			} else {
				log.Printf("✅ Worker #%d completed run %s\n", workerID, runID)
			}
		}
	}
}

func (w *worker) pollPendingRuns(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pending, err := w.matchRepo.FindPendingRuns(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending runs: %v\n", err)
				continue
			}

			for _, run := range pending {
				w.EnqueueRun(run.ID)
			}
		}
	}
}
