// Package reminder runs the background scan that mails task reminders.
package reminder

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/projectzen/board-api/internal/mailer"
	"github.com/projectzen/board-api/internal/metrics"
	"github.com/projectzen/board-api/internal/repository"
)

// Scanner periodically finds tasks whose reminder time has passed and
// mails the assignee. A task's notified flag is set only after a
// successful send, so delivery is at-least-once: a failed send (or a
// failed flag write) leaves the task eligible for the next cycle.
type Scanner struct {
	taskRepo repository.TaskRepository
	mailer   mailer.Mailer
	interval time.Duration

	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	started bool
	stopped bool
}

// NewScanner creates a Scanner. A non-positive interval falls back to one
// minute.
func NewScanner(taskRepo repository.TaskRepository, m mailer.Mailer, interval time.Duration) *Scanner {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scanner{
		taskRepo: taskRepo,
		mailer:   m,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the scan loop in its own goroutine. It never blocks the
// request path.
func (s *Scanner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	go s.run()
}

// Stop terminates the loop and waits for the current cycle to finish.
func (s *Scanner) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.stopCh)
	<-s.doneCh
}

func (s *Scanner) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.Scan(time.Now())
		}
	}
}

// Scan runs a single reminder cycle. Tasks are processed sequentially; a
// slow send delays only the remainder of this cycle.
func (s *Scanner) Scan(now time.Time) {
	tasks, err := s.taskRepo.ListDueReminders(now)
	if err != nil {
		log.Error().Err(err).Msg("reminder scan query failed")
		return
	}

	for _, task := range tasks {
		if task.Assignee == nil || task.Assignee.Email == "" {
			continue
		}

		err := s.mailer.SendReminder(task.Assignee.Email, task.Assignee.Name, task.Title, task.Deadline)
		if err != nil {
			metrics.RemindersFailed.Inc()
			log.Error().Err(err).Uint64("task_id", task.ID).Str("to", task.Assignee.Email).
				Msg("failed to send reminder")
			continue
		}

		metrics.RemindersSent.Inc()
		log.Info().Uint64("task_id", task.ID).Str("to", task.Assignee.Email).Msg("reminder sent")

		if err := s.taskRepo.MarkNotified(task.ID); err != nil {
			// Task stays eligible; the next cycle will resend.
			log.Error().Err(err).Uint64("task_id", task.ID).Msg("failed to mark task notified")
		}
	}
}
