package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hearthfire/questboard/internal/model"
)

// QuestLister lists completed quests that still owe a referee summary
type QuestLister interface {
	ListNeedingSummary(ctx context.Context, completedBefore time.Time) ([]*model.Quest, error)
}

// UserGetter resolves referees so the sweep can respect DM opt-in
type UserGetter interface {
	GetByID(ctx context.Context, id model.UserID) (*model.User, error)
}

// SummaryReminder periodically sweeps for completed quests whose referee
// has not yet written a summary. The sweep only logs; the bot tails the
// log stream and decides how to nag. Quests inside the grace period are
// left alone.
type SummaryReminder struct {
	quests   QuestLister
	users    UserGetter
	interval time.Duration
	grace    time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewSummaryReminder creates a new summary reminder job
func NewSummaryReminder(quests QuestLister, users UserGetter, interval, grace time.Duration) *SummaryReminder {
	if interval == 0 {
		interval = time.Hour
	}
	if grace == 0 {
		grace = 48 * time.Hour
	}
	return &SummaryReminder{
		quests:   quests,
		users:    users,
		interval: interval,
		grace:    grace,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the reminder sweep loop
func (j *SummaryReminder) Start() {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return
	}
	j.running = true
	j.mu.Unlock()

	j.wg.Add(1)
	go j.run()
	slog.Info("summary reminder started",
		slog.Duration("interval", j.interval),
		slog.Duration("grace", j.grace),
	)
}

// Stop gracefully stops the reminder sweep loop
func (j *SummaryReminder) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	j.running = false
	j.mu.Unlock()

	close(j.stopCh)
	j.wg.Wait()
	slog.Info("summary reminder stopped")
}

func (j *SummaryReminder) run() {
	defer j.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stopCh:
			return
		}
	}
}

func (j *SummaryReminder) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := j.RunOnce(ctx); err != nil {
		slog.Error("summary reminder sweep failed", slog.String("error", err.Error()))
	}
}

// RunOnce performs a single sweep (also used for manual triggers in tests)
func (j *SummaryReminder) RunOnce(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-j.grace)

	quests, err := j.quests.ListNeedingSummary(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, quest := range quests {
		referee, err := j.users.GetByID(ctx, quest.RefereeID)
		if err != nil {
			slog.Error("summary reminder referee lookup failed",
				slog.String("quest_id", quest.QuestID.String()),
				slog.String("referee_id", quest.RefereeID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		dmOK := referee != nil && referee.DMOptIn

		slog.Info("summary overdue",
			slog.String("quest_id", quest.QuestID.String()),
			slog.String("quest_name", quest.Name),
			slog.String("referee_id", quest.RefereeID.String()),
			slog.Bool("dm_opt_in", dmOK),
			slog.Time("completed_at", completedAt(quest)),
		)
	}

	if len(quests) > 0 {
		slog.Info("summary reminder sweep done", slog.Int("overdue", len(quests)))
	}

	return nil
}

// IsRunning returns whether the job loop is active
func (j *SummaryReminder) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

func completedAt(quest *model.Quest) time.Time {
	if quest.EndedAt != nil {
		return *quest.EndedAt
	}
	return time.Time{}
}
