package announce

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"menu-highlights/internal/domain"
	"menu-highlights/internal/infra/metrics"
)

// ScheduledGuardTTL bounds the once-per-day guard of scheduled announcements.
const ScheduledGuardTTL = 26 * time.Hour

// Service publishes a day's highlights through the Announcer port.
type Service struct {
	snapshots  domain.SnapshotRepo
	queue      domain.AnnounceQueue
	announcer  domain.Announcer
	guard      domain.Cache
	snapshotID string
	log        zerolog.Logger
	now        func() time.Time
}

// NewService creates the service. guard may be nil, in which case scheduled jobs are not
// de-duplicated.
func NewService(snapshots domain.SnapshotRepo, queue domain.AnnounceQueue, announcer domain.Announcer, guard domain.Cache, snapshotID string, logger zerolog.Logger) *Service {
	return &Service{
		snapshots:  snapshots,
		queue:      queue,
		announcer:  announcer,
		guard:      guard,
		snapshotID: snapshotID,
		log:        logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Enqueue asks the announcer binary to publish day.
func (s *Service) Enqueue(ctx context.Context, day domain.WeekDay, cause domain.AnnounceCause) (domain.AnnounceJob, error) {
	if !day.Valid() {
		return domain.AnnounceJob{}, fmt.Errorf("%w: %d", domain.ErrInvalidDay, day)
	}
	job := domain.AnnounceJob{
		ID:          uuid.NewString(),
		SnapshotID:  s.snapshotID,
		Day:         day,
		RequestedAt: s.now(),
		Cause:       cause,
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return domain.AnnounceJob{}, fmt.Errorf("enqueue announce: %w", err)
	}
	return job, nil
}

// Process renders and sends one job. Scheduled jobs are sent at most once per day and date.
func (s *Service) Process(ctx context.Context, job domain.AnnounceJob) error {
	if job.Cause == domain.AnnounceCauseScheduled && s.guard != nil {
		key := fmt.Sprintf("announce:%s:%d:%s", s.snapshotOf(job), job.Day, job.RequestedAt.UTC().Format("2006-01-02"))
		return s.guard.Once(ctx, key, ScheduledGuardTTL, func() error {
			return s.send(ctx, job)
		})
	}
	return s.send(ctx, job)
}

func (s *Service) send(ctx context.Context, job domain.AnnounceJob) error {
	snap, err := s.snapshots.LoadSnapshot(ctx, s.snapshotOf(job))
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			s.log.Info().Str("job", job.ID).Msg("announce: nothing saved yet")
			return nil
		}
		return fmt.Errorf("load snapshot: %w", err)
	}
	if !job.Day.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrInvalidDay, job.Day)
	}

	text := FormatDay(snap.Config, job.Day, snap.WeeklySchedule[job.Day])
	if text == "" {
		s.log.Info().Str("job", job.ID).Str("day", job.Day.Name()).Msg("announce: no active highlights")
		return nil
	}
	if err := s.announcer.Announce(ctx, text); err != nil {
		metrics.AnnounceSendErrors.Inc()
		return fmt.Errorf("announce: %w", err)
	}
	s.log.Info().Str("job", job.ID).Str("day", job.Day.Name()).Msg("announce: sent")
	return nil
}

// Run consumes the queue until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	for {
		job, ack, err := s.queue.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Error().Err(err).Msg("announce: receive failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		procErr := s.Process(ctx, job)
		if procErr != nil {
			s.log.Error().Err(procErr).Str("job", job.ID).Msg("announce: job failed")
		}
		// Rejected jobs are dropped; infrastructure faults are redelivered.
		if err := ack(procErr == nil || domain.Recoverable(procErr)); err != nil {
			s.log.Error().Err(err).Str("job", job.ID).Msg("announce: ack failed")
		}
	}
}

func (s *Service) snapshotOf(job domain.AnnounceJob) string {
	if job.SnapshotID != "" {
		return job.SnapshotID
	}
	return s.snapshotID
}
