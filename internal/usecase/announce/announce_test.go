package announce

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"menu-highlights/internal/domain"
)

func sampleItems() []domain.ScheduleItem {
	return []domain.ScheduleItem{
		{
			ID:         "a",
			ProductID:  1,
			Product:    domain.Product{ID: 1, Name: "X-Burger", Price: 35.90},
			Discount:   domain.Discount{Type: domain.DiscountPercentage, Value: 15},
			FinalPrice: 30.52,
			Active:     true,
		},
		{
			ID:         "b",
			ProductID:  2,
			Product:    domain.Product{ID: 2, Name: "Pizza <Margherita>", Price: 28.90},
			Discount:   domain.Discount{Type: domain.DiscountFixed, Value: 5},
			FinalPrice: 23.90,
			Active:     true,
		},
		{
			ID:         "c",
			ProductID:  3,
			Product:    domain.Product{ID: 3, Name: "Suco de Laranja", Price: 9.50},
			Discount:   domain.Discount{Type: domain.DiscountPercentage, Value: 10},
			FinalPrice: 8.55,
			Active:     false,
		},
	}
}

func activeConfig() domain.HighlightsConfig {
	return domain.HighlightsConfig{Title: "Destaques da Semana", Description: "Só hoje", Active: true}
}

func TestFormatDayListsActiveItems(t *testing.T) {
	text := FormatDay(activeConfig(), domain.Sunday, sampleItems())

	mustContain(t, text, "⭐ <b>Destaques da Semana</b> · Domingo")
	mustContain(t, text, "<i>Só hoje</i>")
	mustContain(t, text, "• <b>X-Burger</b>: <s>R$ 35,90</s> → <b>R$ 30,52</b> (15% OFF)")
	mustContain(t, text, "Pizza &lt;Margherita&gt;")
	mustContain(t, text, "(R$ 5,00 OFF)")
	if strings.Contains(text, "Suco de Laranja") {
		t.Fatalf("inactive item must be omitted:\n%s", text)
	}
}

func TestFormatDayEmpty(t *testing.T) {
	cfg := activeConfig()
	if got := FormatDay(cfg, domain.Monday, nil); got != "" {
		t.Fatalf("expected empty message, got %q", got)
	}
	cfg.Active = false
	if got := FormatDay(cfg, domain.Sunday, sampleItems()); got != "" {
		t.Fatalf("inactive config must not produce a message, got %q", got)
	}
}

type stubRepo struct {
	snap domain.Snapshot
	err  error
}

func (r stubRepo) LoadSnapshot(context.Context, string) (domain.Snapshot, error) {
	return r.snap, r.err
}

func (r stubRepo) SaveSnapshot(context.Context, string, domain.Snapshot) error { return nil }

type recordingAnnouncer struct {
	sent []string
	err  error
}

func (a *recordingAnnouncer) Announce(_ context.Context, text string) error {
	if a.err != nil {
		return a.err
	}
	a.sent = append(a.sent, text)
	return nil
}

type memoryQueue struct {
	jobs []domain.AnnounceJob
}

func (q *memoryQueue) Enqueue(_ context.Context, job domain.AnnounceJob) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *memoryQueue) Receive(ctx context.Context) (domain.AnnounceJob, domain.AckFunc, error) {
	return domain.AnnounceJob{}, nil, ctx.Err()
}

type onceCache struct {
	seen map[string]bool
}

func (c *onceCache) Once(_ context.Context, key string, _ time.Duration, fn func() error) error {
	if c.seen[key] {
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	c.seen[key] = true
	return nil
}

func (c *onceCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c *onceCache) Get(context.Context, string) ([]byte, error) { return nil, domain.ErrCacheMiss }

func snapshotWithSunday() domain.Snapshot {
	week := domain.NewWeeklySchedule()
	week[domain.Sunday] = sampleItems()
	return domain.Snapshot{Config: activeConfig(), WeeklySchedule: week}
}

func TestEnqueueValidatesDay(t *testing.T) {
	q := &memoryQueue{}
	svc := NewService(stubRepo{}, q, &recordingAnnouncer{}, nil, "main", zerolog.Nop())

	if _, err := svc.Enqueue(context.Background(), domain.WeekDay(9), domain.AnnounceCauseManual); !errors.Is(err, domain.ErrInvalidDay) {
		t.Fatalf("expected ErrInvalidDay, got %v", err)
	}
	job, err := svc.Enqueue(context.Background(), domain.Friday, domain.AnnounceCauseManual)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID == "" || job.SnapshotID != "main" || len(q.jobs) != 1 {
		t.Fatalf("unexpected job %+v (queued %d)", job, len(q.jobs))
	}
}

func TestProcessSendsOnce(t *testing.T) {
	announcer := &recordingAnnouncer{}
	guard := &onceCache{seen: map[string]bool{}}
	svc := NewService(stubRepo{snap: snapshotWithSunday()}, &memoryQueue{}, announcer, guard, "main", zerolog.Nop())

	job := domain.AnnounceJob{ID: "j1", Day: domain.Sunday, RequestedAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC), Cause: domain.AnnounceCauseScheduled}
	for i := 0; i < 2; i++ {
		if err := svc.Process(context.Background(), job); err != nil {
			t.Fatalf("process: %v", err)
		}
	}
	if len(announcer.sent) != 1 {
		t.Fatalf("scheduled job should be sent once, got %d", len(announcer.sent))
	}

	job.Cause = domain.AnnounceCauseManual
	if err := svc.Process(context.Background(), job); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(announcer.sent) != 2 {
		t.Fatalf("manual job must bypass the guard, got %d sends", len(announcer.sent))
	}
}

func TestProcessSkipsEmptyDayAndMissingSnapshot(t *testing.T) {
	announcer := &recordingAnnouncer{}
	svc := NewService(stubRepo{snap: snapshotWithSunday()}, &memoryQueue{}, announcer, nil, "main", zerolog.Nop())
	if err := svc.Process(context.Background(), domain.AnnounceJob{Day: domain.Monday}); err != nil {
		t.Fatalf("process: %v", err)
	}

	svc = NewService(stubRepo{err: domain.ErrSnapshotNotFound}, &memoryQueue{}, announcer, nil, "main", zerolog.Nop())
	if err := svc.Process(context.Background(), domain.AnnounceJob{Day: domain.Sunday}); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(announcer.sent) != 0 {
		t.Fatalf("nothing should be sent, got %v", announcer.sent)
	}
}

func TestProcessPropagatesSendErrors(t *testing.T) {
	announcer := &recordingAnnouncer{err: errors.New("telegram down")}
	svc := NewService(stubRepo{snap: snapshotWithSunday()}, &memoryQueue{}, announcer, nil, "main", zerolog.Nop())
	if err := svc.Process(context.Background(), domain.AnnounceJob{Day: domain.Sunday}); err == nil {
		t.Fatal("expected error")
	}
}

func mustContain(t *testing.T, text, substr string) {
	t.Helper()
	if !strings.Contains(text, substr) {
		t.Fatalf("expected %q in:\n%s", substr, text)
	}
}
