package appointments

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wellmind/support-platform/internal/observability/metrics"
	"github.com/wellmind/support-platform/internal/schedule"
	"github.com/wellmind/support-platform/pkg/logging"
)

var appointmentsTracer = otel.Tracer("wellmind.internal.appointments")

// Fetcher is the read side of the appointment store.
type Fetcher interface {
	ListUpcoming(ctx context.Context, userID string) ([]Appointment, error)
	ListPast(ctx context.Context, userID string) ([]Appointment, error)
}

// WorkerDirectory resolves a support worker id to a display name.
// An empty name with nil error means the worker is unknown; callers fall
// back to the placeholder label.
type WorkerDirectory interface {
	DisplayName(ctx context.Context, workerID string) (string, error)
}

// Service aggregates the two record sets into dashboard statistics and
// classified lists. Every read samples "now" exactly once, so a record
// cannot flip buckets halfway through a single pass.
type Service struct {
	repo      Fetcher
	directory WorkerDirectory
	metrics   *metrics.SchedulingMetrics
	logger    *logging.Logger

	// nowFn is swapped in tests to pin the evaluation instant.
	nowFn func() schedule.CivilDateTime
}

// NewService constructs the aggregation service. The directory and metrics
// are optional.
func NewService(repo Fetcher, directory WorkerDirectory, m *metrics.SchedulingMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointments: fetcher required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:      repo,
		directory: directory,
		metrics:   m,
		logger:    logger,
		nowFn:     schedule.Now,
	}
}

// Dashboard is the summary block rendered at the top of the home screen.
type Dashboard struct {
	UpcomingCount   int          `json:"upcoming_count"`
	CompletedCount  int          `json:"completed_count"`
	NextSession     *Appointment `json:"next_session,omitempty"`
	DataUnavailable bool         `json:"data_unavailable,omitempty"`
}

// Lists are the classified buckets the appointment list screen renders.
type Lists struct {
	Upcoming  []Appointment `json:"upcoming"`
	Past      []Appointment `json:"past"`
	Cancelled []Appointment `json:"cancelled"`
}

// Dashboard fetches both record sets concurrently and aggregates them.
// A fetch failure degrades to empty counts with DataUnavailable set; stale
// or partial statistics are never presented.
func (s *Service) Dashboard(ctx context.Context, userID string) *Dashboard {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.dashboard")
	defer span.End()
	span.SetAttributes(attribute.String("wellmind.user_id", userID))

	now := s.nowFn()
	upcoming, past, err := s.fetchBoth(ctx, userID)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("dashboard fetch failed", "user_id", userID, "error", err)
		return &Dashboard{DataUnavailable: true}
	}

	s.resolveWorkerNames(ctx, upcoming)

	return &Dashboard{
		UpcomingCount:  CountUpcoming(upcoming, now),
		CompletedCount: CountCompleted(upcoming, past, now),
		NextSession:    PickNextSession(upcoming, now),
	}
}

// Lists fetches both record sets and buckets every record through the
// classifier, so the list screen can never disagree with the dashboard.
func (s *Service) Lists(ctx context.Context, userID string) (*Lists, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.lists")
	defer span.End()

	now := s.nowFn()
	upcoming, past, err := s.fetchBoth(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.resolveWorkerNames(ctx, upcoming)

	out := &Lists{}
	seen := make(map[string]struct{}, len(upcoming)+len(past))
	for _, a := range append(append([]Appointment{}, upcoming...), past...) {
		if a.ID != "" {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
		}
		switch a.DisplayStatus(now) {
		case schedule.DisplayUpcoming:
			out.Upcoming = append(out.Upcoming, a)
		case schedule.DisplayCancelled:
			out.Cancelled = append(out.Cancelled, a)
		default:
			out.Past = append(out.Past, a)
		}
	}
	return out, nil
}

type fetchResult struct {
	source  string
	records []Appointment
	err     error
}

// fetchBoth runs the upcoming and past queries in parallel and waits for
// both; the caller's output must not depend on which resolves first.
func (s *Service) fetchBoth(ctx context.Context, userID string) (upcoming, past []Appointment, err error) {
	results := make(chan fetchResult, 2)

	go func() {
		records, err := s.repo.ListUpcoming(ctx, userID)
		results <- fetchResult{source: "upcoming", records: records, err: err}
	}()
	go func() {
		records, err := s.repo.ListPast(ctx, userID)
		results <- fetchResult{source: "past", records: records, err: err}
	}()

	for i := 0; i < 2; i++ {
		res := <-results
		if res.err != nil {
			s.metrics.ObserveFetchFailure(res.source)
			if err == nil {
				err = res.err
			}
			continue
		}
		if res.source == "upcoming" {
			upcoming = res.records
		} else {
			past = res.records
		}
	}
	if err != nil {
		return nil, nil, err
	}
	return upcoming, past, nil
}

// resolveWorkerNames fans out directory lookups for records that carry a
// worker id but no display name. Lookup failures leave the name empty; the
// placeholder is substituted at render time.
func (s *Service) resolveWorkerNames(ctx context.Context, records []Appointment) {
	if s.directory == nil {
		return
	}

	var wg sync.WaitGroup
	for i := range records {
		if records[i].SupportWorkerName != "" || records[i].SupportWorkerID == "" {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name, err := s.directory.DisplayName(ctx, records[i].SupportWorkerID)
			if err != nil {
				s.metrics.ObserveFetchFailure("worker_name")
				s.logger.Warn("worker name lookup failed",
					"worker_id", records[i].SupportWorkerID, "error", err)
				return
			}
			records[i].SupportWorkerName = name
		}(i)
	}
	wg.Wait()
}
