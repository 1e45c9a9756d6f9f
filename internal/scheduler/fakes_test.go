package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/aleister1102/expirywatch/internal/notifier"
)

type memoryStore struct {
	mu       sync.Mutex
	domains  []models.Domain
	channels []models.NotificationChannel
	logs     []models.LogEntry
	updates  int

	listErr   error
	updateErr error
	logErr    error
}

func (s *memoryStore) ListDomains(ctx context.Context) ([]models.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Domain, len(s.domains))
	copy(out, s.domains)
	return out, nil
}

func (s *memoryStore) GetDomain(ctx context.Context, id int64) (*models.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.domains {
		if d.ID == id {
			dd := d
			return &dd, nil
		}
	}
	return nil, errNotFound
}

func (s *memoryStore) UpdateDomain(ctx context.Context, id int64, update models.DomainUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	for i := range s.domains {
		if s.domains[i].ID == id {
			if update.ExpireAt != nil {
				s.domains[i].ExpireAt = update.ExpireAt
			}
			if update.LastCheck != nil {
				s.domains[i].LastCheck = update.LastCheck
			}
		}
	}
	s.updates++
	return nil
}

func (s *memoryStore) ListEnabledChannels(ctx context.Context) ([]models.NotificationChannel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.NotificationChannel
	for _, c := range s.channels {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memoryStore) AppendLog(ctx context.Context, domainID *int64, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logErr != nil {
		return s.logErr
	}
	s.logs = append(s.logs, models.LogEntry{ID: int64(len(s.logs) + 1), DomainID: domainID, Message: message})
	return nil
}

func (s *memoryStore) domain(id int64) models.Domain {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.domains {
		if d.ID == id {
			return d
		}
	}
	return models.Domain{}
}

func (s *memoryStore) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, l := range s.logs {
		out = append(out, l.Message)
	}
	return out
}

var errNotFound = errors.New("not found")

type stubResolver struct {
	mu      sync.Mutex
	results map[string]*time.Time
	errs    map[string]error
	calls   []string
}

func (r *stubResolver) FetchExpiry(ctx context.Context, name string) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
	if err, ok := r.errs[name]; ok {
		return nil, err
	}
	return r.results[name], nil
}

type recordingDispatcher struct {
	mu       sync.Mutex
	messages []string
	outcomes []notifier.Outcome
	err      error
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, message string) ([]notifier.Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	d.messages = append(d.messages, message)
	return d.outcomes, nil
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func autoDomain(id int64, name string) models.Domain {
	return models.Domain{ID: id, Name: name, Mode: models.DomainModeAuto, AutoRefresh: true, CheckIntervalDays: 7}
}
