// Package logistics holds the dashboard state: the in-memory collections
// every view is derived from, and the mutations that keep them in step with
// the row store.
package logistics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xelth-com/swiftlog/internal/dashboard"
	"github.com/xelth-com/swiftlog/internal/metrics"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/notify"
	"github.com/xelth-com/swiftlog/internal/store"
	"golang.org/x/sync/errgroup"
)

// Change events published after a successful mutation
const (
	EventDeliveries  = "deliveries.changed"
	EventDrivers     = "drivers.changed"
	EventReputations = "critical.changed"
	EventMappings    = "mappings.changed"
	EventReference   = "settings.changed"
	EventReloaded    = "state.reloaded"
)

// Publisher fans out change events to connected clients
type Publisher interface {
	Publish(event string, payload interface{})
}

// Options configures a Service
type Options struct {
	DefaultBranch   string
	Location        *time.Location
	WhatsAppBaseURL string
	Publisher       Publisher
	Sender          notify.Sender
	Clock           func() time.Time
}

// Snapshot is a consistent copy of the dashboard collections
type Snapshot struct {
	Deliveries  []models.Delivery           `json:"deliveries"`
	Branches    []models.Branch             `json:"branches"`
	Reasons     []models.ReturnReason       `json:"reasons"`
	Drivers     []models.Driver             `json:"drivers"`
	Vehicles    []models.Vehicle            `json:"vehicles"`
	Reputations []models.CustomerReputation `json:"reputations"`
	Mappings    []models.ClientMapping      `json:"mappings"`
	LoadedAt    time.Time                   `json:"loadedAt"`
}

// Service owns the collections. Slices held in state are never modified in
// place; every mutation swaps in a new slice once the remote write succeeded.
type Service struct {
	store store.RowStore
	opts  Options

	mu    sync.RWMutex
	state Snapshot
	users []models.User
}

// NewService creates an empty service over rs; call Load before use
func NewService(rs store.RowStore, opts Options) *Service {
	if opts.DefaultBranch == "" {
		opts.DefaultBranch = "sp-01"
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.WhatsAppBaseURL == "" {
		opts.WhatsAppBaseURL = notify.DefaultBaseURL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Service{store: rs, opts: opts}
}

// Load reads every table in parallel and replaces the state
func (s *Service) Load(ctx context.Context) error {
	var next Snapshot
	var users []models.User

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.store.SelectAll(gctx, models.TableDeliveries, &next.Deliveries) })
	g.Go(func() error { return s.store.SelectAll(gctx, models.TableBranches, &next.Branches) })
	g.Go(func() error { return s.store.SelectAll(gctx, models.TableReasons, &next.Reasons) })
	g.Go(func() error { return s.store.SelectAll(gctx, models.TableDrivers, &next.Drivers) })
	g.Go(func() error { return s.store.SelectAll(gctx, models.TableVehicles, &next.Vehicles) })
	g.Go(func() error { return s.store.SelectAll(gctx, models.TableReputations, &next.Reputations) })
	g.Go(func() error { return s.store.SelectAll(gctx, models.TableMappings, &next.Mappings) })
	g.Go(func() error { return s.store.SelectAll(gctx, models.TableUsers, &users) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load dashboard state: %w", err)
	}

	for i := range next.Deliveries {
		d := &next.Deliveries[i]
		if day, err := dashboard.ParseDate(d.Date); err == nil {
			d.Date = day.ISO()
		}
		if d.BoxQuantity < 1 {
			d.BoxQuantity = models.DefaultBoxQuantity
		}
	}
	next.ensureSlices()
	if users == nil {
		users = []models.User{}
	}
	next.LoadedAt = s.opts.Clock()

	s.mu.Lock()
	s.state = next
	s.users = users
	s.mu.Unlock()

	metrics.DeliveriesLoaded.Set(float64(len(next.Deliveries)))
	log.Info().
		Int("deliveries", len(next.Deliveries)).
		Int("drivers", len(next.Drivers)).
		Int("critical", len(next.Reputations)).
		Msg("📦 Dashboard state loaded")

	if len(users) == 0 {
		if err := s.seedAdmin(ctx); err != nil {
			log.Warn().Err(err).Msg("⚠️  Could not seed default administrator")
		}
	}
	return nil
}

// Reload re-reads the row store so writes by other operators show up
func (s *Service) Reload(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	s.publish(EventReloaded, nil)
	return nil
}

// Snapshot returns a copy of the current collections
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Deliveries:  clone(s.state.Deliveries),
		Branches:    clone(s.state.Branches),
		Reasons:     clone(s.state.Reasons),
		Drivers:     clone(s.state.Drivers),
		Vehicles:    clone(s.state.Vehicles),
		Reputations: clone(s.state.Reputations),
		Mappings:    clone(s.state.Mappings),
		LoadedAt:    s.state.LoadedAt,
	}
}

// Branches returns a copy of the branch table
func (s *Service) Branches() []models.Branch { return collection(s, branchesOf) }

// Reasons returns a copy of the return reasons
func (s *Service) Reasons() []models.ReturnReason { return collection(s, reasonsOf) }

// Drivers returns a copy of the driver roster
func (s *Service) Drivers() []models.Driver { return collection(s, driversOf) }

// Vehicles returns a copy of the fleet
func (s *Service) Vehicles() []models.Vehicle { return collection(s, vehiclesOf) }

// Reputations returns a copy of the critical base
func (s *Service) Reputations() []models.CustomerReputation { return collection(s, reputationsOf) }

// Mappings returns a copy of the seller assignments
func (s *Service) Mappings() []models.ClientMapping { return collection(s, mappingsOf) }

func collection[T any](s *Service, sl slot[T]) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(*sl(&s.state))
}

// Today is the current calendar date in the configured location
func (s *Service) Today() dashboard.Day {
	return dashboard.DayOf(s.opts.Clock().In(s.opts.Location))
}

// ResolveBranch maps "all" or an empty branch to the default branch for writes
func (s *Service) ResolveBranch(branch string) string {
	if branch == "" || branch == models.BranchAll {
		return s.opts.DefaultBranch
	}
	return branch
}

// View builds the scoped delivery list every tab renders from
func (s *Service) View(scope dashboard.Scope) []models.Delivery {
	s.mu.RLock()
	deliveries := s.state.Deliveries
	s.mu.RUnlock()
	return dashboard.BuildView(deliveries, scope, s.Today())
}

func (s *Service) publish(event string, payload interface{}) {
	if s.opts.Publisher != nil {
		s.opts.Publisher.Publish(event, payload)
	}
}

func (s *Service) syncFailed(op string, ids []string, err error) error {
	metrics.SyncFailures.WithLabelValues(op).Inc()
	log.Error().Err(err).Str("op", op).Strs("ids", ids).Msg("❌ Remote write failed, local state unchanged")
	return &SyncError{Op: op, IDs: ids, Err: err}
}

func (s *Service) now() time.Time {
	return s.opts.Clock().UTC()
}

func (sn *Snapshot) ensureSlices() {
	if sn.Deliveries == nil {
		sn.Deliveries = []models.Delivery{}
	}
	if sn.Branches == nil {
		sn.Branches = []models.Branch{}
	}
	if sn.Reasons == nil {
		sn.Reasons = []models.ReturnReason{}
	}
	if sn.Drivers == nil {
		sn.Drivers = []models.Driver{}
	}
	if sn.Vehicles == nil {
		sn.Vehicles = []models.Vehicle{}
	}
	if sn.Reputations == nil {
		sn.Reputations = []models.CustomerReputation{}
	}
	if sn.Mappings == nil {
		sn.Mappings = []models.ClientMapping{}
	}
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
