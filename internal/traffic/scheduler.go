// The traffic scheduler — periodic spawn checks with occupancy damping,
// concurrent session workers, and drain-on-stop.
package traffic

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/shopkeep/internal/customer"
	"github.com/talgya/shopkeep/internal/decision"
	"github.com/talgya/shopkeep/internal/session"
	"github.com/talgya/shopkeep/internal/shop"
)

// RecordSink receives finished visits and completed transactions, for
// callers who want the history to outlive the process.
type RecordSink interface {
	AppendVisit(Record) error
	AppendTransaction(shop.Transaction) error
}

// Config tunes the scheduler.
type Config struct {
	MaxConcurrent int           // Concurrency ceiling for active sessions
	TickScale     float64       // Multiplier on level check intervals; 1.0 = normal cadence
	ThinkTime     time.Duration // Per-session phase pause
	Seed          int64
}

// DefaultConfig returns sensible demo settings.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent: 8,
		TickScale:     1.0,
		ThinkTime:     400 * time.Millisecond,
		Seed:          time.Now().UnixNano(),
	}
}

// Scheduler decides whether and how many customers are shopping. All
// session bookkeeping is keyed by customer identity; the map never holds
// the same customer twice.
type Scheduler struct {
	shop    *shop.Shop
	spawner *customer.Spawner
	engine  *decision.Engine
	cfg     Config
	rng     *rand.Rand

	// OnEvent, when set, observes every session notification. Set it
	// before Start; it runs on session consumer goroutines.
	OnEvent func(session.Event)

	// Sink, when set, receives finished visits. Set before Start.
	Sink RecordSink

	mu      sync.Mutex
	running bool
	active  map[uuid.UUID]*session.Session
	records []Record
	level   Level

	stopCh   chan struct{}
	loopDone chan struct{}
	wg       sync.WaitGroup
}

// New validates the config and builds a scheduler over the given shop.
func New(sh *shop.Shop, cfg Config) (*Scheduler, error) {
	if sh == nil {
		return nil, fmt.Errorf("traffic: shop is required")
	}
	if cfg.MaxConcurrent <= 0 {
		return nil, fmt.Errorf("traffic: concurrency ceiling must be positive, got %d", cfg.MaxConcurrent)
	}
	if cfg.TickScale <= 0 {
		cfg.TickScale = 1.0
	}
	return &Scheduler{
		shop:    sh,
		spawner: customer.NewSpawner(cfg.Seed),
		engine:  decision.NewEngine(cfg.Seed + 1),
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed + 2)),
		active:  make(map[uuid.UUID]*session.Session),
		level:   LevelModerate,
	}, nil
}

// Start arms the periodic spawn checks. Returns an error if already
// running.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("traffic: scheduler already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.loopDone = make(chan struct{})
	s.mu.Unlock()

	go s.loop()
	slog.Info("traffic scheduler started",
		"max_concurrent", s.cfg.MaxConcurrent,
		"tick_scale", s.cfg.TickScale,
	)
	return nil
}

// Stop disarms future spawns and drains: it returns only after every
// active session has finished naturally. A stopped scheduler can be
// started again.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	<-s.loopDone
	s.wg.Wait()

	slog.Info("traffic scheduler stopped", "visits_recorded", s.VisitCount())
}

// loop runs the spawn checks at the cadence of the current level.
func (s *Scheduler) loop() {
	defer close(s.loopDone)

	timer := time.NewTimer(s.checkInterval())
	defer timer.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-timer.C:
			s.tick()
			timer.Reset(s.checkInterval())
		}
	}
}

func (s *Scheduler) checkInterval() time.Duration {
	s.mu.Lock()
	lvl := s.level
	s.mu.Unlock()
	base, _ := lvl.Params()
	return time.Duration(float64(base) * s.cfg.TickScale)
}

// tick recomputes the traffic level from shop performance and runs one
// spawn check. Fewer present customers raise arrival likelihood, so the
// process self-damps toward the ceiling.
func (s *Scheduler) tick() {
	metrics := s.shop.Metrics()
	score := Score(metrics)
	lvl := LevelForScore(score)

	s.mu.Lock()
	if lvl != s.level {
		slog.Info("traffic level changed",
			"from", s.level.Name(),
			"to", lvl.Name(),
			"score", fmt.Sprintf("%.1f", score),
		)
		s.level = lvl
	}
	activeCount := len(s.active)
	// The rng is shared with Admit's session seeding, so every draw
	// happens under the lock.
	draw := s.rng.Float64()
	s.mu.Unlock()

	if activeCount >= s.cfg.MaxConcurrent {
		return
	}

	_, baseChance := lvl.Params()
	occupancy := 1 - float64(activeCount)/float64(s.cfg.MaxConcurrent)
	if draw >= baseChance*occupancy {
		return
	}

	c := s.spawner.Spawn(metrics.ReputationGrade)
	s.Admit(c)
}

// Admit starts a shopping session for the customer. A duplicate identity
// or a full shop is rejected with a log line, never an error — traffic
// generation must not abort the simulation.
func (s *Scheduler) Admit(c *customer.Customer) bool {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		slog.Debug("spawn skipped, scheduler stopped", "customer", c.Name)
		return false
	}
	if len(s.active) >= s.cfg.MaxConcurrent {
		s.mu.Unlock()
		slog.Debug("spawn skipped, shop at capacity", "customer", c.Name)
		return false
	}
	if _, dup := s.active[c.ID]; dup {
		s.mu.Unlock()
		slog.Warn("duplicate customer spawn rejected",
			"customer_id", c.ID,
			"name", c.Name,
		)
		return false
	}

	sess, err := session.New(c, s.shop, s.engine, session.Config{
		ThinkTime: s.cfg.ThinkTime,
		Seed:      s.rng.Int63(),
	})
	if err != nil {
		s.mu.Unlock()
		slog.Warn("session construction failed", "customer", c.Name, "error", err)
		return false
	}
	s.active[c.ID] = sess
	// The waitgroup add must be published under the same lock that saw
	// running=true, or Stop could pass its Wait before this session is
	// counted.
	s.wg.Add(1)
	s.mu.Unlock()

	slog.Info("customer entered",
		"name", c.Name,
		"archetype", c.Archetype.Name(),
	)

	go s.consume(sess)
	go sess.Run()
	return true
}

// consume relays one session's notifications and records the finished
// visit. It finishes only after the session's channel closes, which is
// what Stop's drain waits on.
func (s *Scheduler) consume(sess *session.Session) {
	defer s.wg.Done()

	for ev := range sess.Events() {
		if s.OnEvent != nil {
			s.OnEvent(ev)
		}
		if ev.Kind == session.EventSessionEnded {
			s.record(sess, ev)
		}
	}

	s.mu.Lock()
	delete(s.active, sess.Customer.ID)
	s.mu.Unlock()
}

// record appends the visit row and forwards it to the sink.
func (s *Scheduler) record(sess *session.Session, ev session.Event) {
	rec := Record{
		CustomerID:           sess.Customer.ID,
		CustomerName:         sess.Customer.Name,
		Archetype:            sess.Customer.Archetype,
		EnteredAt:            time.Now().Add(-sess.Duration()),
		Duration:             sess.Duration(),
		MadePurchase:         sess.Transaction() != nil,
		Satisfaction:         ev.Satisfaction,
		CompletedTransaction: sess.Transaction(),
	}
	if rec.CompletedTransaction != nil {
		rec.Amount = rec.CompletedTransaction.Price
	}

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()

	slog.Info("customer left",
		"name", rec.CustomerName,
		"purchased", rec.MadePurchase,
		"satisfaction", ev.Satisfaction.Name(),
		"reason", ev.Reason,
	)

	if s.Sink != nil {
		if err := s.Sink.AppendVisit(rec); err != nil {
			slog.Warn("visit sink failed", "error", err)
		}
		if rec.CompletedTransaction != nil {
			if err := s.Sink.AppendTransaction(*rec.CompletedTransaction); err != nil {
				slog.Warn("transaction sink failed", "error", err)
			}
		}
	}
}

// ActiveCount returns how many sessions are currently running.
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// ActiveCustomers lists the identities currently in the shop.
func (s *Scheduler) ActiveCustomers() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uuid.UUID, 0, len(s.active))
	for id := range s.active {
		out = append(out, id)
	}
	return out
}

// Level returns the current traffic level.
func (s *Scheduler) Level() Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// VisitCount returns how many visits have been recorded.
func (s *Scheduler) VisitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Analytics computes an on-demand snapshot over the visit history.
func (s *Scheduler) Analytics() Analytics {
	s.mu.Lock()
	records := make([]Record, len(s.records))
	copy(records, s.records)
	s.mu.Unlock()
	return Compute(records)
}
