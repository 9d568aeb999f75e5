package driver

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"taskmill/internal/runner"
	"taskmill/internal/schedule"
	"taskmill/internal/storage"
	logx "taskmill/pkg/logx"
)

// Config controls the tick loop.
type Config struct {
	Timezone string // IANA TZ, e.g. "Asia/Jakarta"; empty means process-local
	Tick     string // cron spec or descriptor for the evaluation tick
}

const defaultTick = "* * * * *"

// TaskRunner executes one due event. Satisfied by *runner.Runner.
type TaskRunner interface {
	Run(ctx context.Context, ev *schedule.Event) error
}

type Service struct {
	mu sync.Mutex

	log logx.Logger
	cfg Config
	loc *time.Location

	parser cron.Parser
	c      *cron.Cron

	sched *schedule.Schedule
	run   TaskRunner
	store storage.Store

	// running serializes per-event launches: a due event still executing
	// from a previous tick is skipped, not queued.
	rmu     sync.Mutex
	running map[*schedule.Event]bool

	wg sync.WaitGroup
}

func New(cfg Config, sched *schedule.Schedule, run TaskRunner, store storage.Store, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		cfg:     cfg,
		log:     log,
		parser:  cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		sched:   sched,
		run:     run,
		store:   store,
		running: map[*schedule.Event]bool{},
	}
}

// Apply swaps in a new schedule (config hot reload). In-flight runs of old
// events finish undisturbed.
func (s *Service) Apply(sched *schedule.Schedule) {
	s.mu.Lock()
	s.sched = sched
	s.mu.Unlock()
	s.log.Info("schedule applied", logx.Int("events", len(sched.Events())))
}

func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return errors.New("driver already started")
	}

	loc := s.loadLocationLocked()
	s.loc = loc

	tick := strings.TrimSpace(s.cfg.Tick)
	if tick == "" {
		tick = defaultTick
	}

	c := cron.New(cron.WithParser(s.parser), cron.WithLocation(loc))
	_, err := c.AddFunc(tick, func() {
		s.tick(ctx, time.Now().In(loc))
	})
	if err != nil {
		return err
	}
	s.c = c
	c.Start()
	s.log.Info("driver started", logx.String("tick", tick), logx.String("tz", loc.String()))
	return nil
}

// Stop halts the tick loop and waits for in-flight runs, giving up when ctx
// expires (a hung foreground command would otherwise block shutdown forever).
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()
	if c == nil {
		return nil
	}
	<-c.Stop().Done()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.log.Info("driver stopped")
		return nil
	case <-ctx.Done():
		s.log.Warn("driver stopped with runs still in flight")
		return ctx.Err()
	}
}

// tick evaluates every event against now and launches the due ones.
func (s *Service) tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	sched := s.sched
	s.mu.Unlock()
	if sched == nil {
		return
	}

	for _, ev := range sched.Events() {
		if err := ev.Err(); err != nil {
			s.log.Warn("skipping unrunnable event", logx.String("task", ev.Name()), logx.Err(err))
			continue
		}
		if !ev.IsDueAt(now) {
			continue
		}
		if !s.tryAcquire(ev) {
			s.log.Debug("previous run still executing; skipping", logx.String("task", ev.Name()))
			continue
		}
		s.wg.Add(1)
		go func(ev *schedule.Event) {
			defer s.wg.Done()
			defer s.release(ev)
			s.execOne(ctx, ev)
		}(ev)
	}
}

func (s *Service) execOne(ctx context.Context, ev *schedule.Event) {
	started := time.Now()
	err := s.run.Run(ctx, ev)
	took := time.Since(started)

	if err != nil {
		s.log.Warn("task failed", logx.String("task", ev.Name()), logx.Duration("took", took), logx.Err(err))
	} else {
		s.log.Info("task ok", logx.String("task", ev.Name()), logx.Duration("took", took))
	}

	if s.store == nil {
		return
	}
	rec := storage.RunRecord{
		Task:     ev.Name(),
		Command:  ev.Command(),
		Mode:     runner.ModeFor(ev).String(),
		Started:  started,
		Duration: took,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if serr := s.store.AppendRun(sctx, rec); serr != nil {
		s.log.Warn("run history append failed", logx.String("task", ev.Name()), logx.Err(serr))
	}
}

func (s *Service) tryAcquire(ev *schedule.Event) bool {
	s.rmu.Lock()
	defer s.rmu.Unlock()
	if s.running[ev] {
		return false
	}
	s.running[ev] = true
	return true
}

func (s *Service) release(ev *schedule.Event) {
	s.rmu.Lock()
	delete(s.running, ev)
	s.rmu.Unlock()
}

func (s *Service) loadLocationLocked() *time.Location {
	tz := strings.TrimSpace(s.cfg.Timezone)
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		s.log.Warn("invalid timezone, falling back to Local", logx.String("tz", tz), logx.Err(err))
		return time.Local
	}
	return loc
}
