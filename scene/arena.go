// Package scene runs one match: the temple gauntlet, the portal, and the
// colosseum fight against the Maw.
package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
	"github.com/milk9111/mawarena/ecs/entity"
	"github.com/milk9111/mawarena/ecs/system"
	"github.com/milk9111/mawarena/input"
	"github.com/milk9111/mawarena/observability"
	"github.com/milk9111/mawarena/prefabs"
)

type Phase string

const (
	PhaseTemple    Phase = "temple"
	PhaseColosseum Phase = "colosseum"
)

type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
)

var ErrNilCatalog = errors.New("scene: nil catalog")

type Options struct {
	Catalog *prefabs.Catalog
	Logger  *zap.Logger
	// Metrics is optional.
	Metrics *observability.Metrics
	Seed    uint64
}

// Arena owns the world and everything that updates it. It is not safe for
// concurrent use; hosts call it from their game loop only.
type Arena struct {
	id      uuid.UUID
	catalog *prefabs.Catalog
	logger  *zap.Logger
	metrics *observability.Metrics

	world  *ecs.World
	sched  *ecs.Scheduler
	clips  *system.ClipLibrary
	combat *system.Combat
	pc     *system.PlayerController
	input  *input.Controller

	player ecs.Entity
	camera ecs.Entity
	boss   ecs.Entity

	phase        Phase
	outcome      Outcome
	paused       bool
	frame        uint64
	elapsed      float64
	victoryTimer float64
	seed         uint64
	spawned      uint64
}

func New(opts Options) (*Arena, error) {
	if opts.Catalog == nil {
		return nil, ErrNilCatalog
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.New()
	a := &Arena{
		id:      id,
		catalog: opts.Catalog,
		logger:  logger.With(zap.String("match", id.String())),
		metrics: opts.Metrics,
		world:   ecs.NewWorld(),
		phase:   PhaseTemple,
		seed:    opts.Seed,
	}

	a.clips = system.NewClipLibrary(a.catalog.Clips.Clips)
	a.combat = system.NewCombat(a.clips, a.logger)
	if err := a.installMawPolicy(a.catalog.AttackScript); err != nil {
		return nil, err
	}

	var err error
	temple := a.catalog.Arena.Temple
	if a.player, err = entity.NewPlayerAt(a.world, a.catalog.Maria, temple.PlayerSpawn.Vec3()); err != nil {
		return nil, fmt.Errorf("scene: spawn player: %w", err)
	}
	a.pc = system.NewPlayerController(a.world, a.player, a.combat, a.catalog.Maria, a.logger)

	if a.camera, err = entity.NewCamera(a.world, a.catalog.Camera, a.player); err != nil {
		return nil, fmt.Errorf("scene: spawn camera: %w", err)
	}
	rig := a.Rig()
	a.pc.SetCameraYaw(rig.Yaw)

	a.input = input.NewController(a.pc, rig, a.TogglePause)
	a.input.SetGate(a.live)

	for _, s := range temple.Enemies {
		if _, err := entity.NewEnemyByArchetype(a.world, a.catalog, s.Archetype, s.Position.Vec3(), a.player, a.nextSeed()); err != nil {
			return nil, fmt.Errorf("scene: spawn %s: %w", s.Archetype, err)
		}
	}

	a.sched = ecs.NewScheduler(
		system.NewPlayerSystem(),
		system.NewCameraSystem(),
		ecs.SystemFunc(a.airWalls),
		system.NewAISystem(a.combat),
		system.NewMotionSystem(),
		system.NewTimelineSystem(),
		system.NewAnimationSystem(),
		system.NewCleanupSystem(),
		ecs.SystemFunc(a.checkPortal),
		ecs.SystemFunc(a.checkVictory),
	)

	a.logger.Info("match started",
		zap.Uint64("seed", a.seed),
		zap.Int("enemies", len(temple.Enemies)))
	return a, nil
}

func (a *Arena) installMawPolicy(script []byte) error {
	var sel *system.AttackSelector
	if len(script) > 0 {
		var err error
		if sel, err = system.NewAttackSelector(script); err != nil {
			return fmt.Errorf("scene: %w", err)
		}
	}
	a.combat.Register(component.ArchetypeMaw, system.NewMawPolicy(sel, a.logger))
	return nil
}

func (a *Arena) nextSeed() uint64 {
	a.spawned++
	return a.seed*1_000_003 + a.spawned
}

func (a *Arena) ID() uuid.UUID                        { return a.id }
func (a *Arena) World() *ecs.World                    { return a.world }
func (a *Arena) Input() *input.Controller             { return a.input }
func (a *Arena) Controller() *system.PlayerController { return a.pc }
func (a *Arena) Player() ecs.Entity                   { return a.player }
func (a *Arena) Boss() ecs.Entity                     { return a.boss }
func (a *Arena) Phase() Phase                         { return a.phase }
func (a *Arena) Outcome() Outcome                     { return a.outcome }
func (a *Arena) Paused() bool                         { return a.paused }
func (a *Arena) Frame() uint64                        { return a.frame }

// Layout is the arena geometry currently in force, reloads included.
func (a *Arena) Layout() prefabs.ArenaSpec { return a.catalog.Arena }

// Over reports whether the match has an outcome.
func (a *Arena) Over() bool {
	return a.outcome != OutcomeNone
}

// Rig returns the camera rig, nil if the camera entity is gone.
func (a *Arena) Rig() *component.CameraRig {
	rig, _ := ecs.Get(a.world, a.camera, component.CameraRigComponent.Kind())
	return rig
}

func (a *Arena) live() bool {
	return !a.paused && a.outcome == OutcomeNone
}

// TogglePause flips the pause flag. It does nothing once the match is over.
func (a *Arena) TogglePause() {
	if a.Over() {
		return
	}
	a.paused = !a.paused
	if a.paused {
		a.input.Release()
	}
	a.logger.Info("pause toggled", zap.Bool("paused", a.paused))
}

// Update advances the match by one frame of dt seconds. Paused and finished
// matches do nothing.
func (a *Arena) Update(dt float64) {
	if !a.live() {
		return
	}
	start := time.Now()
	a.frame++
	a.elapsed += dt

	if h, ok := ecs.Get(a.world, a.player, component.HealthComponent.Kind()); !ok || h.Depleted() {
		a.finish(OutcomeDefeat)
		a.drainEvents()
		return
	}

	a.input.Update()
	a.sched.Update(a.world, dt)
	a.drainEvents()

	if a.metrics != nil {
		a.metrics.ObserveFrame(time.Since(start))
		a.metrics.LiveEntities.Set(float64(len(ecs.Entities(a.world))))
	}
}

func (a *Arena) finish(o Outcome) {
	a.outcome = o
	a.input.Release()
	a.logger.Info("match over",
		zap.String("outcome", string(o)),
		zap.Uint64("frame", a.frame),
		zap.Float64("elapsed", a.elapsed))
}

// airWalls keeps the player inside the temple corridor.
func (a *Arena) airWalls(w *ecs.World, _ float64) {
	if a.phase != PhaseTemple {
		return
	}
	t, ok := ecs.Get(w, a.player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	walls := a.catalog.Arena.Temple.Walls
	t.Position.X = common.Clamp(t.Position.X, walls.MinX, walls.MaxX)
	t.Position.Z = common.Clamp(t.Position.Z, walls.MinZ, walls.MaxZ)
}

// minionsLeft counts living regular enemies, including dying ones that have
// not been cleaned up yet.
func (a *Arena) minionsLeft() int {
	n := 0
	ecs.ForEach2(a.world, component.BrainComponent.Kind(), component.ParticipantComponent.Kind(), func(_ ecs.Entity, _ *component.Brain, p *component.Participant) {
		if p.Class == component.ClassMinion {
			n++
		}
	})
	return n
}

func (a *Arena) checkPortal(w *ecs.World, _ float64) {
	if a.phase != PhaseTemple || a.minionsLeft() > 0 {
		return
	}
	t, ok := ecs.Get(w, a.player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	portal := a.catalog.Arena.Temple.Portal
	if common.Distance(t.Position, portal.Position.Vec3()) >= portal.Radius {
		return
	}
	if err := a.enterColosseum(); err != nil {
		a.logger.Error("colosseum transition failed", zap.Error(err))
	}
}

func (a *Arena) enterColosseum() error {
	col := a.catalog.Arena.Colosseum
	if err := entity.ResetPlayerAt(a.world, a.player, col.PlayerSpawn.Vec3()); err != nil {
		return err
	}
	a.pc.ToggleLock(false, common.Vec3{})
	if rig := a.Rig(); rig != nil {
		rig.Initialized = false
	}

	boss, err := entity.NewBoss(a.world, a.catalog.Maw, col.Boss.Position.Vec3(), a.player, a.nextSeed())
	if err != nil {
		return fmt.Errorf("scene: spawn boss: %w", err)
	}
	a.boss = boss
	a.phase = PhaseColosseum
	a.logger.Info("entered colosseum",
		zap.Stringer("boss", boss),
		zap.String("archetype", col.Boss.Archetype))
	return nil
}

func (a *Arena) bossDown() bool {
	if a.boss == 0 {
		return false
	}
	f, ok := ecs.Get(a.world, a.boss, component.FighterComponent.Kind())
	return !ok || f.State == component.StateDead
}

func (a *Arena) checkVictory(_ *ecs.World, dt float64) {
	if a.phase != PhaseColosseum || !a.bossDown() {
		return
	}
	a.victoryTimer += dt
	if a.victoryTimer+1e-9 >= a.catalog.Arena.VictoryDelay {
		a.finish(OutcomeVictory)
	}
}

// ReloadTuning applies a freshly loaded catalog: enemy numbers on live
// enemies, player tuning, clip lengths and the boss attack script.
func (a *Arena) ReloadTuning(c *prefabs.Catalog) error {
	if c == nil {
		return ErrNilCatalog
	}
	var errs []error
	ecs.ForEach(a.world, component.BrainComponent.Kind(), func(e ecs.Entity, b *component.Brain) {
		if b.Archetype == component.ArchetypeMaw {
			return
		}
		spec, err := c.Enemy(string(b.Archetype))
		if err != nil {
			errs = append(errs, err)
			return
		}
		if err := entity.ApplyEnemySpec(a.world, e, spec); err != nil {
			errs = append(errs, err)
		}
	})
	if err := a.installMawPolicy(c.AttackScript); err != nil {
		errs = append(errs, err)
	}
	a.clips.Set(c.Clips.Clips)
	a.pc.SetSpec(c.Maria)
	a.catalog = c

	if err := errors.Join(errs...); err != nil {
		return err
	}
	a.logger.Info("tuning reloaded")
	return nil
}

func (a *Arena) drainEvents() {
	for _, ev := range a.world.Events().Drain() {
		ce, ok := ev.Data.(component.CombatEvent)
		if !ok {
			continue
		}
		a.record(ce)
	}
}

func (a *Arena) record(ev component.CombatEvent) {
	if m := a.metrics; m != nil {
		m.Events.WithLabelValues(string(ev.Type)).Inc()
		switch ev.Type {
		case component.CombatEventDamage:
			m.Damage.WithLabelValues(string(ev.Archetype)).Add(float64(ev.Amount))
		case component.CombatEventBlocked, component.CombatEventEvaded:
			m.Outcomes.WithLabelValues(string(ev.Type)).Inc()
		case component.CombatEventDeath:
			m.Deaths.WithLabelValues(string(ev.Archetype)).Inc()
		case component.CombatEventStateChanged:
			m.StateChanges.WithLabelValues(ev.To.String()).Inc()
		}
	}

	switch ev.Type {
	case component.CombatEventDeath, component.CombatEventRage:
		a.logger.Info(string(ev.Type),
			zap.Uint64("entity", ev.Entity),
			zap.String("archetype", string(ev.Archetype)),
			zap.Uint64("frame", a.frame))
	case component.CombatEventStateChanged:
	default:
		a.logger.Debug(string(ev.Type),
			zap.Uint64("entity", ev.Entity),
			zap.String("archetype", string(ev.Archetype)),
			zap.Int("amount", ev.Amount),
			zap.Int("hp", ev.HP))
	}
}
