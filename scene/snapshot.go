package scene

import (
	"sort"

	"github.com/milk9111/mawarena/common"
	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
	"github.com/milk9111/mawarena/ecs/system"
	"github.com/milk9111/mawarena/input"
)

// Snapshot is the HUD view of a match, ready to marshal as JSON.
type Snapshot struct {
	MatchID string      `json:"match_id"`
	Frame   uint64      `json:"frame"`
	Time    float64     `json:"time"`
	Phase   Phase       `json:"phase"`
	Outcome Outcome     `json:"outcome,omitempty"`
	Paused  bool        `json:"paused"`
	Player  PlayerView  `json:"player"`
	Boss    *BossView   `json:"boss,omitempty"`
	Enemies []EnemyView `json:"enemies"`
	Camera  CameraView  `json:"camera"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func point(v common.Vec3) Point {
	return Point{X: v.X, Y: v.Y, Z: v.Z}
}

type PlayerView struct {
	Position Point           `json:"position"`
	Yaw      float64         `json:"yaw"`
	State    component.State `json:"state"`
	Clip     string          `json:"clip"`
	HP       int             `json:"hp"`
	MaxHP    int             `json:"max_hp"`
	Mana     float64         `json:"mana"`
	MaxMana  float64         `json:"max_mana"`
	Potions  int             `json:"potions"`
	Combo    int             `json:"combo"`
	Locked   bool            `json:"locked"`
}

type BossView struct {
	Name     string          `json:"name"`
	Position Point           `json:"position"`
	State    component.State `json:"state"`
	Clip     string          `json:"clip"`
	HP       int             `json:"hp"`
	MaxHP    int             `json:"max_hp"`
	// RageMode drives the HUD bar colour: hp under half.
	RageMode bool    `json:"rage_mode"`
	Enraged  bool    `json:"enraged"`
	Flashing bool    `json:"flashing"`
	Alpha    float64 `json:"alpha"`
}

type EnemyView struct {
	ID        uint64              `json:"id"`
	Archetype component.Archetype `json:"archetype"`
	Position  Point               `json:"position"`
	Yaw       float64             `json:"yaw"`
	State     component.State     `json:"state"`
	Clip      string              `json:"clip"`
	HP        int                 `json:"hp"`
	MaxHP     int                 `json:"max_hp"`
}

type CameraView struct {
	Yaw      float64 `json:"yaw"`
	Pitch    float64 `json:"pitch"`
	Position Point   `json:"position"`
	LookAt   Point   `json:"look_at"`
}

func (a *Arena) Snapshot() Snapshot {
	s := Snapshot{
		MatchID: a.id.String(),
		Frame:   a.frame,
		Time:    a.elapsed,
		Phase:   a.phase,
		Outcome: a.outcome,
		Paused:  a.paused,
		Enemies: []EnemyView{},
	}

	w := a.world
	if t, ok := ecs.Get(w, a.player, component.TransformComponent.Kind()); ok {
		s.Player.Position = point(t.Position)
		s.Player.Yaw = t.Yaw
	}
	s.Player.State = a.pc.State()
	if h, ok := ecs.Get(w, a.player, component.HealthComponent.Kind()); ok {
		s.Player.HP, s.Player.MaxHP = h.Current, h.Max
	}
	if p, ok := ecs.Get(w, a.player, component.PlayerComponent.Kind()); ok {
		s.Player.Mana, s.Player.MaxMana = p.Mana, p.MaxMana
		s.Player.Potions = p.Potions
		s.Player.Combo = p.ComboIndex
		s.Player.Locked = p.Locked
	}
	if anim, ok := ecs.Get(w, a.player, component.AnimatorComponent.Kind()); ok {
		s.Player.Clip = anim.Clip
	}

	ecs.ForEach2(w, component.BrainComponent.Kind(), component.FighterComponent.Kind(), func(e ecs.Entity, b *component.Brain, f *component.Fighter) {
		if b.Archetype == component.ArchetypeMaw {
			s.Boss = a.bossView(e, f)
			return
		}
		v := EnemyView{ID: uint64(e), Archetype: b.Archetype, State: f.State}
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			v.Position, v.Yaw = point(t.Position), t.Yaw
		}
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
			v.HP, v.MaxHP = h.Current, h.Max
		}
		if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
			v.Clip = anim.Clip
		}
		s.Enemies = append(s.Enemies, v)
	})
	sort.Slice(s.Enemies, func(i, j int) bool { return s.Enemies[i].ID < s.Enemies[j].ID })

	if rig := a.Rig(); rig != nil {
		s.Camera = CameraView{
			Yaw:      rig.Yaw,
			Pitch:    rig.Pitch,
			Position: point(rig.Position),
			LookAt:   point(rig.LookAt),
		}
	}
	return s
}

func (a *Arena) bossView(e ecs.Entity, f *component.Fighter) *BossView {
	w := a.world
	v := &BossView{State: f.State, Alpha: 1}
	if b, ok := ecs.Get(w, e, component.BossComponent.Kind()); ok {
		v.Name = b.DisplayName
		v.Enraged = b.Enraged
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		v.Position = point(t.Position)
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok {
		v.HP, v.MaxHP = h.Current, h.Max
		v.RageMode = h.Fraction() < 0.5
	}
	if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
		v.Clip = anim.Clip
		v.Flashing = anim.Tint != component.TintNone
		v.Alpha = anim.Alpha
	}
	return v
}

// Observe summarizes the match for the autopilot. The goal is the nearest
// living hostile, or the portal once the temple is clear.
func (a *Arena) Observe() input.Observation {
	var obs input.Observation
	w := a.world
	t, ok := ecs.Get(w, a.player, component.TransformComponent.Kind())
	if !ok {
		return obs
	}
	obs.Position = t.Position
	if h, ok := ecs.Get(w, a.player, component.HealthComponent.Kind()); ok {
		obs.HP, obs.MaxHP = h.Current, h.Max
	}
	if p, ok := ecs.Get(w, a.player, component.PlayerComponent.Kind()); ok {
		obs.Mana, obs.Cost, obs.Potions = p.Mana, p.SkillCost, p.Potions
	}

	if _, pos, ok := system.NearestHostile(w, t.Position, component.TeamPlayer); ok {
		obs.Goal, obs.HasGoal, obs.Hostile = pos, true, true
		return obs
	}
	if a.phase == PhaseTemple && a.minionsLeft() == 0 {
		obs.Goal, obs.HasGoal = a.catalog.Arena.Temple.Portal.Position.Vec3(), true
	}
	return obs
}
