package component

// Team groups participants that never damage each other.
type Team uint8

const (
	TeamNeutral Team = iota
	TeamPlayer
	TeamEnemy
)

func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "player"
	case TeamEnemy:
		return "enemy"
	}
	return "neutral"
}

// Class selects per-target tuning such as area radii.
type Class uint8

const (
	ClassHero Class = iota
	ClassMinion
	ClassBoss
	ClassGhost
)

// Archetype keys the AI policy and prefab tuning of an entity.
type Archetype string

const (
	ArchetypeMaria    Archetype = "maria"
	ArchetypeGoblin   Archetype = "goblin"
	ArchetypeKnight   Archetype = "knight"
	ArchetypeMinotaur Archetype = "minotaur"
	ArchetypeMaw      Archetype = "maw"
	ArchetypeGhost    Archetype = "ghost"
)

// Participant is the capability record the world keeps for every combat
// entity. Damage routing queries it instead of concrete types.
type Participant struct {
	Team       Team
	Class      Class
	Archetype  Archetype
	Damageable bool
}

var ParticipantComponent = NewComponent[Participant]()

// Hit is one damage application. Source may be zero for environmental hits.
type Hit struct {
	Source uint64
	Amount int
}

// Outcome reports what a Hit did. At most one of Blocked, Evaded, Immune and
// Ignored is set; Applied is the hp actually removed.
type Outcome struct {
	Applied int
	Blocked bool
	Evaded  bool
	Immune  bool
	Killed  bool
	Ignored bool
}

type CombatEventType string

const (
	CombatEventDamage       CombatEventType = "damage"
	CombatEventBlocked      CombatEventType = "blocked"
	CombatEventEvaded       CombatEventType = "evaded"
	CombatEventDeath        CombatEventType = "death"
	CombatEventStateChanged CombatEventType = "state_changed"
	CombatEventAttack       CombatEventType = "attack"
	CombatEventHitFlash     CombatEventType = "hit_flash"
	CombatEventRage         CombatEventType = "rage"
	CombatEventFadeStart    CombatEventType = "fade_start"
	CombatEventGhostSpawned CombatEventType = "ghost_spawned"
	CombatEventHeal         CombatEventType = "heal"
	CombatEventDespawned    CombatEventType = "despawned"
)

type CombatEvent struct {
	Type      CombatEventType
	Entity    uint64
	Source    uint64
	Archetype Archetype
	Amount    int
	HP        int
	From      State
	To        State
	Clip      string
}
