package component

import "strings"

// State is the behavioural state shared by every combat entity. Archetypes
// only ever enter a subset.
type State uint8

const (
	StateIdle State = iota
	StateWalk
	StateRun
	StateAttack
	StateHit
	StateBlock
	StateDodge
	StateRage
	StateSkill
	StateCrouchIdle
	StateBlockIdle
	StateJump
	StateRecover
	StateDead
)

var stateNames = [...]string{
	StateIdle:       "IDLE",
	StateWalk:       "WALK",
	StateRun:        "RUN",
	StateAttack:     "ATTACK",
	StateHit:        "HIT",
	StateBlock:      "BLOCK",
	StateDodge:      "DODGE",
	StateRage:       "RAGE",
	StateSkill:      "SKILL",
	StateCrouchIdle: "CROUCH_IDLE",
	StateBlockIdle:  "BLOCK_IDLE",
	StateJump:       "JUMP",
	StateRecover:    "RECOVER",
	StateDead:       "DEAD",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "UNKNOWN"
}

// ParseState maps a yaml key such as "crouch_idle" back to a State.
func ParseState(name string) (State, bool) {
	for i, n := range stateNames {
		if strings.EqualFold(n, name) {
			return State(i), true
		}
	}
	return StateIdle, false
}

// Loops reports whether the state's canonical clip repeats.
func (s State) Loops() bool {
	switch s {
	case StateIdle, StateWalk, StateRun, StateCrouchIdle, StateBlockIdle:
		return true
	}
	return false
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
