package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
)

// AttackSelector runs a compiled tengo script that picks the boss attack
// index from rage, count and roll, and reads it back from choice.
type AttackSelector struct {
	compiled *tengo.Compiled
}

func NewAttackSelector(src []byte) (*AttackSelector, error) {
	script := tengo.NewScript(src)
	_ = script.Add("rage", false)
	_ = script.Add("count", 0)
	_ = script.Add("roll", 0.0)
	_ = script.Add("choice", 0)

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("attack selector: compile: %w", err)
	}
	return &AttackSelector{compiled: compiled}, nil
}

// Choose returns an index in [0, count). Out-of-range script results clamp.
func (s *AttackSelector) Choose(enraged bool, count int, roll float64) (int, error) {
	if count <= 0 {
		return 0, nil
	}
	if s == nil || s.compiled == nil {
		return defaultAttackChoice(enraged, count, roll), nil
	}
	if err := s.compiled.Set("rage", enraged); err != nil {
		return 0, err
	}
	if err := s.compiled.Set("count", count); err != nil {
		return 0, err
	}
	if err := s.compiled.Set("roll", roll); err != nil {
		return 0, err
	}
	if err := s.compiled.Run(); err != nil {
		return 0, fmt.Errorf("attack selector: run: %w", err)
	}
	choice := s.compiled.Get("choice").Int()
	if choice < 0 {
		choice = 0
	}
	if choice >= count {
		choice = count - 1
	}
	return choice, nil
}

// defaultAttackChoice is the built-in rule: the first attack until enraged,
// then uniform.
func defaultAttackChoice(enraged bool, count int, roll float64) int {
	if !enraged {
		return 0
	}
	i := int(roll * float64(count))
	if i >= count {
		i = count - 1
	}
	return i
}
