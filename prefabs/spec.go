package prefabs

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/mawarena/common"
)

var ErrUnknownArchetype = errors.New("prefabs: unknown archetype")

func LoadSpec[T any](filename string) (T, error) {
	return LoadSpecFrom[T](defaultLoader, filename)
}

func LoadSpecFrom[T any](l Loader, filename string) (T, error) {
	var zero T
	data, err := l.Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec3() common.Vec3 {
	return common.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// ClipsSpec maps clip names to their length in seconds.
type ClipsSpec struct {
	Clips map[string]float64 `yaml:"clips"`
}

type RetreatSpec struct {
	Distance float64 `yaml:"distance"`
	Duration float64 `yaml:"duration"`
}

type BlockSpec struct {
	Chance   float64 `yaml:"chance"`
	Duration float64 `yaml:"duration"`
}

// EnemySpec tunes a regular enemy archetype. Clips keys are state names.
type EnemySpec struct {
	Name            string            `yaml:"name"`
	HP              int               `yaml:"hp"`
	AttackPower     int               `yaml:"attack_power"`
	AttackRange     float64           `yaml:"attack_range"`
	AttackCooldown  float64           `yaml:"attack_cooldown"`
	DetectionRange  float64           `yaml:"detection_range"`
	Speed           float64           `yaml:"speed"`
	WindUp          float64           `yaml:"wind_up"`
	BackSwing       float64           `yaml:"back_swing"`
	StrikeTolerance float64           `yaml:"strike_tolerance"`
	StrikeInclusive bool              `yaml:"strike_inclusive"`
	HitRecovery     float64           `yaml:"hit_recovery"`
	Retreat         RetreatSpec       `yaml:"retreat"`
	Block           BlockSpec         `yaml:"block"`
	DeathDelay      float64           `yaml:"death_delay"`
	Clips           map[string]string `yaml:"clips"`
}

type RageSpec struct {
	Threshold      float64 `yaml:"threshold"`
	CooldownFactor float64 `yaml:"cooldown_factor"`
	Duration       float64 `yaml:"duration"`
	Clip           string  `yaml:"clip"`
}

type DodgeSpec struct {
	Chance   float64 `yaml:"chance"`
	Distance float64 `yaml:"distance"`
	Duration float64 `yaml:"duration"`
	Clip     string  `yaml:"clip"`
}

type FadeSpec struct {
	Delay    float64 `yaml:"delay"`
	Duration float64 `yaml:"duration"`
}

type BossSpec struct {
	Name            string            `yaml:"name"`
	DisplayName     string            `yaml:"display_name"`
	HP              int               `yaml:"hp"`
	AttackPower     int               `yaml:"attack_power"`
	RageAttackPower int               `yaml:"rage_attack_power"`
	AttackRange     float64           `yaml:"attack_range"`
	StopFactor      float64           `yaml:"stop_factor"`
	AttackCooldown  float64           `yaml:"attack_cooldown"`
	WalkSpeed       float64           `yaml:"walk_speed"`
	RunSpeed        float64           `yaml:"run_speed"`
	StrikeTolerance float64           `yaml:"strike_tolerance"`
	HitFraction     float64           `yaml:"hit_fraction"`
	AttackFallback  float64           `yaml:"attack_fallback"`
	AttackClips     []string          `yaml:"attack_clips"`
	AttackScript    string            `yaml:"attack_script"`
	Rage            RageSpec          `yaml:"rage"`
	Dodge           DodgeSpec         `yaml:"dodge"`
	FlashStep       float64           `yaml:"flash_step"`
	Fade            FadeSpec          `yaml:"fade"`
	Clips           map[string]string `yaml:"clips"`
}

type ComboStageSpec struct {
	Clip     string  `yaml:"clip"`
	Distance float64 `yaml:"distance"`
	Duration float64 `yaml:"duration"`
}

type AreaSpec struct {
	Ahead        float64 `yaml:"ahead"`
	MinionRadius float64 `yaml:"minion_radius"`
	BossRadius   float64 `yaml:"boss_radius"`
}

type GhostSpec struct {
	Wait        float64  `yaml:"wait"`
	Offset      Vec3Spec `yaml:"offset"`
	Clip        string   `yaml:"clip"`
	DamageDelay float64  `yaml:"damage_delay"`
}

type SkillSpec struct {
	PoseClip     string      `yaml:"pose_clip"`
	DamageFactor float64     `yaml:"damage_factor"`
	MinionRadius float64     `yaml:"minion_radius"`
	BossRadius   float64     `yaml:"boss_radius"`
	FinishDelay  float64     `yaml:"finish_delay"`
	Ghosts       []GhostSpec `yaml:"ghosts"`
}

type PlayerDodgeSpec struct {
	Distance float64 `yaml:"distance"`
	Duration float64 `yaml:"duration"`
	Front    string  `yaml:"front"`
	Back     string  `yaml:"back"`
	Left     string  `yaml:"left"`
	Right    string  `yaml:"right"`
}

// PostureSpec is a timed transition into and out of a hold state.
type PostureSpec struct {
	Duration  float64 `yaml:"duration"`
	EnterClip string  `yaml:"enter_clip"`
	ExitClip  string  `yaml:"exit_clip"`
}

type MariaSpec struct {
	Name          string            `yaml:"name"`
	HP            int               `yaml:"hp"`
	Mana          float64           `yaml:"mana"`
	ManaRegen     float64           `yaml:"mana_regen"`
	SkillCost     float64           `yaml:"skill_cost"`
	AttackPower   int               `yaml:"attack_power"`
	Potions       int               `yaml:"potions"`
	PotionHeal    int               `yaml:"potion_heal"`
	WalkSpeed     float64           `yaml:"walk_speed"`
	RunSpeed      float64           `yaml:"run_speed"`
	RotationLerp  float64           `yaml:"rotation_lerp"`
	Combo         []ComboStageSpec  `yaml:"combo"`
	ComboHit      AreaSpec          `yaml:"combo_hit"`
	Skill         SkillSpec         `yaml:"skill"`
	Dodge         PlayerDodgeSpec   `yaml:"dodge"`
	JumpDuration  float64           `yaml:"jump_duration"`
	Crouch        PostureSpec       `yaml:"crouch"`
	Block         PostureSpec       `yaml:"block"`
	BlockFactor   float64           `yaml:"block_factor"`
	HurtDuration  float64           `yaml:"hurt_duration"`
	RecoverLength float64           `yaml:"recover_fallback"`
	Clips         map[string]string `yaml:"clips"`
}

type CameraSpec struct {
	Name         string  `yaml:"name"`
	Yaw          float64 `yaml:"yaw"`
	Pitch        float64 `yaml:"pitch"`
	MinPitch     float64 `yaml:"min_pitch"`
	MaxPitch     float64 `yaml:"max_pitch"`
	Distance     float64 `yaml:"distance"`
	Sensitivity  float64 `yaml:"sensitivity"`
	Lag          float64 `yaml:"lag"`
	SnapDistance float64 `yaml:"snap_distance"`
	LookHeight   float64 `yaml:"look_height"`
}

type SpawnSpec struct {
	Archetype string   `yaml:"archetype"`
	Position  Vec3Spec `yaml:"position"`
}

type BoundsSpec struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinZ float64 `yaml:"min_z"`
	MaxZ float64 `yaml:"max_z"`
}

type PortalSpec struct {
	Position Vec3Spec `yaml:"position"`
	Radius   float64  `yaml:"radius"`
}

type TempleSpec struct {
	PlayerSpawn Vec3Spec    `yaml:"player_spawn"`
	Walls       BoundsSpec  `yaml:"walls"`
	Enemies     []SpawnSpec `yaml:"enemies"`
	Portal      PortalSpec  `yaml:"portal"`
}

type ColosseumSpec struct {
	PlayerSpawn Vec3Spec  `yaml:"player_spawn"`
	Boss        SpawnSpec `yaml:"boss"`
}

type ArenaSpec struct {
	Name         string        `yaml:"name"`
	Temple       TempleSpec    `yaml:"temple"`
	Colosseum    ColosseumSpec `yaml:"colosseum"`
	VictoryDelay float64       `yaml:"victory_delay"`
}
