package prefabs

import (
	"fmt"
	"path/filepath"
	"strings"
)

// EnemyArchetypes lists the regular enemy prefabs by archetype name.
var EnemyArchetypes = []string{"goblin", "knight", "minotaur"}

// Catalog is every piece of tuning the arena needs, loaded in one pass.
type Catalog struct {
	Maria        MariaSpec
	Enemies      map[string]EnemySpec
	Maw          BossSpec
	Camera       CameraSpec
	Arena        ArenaSpec
	Clips        ClipsSpec
	AttackScript []byte
}

func LoadCatalog(l Loader) (*Catalog, error) {
	var err error
	c := &Catalog{Enemies: make(map[string]EnemySpec, len(EnemyArchetypes))}

	if c.Maria, err = LoadSpecFrom[MariaSpec](l, "maria.yaml"); err != nil {
		return nil, err
	}
	for _, name := range EnemyArchetypes {
		spec, err := LoadSpecFrom[EnemySpec](l, name+".yaml")
		if err != nil {
			return nil, err
		}
		c.Enemies[name] = spec
	}
	if c.Maw, err = LoadSpecFrom[BossSpec](l, "maw.yaml"); err != nil {
		return nil, err
	}
	if c.Camera, err = LoadSpecFrom[CameraSpec](l, "camera.yaml"); err != nil {
		return nil, err
	}
	if c.Arena, err = LoadSpecFrom[ArenaSpec](l, "arena.yaml"); err != nil {
		return nil, err
	}
	if c.Clips, err = LoadSpecFrom[ClipsSpec](l, "clips.yaml"); err != nil {
		return nil, err
	}
	if c.Maw.AttackScript != "" {
		if c.AttackScript, err = l.LoadScript(c.Maw.AttackScript); err != nil {
			return nil, fmt.Errorf("prefabs: load script %s: %w", c.Maw.AttackScript, err)
		}
	}
	return c, nil
}

func (c *Catalog) Enemy(name string) (EnemySpec, error) {
	spec, ok := c.Enemies[name]
	if !ok {
		return EnemySpec{}, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
	}
	return spec, nil
}

// Affects reports whether a changed file path belongs to the catalog.
func Affects(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return isSpecFile(base) || isScriptFile(base)
}
