package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogEmbedded(t *testing.T) {
	c, err := LoadCatalog(Loader{})
	require.NoError(t, err)

	assert.Equal(t, 180, c.Maria.HP)
	require.Len(t, c.Maria.Combo, 3)
	assert.Equal(t, "slash_4", c.Maria.Combo[1].Clip)
	require.Len(t, c.Maria.Skill.Ghosts, 5)
	assert.Equal(t, 15.0, c.Maria.Skill.Ghosts[3].Offset.Z)

	knight, err := c.Enemy("knight")
	require.NoError(t, err)
	assert.Equal(t, 0.75, knight.Block.Chance)
	assert.Equal(t, 150, knight.HP)

	assert.Equal(t, 500, c.Maw.HP)
	assert.Len(t, c.Maw.AttackClips, 3)
	assert.NotEmpty(t, c.AttackScript)

	assert.Equal(t, -10.0, c.Camera.MinPitch)
	assert.Len(t, c.Arena.Temple.Enemies, 3)
	assert.Equal(t, 2.6, c.Clips.Clips["maw_jumpAttack_2"])
}

func TestCatalogUnknownArchetype(t *testing.T) {
	c, err := LoadCatalog(Loader{})
	require.NoError(t, err)
	_, err = c.Enemy("dragon")
	assert.True(t, errors.Is(err, ErrUnknownArchetype))
}

func TestLoaderDiskOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "goblin.yaml"), []byte("name: goblin\nhp: 99\n"), 0o644))

	spec, err := LoadSpecFrom[EnemySpec](Loader{Dir: dir}, "prefabs/goblin.yaml")
	require.NoError(t, err)
	assert.Equal(t, 99, spec.HP)

	spec, err = LoadSpecFrom[EnemySpec](Loader{Dir: dir}, "knight.yaml")
	require.NoError(t, err)
	assert.Equal(t, 150, spec.HP)

	_, ok := Loader{Dir: dir}.ModTime("goblin.yaml")
	assert.True(t, ok)
	assert.Equal(t, []string{dir}, Loader{Dir: dir}.WatchDirs())
}

func TestLoadSpecErrors(t *testing.T) {
	_, err := LoadSpecFrom[EnemySpec](Loader{}, "missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefabs: load missing.yaml")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("hp: [1"), 0o644))
	_, err = LoadSpecFrom[EnemySpec](Loader{Dir: dir}, "bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefabs: unmarshal bad.yaml")
}

func TestCleanScriptPath(t *testing.T) {
	for _, in := range []string{"maw_attack.tengo", "scripts/maw_attack.tengo", "prefabs/scripts/maw_attack.tengo"} {
		assert.Equal(t, "scripts/maw_attack.tengo", cleanScriptPath(in), in)
	}
}

func TestWatcherReportsSpecWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	target := filepath.Join(dir, "goblin.yaml")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("hp: 1\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, target, name)
		assert.True(t, Affects(name))
	case <-time.After(2 * time.Second):
		t.Fatal("no watcher event")
	}
}
