package entity

import (
	"fmt"

	"github.com/milk9111/mawarena/ecs/component"
)

// parseClips turns a yaml state-to-clip table into the fighter's clip map.
func parseClips(owner string, raw map[string]string) (map[component.State]string, error) {
	clips := make(map[component.State]string, len(raw))
	for name, clip := range raw {
		s, ok := component.ParseState(name)
		if !ok {
			return nil, fmt.Errorf("%s: unknown state %q in clips", owner, name)
		}
		clips[s] = clip
	}
	return clips, nil
}
