package system

import (
	"errors"
	"fmt"

	"github.com/milk9111/mawarena/ecs"
	"github.com/milk9111/mawarena/ecs/component"
)

var ErrClipNotFound = errors.New("animation: clip not found")

// AnimationBridge is what gameplay needs from the host's animation player.
type AnimationBridge interface {
	Play(w *ecs.World, e ecs.Entity, clip string, loop bool) error
	Duration(clip string) (float64, bool)
}

// ClipLibrary is the default bridge. It knows every clip length and records
// the active clip on the entity's Animator for the host to render.
type ClipLibrary struct {
	clips map[string]float64
}

func NewClipLibrary(clips map[string]float64) *ClipLibrary {
	l := &ClipLibrary{}
	l.Set(clips)
	return l
}

// Set replaces the known clips, for hot reload.
func (l *ClipLibrary) Set(clips map[string]float64) {
	copied := make(map[string]float64, len(clips))
	for name, d := range clips {
		copied[name] = d
	}
	l.clips = copied
}

func (l *ClipLibrary) Duration(clip string) (float64, bool) {
	d, ok := l.clips[clip]
	return d, ok
}

func (l *ClipLibrary) Play(w *ecs.World, e ecs.Entity, clip string, loop bool) error {
	d, ok := l.clips[clip]
	if !ok {
		return fmt.Errorf("%w: %q", ErrClipNotFound, clip)
	}
	anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind())
	if !ok {
		anim = &component.Animator{Alpha: 1}
		if err := ecs.Add(w, e, component.AnimatorComponent.Kind(), anim); err != nil {
			return err
		}
	}
	anim.Clip = clip
	anim.Loop = loop
	anim.Duration = d
	anim.Elapsed = 0
	anim.Plays++
	return nil
}

// clipLength returns the clip's duration, or fallback when the clip is unknown.
func clipLength(anim AnimationBridge, clip string, fallback float64) float64 {
	if anim == nil {
		return fallback
	}
	if d, ok := anim.Duration(clip); ok && d > 0 {
		return d
	}
	return fallback
}

// AnimationSystem advances clip playback and fades.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (s *AnimationSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach(w, component.AnimatorComponent.Kind(), func(_ ecs.Entity, anim *component.Animator) {
		anim.Elapsed += dt
		if anim.Loop && anim.Duration > 0 {
			for anim.Elapsed >= anim.Duration {
				anim.Elapsed -= anim.Duration
			}
		}
		if anim.FadeRate > 0 && anim.Alpha > 0 {
			anim.Alpha -= anim.FadeRate * dt
			if anim.Alpha < 0 {
				anim.Alpha = 0
			}
		}
	})
}
