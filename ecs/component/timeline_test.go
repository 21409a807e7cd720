package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60.0

func advanceFor(tl *Timeline, seconds float64) {
	frames := int(seconds/frame + 0.5)
	for i := 0; i < frames; i++ {
		tl.Advance(frame)
	}
}

func TestTimelineRunsStepsInOrder(t *testing.T) {
	var got []string
	var tl Timeline
	tl.Run("attack", TagBehavior,
		Step{Wait: 0.5, Label: "strike", Do: func() { got = append(got, "strike") }},
		Step{Wait: 1.0, Label: "recover", Do: func() { got = append(got, "recover") }},
	)

	require.Equal(t, []string{"strike", "recover"}, tl.Pending("attack"))

	advanceFor(&tl, 0.49)
	assert.Empty(t, got)

	advanceFor(&tl, 0.02)
	assert.Equal(t, []string{"strike"}, got)
	assert.Equal(t, []string{"recover"}, tl.Pending("attack"))

	advanceFor(&tl, 1.0)
	assert.Equal(t, []string{"strike", "recover"}, got)
	assert.False(t, tl.Has("attack"))
	assert.Equal(t, 0, tl.Len())
}

func TestTimelineCarriesLeftoverTime(t *testing.T) {
	fired := 0
	var tl Timeline
	tl.Run("burst", TagBehavior,
		Step{Wait: 0.1, Do: func() { fired++ }},
		Step{Wait: 0.1, Do: func() { fired++ }},
		Step{Wait: 0.1, Do: func() { fired++ }},
	)
	tl.Advance(0.3)
	assert.Equal(t, 3, fired)
}

func TestTimelineCancellation(t *testing.T) {
	tests := []struct {
		name   string
		cancel func(tl *Timeline)
		fired  bool
	}{
		{"by_name", func(tl *Timeline) { tl.Cancel("idle") }, false},
		{"by_tag", func(tl *Timeline) { tl.CancelTags(TagBehavior) }, false},
		{"other_tag", func(tl *Timeline) { tl.CancelTags(TagPosture) }, true},
		{"all", func(tl *Timeline) { tl.CancelAll() }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fired := false
			var tl Timeline
			tl.Run("idle", TagBehavior, Step{Wait: 0.4, Do: func() { fired = true }})
			tl.Advance(0.2)
			tc.cancel(&tl)
			tl.Advance(0.5)
			assert.Equal(t, tc.fired, fired)
		})
	}
}

func TestTimelineCancelledMidFrameNeverFires(t *testing.T) {
	var tl Timeline
	hurt := false
	tl.Run("death", TagLifecycle, Step{Wait: 0.1, Do: func() { tl.CancelTags(TagBehavior) }})
	tl.Run("hurt", TagBehavior, Step{Wait: 0.1, Do: func() { hurt = true }})

	tl.Advance(0.2)
	assert.False(t, hurt)
}

func TestTimelineRunReplacesSameName(t *testing.T) {
	var tl Timeline
	var got []int
	tl.Run("hurt", TagBehavior, Step{Wait: 0.5, Do: func() { got = append(got, 1) }})
	tl.Advance(0.3)
	tl.Run("hurt", TagBehavior, Step{Wait: 0.5, Do: func() { got = append(got, 2) }})
	tl.Advance(0.3)
	assert.Empty(t, got)
	tl.Advance(0.2)
	assert.Equal(t, []int{2}, got)
}

func TestTimelineStepStartsTrackNextFrame(t *testing.T) {
	var tl Timeline
	second := false
	tl.Run("first", TagBehavior, Step{Wait: 0, Do: func() {
		tl.Run("second", TagBehavior, Step{Do: func() { second = true }})
	}})
	tl.Advance(frame)
	assert.False(t, second)
	assert.True(t, tl.Has("second"))
	tl.Advance(frame)
	assert.True(t, second)
}
