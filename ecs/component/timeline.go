package component

// Tag groups tracks for bulk cancellation.
type Tag uint8

const (
	// TagBehavior tracks belong to the current state and die with it.
	TagBehavior Tag = iota + 1
	// TagPosture tracks are crouch and block transitions.
	TagPosture
	// TagLifecycle tracks outlive state changes (death cleanup, ghosts).
	TagLifecycle
)

const timelineEpsilon = 1e-9

// Step waits Wait seconds after the previous step, then runs Do.
type Step struct {
	Wait  float64
	Label string
	Do    func()
}

type Track struct {
	Name  string
	Tag   Tag
	steps []Step
	next  int
	clock float64
	dead  bool
}

func (t *Track) done() bool {
	return t.dead || t.next >= len(t.steps)
}

// Timeline is a small interpreter over named step lists, advanced by frame
// time. It replaces chains of delayed callbacks.
type Timeline struct {
	tracks []*Track
}

// Run starts a track, replacing any live track with the same name.
func (tl *Timeline) Run(name string, tag Tag, steps ...Step) {
	tl.Cancel(name)
	tl.tracks = append(tl.tracks, &Track{
		Name:  name,
		Tag:   tag,
		steps: append([]Step(nil), steps...),
	})
}

func (tl *Timeline) Cancel(name string) bool {
	found := false
	for _, tr := range tl.tracks {
		if tr.Name == name && !tr.done() {
			tr.dead = true
			found = true
		}
	}
	return found
}

func (tl *Timeline) CancelTags(tags ...Tag) {
	for _, tr := range tl.tracks {
		for _, tag := range tags {
			if tr.Tag == tag {
				tr.dead = true
				break
			}
		}
	}
}

func (tl *Timeline) CancelAll() {
	for _, tr := range tl.tracks {
		tr.dead = true
	}
}

func (tl *Timeline) Has(name string) bool {
	for _, tr := range tl.tracks {
		if tr.Name == name && !tr.done() {
			return true
		}
	}
	return false
}

// Pending lists the labels of the steps a live track has yet to run.
func (tl *Timeline) Pending(name string) []string {
	for _, tr := range tl.tracks {
		if tr.Name != name || tr.done() {
			continue
		}
		out := make([]string, 0, len(tr.steps)-tr.next)
		for _, s := range tr.steps[tr.next:] {
			out = append(out, s.Label)
		}
		return out
	}
	return nil
}

// Len counts live tracks.
func (tl *Timeline) Len() int {
	n := 0
	for _, tr := range tl.tracks {
		if !tr.done() {
			n++
		}
	}
	return n
}

// Advance moves every live track forward by dt and fires due steps in order.
// Tracks started during Advance begin on the next call.
func (tl *Timeline) Advance(dt float64) {
	if dt < 0 {
		dt = 0
	}
	snapshot := append([]*Track(nil), tl.tracks...)
	for _, tr := range snapshot {
		if tr.done() {
			continue
		}
		tr.clock += dt
		for !tr.done() {
			step := tr.steps[tr.next]
			if tr.clock+timelineEpsilon < step.Wait {
				break
			}
			tr.clock -= step.Wait
			if tr.clock < 0 {
				tr.clock = 0
			}
			tr.next++
			if step.Do != nil {
				step.Do()
			}
		}
	}
	tl.compact()
}

func (tl *Timeline) compact() {
	live := tl.tracks[:0]
	for _, tr := range tl.tracks {
		if !tr.done() {
			live = append(live, tr)
		}
	}
	for i := len(live); i < len(tl.tracks); i++ {
		tl.tracks[i] = nil
	}
	tl.tracks = live
}

var TimelineComponent = NewComponent[Timeline]()
