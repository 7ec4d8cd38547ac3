// Package selection tracks which overlay surfaces are open and what they show.
package selection

import "github.com/mmcdole/anikino/internal/domain"

// Surface is an overlay that can present a media item
type Surface int

const (
	SurfaceDetail Surface = iota
	SurfaceTrailer
)

func (s Surface) String() string {
	switch s {
	case SurfaceDetail:
		return "detail"
	case SurfaceTrailer:
		return "trailer"
	default:
		return "unknown"
	}
}

// Mode is the set of open surfaces
type Mode uint8

const (
	ModeNone        Mode = 0
	ModeDetailOpen  Mode = 1 << 0
	ModeTrailerOpen Mode = 1 << 1
)

// Has returns true if every surface in other is open in m
func (m Mode) Has(other Mode) bool {
	return other != ModeNone && m&other == other
}

type surfaceState struct {
	open    bool
	subject domain.Media
	set     bool
	seq     uint64
}

// Orchestrator holds the open flag and last subject of each surface.
// The surfaces are independent: opening or closing one never touches the other.
type Orchestrator struct {
	detail  surfaceState
	trailer surfaceState
	seq     uint64
}

// New returns an orchestrator with both surfaces closed
func New() *Orchestrator {
	return &Orchestrator{}
}

// OpenDetail opens the detail surface on m
func (o *Orchestrator) OpenDetail(m domain.Media) {
	o.open(&o.detail, m)
}

// OpenTrailer opens the trailer surface on m
func (o *Orchestrator) OpenTrailer(m domain.Media) {
	o.open(&o.trailer, m)
}

func (o *Orchestrator) open(s *surfaceState, m domain.Media) {
	o.seq++
	s.open = true
	s.subject = m
	s.set = true
	s.seq = o.seq
}

// Close closes surface s. Its subject is kept.
func (o *Orchestrator) Close(s Surface) {
	if st := o.state(s); st != nil {
		st.open = false
	}
}

// IsOpen reports whether surface s is open
func (o *Orchestrator) IsOpen(s Surface) bool {
	st := o.state(s)
	return st != nil && st.open
}

// Subject returns the last item surface s was opened on
func (o *Orchestrator) Subject(s Surface) (domain.Media, bool) {
	st := o.state(s)
	if st == nil || !st.set {
		return domain.Media{}, false
	}
	return st.subject, true
}

// Mode returns the set of open surfaces
func (o *Orchestrator) Mode() Mode {
	mode := ModeNone
	if o.detail.open {
		mode |= ModeDetailOpen
	}
	if o.trailer.open {
		mode |= ModeTrailerOpen
	}
	return mode
}

// Top returns the most recently opened surface that is still open
func (o *Orchestrator) Top() (Surface, bool) {
	switch {
	case o.detail.open && o.trailer.open:
		if o.trailer.seq > o.detail.seq {
			return SurfaceTrailer, true
		}
		return SurfaceDetail, true
	case o.trailer.open:
		return SurfaceTrailer, true
	case o.detail.open:
		return SurfaceDetail, true
	default:
		return 0, false
	}
}

// Current returns the subject of the top surface
func (o *Orchestrator) Current() (domain.Media, bool) {
	s, ok := o.Top()
	if !ok {
		return domain.Media{}, false
	}
	return o.Subject(s)
}

func (o *Orchestrator) state(s Surface) *surfaceState {
	switch s {
	case SurfaceDetail:
		return &o.detail
	case SurfaceTrailer:
		return &o.trailer
	default:
		return nil
	}
}
