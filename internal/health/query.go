package health

import (
	"fmt"
	"time"

	"github.com/balkashynov/tranquil/internal/models"
)

// Query is either a *LiveQuery or a *SampleQuery
type Query interface {
	SampleKind() models.Kind
}

// LiveHandler receives the initial batch and every later update of a live
// query. samples may be empty.
type LiveHandler func(q *LiveQuery, samples []models.Sample, err error)

// SampleHandler receives the single result of a one-shot query
type SampleHandler func(q *SampleQuery, samples []models.Sample, err error)

// LiveQuery is a standing request for samples of one kind since Start
type LiveQuery struct {
	Kind    models.Kind
	Start   time.Time
	Handler LiveHandler
}

// SampleQuery is a one-shot request for samples of one kind since Start.
// There is no end bound, no limit and no sort order.
type SampleQuery struct {
	Kind    models.Kind
	Start   time.Time
	Handler SampleHandler
}

// NewLiveQuery validates the arguments and builds a live query
func NewLiveQuery(kind models.Kind, start time.Time, handler LiveHandler) (*LiveQuery, error) {
	if !kind.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	if handler == nil {
		return nil, fmt.Errorf("live query for %s has no handler", kind)
	}
	return &LiveQuery{Kind: kind, Start: start, Handler: handler}, nil
}

// NewSampleQuery validates the arguments and builds a one-shot query
func NewSampleQuery(kind models.Kind, start time.Time, handler SampleHandler) (*SampleQuery, error) {
	if !kind.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	if handler == nil {
		return nil, fmt.Errorf("sample query for %s has no handler", kind)
	}
	return &SampleQuery{Kind: kind, Start: start, Handler: handler}, nil
}

func (q *LiveQuery) SampleKind() models.Kind   { return q.Kind }
func (q *SampleQuery) SampleKind() models.Kind { return q.Kind }
