// Package history lists the heart-rate samples of the recent past and mirrors
// every rendered row to the remote document store.
package history

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/balkashynov/tranquil/internal/dispatch"
	"github.com/balkashynov/tranquil/internal/health"
	"github.com/balkashynov/tranquil/internal/logger"
	"github.com/balkashynov/tranquil/internal/mirror"
	"github.com/balkashynov/tranquil/internal/models"
	"github.com/balkashynov/tranquil/internal/watch"
)

// DefaultWindow is how far back the list reaches
const DefaultWindow = 7 * 24 * time.Hour

// View is the list surface. Its methods run on the owner context.
type View interface {
	// Reload re-renders every row
	Reload()
	// EndRefreshing stops the pull-to-refresh spinner
	EndRefreshing()
	// ShowUnavailable replaces the list with the not-available state
	ShowUnavailable(state watch.GateState)
}

// Row is one rendered list row
type Row struct {
	Title  string // value, one decimal
	Detail string // coarse local date
	Path   string // mirror path the value was written to
}

// Lister owns the in-memory list. All methods run on the owner context of
// its dispatcher.
type Lister struct {
	store      health.Store
	dispatcher dispatch.Dispatcher
	writer     mirror.Writer
	view       View
	gate       *watch.Gate

	Window   time.Duration
	Location *time.Location
	Now      func() time.Time

	entries    []models.Sample
	generation int
	querying   bool
}

// NewLister creates a lister with the default window
func NewLister(store health.Store, dispatcher dispatch.Dispatcher, writer mirror.Writer, view View) *Lister {
	return &Lister{
		store:      store,
		dispatcher: dispatcher,
		writer:     writer,
		view:       view,
		gate:       watch.NewGate(store, dispatcher),
		Window:     DefaultWindow,
		Location:   time.Local,
		Now:        time.Now,
	}
}

// Load asks for authorization once and, when granted, runs the first query
func (l *Lister) Load() {
	l.gate.Request(func(state watch.GateState) {
		if state != watch.GateGranted {
			l.view.ShowUnavailable(state)
			l.view.EndRefreshing()
			return
		}
		l.query()
	})
}

// Refresh clears the list and queries again
func (l *Lister) Refresh() {
	if !l.gate.Granted() {
		l.view.EndRefreshing()
		return
	}
	l.entries = nil
	l.view.Reload()
	l.query()
}

// Querying reports whether a query is in flight
func (l *Lister) Querying() bool {
	return l.querying
}

// Len is the number of rows
func (l *Lister) Len() int {
	return len(l.entries)
}

// Sample returns the sample behind row i
func (l *Lister) Sample(i int) (models.Sample, bool) {
	if i < 0 || i >= len(l.entries) {
		return models.Sample{}, false
	}
	return l.entries[i], true
}

// Row renders row i and writes its value to the mirror. The write happens on
// every render, so a row that is shown again is written again.
func (l *Lister) Row(i int) (Row, bool) {
	s, ok := l.Sample(i)
	if !ok {
		return Row{}, false
	}

	detail, full := mirror.Segments(s.StartDate, l.Location)
	row := Row{
		Title:  watch.FormatValue(s.Value),
		Detail: detail,
		Path:   detail + "/" + full,
	}
	l.writer.Write(row.Path, s.Value)
	return row, true
}

func (l *Lister) query() {
	l.generation++
	gen := l.generation
	since := l.Now().Add(-l.Window)

	q, err := l.store.NewSampleQuery(models.KindHeartRate, since, func(_ *health.SampleQuery, samples []models.Sample, err error) {
		l.dispatcher.Dispatch(func() {
			l.complete(gen, samples, err)
		})
	})
	if err != nil {
		logger.Logger.WithError(err).Warn("history query not created")
		l.view.EndRefreshing()
		return
	}

	l.querying = true
	l.store.Execute(q)
}

func (l *Lister) complete(gen int, samples []models.Sample, err error) {
	if gen != l.generation {
		// superseded by a later refresh
		return
	}
	l.querying = false
	defer l.view.EndRefreshing()

	if err != nil {
		logger.Logger.WithError(err).Warn("history query failed")
		return
	}

	l.entries = append(l.entries, samples...)
	logger.Logger.WithFields(logrus.Fields{
		"count":  len(samples),
		"window": l.Window,
	}).Debug("history loaded")
	l.view.Reload()
}
