package ncio

import (
	"fmt"
	"sort"

	"github.com/hydroio/ncseries/errs"
	"github.com/hydroio/ncseries/internal/options"
	"github.com/hydroio/ncseries/series"
	"github.com/hydroio/ncseries/timegrid"
)

// Session is the unit of work of the mapping layer. It collects Log calls,
// routing each series to a file and a variable according to the configured
// policies, and performs all file I/O in one final Read or Write call.
type Session struct {
	cfg   *Config
	order []string
	files map[string]*File
}

// NewSession creates an empty session. Without options it reads and writes
// plain files in the current directory under the default schema, with the
// deep layout and shared (non-isolated) files.
func NewSession(opts ...Option) (*Session, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Session{
		cfg:   cfg,
		files: make(map[string]*File),
	}, nil
}

// Timegrid returns the configured simulation window, nil for read-only
// sessions.
func (s *Session) Timegrid() *timegrid.Timegrid { return s.cfg.Grid }

// Log schedules a series for the next Read or Write.
//
// arr selects the block actually transferred; nil stands for the series' own
// (unmodified) values. Aggregated blocks are write-only.
//
// The file key starts with "node" for node series and with the device
// category otherwise. The isolate policy appends the quantity name, plus the
// aggregation kind for aggregated blocks, so each quantity variant gets its
// own file.
func (s *Session) Log(sq *series.Series, arr *series.Array) error {
	if arr == nil {
		arr = sq.Unmodified()
	}
	key := sq.Category()
	if s.cfg.Isolate {
		key += "_" + sq.Name()
		if arr.Aggregated() {
			key += "_" + arr.Kind
		}
	}
	f, ok := s.files[key]
	if !ok {
		f = newFile(key, s.cfg)
		s.files[key] = f
		s.order = append(s.order, key)
	}

	return f.Log(sq, arr)
}

// Read transfers the data of all registered files into their logged series.
// The first failing file aborts the transfer.
func (s *Session) Read() error {
	for _, key := range s.order {
		if err := s.files[key].Read(); err != nil {
			return err
		}
	}

	return nil
}

// Write creates all registered files. A session without logged series writes
// nothing; writing requires the simulation window option.
func (s *Session) Write() error {
	if len(s.order) == 0 {
		return nil
	}
	if s.cfg.Grid == nil {
		return fmt.Errorf("%w: writing requires WithTimegrid", errs.ErrNoTimegrid)
	}
	timeunit, err := s.cfg.Grid.CFUnits(s.cfg.TimeUnit)
	if err != nil {
		return err
	}
	timepoints, err := s.cfg.Grid.Timepoints(s.cfg.TimeUnit)
	if err != nil {
		return err
	}
	for _, key := range s.order {
		if err := s.files[key].Write(timeunit, timepoints); err != nil {
			return err
		}
	}

	return nil
}

// FileNames returns the registered file keys in logging order.
func (s *Session) FileNames() []string {
	return append([]string(nil), s.order...)
}

// File returns the file registered under the given key.
func (s *Session) File(key string) (*File, error) {
	f, ok := s.files[key]
	if !ok {
		known := append([]string(nil), s.order...)
		sort.Strings(known)
		return nil, fmt.Errorf("%w: the session registers %v, not %q",
			errs.ErrUnknownFile, known, key)
	}

	return f, nil
}
