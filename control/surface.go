package control

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/RiccardoCataldi/OscParametricEq/dsp/eq"
)

// ErrUnknownAddress is returned for an address that is not routed.
var ErrUnknownAddress = errors.New("unknown control address")

// MulAddress is the address of the output gain.
const MulAddress = "/mul"

// Route describes the parameter behind one address.
type Route struct {
	Address string
	// Band is the zero-based band index, or -1 for the output gain.
	Band  int
	Field eq.Field
}

// Global reports whether the route targets the chain rather than a band.
func (r Route) Global() bool {
	return r.Band < 0
}

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets the logger used to report updates.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Surface) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Surface routes (address, value) updates to a chain.
type Surface struct {
	chain  *eq.Chain
	logger *slog.Logger
	routes map[string]Route
	order  []string
}

// New creates a surface bound to chain.
func New(chain *eq.Chain, opts ...Option) (*Surface, error) {
	if chain == nil {
		return nil, errors.New("control: nil chain")
	}

	s := &Surface{
		chain:  chain,
		logger: slog.New(slog.DiscardHandler),
		routes: make(map[string]Route, len(eq.Fields)*eq.NumBands+1),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	for _, f := range []eq.Field{eq.Freq, eq.Q, eq.Boost} {
		s.addBandRoutes(f)
	}
	s.add(Route{Address: MulAddress, Band: -1})
	s.addBandRoutes(eq.Bypass)

	return s, nil
}

func (s *Surface) addBandRoutes(f eq.Field) {
	for band := 0; band < eq.NumBands; band++ {
		s.add(Route{Address: Address(band, f), Band: band, Field: f})
	}
}

func (s *Surface) add(r Route) {
	s.routes[r.Address] = r
	s.order = append(s.order, r.Address)
}

// Address returns the control address of a band field.
func Address(band int, f eq.Field) string {
	return "/" + f.String() + strconv.Itoa(band+1)
}

// Addresses lists every routed address in a stable order.
func (s *Surface) Addresses() []string {
	return append([]string(nil), s.order...)
}

// Route returns the route registered for address.
func (s *Surface) Route(address string) (Route, bool) {
	r, ok := s.routes[address]
	return r, ok
}

// OnUpdate applies value to the parameter behind address. Updates are
// idempotent; the last write wins.
func (s *Surface) OnUpdate(address string, value float64) error {
	r, ok := s.routes[address]
	if !ok {
		s.logger.Warn("rejected update", "address", address, "value", value, "err", ErrUnknownAddress)
		return fmt.Errorf("control: %q: %w", address, ErrUnknownAddress)
	}

	var err error
	if r.Global() {
		err = s.chain.SetMul(value)
	} else {
		err = s.chain.SetParameter(r.Band, r.Field, value)
	}
	if err != nil {
		s.logger.Warn("rejected update", "address", address, "value", value, "err", err)
		return fmt.Errorf("control: %s: %w", address, err)
	}

	s.logger.Debug("update", "address", address, "value", value)
	return nil
}

// Defaults returns the initial value of every address.
func (s *Surface) Defaults() map[string]float64 {
	out := make(map[string]float64, len(s.order))
	for _, addr := range s.order {
		r := s.routes[addr]
		if r.Global() {
			out[addr] = eq.DefaultMul
			continue
		}
		out[addr] = eq.DefaultParams(r.Band).Get(r.Field)
	}
	return out
}

// ApplyDefaults stores the default value of every address.
func (s *Surface) ApplyDefaults() error {
	defaults := s.Defaults()
	var errs []error
	for _, addr := range s.order {
		if err := s.OnUpdate(addr, defaults[addr]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Value returns the current target behind address.
func (s *Surface) Value(address string) (float64, bool) {
	r, ok := s.routes[address]
	if !ok {
		return 0, false
	}
	if r.Global() {
		return s.chain.Mul(), true
	}
	return s.chain.Band(r.Band).Params().Get(r.Field), true
}

// Describe renders every target value, one line per parameter.
func (s *Surface) Describe() string {
	return s.chain.Snapshot().String()
}
