// Package simulator runs a café day on virtual time: generated customers
// place orders and staff work through them, all through the cafe container.
package simulator

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/chrisdamba/cafeorder/internal/cafe"
	"github.com/chrisdamba/cafeorder/internal/events"
	"github.com/chrisdamba/cafeorder/internal/factories"
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/chrisdamba/cafeorder/internal/orders"
	"github.com/chrisdamba/cafeorder/internal/schedule"
	"github.com/chrisdamba/cafeorder/internal/store"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

type Options struct {
	Start     time.Time
	Store     store.Store
	Publisher *events.Publisher
	Logger    zerolog.Logger

	// Progress receives a progress bar; nil disables it.
	Progress io.Writer
}

type Simulator struct {
	Config    models.SimulationConfig
	Cafe      *cafe.Cafe
	Clock     *schedule.Virtual
	Rng       *rand.Rand
	start     time.Time
	customers *factories.CustomerFactory
	logger    zerolog.Logger
	progress  io.Writer
	placed    int
	advanced  int
	cancelled int
}

func NewSimulator(ctx context.Context, cfg *models.Config, opts Options) (*Simulator, error) {
	sim := cfg.Simulation
	if sim.Step <= 0 {
		return nil, fmt.Errorf("simulation step must be positive, got %s", sim.Step)
	}
	if sim.Duration < sim.Step {
		return nil, fmt.Errorf("simulation duration %s is shorter than one step", sim.Duration)
	}
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}

	clk := schedule.NewVirtual(opts.Start)
	day := opts.Start.Format("20060102")
	// a persisted store may already hold ids from an earlier run of this day
	used := make(map[string]bool)
	for _, o := range store.Load(ctx, opts.Store, models.KeyOrders, []models.Order(nil)) {
		used[o.ID] = true
	}
	n := 0
	c, err := cafe.New(ctx, cafe.Options{
		Store:     opts.Store,
		Clock:     clk,
		Scheduler: clk,
		Publisher: opts.Publisher,
		Logger:    opts.Logger,
		// orders are accepted at once on virtual time
		Timing: models.TimingConfig{
			NewHighlight:     cfg.Timing.NewHighlight,
			UpdatedHighlight: cfg.Timing.UpdatedHighlight,
			TrackingRelease:  cfg.Timing.TrackingRelease,
		},
		PastOrdersLimit: cfg.PastOrdersLimit,
		OrderIDs: func() string {
			for {
				n++
				id := fmt.Sprintf("sim-%s-%06d", day, n)
				if !used[id] {
					return id
				}
			}
		},
	})
	if err != nil {
		return nil, err
	}

	return &Simulator{
		Config:    sim,
		Cafe:      c,
		Clock:     clk,
		Rng:       rand.New(rand.NewSource(sim.Seed)),
		start:     opts.Start,
		customers: factories.NewCustomerFactory(sim.Seed),
		logger:    opts.Logger,
		progress:  opts.Progress,
	}, nil
}

// Run steps the clock until the configured duration has elapsed or ctx is
// done, and returns what happened.
func (s *Simulator) Run(ctx context.Context) (Summary, error) {
	steps := int(s.Config.Duration / s.Config.Step)
	s.logger.Info().
		Time("start", s.start).
		Time("end", s.start.Add(time.Duration(steps)*s.Config.Step)).
		Int64("seed", s.Config.Seed).
		Msg("simulation starts")

	var bar *progressbar.ProgressBar
	if s.progress != nil {
		bar = progressbar.NewOptions(steps,
			progressbar.OptionSetWriter(s.progress),
			progressbar.OptionSetDescription("simulating café day"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return s.summary(), err
		}
		s.simulateTimeStep(ctx)
		s.Clock.Advance(s.Config.Step)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	summary := s.summary()
	s.logger.Info().
		Int("orders", summary.Metrics.TotalOrders).
		Str("revenue", summary.Metrics.Revenue.StringFixed(2)).
		Msg("simulation completed")
	return summary, nil
}

// Close stops the café timers. The store and publisher belong to the caller.
func (s *Simulator) Close() {
	s.Cafe.Close()
	s.Clock.Stop()
}

func (s *Simulator) simulateTimeStep(ctx context.Context) {
	s.updateOrderStatuses(ctx)
	s.generateOrders(ctx)
}

func (s *Simulator) generateOrders(ctx context.Context) {
	now := s.Clock.Now()
	lambda := s.Config.OrderFrequency * s.Config.Step.Minutes() * hourFactor(now)
	for i := poisson(s.Rng, lambda); i > 0; i-- {
		s.placeOrder(ctx)
	}
}

func (s *Simulator) placeOrder(ctx context.Context) {
	catalog := s.Cafe.Catalog()
	if len(catalog) == 0 {
		return
	}
	customer := s.customers.CreateCustomer()
	maxLines := s.Config.MaxCartLines
	if maxLines > len(catalog) {
		maxLines = len(catalog)
	}
	_, quantities := s.customers.CartSize(maxLines)
	for i, idx := range s.customers.PickDistinct(len(catalog), len(quantities)) {
		item := catalog[idx]
		if err := s.Cafe.AddToCart(item.ID); err != nil {
			s.logger.Warn().Err(err).Int64("item_id", item.ID).Msg("failed to add item to cart")
			continue
		}
		if quantities[i] > 1 {
			s.Cafe.UpdateCartQuantity(item.ID, quantities[i])
		}
	}

	order, err := s.Cafe.PlaceOrder(ctx, customer.Name, customer.Notes)
	if err != nil {
		s.logger.Warn().Err(err).Str("customer", customer.Name).Msg("order not placed")
		return
	}
	s.placed++
	s.logger.Debug().
		Str("order_id", orders.ShortID(order.ID)).
		Time("at", order.CreatedAt).
		Msg("simulated order placed")
}

// updateOrderStatuses gives every active order a chance of being worked on
// this step. An order that is worked on is either cancelled or moved one
// status forward.
func (s *Simulator) updateOrderStatuses(ctx context.Context) {
	p := 1.0
	if s.Config.PrepTime > s.Config.Step {
		p = float64(s.Config.Step) / float64(s.Config.PrepTime)
	}
	for _, o := range s.Cafe.ActiveOrders(orders.SortOldest) {
		if s.Rng.Float64() >= p {
			continue
		}
		if s.Rng.Float64() < s.Config.CancelRate {
			if _, err := s.Cafe.CancelOrder(ctx, o.ID); err != nil {
				s.logger.Warn().Err(err).Str("order_id", o.ID).Msg("failed to cancel order")
				continue
			}
			s.cancelled++
			continue
		}
		if _, err := s.Cafe.AdvanceOrder(ctx, o.ID); err != nil {
			s.logger.Warn().Err(err).Str("order_id", o.ID).Msg("failed to advance order")
			continue
		}
		s.advanced++
	}
}

func (s *Simulator) summary() Summary {
	return Summary{
		Start:     s.start,
		End:       s.Clock.Now(),
		Placed:    s.placed,
		Advanced:  s.advanced,
		Cancelled: s.cancelled,
		Metrics:   orders.Metrics(s.Cafe.Orders()),
	}
}
