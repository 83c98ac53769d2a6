package simulator

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/chrisdamba/cafeorder/internal/orders"
	"github.com/chrisdamba/cafeorder/internal/store"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var dayStart = time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC)

func testConfig() *models.Config {
	return &models.Config{
		Timing: models.TimingConfig{
			NewHighlight:     5 * time.Second,
			UpdatedHighlight: 3 * time.Second,
			TrackingRelease:  30 * time.Second,
		},
		PastOrdersLimit: 8,
		Simulation: models.SimulationConfig{
			Seed:           42,
			Duration:       3 * time.Hour,
			Step:           time.Minute,
			OrderFrequency: 0.5,
			PrepTime:       4 * time.Minute,
			CancelRate:     0.05,
			MaxCartLines:   3,
		},
	}
}

func run(t *testing.T, cfg *models.Config) (*Simulator, Summary) {
	t.Helper()
	sim, err := NewSimulator(context.Background(), cfg, Options{Start: dayStart, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	t.Cleanup(sim.Close)
	summary, err := sim.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return sim, summary
}

func TestRunIsDeterministic(t *testing.T) {
	a, sa := run(t, testConfig())
	b, sb := run(t, testConfig())

	if diff := cmp.Diff(a.Cafe.Orders(), b.Cafe.Orders(), cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) })); diff != "" {
		t.Fatalf("same seed produced different orders (-a +b):\n%s", diff)
	}
	if sa.Placed != sb.Placed || sa.Advanced != sb.Advanced || sa.Cancelled != sb.Cancelled {
		t.Fatalf("summaries differ: %+v vs %+v", sa, sb)
	}
}

func TestRunProducesConsistentOrders(t *testing.T) {
	sim, summary := run(t, testConfig())
	list := sim.Cafe.Orders()

	if summary.Placed == 0 {
		t.Fatal("expected orders to be placed over three hours")
	}
	if summary.Placed != len(list) {
		t.Fatalf("placed %d but cafe holds %d orders", summary.Placed, len(list))
	}
	if !summary.End.Equal(dayStart.Add(3 * time.Hour)) {
		t.Errorf("expected simulation to end at %s, got %s", dayStart.Add(3*time.Hour), summary.End)
	}

	total := 0
	for _, n := range summary.Metrics.ByStatus {
		total += n
	}
	if total != len(list) {
		t.Errorf("status counts sum to %d, want %d", total, len(list))
	}

	for _, o := range list {
		if !orders.IsValid(o.Status) {
			t.Fatalf("order %s has invalid status %q", o.ID, o.Status)
		}
		if len(o.Items) == 0 {
			t.Fatalf("order %s has no items", o.ID)
		}
		sum := decimal.Zero
		for _, line := range o.Items {
			if line.Quantity < 1 || line.Quantity > 3 {
				t.Fatalf("order %s line %d has quantity %d", o.ID, line.ID, line.Quantity)
			}
			sum = sum.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		if !sum.Equal(o.Total) {
			t.Fatalf("order %s total %s, lines sum to %s", o.ID, o.Total, sum)
		}
		if o.CreatedAt.Before(dayStart) || o.CreatedAt.After(summary.End) {
			t.Fatalf("order %s created outside the simulated window: %s", o.ID, o.CreatedAt)
		}
	}

	if len(sim.Cafe.Cart()) != 0 {
		t.Error("cart should be empty after every placement")
	}
}

func TestPersistedRunsKeepOrderIDsUnique(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.Duration = time.Hour
	shared := store.NewMemory()

	placed := 0
	var last *Simulator
	for i := 0; i < 2; i++ {
		sim, err := NewSimulator(context.Background(), cfg, Options{Start: dayStart, Store: shared, Logger: zerolog.Nop()})
		if err != nil {
			t.Fatalf("NewSimulator run %d: %v", i, err)
		}
		summary, err := sim.Run(context.Background())
		if err != nil {
			t.Fatalf("Run %d: %v", i, err)
		}
		sim.Close()
		placed += summary.Placed
		last = sim
	}

	list := last.Cafe.Orders()
	if len(list) != placed {
		t.Fatalf("expected %d orders across both runs, got %d", placed, len(list))
	}
	seen := make(map[string]bool, len(list))
	for _, o := range list {
		if seen[o.ID] {
			t.Fatalf("order id %s used twice", o.ID)
		}
		seen[o.ID] = true
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	sim, err := NewSimulator(context.Background(), testConfig(), Options{Start: dayStart, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	defer sim.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := sim.Run(ctx)
	if err == nil {
		t.Fatal("expected a context error")
	}
	if summary.Placed != 0 {
		t.Errorf("expected no orders after immediate cancellation, got %d", summary.Placed)
	}
}

func TestNewSimulatorRejectsBadTiming(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.Step = 0
	if _, err := NewSimulator(context.Background(), cfg, Options{Start: dayStart}); err == nil {
		t.Error("expected an error for a zero step")
	}

	cfg = testConfig()
	cfg.Simulation.Duration = 30 * time.Second
	if _, err := NewSimulator(context.Background(), cfg, Options{Start: dayStart}); err == nil {
		t.Error("expected an error for a duration shorter than a step")
	}
}

func TestProgressBarIsWritten(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.Duration = 10 * time.Minute
	var buf bytes.Buffer
	sim, err := NewSimulator(context.Background(), cfg, Options{Start: dayStart, Logger: zerolog.Nop(), Progress: &buf})
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	defer sim.Close()
	if _, err := sim.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected progress output")
	}
}

func TestSummaryPrint(t *testing.T) {
	s := Summary{
		Start:  dayStart,
		End:    dayStart.Add(time.Hour),
		Placed: 3,
		Metrics: models.OrderMetrics{
			TotalOrders:    3,
			ByStatus:       map[models.OrderStatus]int{models.OrderStatusCompleted: 2, models.OrderStatusPending: 1},
			Revenue:        decimal.RequireFromString("12.5"),
			AvgOrderValue:  decimal.RequireFromString("6.25"),
			PopularItems:   map[string]int{"Latte": 3, "Mocha": 1},
			CompletionRate: 2.0 / 3.0,
		},
	}
	var buf bytes.Buffer
	s.Print(&buf)
	out := buf.String()
	for _, want := range []string{"Orders placed: 3", "Revenue (completed): $12.50", "Latte", "66.7%"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestHourFactor(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2025, 3, 3, h, 30, 0, 0, time.UTC) }
	if hourFactor(at(8)) != peakHourFactor {
		t.Error("8:30 should be a peak hour")
	}
	if hourFactor(at(12)) != 1.0 {
		t.Error("12:30 should be a normal hour")
	}
	if hourFactor(at(20)) != quietFactor {
		t.Error("20:30 should be quiet")
	}
}

func TestPoissonMean(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const draws = 20000
	sum := 0
	for i := 0; i < draws; i++ {
		sum += poisson(rng, 3)
	}
	mean := float64(sum) / draws
	if mean < 2.9 || mean > 3.1 {
		t.Errorf("poisson mean = %.3f, want about 3", mean)
	}
	if poisson(rng, 0) != 0 {
		t.Error("poisson with zero mean should draw zero")
	}
}
