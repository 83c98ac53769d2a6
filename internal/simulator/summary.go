package simulator

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/chrisdamba/cafeorder/internal/models"
)

type Summary struct {
	Start     time.Time
	End       time.Time
	Placed    int
	Advanced  int
	Cancelled int
	Metrics   models.OrderMetrics
}

// Print writes a plain-text report of the run to w.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "Simulated %s to %s\n", s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339))
	fmt.Fprintf(w, "Orders placed: %d (status changes: %d, cancellations: %d)\n", s.Placed, s.Advanced, s.Cancelled)
	for _, status := range models.AllOrderStatuses {
		fmt.Fprintf(w, "  %-12s %d\n", status, s.Metrics.ByStatus[status])
	}
	fmt.Fprintf(w, "Revenue (completed): $%s\n", s.Metrics.Revenue.StringFixed(2))
	fmt.Fprintf(w, "Average order value: $%s\n", s.Metrics.AvgOrderValue.StringFixed(2))
	fmt.Fprintf(w, "Completion rate:     %.1f%%\n", s.Metrics.CompletionRate*100)

	type entry struct {
		name string
		qty  int
	}
	var popular []entry
	for name, qty := range s.Metrics.PopularItems {
		popular = append(popular, entry{name, qty})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].qty != popular[j].qty {
			return popular[i].qty > popular[j].qty
		}
		return popular[i].name < popular[j].name
	})
	if len(popular) > 5 {
		popular = popular[:5]
	}
	if len(popular) > 0 {
		fmt.Fprintln(w, "Top items:")
		for _, e := range popular {
			fmt.Fprintf(w, "  %-16s %d\n", e.name, e.qty)
		}
	}
}
