package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/chrisdamba/cafeorder/internal/cafe"
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/chrisdamba/cafeorder/internal/orders"
	"github.com/spf13/cobra"
)

var errAmbiguousOrder = errors.New("order id matches more than one order")

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Place, list and fulfil orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders (active, past, mine or all)",
	RunE: func(cmd *cobra.Command, args []string) error {
		opt := defaultSort()
		if cmd.Flags().Changed("sort") {
			var err error
			if opt, err = orders.ParseSortOption(mustString(cmd, "sort")); err != nil {
				return err
			}
		}
		c, closeAll, err := openCafe(cmd.Context())
		if err != nil {
			return err
		}
		defer closeAll()

		var list []models.Order
		switch view := mustString(cmd, "view"); view {
		case "active":
			list = c.ActiveOrders(opt)
		case "past":
			list = c.PastOrders(opt)
		case "mine":
			list = c.MyOrders()
		case "all":
			list = orders.Sorted(c.Orders(), opt)
		default:
			return fmt.Errorf("unknown view %q, want active, past, mine or all", view)
		}
		if len(list) == 0 {
			fmt.Println("No orders.")
			return nil
		}
		return printOrders(os.Stdout, list, time.Now())
	},
}

var ordersPlaceCmd = &cobra.Command{
	Use:   "place",
	Short: "Place an order from --item id[:quantity] lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		lines, err := cmd.Flags().GetStringArray("item")
		if err != nil {
			return err
		}
		c, closeAll, err := openCafe(cmd.Context())
		if err != nil {
			return err
		}
		defer closeAll()

		for _, line := range lines {
			id, qty, err := parseCartLine(line)
			if err != nil {
				return err
			}
			if err := c.AddToCart(id); err != nil {
				return fmt.Errorf("%w: %d", err, id)
			}
			if qty > 1 {
				c.UpdateCartQuantity(id, qty)
			}
		}

		order, err := c.PlaceOrder(cmd.Context(), mustString(cmd, "name"), mustString(cmd, "notes"))
		if err != nil {
			return err
		}
		fmt.Printf("Order #%s placed for %s: %d items, $%s\n",
			orders.ShortID(order.ID), order.CustomerName, order.ItemCount(), order.Total.StringFixed(2))
		return nil
	},
}

var ordersAdvanceCmd = &cobra.Command{
	Use:   "advance <order-id>",
	Short: "Move an order to its next status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args[0], func(c *cafe.Cafe, id string) (models.Order, error) {
			return c.AdvanceOrder(cmd.Context(), id)
		})
	},
}

var ordersCancelCmd = &cobra.Command{
	Use:   "cancel <order-id>",
	Short: "Cancel an order that is not finished",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args[0], func(c *cafe.Cafe, id string) (models.Order, error) {
			return c.CancelOrder(cmd.Context(), id)
		})
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status <order-id> <status>",
	Short: "Set an order's status directly, if the move is allowed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := orders.ParseStatus(args[1])
		if err != nil {
			return err
		}
		return changeStatus(cmd, args[0], func(c *cafe.Cafe, id string) (models.Order, error) {
			return c.SetStatus(cmd.Context(), id, to)
		})
	},
}

var ordersTrackCmd = &cobra.Command{
	Use:   "track",
	Short: "Show the progress of your last order",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeAll, err := openCafe(cmd.Context())
		if err != nil {
			return err
		}
		defer closeAll()

		order, ok := c.TrackedOrder()
		if !ok {
			fmt.Println("No order is being tracked.")
			return nil
		}
		printTracker(os.Stdout, order, time.Now())
		return nil
	},
}

func init() {
	ordersListCmd.Flags().String("view", "active", "active, past, mine or all")
	ordersListCmd.Flags().String("sort", "newest", "newest, oldest or total")

	ordersPlaceCmd.Flags().String("name", "", "customer name")
	ordersPlaceCmd.Flags().String("notes", "", "special instructions")
	ordersPlaceCmd.Flags().StringArray("item", nil, "menu item id with optional quantity, e.g. 2 or 2:3 (repeatable)")

	ordersCmd.AddCommand(ordersListCmd, ordersPlaceCmd, ordersAdvanceCmd, ordersCancelCmd, ordersStatusCmd, ordersTrackCmd)
	rootCmd.AddCommand(ordersCmd)
}

func changeStatus(cmd *cobra.Command, ref string, apply func(*cafe.Cafe, string) (models.Order, error)) error {
	c, closeAll, err := openCafe(cmd.Context())
	if err != nil {
		return err
	}
	defer closeAll()
	if err := requireAdmin(c.Role()); err != nil {
		return err
	}

	id, err := resolveOrderID(c.Orders(), ref)
	if err != nil {
		return err
	}
	order, err := apply(c, id)
	if err != nil {
		return err
	}
	fmt.Printf("Order #%s is now %s\n", orders.ShortID(order.ID), order.Status)
	return nil
}

// resolveOrderID accepts a full id or a unique suffix such as the short id.
func resolveOrderID(list []models.Order, ref string) (string, error) {
	if _, ok := orders.Find(list, ref); ok {
		return ref, nil
	}
	var match string
	for _, o := range list {
		if ref != "" && strings.HasSuffix(o.ID, ref) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", errAmbiguousOrder, ref)
			}
			match = o.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", orders.ErrOrderNotFound, ref)
	}
	return match, nil
}

func parseCartLine(s string) (int64, int, error) {
	idPart, qtyPart, hasQty := strings.Cut(s, ":")
	id, err := parseItemID(idPart)
	if err != nil {
		return 0, 0, err
	}
	qty := 1
	if hasQty {
		if qty, err = strconv.Atoi(qtyPart); err != nil || qty < 1 {
			return 0, 0, fmt.Errorf("invalid quantity in %q", s)
		}
	}
	return id, qty, nil
}

func printOrders(out io.Writer, list []models.Order, now time.Time) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tCUSTOMER\tITEMS\tTOTAL\tSTATUS\tPLACED")
	for _, o := range list {
		fmt.Fprintf(w, "#%s\t%s\t%d\t$%s\t%s\t%d min ago\n",
			orders.ShortID(o.ID), o.CustomerName, o.ItemCount(), o.Total.StringFixed(2),
			o.Status, orders.MinutesAgo(o.CreatedAt, now))
	}
	return w.Flush()
}

func printTracker(w io.Writer, o models.Order, now time.Time) {
	fmt.Fprintf(w, "Order #%s for %s, placed %d min ago\n", orders.ShortID(o.ID), o.CustomerName, orders.MinutesAgo(o.CreatedAt, now))
	if o.Status == models.OrderStatusCancelled {
		fmt.Fprintln(w, "This order was cancelled.")
		return
	}
	current := orders.ProgressIndex(o.Status)
	for i, step := range models.AllOrderStatuses[:4] {
		mark := " "
		if i <= current {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s] %s\n", mark, step)
	}
	for _, line := range o.Items {
		fmt.Fprintf(w, "  %d x %s\n", line.Quantity, line.Name)
	}
	fmt.Fprintf(w, "Total: $%s\n", o.Total.StringFixed(2))
}
