package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/chrisdamba/cafeorder/internal/cafe"
	"github.com/chrisdamba/cafeorder/internal/factories"
	"github.com/chrisdamba/cafeorder/internal/menu"
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "List and manage menu items",
}

var menuListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the menu, optionally filtered by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := parseCategory(mustString(cmd, "category"), true)
		if err != nil {
			return err
		}
		c, closeAll, err := openCafe(cmd.Context())
		if err != nil {
			return err
		}
		defer closeAll()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE")
		for _, item := range c.FilteredCatalog(category) {
			fmt.Fprintf(w, "%d\t%s\t%s\t$%s\n", item.ID, item.Name, item.Category, item.Price.StringFixed(2))
		}
		return w.Flush()
	},
}

var menuAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a menu item",
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := draftFromFlags(cmd)
		if err != nil {
			return err
		}

		c, closeAll, err := openCafe(cmd.Context())
		if err != nil {
			return err
		}
		defer closeAll()
		if err := requireAdmin(c.Role()); err != nil {
			return err
		}

		item, err := c.SaveMenuItem(cmd.Context(), draft)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (#%d) at $%s\n", item.Name, item.ID, item.Price.StringFixed(2))
		return nil
	},
}

var menuUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the fields given as flags on an existing item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseItemID(args[0])
		if err != nil {
			return err
		}
		c, closeAll, err := openCafe(cmd.Context())
		if err != nil {
			return err
		}
		defer closeAll()
		if err := requireAdmin(c.Role()); err != nil {
			return err
		}

		item, ok := menu.Find(c.Catalog(), id)
		if !ok {
			return fmt.Errorf("%w: %d", cafe.ErrItemNotFound, id)
		}
		flags := cmd.Flags()
		if flags.Changed("name") {
			item.Name = mustString(cmd, "name")
		}
		if flags.Changed("category") {
			if item.Category, err = parseCategory(mustString(cmd, "category"), false); err != nil {
				return err
			}
		}
		if flags.Changed("price") {
			if item.Price, err = parsePrice(mustString(cmd, "price")); err != nil {
				return err
			}
		}
		if flags.Changed("image") {
			item.ImageURL = mustString(cmd, "image")
		}

		item, err = c.SaveMenuItem(cmd.Context(), menu.ExistingItem{Item: item})
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s (#%d)\n", item.Name, item.ID)
		return nil
	},
}

var menuDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an item from the menu; placed orders are unaffected",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseItemID(args[0])
		if err != nil {
			return err
		}
		c, closeAll, err := openCafe(cmd.Context())
		if err != nil {
			return err
		}
		defer closeAll()
		if err := requireAdmin(c.Role()); err != nil {
			return err
		}
		if err := c.DeleteMenuItem(cmd.Context(), id); err != nil {
			return fmt.Errorf("%w: %d", err, id)
		}
		fmt.Printf("Deleted menu item #%d\n", id)
		return nil
	},
}

func init() {
	menuListCmd.Flags().String("category", string(models.CategoryAll), "Coffee, Dessert or All")

	for _, c := range []*cobra.Command{menuAddCmd, menuUpdateCmd} {
		c.Flags().String("name", "", "item name")
		c.Flags().String("category", string(models.CategoryCoffee), "Coffee or Dessert")
		c.Flags().String("price", "", "price, e.g. 4.50")
		c.Flags().String("image", "", "image url (default "+menu.DefaultImageURL+")")
	}

	menuAddCmd.Flags().Bool("random", false, "generate a random coffee or dessert instead of reading flags")

	menuCmd.AddCommand(menuListCmd, menuAddCmd, menuUpdateCmd, menuDeleteCmd)
	rootCmd.AddCommand(menuCmd)
}

// draftFromFlags reads the add flags, or generates a draft with --random.
func draftFromFlags(cmd *cobra.Command) (menu.NewItemDraft, error) {
	if random, _ := cmd.Flags().GetBool("random"); random {
		return factories.NewMenuItemFactory(time.Now().UnixNano()).CreateDraft(), nil
	}
	category, err := parseCategory(mustString(cmd, "category"), false)
	if err != nil {
		return menu.NewItemDraft{}, err
	}
	price, err := parsePrice(mustString(cmd, "price"))
	if err != nil {
		return menu.NewItemDraft{}, err
	}
	image := mustString(cmd, "image")
	if image == "" {
		image = menu.DefaultImageURL
	}
	return menu.NewItemDraft{
		Name:     mustString(cmd, "name"),
		Category: category,
		Price:    price,
		ImageURL: image,
	}, nil
}

func parseCategory(s string, allowAll bool) (models.Category, error) {
	for _, c := range []models.Category{models.CategoryCoffee, models.CategoryDessert, models.CategoryAll} {
		if strings.EqualFold(s, string(c)) && (allowAll || c != models.CategoryAll) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", menu.ErrInvalidCategory, s)
}

// parsePrice leaves range checks to menu validation.
func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return price, nil
}

func parseItemID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid menu item id %q", s)
	}
	return id, nil
}
