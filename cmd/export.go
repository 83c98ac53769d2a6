package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/chrisdamba/cafeorder/internal/cloudwriter"
	"github.com/chrisdamba/cafeorder/internal/export"
	"github.com/chrisdamba/cafeorder/internal/repositories"
	"github.com/chrisdamba/cafeorder/internal/repositories/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the menu and orders for reporting",
	Long: `export writes the order list as parquet files (orders.parquet and
order_lines.parquet) to a local directory or an S3 bucket, or copies the menu
and orders into Postgres reporting tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, closeAll, err := openCafe(ctx)
		if err != nil {
			return err
		}
		defer closeAll()
		list := c.Orders()

		switch format := mustString(cmd, "format"); format {
		case "parquet":
			if bucket := mustString(cmd, "bucket"); bucket != "" {
				factory, err := cloudwriter.NewS3WriterFactory(ctx, cfg.Store.Region, cfg.Store.Endpoint)
				if err != nil {
					return err
				}
				prefix := mustString(cmd, "prefix")
				if prefix == "" {
					prefix = "exports/" + time.Now().UTC().Format("2006-01-02T150405")
				}
				n, err := export.ToCloud(factory, bucket, prefix, list)
				if err != nil {
					return err
				}
				fmt.Printf("Exported %d orders to s3://%s/%s\n", n, bucket, prefix)
				return nil
			}

			dir := mustString(cmd, "out")
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
			n, err := export.ToLocalDir(dir, list)
			if err != nil {
				return err
			}
			fmt.Printf("Exported %d orders to %s\n", n, dir)
			return nil

		case "postgres":
			dsn := mustString(cmd, "dsn")
			if dsn == "" {
				dsn = cfg.Store.DSN
			}
			pool, err := pgxpool.New(ctx, dsn)
			if err != nil {
				return fmt.Errorf("unable to create connection pool: %w", err)
			}
			defer pool.Close()
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				return err
			}

			var (
				menuRepo  repositories.MenuItemRepository = postgres.NewMenuItemRepository(pool)
				orderRepo repositories.OrderRepository    = postgres.NewOrderRepository(pool)
			)
			if err := menuRepo.DeleteAll(ctx); err != nil {
				return fmt.Errorf("failed to clear menu_items: %w", err)
			}
			if err := orderRepo.DeleteAll(ctx); err != nil {
				return fmt.Errorf("failed to clear orders: %w", err)
			}
			if err := menuRepo.BulkCreate(ctx, c.Catalog()); err != nil {
				return fmt.Errorf("failed to copy menu: %w", err)
			}
			if err := orderRepo.BulkCreate(ctx, list); err != nil {
				return err
			}

			items, err := menuRepo.GetAll(ctx)
			if err != nil {
				return err
			}
			stored, err := orderRepo.GetAll(ctx)
			if err != nil {
				return err
			}
			if len(stored) != len(list) {
				return fmt.Errorf("postgres holds %d orders after export, expected %d", len(stored), len(list))
			}
			byStatus, err := orderRepo.CountByStatus(ctx)
			if err != nil {
				return err
			}
			logger.Info().Int("menu_items", len(items)).Interface("orders_by_status", byStatus).Msg("postgres export complete")
			fmt.Printf("Exported %d menu items and %d orders to postgres\n", len(items), len(stored))
			return nil

		default:
			return fmt.Errorf("unknown export format %q, want parquet or postgres", format)
		}
	},
}

func init() {
	exportCmd.Flags().String("format", "parquet", "parquet or postgres")
	exportCmd.Flags().String("out", "export", "local directory for parquet files")
	exportCmd.Flags().String("bucket", "", "S3 bucket; when set parquet files are uploaded instead of written locally")
	exportCmd.Flags().String("prefix", "", "S3 key prefix (default exports/<timestamp>)")
	exportCmd.Flags().String("dsn", "", "postgres connection string (default store.dsn)")

	rootCmd.AddCommand(exportCmd)
}
