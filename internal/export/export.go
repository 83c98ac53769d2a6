// Package export writes the order list as parquet, to a local directory or
// to object storage.
package export

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/chrisdamba/cafeorder/internal/cloudwriter"
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

const (
	OrdersFile = "orders.parquet"
	LinesFile  = "order_lines.parquet"
)

type OrderRow struct {
	ID           string  `parquet:"name=id,type=BYTE_ARRAY,convertedtype=UTF8"`
	CustomerName string  `parquet:"name=customerName,type=BYTE_ARRAY,convertedtype=UTF8"`
	Status       string  `parquet:"name=status,type=BYTE_ARRAY,convertedtype=UTF8"`
	Total        float64 `parquet:"name=totalAmount,type=DOUBLE"`
	ItemCount    int32   `parquet:"name=itemCount,type=INT32"`
	CreatedAt    int64   `parquet:"name=createdAt,type=INT64,convertedtype=TIMESTAMP_MILLIS"`
	Notes        string  `parquet:"name=notes,type=BYTE_ARRAY,convertedtype=UTF8"`
}

type LineRow struct {
	OrderID   string  `parquet:"name=orderId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ItemID    int64   `parquet:"name=itemId,type=INT64"`
	Name      string  `parquet:"name=name,type=BYTE_ARRAY,convertedtype=UTF8"`
	Category  string  `parquet:"name=category,type=BYTE_ARRAY,convertedtype=UTF8"`
	Price     float64 `parquet:"name=price,type=DOUBLE"`
	Quantity  int32   `parquet:"name=quantity,type=INT32"`
	LineTotal float64 `parquet:"name=lineTotal,type=DOUBLE"`
}

func orderRows(list []models.Order) []interface{} {
	rows := make([]interface{}, 0, len(list))
	for _, o := range list {
		rows = append(rows, OrderRow{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			Status:       string(o.Status),
			Total:        o.Total.InexactFloat64(),
			ItemCount:    int32(o.ItemCount()),
			CreatedAt:    o.CreatedAt.UnixMilli(),
			Notes:        o.Notes,
		})
	}
	return rows
}

func lineRows(list []models.Order) []interface{} {
	var rows []interface{}
	for _, o := range list {
		for _, line := range o.Items {
			rows = append(rows, LineRow{
				OrderID:   o.ID,
				ItemID:    line.ID,
				Name:      line.Name,
				Category:  string(line.Category),
				Price:     line.Price.InexactFloat64(),
				Quantity:  int32(line.Quantity),
				LineTotal: line.Price.Mul(decimalFromInt(line.Quantity)).InexactFloat64(),
			})
		}
	}
	return rows
}

// write streams rows into pf and finalises the parquet footer. pf is closed
// in every case.
func write(pf source.ParquetFile, schema interface{}, rows []interface{}) (int, error) {
	pw, err := writer.NewParquetWriter(pf, schema, 4)
	if err != nil {
		pf.Close()
		return 0, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			pf.Close()
			return 0, fmt.Errorf("failed to write row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		pf.Close()
		return 0, fmt.Errorf("failed to finalise parquet file: %w", err)
	}
	if err := pf.Close(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ToLocalDir writes orders.parquet and order_lines.parquet into dir and
// returns the number of order rows.
func ToLocalDir(dir string, list []models.Order) (int, error) {
	ordersFile, err := local.NewLocalFileWriter(filepath.Join(dir, OrdersFile))
	if err != nil {
		return 0, fmt.Errorf("failed to create local file writer: %w", err)
	}
	n, err := write(ordersFile, new(OrderRow), orderRows(list))
	if err != nil {
		return 0, err
	}

	linesFile, err := local.NewLocalFileWriter(filepath.Join(dir, LinesFile))
	if err != nil {
		return n, fmt.Errorf("failed to create local file writer: %w", err)
	}
	if _, err := write(linesFile, new(LineRow), lineRows(list)); err != nil {
		return n, err
	}
	return n, nil
}

// ToCloud uploads both files under prefix in bucket.
func ToCloud(factory cloudwriter.CloudWriterFactory, bucket, prefix string, list []models.Order) (int, error) {
	var result *multierror.Error
	n := 0
	for _, target := range []struct {
		name   string
		schema interface{}
		rows   []interface{}
	}{
		{OrdersFile, new(OrderRow), orderRows(list)},
		{LinesFile, new(LineRow), lineRows(list)},
	} {
		cw, err := factory.NewWriter(bucket, path.Join(prefix, target.name))
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to create cloud file writer: %w", err))
			continue
		}
		written, err := write(NewCloudParquetFile(cw), target.schema, target.rows)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if target.name == OrdersFile {
			n = written
		}
	}
	return n, result.ErrorOrNil()
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
