package export

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/chrisdamba/cafeorder/internal/cloudwriter"
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

func sampleOrders() []models.Order {
	latte := models.MenuItem{ID: 1, Name: "Latte", Category: models.CategoryCoffee, Price: decimal.RequireFromString("4.50")}
	cake := models.MenuItem{ID: 2, Name: "Cheesecake", Category: models.CategoryDessert, Price: decimal.RequireFromString("6.25")}
	created := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	return []models.Order{
		{
			ID:           "order-0002",
			CustomerName: "Ada",
			Items:        []models.CartItem{{MenuItem: latte, Quantity: 2}, {MenuItem: cake, Quantity: 1}},
			Total:        decimal.RequireFromString("15.25"),
			Status:       models.OrderStatusReady,
			CreatedAt:    created.Add(time.Minute),
			Notes:        "no sugar",
		},
		{
			ID:           "order-0001",
			CustomerName: "Grace",
			Items:        []models.CartItem{{MenuItem: latte, Quantity: 1}},
			Total:        decimal.RequireFromString("4.50"),
			Status:       models.OrderStatusPending,
			CreatedAt:    created,
		},
	}
}

func TestToLocalDir(t *testing.T) {
	dir := t.TempDir()
	n, err := ToLocalDir(dir, sampleOrders())
	if err != nil {
		t.Fatalf("ToLocalDir: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 order rows, got %d", n)
	}

	fr, err := local.NewLocalFileReader(filepath.Join(dir, OrdersFile))
	if err != nil {
		t.Fatalf("open orders file: %v", err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(OrderRow), 4)
	if err != nil {
		t.Fatalf("NewParquetReader: %v", err)
	}
	defer pr.ReadStop()

	rows := make([]OrderRow, pr.GetNumRows())
	if err := pr.Read(&rows); err != nil {
		t.Fatalf("read rows: %v", err)
	}
	want := []OrderRow{
		{ID: "order-0002", CustomerName: "Ada", Status: "Ready", Total: 15.25, ItemCount: 3, CreatedAt: sampleOrders()[0].CreatedAt.UnixMilli(), Notes: "no sugar"},
		{ID: "order-0001", CustomerName: "Grace", Status: "Pending", Total: 4.5, ItemCount: 1, CreatedAt: sampleOrders()[1].CreatedAt.UnixMilli()},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("order rows mismatch (-want +got):\n%s", diff)
	}

	lr, err := local.NewLocalFileReader(filepath.Join(dir, LinesFile))
	if err != nil {
		t.Fatalf("open lines file: %v", err)
	}
	defer lr.Close()
	plr, err := reader.NewParquetReader(lr, new(LineRow), 4)
	if err != nil {
		t.Fatalf("NewParquetReader: %v", err)
	}
	defer plr.ReadStop()
	if got := plr.GetNumRows(); got != 3 {
		t.Errorf("expected 3 line rows, got %d", got)
	}
}

type memoryWriter struct {
	objects map[string]*bytes.Buffer
	name    string
	closed  bool
}

func (w *memoryWriter) Write(p []byte) (int, error) { return w.objects[w.name].Write(p) }

func (w *memoryWriter) Close() error {
	w.closed = true
	return nil
}

type memoryFactory struct {
	objects map[string]*bytes.Buffer
	writers []*memoryWriter
	fail    bool
}

func (f *memoryFactory) NewWriter(bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	if f.fail {
		return nil, fmt.Errorf("no such bucket %s", bucket)
	}
	name := bucket + "/" + objectPath
	f.objects[name] = &bytes.Buffer{}
	w := &memoryWriter{objects: f.objects, name: name}
	f.writers = append(f.writers, w)
	return w, nil
}

func TestToCloud(t *testing.T) {
	t.Run("uploads both files", func(t *testing.T) {
		factory := &memoryFactory{objects: map[string]*bytes.Buffer{}}
		n, err := ToCloud(factory, "exports", "2024-05-01", sampleOrders())
		if err != nil {
			t.Fatalf("ToCloud: %v", err)
		}
		if n != 2 {
			t.Fatalf("expected 2 order rows, got %d", n)
		}
		for _, name := range []string{"exports/2024-05-01/orders.parquet", "exports/2024-05-01/order_lines.parquet"} {
			buf, ok := factory.objects[name]
			if !ok {
				t.Fatalf("object %s not written", name)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("PAR1")) || !bytes.HasSuffix(buf.Bytes(), []byte("PAR1")) {
				t.Errorf("object %s is not a parquet file", name)
			}
		}
		for _, w := range factory.writers {
			if !w.closed {
				t.Errorf("writer %s not closed", w.name)
			}
		}
	})

	t.Run("factory errors are combined", func(t *testing.T) {
		factory := &memoryFactory{objects: map[string]*bytes.Buffer{}, fail: true}
		if _, err := ToCloud(factory, "exports", "", sampleOrders()); err == nil {
			t.Fatal("expected an error")
		}
	})
}
