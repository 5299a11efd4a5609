// Package export renders order snapshots as CSV and XLSX downloads.
package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/husnhira/storefront/internal/domains/orders/domain"
)

// CSVHeader lists the exported fields in column order.
var CSVHeader = []string{
	"name", "address", "mobile_number", "alternate_number",
	"coupon", "orderId", "payment_id", "status", "date",
}

const csvDateLayout = "2006-01-02T15:04:05.000Z07:00"

// WriteCSV streams orders to w with a header row.
func WriteCSV(w io.Writer, orders []*domain.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, order := range orders {
		record := []string{
			order.Customer.Name,
			order.Customer.Address,
			order.Customer.Mobile,
			order.Customer.AlternateMobile,
			order.Coupon,
			order.OrderID,
			order.TransactionID,
			string(order.Status),
			order.CreatedAt.UTC().Format(csvDateLayout),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName builds the attachment name for an export of scope taken at now.
func FileName(scope, ext string, now time.Time) string {
	if scope == "" {
		scope = "all"
	}
	return "orders-" + scope + "-" + now.In(domain.Location).Format("20060102-150405") + "." + ext
}
