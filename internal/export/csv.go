// Package export renders order listings into CSV for the merchant
// console's download action.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/javaweb/webshop-client/internal/orders"
)

var csvHeader = []string{
	"order_no", "created_at", "status", "receiver", "phone", "address", "items", "total_amount",
}

// StatusLabel renders an order status for human consumption. Unknown
// values pass through numerically.
func StatusLabel(status int) string {
	switch status {
	case orders.StatusPendingPayment:
		return "pending payment"
	case orders.StatusPaid:
		return "paid"
	case orders.StatusShipped:
		return "shipped"
	case orders.StatusCompleted:
		return "completed"
	case orders.StatusCancelled:
		return "cancelled"
	case orders.StatusRefunding:
		return "refunding"
	}
	return strconv.Itoa(status)
}

func itemSummary(items []orders.Item) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += "; "
		}
		out += fmt.Sprintf("%s x%d", item.ProductName, item.Quantity)
	}
	return out
}

// WriteCSV streams the order book as CSV, one row per order, amounts
// fixed to two decimal places.
func WriteCSV(w io.Writer, book []orders.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, order := range book {
		row := []string{
			order.OrderNo,
			order.CreatedAt,
			StatusLabel(order.Status),
			order.ReceiverName,
			order.ReceiverPhone,
			order.ReceiverAddress,
			itemSummary(order.Items),
			order.TotalAmount.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", order.OrderNo, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename names an export after the moment it was taken.
func Filename(now time.Time) string {
	return "orders-" + now.Format("20060102-150405") + ".csv"
}
