// Package stats computes the merchant dashboard figures from the order
// book: revenue overview, daily trend, and product ranking. Revenue
// counts paid, shipped, and completed orders only.
package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/javaweb/webshop-client/internal/orders"
	"github.com/javaweb/webshop-client/pkg/pagination"
)

// Overview is the headline dashboard card set. Today and month figures
// count paid revenue within the respective calendar window.
type Overview struct {
	TotalOrders  int
	PaidOrders   int
	TotalRevenue decimal.Decimal
	AverageOrder decimal.Decimal

	TodayOrders  int
	TodayRevenue decimal.Decimal
	MonthOrders  int
	MonthRevenue decimal.Decimal
}

// DailyPoint is one day of the revenue trend.
type DailyPoint struct {
	Date    string
	Orders  int
	Revenue decimal.Decimal
}

// ProductRank is one row of the best-seller ranking.
type ProductRank struct {
	ProductID   int64
	ProductName string
	Quantity    int
	Revenue     decimal.Decimal
}

type orderLister interface {
	ListAll(ctx context.Context, status int, params pagination.Params) (*pagination.Page[orders.Order], error)
}

// Service derives statistics from the merchant order listing.
type Service struct {
	orders orderLister
}

func NewService(lister orderLister) (*Service, error) {
	if lister == nil {
		return nil, fmt.Errorf("order lister is required")
	}
	return &Service{orders: lister}, nil
}

func countsAsRevenue(status int) bool {
	switch status {
	case orders.StatusPaid, orders.StatusShipped, orders.StatusCompleted:
		return true
	}
	return false
}

// collect walks every page of the order book.
func (s *Service) collect(ctx context.Context) ([]orders.Order, error) {
	var all []orders.Order
	params := pagination.Params{Page: 1, PageSize: pagination.MaxPageSize}
	for {
		page, err := s.orders.ListAll(ctx, -1, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if !page.HasNext() {
			return all, nil
		}
		params.Page++
	}
}

// Overview computes the headline numbers across the whole order book,
// with today/month windows relative to now.
func (s *Service) Overview(ctx context.Context, now time.Time) (*Overview, error) {
	all, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	today := now.Format("2006-01-02")
	month := now.Format("2006-01")
	out := &Overview{
		TotalOrders:  len(all),
		TotalRevenue: decimal.Zero,
		AverageOrder: decimal.Zero,
		TodayRevenue: decimal.Zero,
		MonthRevenue: decimal.Zero,
	}
	for _, order := range all {
		if !countsAsRevenue(order.Status) {
			continue
		}
		out.PaidOrders++
		out.TotalRevenue = out.TotalRevenue.Add(order.TotalAmount)

		day, ok := orderDay(order.CreatedAt)
		if !ok {
			continue
		}
		if day == today {
			out.TodayOrders++
			out.TodayRevenue = out.TodayRevenue.Add(order.TotalAmount)
		}
		if strings.HasPrefix(day, month) {
			out.MonthOrders++
			out.MonthRevenue = out.MonthRevenue.Add(order.TotalAmount)
		}
	}
	if out.PaidOrders > 0 {
		out.AverageOrder = out.TotalRevenue.DivRound(decimal.NewFromInt(int64(out.PaidOrders)), 2)
	}
	return out, nil
}

// orderDay extracts the calendar day from an order timestamp. Both the
// backend's "2006-01-02 15:04:05" format and RFC 3339 are accepted.
func orderDay(raw string) (string, bool) {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.Format("2006-01-02"), true
		}
	}
	return "", false
}

// Trend buckets paid revenue by day over the trailing window, most
// recent day last. Days without orders are filled with zeros.
func (s *Service) Trend(ctx context.Context, days int, now time.Time) ([]DailyPoint, error) {
	if days < 1 {
		days = 7
	}
	all, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*DailyPoint, days)
	points := make([]DailyPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		points = append(points, DailyPoint{Date: date, Revenue: decimal.Zero})
		byDay[date] = &points[len(points)-1]
	}

	for _, order := range all {
		if !countsAsRevenue(order.Status) {
			continue
		}
		day, ok := orderDay(order.CreatedAt)
		if !ok {
			continue
		}
		point, ok := byDay[day]
		if !ok {
			continue
		}
		point.Orders++
		point.Revenue = point.Revenue.Add(order.TotalAmount)
	}
	return points, nil
}

// TopProducts ranks products by paid revenue, ties broken by quantity.
func (s *Service) TopProducts(ctx context.Context, limit int) ([]ProductRank, error) {
	if limit < 1 {
		limit = 10
	}
	all, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	byProduct := map[int64]*ProductRank{}
	for _, order := range all {
		if !countsAsRevenue(order.Status) {
			continue
		}
		for _, item := range order.Items {
			rank, ok := byProduct[item.ProductID]
			if !ok {
				rank = &ProductRank{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					Revenue:     decimal.Zero,
				}
				byProduct[item.ProductID] = rank
			}
			rank.Quantity += item.Quantity
			rank.Revenue = rank.Revenue.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	ranks := make([]ProductRank, 0, len(byProduct))
	for _, rank := range byProduct {
		ranks = append(ranks, *rank)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if !ranks[i].Revenue.Equal(ranks[j].Revenue) {
			return ranks[i].Revenue.GreaterThan(ranks[j].Revenue)
		}
		if ranks[i].Quantity != ranks[j].Quantity {
			return ranks[i].Quantity > ranks[j].Quantity
		}
		return ranks[i].ProductID < ranks[j].ProductID
	})
	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks, nil
}
