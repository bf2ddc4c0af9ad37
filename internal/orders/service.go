// Package orders drives the order lifecycle from the shopper's side:
// placement, listing, cancellation, receipt confirmation, and refund
// requests, plus the merchant-wide listing.
package orders

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/javaweb/webshop-client/internal/gateway"
	pkgerrors "github.com/javaweb/webshop-client/pkg/errors"
	"github.com/javaweb/webshop-client/pkg/pagination"
	"github.com/javaweb/webshop-client/pkg/validate"
)

// Order status values as the backend stores them.
const (
	StatusPendingPayment = 0
	StatusPaid           = 1
	StatusShipped        = 2
	StatusCompleted      = 3
	StatusCancelled      = 4
	StatusRefunding      = 5
)

// Order is one placed order with its lines.
type Order struct {
	ID              int64           `json:"id"`
	OrderNo         string          `json:"orderNo"`
	UserID          int64           `json:"userId"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          int             `json:"status"`
	ReceiverName    string          `json:"receiverName"`
	ReceiverPhone   string          `json:"receiverPhone"`
	ReceiverAddress string          `json:"receiverAddress"`
	Note            string          `json:"note"`
	CreatedAt       string          `json:"createdAt"`
	PayTime         string          `json:"payTime"`
	Items           []Item          `json:"items"`
}

// Item is one line of an order, priced at placement time.
type Item struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	SpecInfo    string          `json:"specInfo"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// CreateItem is one line of an order placed directly from a product
// page rather than from the cart.
type CreateItem struct {
	ProductID int64 `json:"productId" validate:"required"`
	SKUID     int64 `json:"skuId,omitempty"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

// CreateInput is the order placement request. The receiver details come
// from the address book entry, never inline; exactly one of CartItemIDs
// (checkout from cart) or Items (buy now) must carry the lines. The
// user id is filled from the session.
type CreateInput struct {
	AddressID   int64        `json:"addressId" validate:"required"`
	CartItemIDs []int64      `json:"cartItemIds,omitempty" validate:"required_without=Items"`
	Items       []CreateItem `json:"items,omitempty" validate:"omitempty,min=1,dive"`
	Note        string       `json:"note,omitempty"`
}

// RefundRequest asks for money back on a paid order.
type RefundRequest struct {
	OrderNo string `json:"orderNo" validate:"required"`
	Reason  string `json:"reason" validate:"required"`
}

// Refund is one refund record.
type Refund struct {
	ID      int64           `json:"id"`
	OrderNo string          `json:"orderNo"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  string          `json:"reason"`
	Status  int             `json:"status"`
}

type caller interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}

type identitySource interface {
	CurrentUserID() (int64, error)
}

// Service is the orders client. Shopper operations are scoped to the
// signed-in user; ListAll serves the merchant console.
type Service struct {
	api     caller
	session identitySource
}

func NewService(api caller, session identitySource) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("gateway caller is required")
	}
	if session == nil {
		return nil, fmt.Errorf("identity source is required")
	}
	return &Service{api: api, session: session}, nil
}

func (s *Service) userQuery() (url.Values, int64, error) {
	userID, err := s.session.CurrentUserID()
	if err != nil {
		return nil, 0, err
	}
	query := url.Values{}
	query.Set("userId", strconv.FormatInt(userID, 10))
	return query, userID, nil
}

// Create places an order against an address book entry and returns it
// as the backend recorded it.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Order, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	userID, err := s.session.CurrentUserID()
	if err != nil {
		return nil, err
	}

	body := struct {
		UserID int64 `json:"userId"`
		CreateInput
	}{UserID: userID, CreateInput: input}

	var order Order
	err = s.api.Do(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      "/api/orders",
		Body:      body,
		Operation: "orders.create",
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListMine pages through the signed-in shopper's orders, optionally
// filtered by status. Pass a negative status for all.
func (s *Service) ListMine(ctx context.Context, status int, params pagination.Params) (*pagination.Page[Order], error) {
	userID, err := s.session.CurrentUserID()
	if err != nil {
		return nil, err
	}
	params = params.Normalize()

	query := url.Values{}
	query.Set("pageNum", strconv.Itoa(params.Page))
	query.Set("pageSize", strconv.Itoa(params.PageSize))
	if status >= 0 {
		query.Set("status", strconv.Itoa(status))
	}

	var page pagination.Page[Order]
	err = s.api.Do(ctx, gateway.Request{
		Method:    http.MethodGet,
		Path:      "/api/orders/user/" + strconv.FormatInt(userID, 10),
		Query:     query,
		Operation: "orders.list_mine",
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches one order by id.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	var order Order
	err := s.api.Do(ctx, gateway.Request{
		Method:    http.MethodGet,
		Path:      "/api/orders/" + strconv.FormatInt(id, 10),
		Operation: "orders.get",
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Cancel cancels an unpaid order by its order number, recording why.
func (s *Service) Cancel(ctx context.Context, orderNo, reason string) error {
	if orderNo == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	query, _, err := s.userQuery()
	if err != nil {
		return err
	}
	if reason != "" {
		query.Set("reason", reason)
	}
	return s.api.Do(ctx, gateway.Request{
		Method:    http.MethodPut,
		Path:      "/api/orders/" + orderNo + "/cancel",
		Query:     query,
		Operation: "orders.cancel",
	}, nil)
}

// Delete removes a closed order from the shopper's history.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.api.Do(ctx, gateway.Request{
		Method:    http.MethodDelete,
		Path:      "/api/orders/" + strconv.FormatInt(id, 10),
		Operation: "orders.delete",
	}, nil)
}

// ConfirmReceipt marks a shipped order as received.
func (s *Service) ConfirmReceipt(ctx context.Context, orderNo string) error {
	if orderNo == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	query, _, err := s.userQuery()
	if err != nil {
		return err
	}
	return s.api.Do(ctx, gateway.Request{
		Method:    http.MethodPut,
		Path:      "/api/orders/" + orderNo + "/receive",
		Query:     query,
		Operation: "orders.receive",
	}, nil)
}

// RequestRefund opens a refund case for a paid order.
func (s *Service) RequestRefund(ctx context.Context, input RefundRequest) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	userID, err := s.session.CurrentUserID()
	if err != nil {
		return err
	}

	body := struct {
		UserID int64 `json:"userId"`
		RefundRequest
	}{UserID: userID, RefundRequest: input}

	return s.api.Do(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      "/api/refund",
		Body:      body,
		Operation: "orders.refund",
	}, nil)
}

// CancelRefund withdraws a pending refund request.
func (s *Service) CancelRefund(ctx context.Context, refundID int64) error {
	query, _, err := s.userQuery()
	if err != nil {
		return err
	}
	return s.api.Do(ctx, gateway.Request{
		Method:    http.MethodPut,
		Path:      "/api/refund/" + strconv.FormatInt(refundID, 10) + "/cancel",
		Query:     query,
		Operation: "orders.cancel_refund",
	}, nil)
}

// MyRefunds pages through the signed-in shopper's refund records.
func (s *Service) MyRefunds(ctx context.Context, params pagination.Params) (*pagination.Page[Refund], error) {
	userID, err := s.session.CurrentUserID()
	if err != nil {
		return nil, err
	}
	params = params.Normalize()

	query := url.Values{}
	query.Set("pageNum", strconv.Itoa(params.Page))
	query.Set("pageSize", strconv.Itoa(params.PageSize))

	var page pagination.Page[Refund]
	err = s.api.Do(ctx, gateway.Request{
		Method:    http.MethodGet,
		Path:      "/api/refund/user/" + strconv.FormatInt(userID, 10),
		Query:     query,
		Operation: "orders.my_refunds",
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ListAll pages through every order; merchant console only. The backend
// enforces the role, this client just forwards the token.
func (s *Service) ListAll(ctx context.Context, status int, params pagination.Params) (*pagination.Page[Order], error) {
	params = params.Normalize()
	query := url.Values{}
	query.Set("pageNum", strconv.Itoa(params.Page))
	query.Set("pageSize", strconv.Itoa(params.PageSize))
	if status >= 0 {
		query.Set("status", strconv.Itoa(status))
	}

	var page pagination.Page[Order]
	err := s.api.Do(ctx, gateway.Request{
		Method:    http.MethodGet,
		Path:      "/api/orders/list",
		Query:     query,
		Operation: "orders.list_all",
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}
