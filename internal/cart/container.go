// Package cart holds the reconciled client-side view of the shopper's
// cart. Every mutation goes through the backend first; local state only
// changes after the server accepted the operation.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/javaweb/webshop-client/internal/gateway"
	pkgerrors "github.com/javaweb/webshop-client/pkg/errors"
	"github.com/javaweb/webshop-client/pkg/logger"
)

// Line is one cart row joined with its product snapshot.
type Line struct {
	ID          int64
	ProductID   int64
	SKUID       int64
	Quantity    int
	Checked     bool
	Specs       map[string]string
	ProductName string
	UnitPrice   decimal.Decimal
	CoverImage  string
	Stock       int
}

// Subtotal is the line's unit price times its quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AddInput describes a product being placed into the cart.
type AddInput struct {
	ProductID int64
	SKUID     int64
	Quantity  int
	Specs     map[string]string
}

type caller interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}

// identitySource yields the signed-in shopper's id. Every cart operation
// is scoped to it; an unauthenticated session surfaces as an error here.
type identitySource interface {
	CurrentUserID() (int64, error)
}

// Container is the cart state container. Mutations are serialized; reads
// see a consistent snapshot.
type Container struct {
	mu    sync.RWMutex
	lines []Line
	count int

	api     caller
	session identitySource
	logger  *logger.Logger
}

// Params bundles the cart container's dependencies.
type Params struct {
	API     caller
	Session identitySource
	Logger  *logger.Logger
}

// NewContainer builds an empty cart. Call Refresh to load the server
// state once a shopper is signed in.
func NewContainer(params Params) (*Container, error) {
	if params.API == nil {
		return nil, fmt.Errorf("gateway caller is required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("identity source is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Container{
		api:     params.API,
		session: params.Session,
		logger:  params.Logger,
	}, nil
}

// lineRow mirrors the backend's cart row: checked travels as 0/1 and the
// selected specs as a JSON string.
type lineRow struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	SKUID     int64  `json:"skuId"`
	Quantity  int    `json:"quantity"`
	Checked   int    `json:"checked"`
	SpecInfo  string `json:"specInfo"`
	Product   struct {
		Name       string          `json:"name"`
		Price      decimal.Decimal `json:"price"`
		CoverImage string          `json:"coverImage"`
		Image      string          `json:"image"`
		Stock      int             `json:"stock"`
	} `json:"product"`
}

func (r lineRow) toLine() Line {
	line := Line{
		ID:          r.ID,
		ProductID:   r.ProductID,
		SKUID:       r.SKUID,
		Quantity:    r.Quantity,
		Checked:     r.Checked == 1,
		ProductName: r.Product.Name,
		UnitPrice:   r.Product.Price,
		CoverImage:  r.Product.CoverImage,
		Stock:       r.Product.Stock,
	}
	if line.CoverImage == "" {
		line.CoverImage = r.Product.Image
	}
	if r.SpecInfo != "" {
		// Malformed spec JSON degrades to no specs rather than failing
		// the whole cart load.
		_ = json.Unmarshal([]byte(r.SpecInfo), &line.Specs)
	}
	return line
}

// Refresh replaces the local snapshot with the server's cart.
func (c *Container) Refresh(ctx context.Context) error {
	userID, err := c.session.CurrentUserID()
	if err != nil {
		return err
	}
	return c.refresh(ctx, userID)
}

func (c *Container) refresh(ctx context.Context, userID int64) error {
	var rows []lineRow
	err := c.api.Do(ctx, gateway.Request{
		Method:    http.MethodGet,
		Path:      "/api/cart/" + strconv.FormatInt(userID, 10),
		Operation: "cart.list",
	}, &rows)
	if err != nil {
		return err
	}

	lines := make([]Line, 0, len(rows))
	total := 0
	for _, row := range rows {
		lines = append(lines, row.toLine())
		total += row.Quantity
	}

	c.mu.Lock()
	c.lines = lines
	c.count = total
	c.mu.Unlock()
	return nil
}

// AddItem places a product in the cart server-side, then refetches so
// the snapshot reflects any merge the backend performed.
func (c *Container) AddItem(ctx context.Context, input AddInput) error {
	if input.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	userID, err := c.session.CurrentUserID()
	if err != nil {
		return err
	}

	specInfo := ""
	if len(input.Specs) > 0 {
		raw, err := json.Marshal(input.Specs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode spec selection")
		}
		specInfo = string(raw)
	}

	body := map[string]any{
		"userId":    userID,
		"productId": input.ProductID,
		"skuId":     input.SKUID,
		"quantity":  input.Quantity,
		"specInfo":  specInfo,
	}
	err = c.api.Do(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      "/api/cart",
		Body:      body,
		Operation: "cart.add",
	}, nil)
	if err != nil {
		return err
	}
	c.logger.Debug(c.logger.WithField(c.logger.WithOperation(ctx, "cart.add"), "product_id", input.ProductID), "item added")
	return c.refresh(ctx, userID)
}

// UpdateQuantity changes a line's quantity. Quantities below one are
// rejected locally; the backend is the authority on stock limits.
func (c *Container) UpdateQuantity(ctx context.Context, lineID int64, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	userID, err := c.session.CurrentUserID()
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("quantity", strconv.Itoa(quantity))
	err = c.api.Do(ctx, gateway.Request{
		Method:    http.MethodPut,
		Path:      "/api/cart/" + strconv.FormatInt(lineID, 10),
		Query:     query,
		Operation: "cart.update_quantity",
	}, nil)
	if err != nil {
		return err
	}
	return c.refresh(ctx, userID)
}

// DeleteItem removes one line.
func (c *Container) DeleteItem(ctx context.Context, lineID int64) error {
	userID, err := c.session.CurrentUserID()
	if err != nil {
		return err
	}
	err = c.api.Do(ctx, gateway.Request{
		Method:    http.MethodDelete,
		Path:      "/api/cart/" + strconv.FormatInt(lineID, 10),
		Operation: "cart.delete",
	}, nil)
	if err != nil {
		return err
	}
	return c.refresh(ctx, userID)
}

// BatchDelete removes multiple lines in one call. An empty id list is a
// no-op.
func (c *Container) BatchDelete(ctx context.Context, lineIDs []int64) error {
	if len(lineIDs) == 0 {
		return nil
	}
	userID, err := c.session.CurrentUserID()
	if err != nil {
		return err
	}
	err = c.api.Do(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      "/api/cart/batch-delete",
		Body:      lineIDs,
		Operation: "cart.batch_delete",
	}, nil)
	if err != nil {
		return err
	}
	return c.refresh(ctx, userID)
}

// ToggleSelection flips one line's checked flag. The flip is applied
// locally after the server accepted it; no refetch.
func (c *Container) ToggleSelection(ctx context.Context, lineID int64) error {
	if _, err := c.session.CurrentUserID(); err != nil {
		return err
	}

	c.mu.RLock()
	var next bool
	found := false
	for _, line := range c.lines {
		if line.ID == lineID {
			next = !line.Checked
			found = true
			break
		}
	}
	c.mu.RUnlock()
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	query := url.Values{}
	query.Set("checked", checkedParam(next))
	err := c.api.Do(ctx, gateway.Request{
		Method:    http.MethodPut,
		Path:      "/api/cart/" + strconv.FormatInt(lineID, 10) + "/select",
		Query:     query,
		Operation: "cart.toggle",
	}, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].Checked = next
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// ToggleAllSelection sets every line's checked flag to the given value,
// locally after the server accepted it.
func (c *Container) ToggleAllSelection(ctx context.Context, checked bool) error {
	userID, err := c.session.CurrentUserID()
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("userId", strconv.FormatInt(userID, 10))
	query.Set("checked", checkedParam(checked))
	err = c.api.Do(ctx, gateway.Request{
		Method:    http.MethodPut,
		Path:      "/api/cart/select-all",
		Query:     query,
		Operation: "cart.toggle_all",
	}, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	for i := range c.lines {
		c.lines[i].Checked = checked
	}
	c.mu.Unlock()
	return nil
}

// Clear empties the cart. On success the local state short-circuits to
// empty without a refetch.
func (c *Container) Clear(ctx context.Context) error {
	userID, err := c.session.CurrentUserID()
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("userId", strconv.FormatInt(userID, 10))
	err = c.api.Do(ctx, gateway.Request{
		Method:    http.MethodDelete,
		Path:      "/api/cart/clear",
		Query:     query,
		Operation: "cart.clear",
	}, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.lines = nil
	c.count = 0
	c.mu.Unlock()
	return nil
}

// RefreshCount fetches the badge count. It is best-effort: transport
// failures log and zero the badge instead of propagating, so a flaky
// network never breaks navigation chrome.
func (c *Container) RefreshCount(ctx context.Context) error {
	userID, err := c.session.CurrentUserID()
	if err != nil {
		return err
	}

	var count int
	err = c.api.Do(ctx, gateway.Request{
		Method:    http.MethodGet,
		Path:      "/api/cart/" + strconv.FormatInt(userID, 10) + "/count",
		Operation: "cart.count",
	}, &count)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeTransport) {
			c.logger.Warn(c.logger.WithOperation(ctx, "cart.count"), "cart count unavailable: "+err.Error())
			c.mu.Lock()
			c.count = 0
			c.mu.Unlock()
			return nil
		}
		return err
	}

	c.mu.Lock()
	c.count = count
	c.mu.Unlock()
	return nil
}

// Reset drops all local cart state without a network call. Called on
// logout.
func (c *Container) Reset() {
	c.mu.Lock()
	c.lines = nil
	c.count = 0
	c.mu.Unlock()
}

// Lines returns a copy of the current snapshot.
func (c *Container) Lines() []Line {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Count is the badge total: the sum of quantities across all lines as
// last reported or computed.
func (c *Container) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}

// CheckedLines returns the selected lines.
func (c *Container) CheckedLines() []Line {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Line
	for _, line := range c.lines {
		if line.Checked {
			out = append(out, line)
		}
	}
	return out
}

// CheckedCount is the sum of quantities across selected lines.
func (c *Container) CheckedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, line := range c.lines {
		if line.Checked {
			total += line.Quantity
		}
	}
	return total
}

// CheckedTotal is the monetary total of the selected lines.
func (c *Container) CheckedTotal() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := decimal.Zero
	for _, line := range c.lines {
		if line.Checked {
			total = total.Add(line.Subtotal())
		}
	}
	return total
}

// IsAllChecked reports whether every line is selected. An empty cart is
// never all-checked.
func (c *Container) IsAllChecked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.lines) == 0 {
		return false
	}
	for _, line := range c.lines {
		if !line.Checked {
			return false
		}
	}
	return true
}

func checkedParam(checked bool) string {
	if checked {
		return "1"
	}
	return "0"
}
