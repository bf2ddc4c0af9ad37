// Package address manages the shopper's delivery address book. Order
// placement references entries here by id; the backend copies the
// receiver snapshot onto the order.
package address

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/javaweb/webshop-client/internal/gateway"
	"github.com/javaweb/webshop-client/pkg/validate"
)

// Address is one address book entry. IsDefault travels as 0/1.
type Address struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"userId"`
	ReceiverName  string `json:"receiverName"`
	ReceiverPhone string `json:"receiverPhone"`
	Province      string `json:"province"`
	City          string `json:"city"`
	District      string `json:"district"`
	DetailAddress string `json:"detailAddress"`
	IsDefault     int    `json:"isDefault"`
}

// Full renders the address the way the backend concatenates it onto
// orders: province, city, district, then the street detail.
func (a Address) Full() string {
	return a.Province + a.City + a.District + a.DetailAddress
}

// Default reports whether this entry is the user's default address.
func (a Address) Default() bool { return a.IsDefault == 1 }

// Input carries a new or updated address book entry.
type Input struct {
	ReceiverName  string `json:"receiverName" validate:"required"`
	ReceiverPhone string `json:"receiverPhone" validate:"required"`
	Province      string `json:"province" validate:"required"`
	City          string `json:"city" validate:"required"`
	District      string `json:"district,omitempty"`
	DetailAddress string `json:"detailAddress" validate:"required"`
	AsDefault     bool   `json:"-"`
}

type caller interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}

type identitySource interface {
	CurrentUserID() (int64, error)
}

// Service is the address book client, scoped to the signed-in shopper.
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

type addressBody struct {
	UserID int64 `json:"userId"`
	Input
	IsDefault int `json:"isDefault"`
}

func newAddressBody(userID int64, input Input) addressBody {
	body := addressBody{UserID: userID, Input: input}
	if input.AsDefault {
		body.IsDefault = 1
	}
	return body
}

// List fetches every address of the signed-in shopper.
func (s *Service) List(ctx context.Context) ([]Address, error) {
	userID, err := s.session.CurrentUserID()
	if err != nil {
		return nil, err
	}
	var out []Address
	err = s.api.Do(ctx, gateway.Request{
		Method:    http.MethodGet,
		Path:      "/api/address/user/" + strconv.FormatInt(userID, 10),
		Operation: "address.list",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetDefault fetches the default address; nil when none is set.
func (s *Service) GetDefault(ctx context.Context) (*Address, error) {
	userID, err := s.session.CurrentUserID()
	if err != nil {
		return nil, err
	}
	var out *Address
	err = s.api.Do(ctx, gateway.Request{
		Method:    http.MethodGet,
		Path:      "/api/address/user/" + strconv.FormatInt(userID, 10) + "/default",
		Operation: "address.default",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one address by id.
func (s *Service) Get(ctx context.Context, id int64) (*Address, error) {
	var out Address
	err := s.api.Do(ctx, gateway.Request{
		Method:    http.MethodGet,
		Path:      "/api/address/" + strconv.FormatInt(id, 10),
		Operation: "address.get",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Add creates a new entry; marking it default demotes the previous one
// server-side.
func (s *Service) Add(ctx context.Context, input Input) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	userID, err := s.session.CurrentUserID()
	if err != nil {
		return err
	}
	return s.api.Do(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      "/api/address",
		Body:      newAddressBody(userID, input),
		Operation: "address.add",
	}, nil)
}

// Update replaces an existing entry.
func (s *Service) Update(ctx context.Context, id int64, input Input) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	userID, err := s.session.CurrentUserID()
	if err != nil {
		return err
	}
	return s.api.Do(ctx, gateway.Request{
		Method:    http.MethodPut,
		Path:      "/api/address/" + strconv.FormatInt(id, 10),
		Body:      newAddressBody(userID, input),
		Operation: "address.update",
	}, nil)
}

func (s *Service) userQuery() (url.Values, error) {
	userID, err := s.session.CurrentUserID()
	if err != nil {
		return nil, err
	}
	query := url.Values{}
	query.Set("userId", strconv.FormatInt(userID, 10))
	return query, nil
}

// Delete removes an entry. The backend verifies ownership.
func (s *Service) Delete(ctx context.Context, id int64) error {
	query, err := s.userQuery()
	if err != nil {
		return err
	}
	return s.api.Do(ctx, gateway.Request{
		Method:    http.MethodDelete,
		Path:      "/api/address/" + strconv.FormatInt(id, 10),
		Query:     query,
		Operation: "address.delete",
	}, nil)
}

// SetDefault makes an entry the default, demoting the previous one.
func (s *Service) SetDefault(ctx context.Context, id int64) error {
	query, err := s.userQuery()
	if err != nil {
		return err
	}
	return s.api.Do(ctx, gateway.Request{
		Method:    http.MethodPut,
		Path:      "/api/address/" + strconv.FormatInt(id, 10) + "/default",
		Query:     query,
		Operation: "address.set_default",
	}, nil)
}
