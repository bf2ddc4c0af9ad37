// Package session owns the identity and token lifecycle: login, logout,
// registration, and the cached identity snapshot that route authorization
// reads. It is the only writer of the credential store's two entries.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/javaweb/webshop-client/internal/credstore"
	"github.com/javaweb/webshop-client/internal/gateway"
	pkgerrors "github.com/javaweb/webshop-client/pkg/errors"
	"github.com/javaweb/webshop-client/pkg/logger"
	"github.com/javaweb/webshop-client/pkg/validate"
)

type Role string

const (
	RoleGuest    Role = "guest"
	RoleUser     Role = "user"
	RoleMerchant Role = "merchant"
)

// Identity is the cached profile snapshot the backend returned at the last
// login or refresh. It is trusted until the next fetch or a 401.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role"`
}

// Credentials is the login input.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up input. Registration never logs the user in.
type Registration struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Password string `json:"password" validate:"required,min=6,max=32"`
	Nickname string `json:"nickname,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
}

// PasswordChange carries an authenticated password update.
type PasswordChange struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=32"`
}

// ProfileUpdate carries the editable identity fields.
type ProfileUpdate struct {
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
}

type caller interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}

// Container is the in-memory session state, hydrated from the credential
// store at construction and kept in sync with it on every transition.
type Container struct {
	mu       sync.RWMutex
	token    string
	identity *Identity

	api    caller
	store  credstore.Store
	logger *logger.Logger
}

// Params bundles the dependencies required to build a session container.
type Params struct {
	API    caller
	Store  credstore.Store
	Logger *logger.Logger
}

// NewContainer builds the container and hydrates it from the credential
// store. An empty store means the session starts unauthenticated.
func NewContainer(ctx context.Context, params Params) (*Container, error) {
	if params.API == nil {
		return nil, fmt.Errorf("gateway caller is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	c := &Container{
		api:    params.API,
		store:  params.Store,
		logger: params.Logger,
	}
	if err := c.hydrate(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) hydrate(ctx context.Context) error {
	token, err := c.store.Get(ctx, credstore.KeyToken)
	if err != nil {
		if credstore.IsNotFound(err) {
			return nil
		}
		return err
	}
	c.token = token

	raw, err := c.store.Get(ctx, credstore.KeyIdentity)
	if err != nil {
		if credstore.IsNotFound(err) {
			return nil
		}
		return err
	}
	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		// A corrupt snapshot is treated as absent; the token alone still
		// counts as logged in until the backend says otherwise.
		c.logger.Warn(ctx, "discarding unreadable identity snapshot")
		return nil
	}
	c.identity = &identity
	return nil
}

type loginResponse struct {
	Token    string   `json:"token"`
	UserInfo Identity `json:"userInfo"`
}

// Login authenticates against the backend and, on success, stores the token
// and identity both in memory and in the credential store. On failure the
// prior session state is left untouched.
func (c *Container) Login(ctx context.Context, creds Credentials) error {
	if err := validate.Struct(creds); err != nil {
		return err
	}

	var resp loginResponse
	err := c.api.Do(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      "/api/user/login",
		Body:      creds,
		Operation: "login",
	}, &resp)
	if err != nil {
		return classifyLoginError(err)
	}
	if resp.Token == "" {
		return pkgerrors.New(pkgerrors.CodeInternal, "login response missing token")
	}

	if err := c.persist(ctx, resp.Token, &resp.UserInfo); err != nil {
		return err
	}

	c.mu.Lock()
	c.token = resp.Token
	identity := resp.UserInfo
	c.identity = &identity
	c.mu.Unlock()

	c.logger.Info(c.logger.WithUserID(ctx, resp.UserInfo.ID), "signed in")
	return nil
}

// classifyLoginError keeps transport failures distinct from credential
// rejections: any business rejection of a login is an authentication
// failure regardless of the envelope code the backend chose.
func classifyLoginError(err error) error {
	if pkgerrors.HasCode(err, pkgerrors.CodeTransport) {
		return err
	}
	if pkgerrors.HasCode(err, pkgerrors.CodeAuthentication) {
		return err
	}
	message := "invalid username or password"
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		message = typed.Message()
	}
	return pkgerrors.Wrap(pkgerrors.CodeAuthentication, err, message)
}

// Register creates an account. It does not log the user in.
func (c *Container) Register(ctx context.Context, reg Registration) error {
	if err := validate.Struct(reg); err != nil {
		return err
	}
	err := c.api.Do(ctx, gateway.Request{
		Method:    http.MethodPost,
		Path:      "/api/user/register",
		Body:      reg,
		Operation: "register",
	}, nil)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeTransport) {
			return err
		}
		message := "registration rejected"
		if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
			message = typed.Message()
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, message)
	}
	return nil
}

// Logout clears the session locally and in the credential store. There is
// no server session to invalidate, so no round-trip is made.
func (c *Container) Logout(ctx context.Context) error {
	return c.clear(ctx)
}

// ForceLogout is registered on the gateway's unauthorized hook: a 401
// anywhere clears the credentials the same way an explicit logout does.
func (c *Container) ForceLogout(ctx context.Context) {
	if err := c.clear(ctx); err != nil {
		c.logger.Error(ctx, "clearing credentials after 401", err)
	}
}

func (c *Container) clear(ctx context.Context) error {
	if err := c.store.Remove(ctx, credstore.KeyToken); err != nil {
		return err
	}
	if err := c.store.Remove(ctx, credstore.KeyIdentity); err != nil {
		return err
	}
	c.mu.Lock()
	c.token = ""
	c.identity = nil
	c.mu.Unlock()
	return nil
}

func (c *Container) persist(ctx context.Context, token string, identity *Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode identity snapshot")
	}
	if err := c.store.Set(ctx, credstore.KeyToken, token); err != nil {
		return err
	}
	return c.store.Set(ctx, credstore.KeyIdentity, string(raw))
}

// Token implements the gateway token source.
func (c *Container) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// IsAuthenticated reports whether a token is held. Token presence is the
// definition of "logged in".
func (c *Container) IsAuthenticated() bool {
	return c.Token() != ""
}

// Role returns the cached identity role, or guest when signed out or when
// the snapshot is missing.
func (c *Container) Role() Role {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" || c.identity == nil {
		return RoleGuest
	}
	return c.identity.Role
}

// HasRole checks the cached identity snapshot. It is a UX gate only: the
// backend re-checks authorization on every request.
func (c *Container) HasRole(role Role) bool {
	return c.Role() == role
}

// Identity returns a copy of the cached snapshot, or nil when signed out.
func (c *Container) Identity() *Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.identity == nil {
		return nil
	}
	snapshot := *c.identity
	return &snapshot
}

// CurrentUserID returns the authenticated user id. There is no fallback
// id: callers that need one while signed out get a hard error.
func (c *Container) CurrentUserID() (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" || c.identity == nil || c.identity.ID == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeAuthentication, "no authenticated user")
	}
	return c.identity.ID, nil
}

// FetchIdentity refreshes the cached snapshot from the backend and
// persists the new copy.
func (c *Container) FetchIdentity(ctx context.Context) (*Identity, error) {
	userID, err := c.CurrentUserID()
	if err != nil {
		return nil, err
	}
	var identity Identity
	err = c.api.Do(ctx, gateway.Request{
		Method:    http.MethodGet,
		Path:      fmt.Sprintf("/api/user/info/%d", userID),
		Operation: "fetch_identity",
	}, &identity)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, credstore.KeyIdentity, mustEncode(&identity)); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.identity = &identity
	c.mu.Unlock()
	snapshot := identity
	return &snapshot, nil
}

// UpdateProfile pushes the editable fields and refreshes the snapshot.
func (c *Container) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	if err := validate.Struct(update); err != nil {
		return err
	}
	userID, err := c.CurrentUserID()
	if err != nil {
		return err
	}
	err = c.api.Do(ctx, gateway.Request{
		Method:    http.MethodPut,
		Path:      fmt.Sprintf("/api/user/%d", userID),
		Body:      update,
		Operation: "update_profile",
	}, nil)
	if err != nil {
		return err
	}
	_, err = c.FetchIdentity(ctx)
	return err
}

// ChangePassword updates the password for the authenticated user.
func (c *Container) ChangePassword(ctx context.Context, change PasswordChange) error {
	if err := validate.Struct(change); err != nil {
		return err
	}
	userID, err := c.CurrentUserID()
	if err != nil {
		return err
	}
	return c.api.Do(ctx, gateway.Request{
		Method:    http.MethodPut,
		Path:      fmt.Sprintf("/api/user/%d/password", userID),
		Body:      change,
		Operation: "change_password",
	}, nil)
}

func mustEncode(identity *Identity) string {
	raw, err := json.Marshal(identity)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
