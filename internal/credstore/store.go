// Package credstore persists the bearer token and the cached identity
// snapshot between process runs. The two entries are independent string
// keys; their co-presence is a convention owned by the session container,
// not enforced here.
package credstore

import (
	"context"

	pkgerrors "github.com/javaweb/webshop-client/pkg/errors"
)

const (
	// KeyToken holds the opaque bearer token.
	KeyToken = "shop_token"
	// KeyIdentity holds the serialized identity snapshot.
	KeyIdentity = "shop_user_info"
)

// Store is a durable key-value store for credential entries.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

func notFound(key string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "credential entry absent: "+key)
}

// IsNotFound reports whether err means the requested entry is absent.
func IsNotFound(err error) bool {
	return pkgerrors.HasCode(err, pkgerrors.CodeNotFound)
}
