package repository

import (
	"context"
	"errors"

	"github.com/aurangzeb-bilal/update-username/internal/domain/entity"
)

// Sentinel errors let callers distinguish "no such record" and "write
// conflict" from a transport failure without matching on message text.
var (
	// ErrNotFound means the directory answered and no record matched.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate means a write violated the username uniqueness constraint.
	ErrDuplicate = errors.New("username already taken")
	// ErrNotCreated means the backing store echoed back no record on create.
	ErrNotCreated = errors.New("record not created")
)

// Directory attribute names accepted by FindByAttribute. Backends with
// multi-valued attributes must return the first value deterministically and a
// zero field (never an empty placeholder record) when an attribute is unset.
const (
	AttrID       = "id"
	AttrUsername = "username"
	AttrEmail    = "email"
)

// UserRepository is the gateway to the external user directory.
// Lookups return ErrNotFound on zero matches; any other error is a
// directory/transport failure.
type UserRepository interface {
	FindByAttribute(ctx context.Context, attr, value string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	// Update persists the full record as a single logical write; partial
	// patches are not supported. Returns ErrNotFound if the ID no longer
	// resolves and ErrDuplicate on a username collision at write time.
	Update(ctx context.Context, u *entity.User) error
}
