package repository

import (
	"context"
	"errors"

	"github.com/cmdshop/cmdshop/internal/cmds"
)

var (
	ErrNotFound = errors.New("cmd not found")
)

// Repository is the document-store contract used by the service layer.
// Get, Update and Delete return ErrNotFound when no document has the id.
type Repository interface {
	List(ctx context.Context) ([]*cmds.Cmd, error)
	Get(ctx context.Context, id string) (*cmds.Cmd, error)
	Create(ctx context.Context, c *cmds.Cmd) error
	Update(ctx context.Context, id string, p cmds.Patch) (*cmds.Cmd, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
