package service

import (
	"context"
	"errors"
	"sort"

	"github.com/cmdshop/cmdshop/internal/cmds"
	"github.com/cmdshop/cmdshop/internal/cmds/repository"
	"github.com/cmdshop/cmdshop/pkg/logger"
	"github.com/cmdshop/cmdshop/pkg/metrics"
	"github.com/google/uuid"
)

var (
	// ErrPersistence matches every store fault surfaced by the service.
	ErrPersistence = errors.New("persistence operation failed")
)

// OpError wraps a store fault with the operation that hit it. Its message
// carries the store's own message.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string { return "failed to " + e.Op + ": " + e.Err.Error() }

func (e *OpError) Unwrap() error { return e.Err }

func (e *OpError) Is(target error) bool { return target == ErrPersistence }

// Filter narrows Search. Empty fields match everything.
type Filter struct {
	Tag   string
	Query string
}

// Service defines the cmd operations used by the handler layer.
// Absence is reported as data: GetByID and Update return a nil Cmd, Delete
// returns false. Errors are always *OpError.
type Service interface {
	ListAll(ctx context.Context) ([]*cmds.Cmd, error)
	Search(ctx context.Context, f Filter) ([]*cmds.Cmd, error)
	Tags(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id string) (*cmds.Cmd, error)
	Create(ctx context.Context, in cmds.NewCmd) (*cmds.Cmd, error)
	Update(ctx context.Context, id string, p cmds.Patch) (*cmds.Cmd, error)
	Delete(ctx context.Context, id string) (bool, error)
	Ping(ctx context.Context) error
}

// New returns a Service over the given repository.
func New(repo repository.Repository) Service {
	return &cmdService{repo: repo, newID: uuid.NewString}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return New(repository.NewMemoryRepo())
}

type cmdService struct {
	repo  repository.Repository
	newID func() string
}

func (s *cmdService) ListAll(ctx context.Context) ([]*cmds.Cmd, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.fail("list", "fetch cmds", "", err)
	}
	for _, c := range list {
		fillTags(c)
	}
	observe("list", "ok")
	return list, nil
}

func (s *cmdService) Search(ctx context.Context, f Filter) ([]*cmds.Cmd, error) {
	list, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*cmds.Cmd, 0, len(list))
	for _, c := range list {
		if f.Tag != "" && !c.HasTag(f.Tag) {
			continue
		}
		if f.Query != "" && !c.Matches(f.Query) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *cmdService) Tags(ctx context.Context) ([]string, error) {
	list, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	out := []string{}
	for _, c := range list {
		for _, t := range c.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *cmdService) GetByID(ctx context.Context, id string) (*cmds.Cmd, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			observe("get", "not_found")
			return nil, nil
		}
		return nil, s.fail("get", "fetch cmd by id", id, err)
	}
	observe("get", "ok")
	return fillTags(c), nil
}

// Create assigns a fresh id, independent of the store's key generation.
func (s *cmdService) Create(ctx context.Context, in cmds.NewCmd) (*cmds.Cmd, error) {
	c := &cmds.Cmd{
		ID:      s.newID(),
		Title:   in.Title,
		Content: in.Content,
		Tags:    append([]string{}, in.Tags...),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, s.fail("create", "add cmd", c.ID, err)
	}
	observe("create", "ok")
	logger.Debugw("cmd created", "id", c.ID)
	return c, nil
}

// Update never creates: an unknown id yields (nil, nil).
func (s *cmdService) Update(ctx context.Context, id string, p cmds.Patch) (*cmds.Cmd, error) {
	c, err := s.repo.Update(ctx, id, p)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			observe("update", "not_found")
			return nil, nil
		}
		return nil, s.fail("update", "update cmd", id, err)
	}
	observe("update", "ok")
	return fillTags(c), nil
}

func (s *cmdService) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			observe("delete", "not_found")
			return false, nil
		}
		return false, s.fail("delete", "delete cmd", id, err)
	}
	observe("delete", "ok")
	return true, nil
}

func (s *cmdService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *cmdService) fail(label, op, id string, err error) error {
	logger.Errorw("cmd store operation failed", "op", label, "id", id, "err", err)
	observe(label, "error")
	return &OpError{Op: op, Err: err}
}

func observe(op, outcome string) {
	metrics.CmdOperations.WithLabelValues(op, outcome).Inc()
}

// fillTags keeps tags serializing as [] for documents stored without them.
func fillTags(c *cmds.Cmd) *cmds.Cmd {
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c
}
