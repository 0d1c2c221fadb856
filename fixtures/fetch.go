package fixtures

import (
	"context"
	"errors"
	"fmt"

	"github.com/flanksource/commons/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ResourceLoader fetches a single fixture. Missing fixtures must be reported with an error
// wrapping ErrNotFound; every other error is treated as a transport failure.
type ResourceLoader interface {
	Load(ctx context.Context, path string) (string, error)
}

// LoaderFunc adapts a function to ResourceLoader
type LoaderFunc func(ctx context.Context, path string) (string, error)

func (f LoaderFunc) Load(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// TokenGenerator produces one-time cache-defeating tokens.
type TokenGenerator interface {
	Token() string
}

// TokenFunc adapts a function to TokenGenerator
type TokenFunc func() string

func (f TokenFunc) Token() string {
	return f()
}

// UUIDTokens generates random UUID tokens.
type UUIDTokens struct{}

func (UUIDTokens) Token() string {
	return uuid.NewString()
}

// FetchState tags the outcome of a single fixture load.
type FetchState int

const (
	Absent FetchState = iota
	Found
	FetchFailed
)

func (s FetchState) String() string {
	switch s {
	case Found:
		return "found"
	case Absent:
		return "absent"
	case FetchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fetch is the outcome of loading one fixture. Content is only meaningful when State is
// Found; an empty fixture is Found with empty Content, never Absent.
type Fetch struct {
	State   FetchState
	Content string
	Err     error
}

func FoundFetch(content string) Fetch {
	return Fetch{State: Found, Content: content}
}

func AbsentFetch() Fetch {
	return Fetch{State: Absent}
}

func (f Fetch) Present() bool {
	return f.State == Found
}

// Fetched holds the four fetch outcomes, positionally aligned with ResolvedPaths.All.
type Fetched [4]Fetch

func (f Fetched) InputMarkup() Fetch         { return f[0] }
func (f Fetched) InputBinary() Fetch         { return f[1] }
func (f Fetched) DefaultExpected() Fetch     { return f[2] }
func (f Fetched) EnvironmentExpected() Fetch { return f[3] }

// Loader fetches the fixtures of a case concurrently.
type Loader struct {
	Resources ResourceLoader
	// Tokens defaults to UUIDTokens
	Tokens TokenGenerator
}

// LoadAll fetches all four paths at once, each with its own fresh token appended as a query
// string, and returns once every fetch has settled. Missing fixtures become Absent. The
// first failure that is not a missing fixture is returned as a *TransportError.
func (l Loader) LoadAll(ctx context.Context, paths ResolvedPaths) (Fetched, error) {
	var fetched Fetched
	if l.Resources == nil {
		return fetched, fmt.Errorf("no resource loader configured")
	}
	tokens := l.Tokens
	if tokens == nil {
		tokens = UUIDTokens{}
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths.All() {
		withToken := path + "?" + tokens.Token()
		g.Go(func() error {
			content, err := l.Resources.Load(ctx, withToken)
			switch {
			case err == nil:
				fetched[i] = FoundFetch(content)
			case errors.Is(err, ErrNotFound):
				logger.V(4).Infof("Fixture %s not found", path)
				fetched[i] = AbsentFetch()
			default:
				fetched[i] = Fetch{State: FetchFailed, Err: err}
				return &TransportError{Path: path, Err: err}
			}
			return nil
		})
	}

	err := g.Wait()
	return fetched, err
}
