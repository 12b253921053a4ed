package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/san-kum/arduck/internal/dynamo"
	"github.com/san-kum/arduck/internal/scene"
)

const (
	// DefaultModelURL is the rubber duck the demo drops.
	DefaultModelURL = "https://raw.githubusercontent.com/arynchoong/ARVR-flood-orchard/master/images/rubber-duck.obj"

	// BuiltinPrefix selects a generated model instead of a fetch.
	BuiltinPrefix = "builtin:"

	// DefaultMaxModelBytes caps the size of a model source.
	DefaultMaxModelBytes = 32 << 20
)

var errModelTooLarge = errors.New("model too large")

// Loader resolves a model source into a mesh. Sources are http(s) URLs,
// file paths (optionally file://), or builtin:<name>.
type Loader struct {
	Client *http.Client
	// MaxBytes caps the model size; 0 means DefaultMaxModelBytes.
	MaxBytes int64
}

func NewLoader() *Loader {
	return &Loader{Client: http.DefaultClient}
}

// Load fetches and parses the model once. Every failure is an
// *dynamo.AssetLoadError; there is no retry.
func (l *Loader) Load(ctx context.Context, source string) (*scene.Mesh, error) {
	m, err := l.load(ctx, source)
	if err != nil {
		return nil, &dynamo.AssetLoadError{Source: source, Wrapped: err}
	}
	return m, nil
}

func (l *Loader) load(ctx context.Context, source string) (*scene.Mesh, error) {
	name := modelName(source)

	switch {
	case strings.HasPrefix(source, BuiltinPrefix):
		return Builtin(strings.TrimPrefix(source, BuiltinPrefix))
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		body, err := l.fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		return ParseOBJ(l.limit(body), name)
	default:
		f, err := os.Open(strings.TrimPrefix(source, "file://"))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ParseOBJ(l.limit(f), name)
	}
}

func (l *Loader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

func (l *Loader) limit(r io.Reader) io.Reader {
	n := l.MaxBytes
	if n <= 0 {
		n = DefaultMaxModelBytes
	}
	return &cappedReader{r: r, left: n, max: n}
}

// cappedReader fails once more than max bytes arrive instead of ending
// the stream early, so an oversized model is never parsed as complete.
type cappedReader struct {
	r    io.Reader
	left int64
	max  int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.left < 0 {
		return 0, fmt.Errorf("%w: exceeds %d bytes", errModelTooLarge, c.max)
	}
	// read one byte past the cap to tell "exactly max" from "more"
	if int64(len(p)) > c.left+1 {
		p = p[:c.left+1]
	}
	n, err := c.r.Read(p)
	c.left -= int64(n)
	if c.left < 0 {
		return 0, fmt.Errorf("%w: exceeds %d bytes", errModelTooLarge, c.max)
	}
	return n, err
}

func modelName(source string) string {
	base := path.Base(strings.TrimPrefix(source, BuiltinPrefix))
	return strings.TrimSuffix(base, path.Ext(base))
}
