package asset

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/arduck/internal/dynamo"
	"github.com/san-kum/arduck/internal/scene"
)

const quadOBJ = `# two parts
o base
v -1 0 -1
v 1 0 -1
v 1 0 1
v -1 0 1
f 1 2 3 4
o mast
v 0 0 0
v 0 2 0
v 0.1 0 0
f 5/1/1 6/2/1 7//1
`

func TestParseOBJ(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader(quadOBJ), "boat")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if m.Name != "boat" || len(m.Children) != 2 {
		t.Fatalf("expected group boat with 2 parts, got %q with %d", m.Name, len(m.Children))
	}

	base := m.Children[0]
	if base.Name != "base" || len(base.Geometry.Faces) != 2 || len(base.Geometry.Vertices) != 4 {
		t.Errorf("base: name=%q faces=%d verts=%d", base.Name, len(base.Geometry.Faces), len(base.Geometry.Vertices))
	}

	mast := m.Children[1]
	if len(mast.Geometry.Vertices) != 3 {
		t.Errorf("mast should own only its 3 vertices, got %d", len(mast.Geometry.Vertices))
	}

	size := m.BoundingBox().Size()
	if size.X() != 2 || size.Y() != 2 || size.Z() != 2 {
		t.Errorf("bounding box size = %v, want (2,2,2)", size)
	}
}

func TestParseOBJ_NegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"
	m, err := ParseOBJ(strings.NewReader(src), "tri")
	if err != nil {
		t.Fatal(err)
	}
	if f := m.Children[0].Geometry.Faces[0]; f != [3]int{0, 1, 2} {
		t.Errorf("face = %v, want [0 1 2]", f)
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"short vertex", "v 1 2\n"},
		{"bad number", "v 1 x 2\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseOBJ(strings.NewReader(tt.src), tt.name); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoaderHTTP(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path == "/missing.obj" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(quadOBJ))
	}))
	defer srv.Close()

	l := &Loader{Client: srv.Client()}
	m, err := l.Load(context.Background(), srv.URL+"/rubber-duck.obj")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if m.Name != "rubber-duck" {
		t.Errorf("name = %q, want rubber-duck", m.Name)
	}

	_, err = l.Load(context.Background(), srv.URL+"/missing.obj")
	if !errors.Is(err, dynamo.ErrAssetLoad) {
		t.Errorf("expected ErrAssetLoad for 404, got %v", err)
	}
	if hits != 2 {
		t.Errorf("expected exactly one request per load (no retry), got %d", hits)
	}
}

func TestLoaderCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Loader{Client: srv.Client()}).Load(ctx, srv.URL+"/duck.obj")
	if !errors.Is(err, dynamo.ErrAssetLoad) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected canceled asset load, got %v", err)
	}
}

func TestLoaderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boat.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader()
	for _, src := range []string{path, "file://" + path} {
		if _, err := l.Load(context.Background(), src); err != nil {
			t.Errorf("load %s: %v", src, err)
		}
	}

	if _, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "nope.obj")); !errors.Is(err, dynamo.ErrAssetLoad) {
		t.Errorf("expected ErrAssetLoad for missing file, got %v", err)
	}
}

func TestBuiltin(t *testing.T) {
	l := NewLoader()
	for _, name := range BuiltinNames() {
		m, err := l.Load(context.Background(), BuiltinPrefix+name)
		if err != nil {
			t.Fatalf("builtin %s: %v", name, err)
		}
		if err := scene.ScaleLongestSideToSize(m, 0.18); err != nil {
			t.Errorf("builtin %s should be scalable: %v", name, err)
		}
	}

	if _, err := l.Load(context.Background(), BuiltinPrefix+"teapot"); !errors.Is(err, dynamo.ErrAssetLoad) {
		t.Errorf("expected ErrAssetLoad for unknown builtin, got %v", err)
	}
}

func TestIcosphere(t *testing.T) {
	g := Icosphere(1)
	if len(g.Vertices) != 42 || len(g.Faces) != 80 {
		t.Errorf("icosphere(1): %d verts, %d faces; want 42, 80", len(g.Vertices), len(g.Faces))
	}
	for _, v := range g.Vertices {
		if math.Abs(v.Len()-1) > 1e-12 {
			t.Fatalf("vertex %v not on unit sphere", v)
		}
	}
}

func TestCacheLoadsOnce(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(quadOBJ))
	}))
	defer srv.Close()

	c := NewCache(&Loader{Client: srv.Client()})
	a, err := c.Load(context.Background(), srv.URL+"/boat.obj")
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Load(context.Background(), srv.URL+"/boat.obj")
	if err != nil {
		t.Fatal(err)
	}

	if hits != 1 {
		t.Errorf("expected one fetch, got %d", hits)
	}
	if a == b {
		t.Error("cache must return independent instances")
	}
}

func TestLoaderRejectsOversizedModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boat.obj")
	// a vertex far out, past the cap
	data := quadOBJ + "v 0 0 100\nf 1 2 8\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	l := &Loader{MaxBytes: int64(len(quadOBJ))}
	_, err := l.Load(context.Background(), path)
	var loadErr *dynamo.AssetLoadError
	if !errors.As(err, &loadErr) || !errors.Is(err, errModelTooLarge) {
		t.Fatalf("expected oversized model to fail, got %v", err)
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("error should name the cap: %v", err)
	}

	l.MaxBytes = int64(len(data))
	if _, err := l.Load(context.Background(), path); err != nil {
		t.Errorf("model exactly at the cap should load: %v", err)
	}
}

func TestLoaderRejectsOversizedDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(quadOBJ))
	}))
	defer srv.Close()

	l := &Loader{Client: srv.Client(), MaxBytes: 16}
	if _, err := l.Load(context.Background(), srv.URL+"/boat.obj"); !errors.Is(err, errModelTooLarge) {
		t.Errorf("expected oversized download to fail, got %v", err)
	}
}

func TestCacheRetriesAfterCanceledLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(quadOBJ))
	}))
	defer srv.Close()

	c := NewCache(&Loader{Client: srv.Client()})
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Load(canceled, srv.URL+"/boat.obj"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled load, got %v", err)
	}

	if _, err := c.Load(context.Background(), srv.URL+"/boat.obj"); err != nil {
		t.Errorf("a later caller should not inherit the cancellation: %v", err)
	}

	missing := NewCache(NewLoader())
	src := filepath.Join(t.TempDir(), "nope.obj")
	_, first := missing.Load(context.Background(), src)
	_, second := missing.Load(context.Background(), src)
	if first == nil || first != second {
		t.Errorf("other failures stay cached: %v / %v", first, second)
	}
}
