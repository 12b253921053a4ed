package optim

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch([]string{"x", "y"}, [][]float64{Linspace(-1, 1, 5), Linspace(0, 2, 3)})

	calls := 0
	params, best, err := g.Search(context.Background(), func(ctx context.Context, p map[string]float64) (float64, error) {
		calls++
		return (p["x"]-0.5)*(p["x"]-0.5) + (p["y"]-1)*(p["y"]-1), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 15 {
		t.Errorf("expected 15 evaluations, got %d", calls)
	}
	if params["x"] != 0.5 || params["y"] != 1 || best != 0 {
		t.Errorf("unexpected optimum %v (%f)", params, best)
	}
}

func TestGridSearchErrors(t *testing.T) {
	boom := errors.New("boom")
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})
	_, _, err := g.Search(context.Background(), func(ctx context.Context, p map[string]float64) (float64, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped objective error, got %v", err)
	}

	if _, _, err := NewGridSearch([]string{"x", "y"}, [][]float64{{1}}).Search(context.Background(), nil); err == nil {
		t.Error("expected mismatch error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Search(ctx, func(ctx context.Context, p map[string]float64) (float64, error) { return 0, nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("index %d: %f != %f", i, got[i], want[i])
		}
	}
	if len(Linspace(3, 4, 1)) != 1 {
		t.Error("single value expected")
	}
}
