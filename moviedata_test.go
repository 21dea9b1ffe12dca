package loom

import "testing"

func TestMovieSymbolFrameCount(t *testing.T) {
	short := mustLayer(t, "short", []Keyframe{{Index: 0, Duration: 5}})
	long := mustLayer(t, "long", []Keyframe{
		{Index: 0, Duration: 10},
		{Index: 10, Duration: 10},
	})
	sym := NewMovieSymbol("walk", []*Layer{short, long})
	if got := sym.FrameCount(); got != 20 {
		t.Errorf("FrameCount = %d, want 20", got)
	}
	if got := sym.NumLayers(); got != 2 {
		t.Errorf("NumLayers = %d, want 2", got)
	}
}

func TestMovieSymbolFrameCountNeverZero(t *testing.T) {
	sym := NewMovieSymbol("empty", nil)
	if got := sym.FrameCount(); got != 1 {
		t.Errorf("FrameCount of empty symbol = %d, want 1", got)
	}
}

func TestMovieSymbolLabels(t *testing.T) {
	labels := mustLayer(t, "labels", []Keyframe{
		{Index: 0, Duration: 5, Label: "idle"},
		{Index: 5, Duration: 10, Label: "run"},
		{Index: 15, Duration: 5, Label: "jump"},
	})
	sym := NewMovieSymbol("hero", []*Layer{labels})

	cases := []struct {
		name  string
		start int
		dur   int
	}{
		{"idle", 0, 5},
		{"run", 5, 10},
		// The final label spans to the end of the movie.
		{"jump", 15, 5},
	}
	for _, tc := range cases {
		span, ok := sym.Label(tc.name)
		if !ok {
			t.Errorf("Label(%q) missing", tc.name)
			continue
		}
		if span.Start != tc.start || span.Duration != tc.dur {
			t.Errorf("Label(%q) = %+v, want {%d %d}", tc.name, span, tc.start, tc.dur)
		}
	}

	order := sym.Labels()
	want := []string{"idle", "run", "jump"}
	if len(order) != len(want) {
		t.Fatalf("Labels() = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Labels()[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestMovieSymbolLabelsAcrossLayers(t *testing.T) {
	// Labels typically live on a dedicated empty layer; spans are still
	// computed against the frame count derived from all layers.
	art := mustLayer(t, "art", []Keyframe{{Index: 0, Duration: 30}})
	labels := mustLayer(t, "labels", []Keyframe{
		{Index: 0, Duration: 10, Label: "intro"},
		{Index: 10, Duration: 20, Label: "loop"},
	})
	sym := NewMovieSymbol("scene", []*Layer{art, labels})

	span, ok := sym.Label("loop")
	if !ok {
		t.Fatal("Label(loop) missing")
	}
	if span.Start != 10 || span.Duration != 20 {
		t.Errorf("Label(loop) = %+v, want {10 20}", span)
	}
}

func TestMovieSymbolUnknownLabel(t *testing.T) {
	sym := NewMovieSymbol("plain", []*Layer{
		mustLayer(t, "art", []Keyframe{{Index: 0, Duration: 10}}),
	})
	if _, ok := sym.Label("nope"); ok {
		t.Error("Label(nope) = ok, want missing")
	}
	if labels := sym.Labels(); len(labels) != 0 {
		t.Errorf("Labels() = %v, want empty", labels)
	}
}
