package heatmap

import (
	"errors"
	"reflect"
	"testing"
)

func TestToggleSet(t *testing.T) {
	ts := NewToggleSet([]string{"a", "b", "c"})

	if got := ts.Active(); len(got) != 0 {
		t.Fatalf("new set has active labels: %v", got)
	}

	on, err := ts.Toggle("c")
	if err != nil || !on {
		t.Fatalf("Toggle(c) = %v, %v", on, err)
	}
	ts.Toggle("a")

	// order follows the label list, not toggle order
	if got := ts.Active(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Active() = %v, want [a c]", got)
	}

	on, _ = ts.Toggle("c")
	if on || ts.IsActive("c") {
		t.Error("second toggle should deactivate")
	}

	ts.Reset()
	if len(ts.Active()) != 0 {
		t.Error("Reset() left active labels")
	}
}

func TestToggleSetUnknownLabel(t *testing.T) {
	ts := NewToggleSet([]string{"a"})

	if _, err := ts.Toggle("z"); !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("Toggle(z) err = %v, want ErrUnknownLabel", err)
	}
	if err := ts.Set("z", true); !errors.Is(err, ErrUnknownLabel) {
		t.Errorf("Set(z) err = %v, want ErrUnknownLabel", err)
	}
	if ts.IsActive("z") || ts.Has("z") {
		t.Error("unknown label leaked into the set")
	}
}

func TestToggleSetLabelsIsCopy(t *testing.T) {
	src := []string{"a", "b"}
	ts := NewToggleSet(src)
	src[0] = "x"

	labels := ts.Labels()
	labels[1] = "y"

	if got := ts.Labels(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Labels() = %v, want [a b]", got)
	}
}

func TestButtonStyle(t *testing.T) {
	on := ButtonStyle(true)
	if on.Background != "darkblue" || on.Foreground != "white" {
		t.Errorf("active style = %+v", on)
	}
	off := ButtonStyle(false)
	if off.Background != "" || off.Foreground != "black" {
		t.Errorf("inactive style = %+v", off)
	}
}
