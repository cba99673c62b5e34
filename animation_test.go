package evergreen

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenFieldsReachesTarget(t *testing.T) {
	a, b := 0.0, 10.0
	g := TweenFields([]*float64{&a, &b}, []float64{100, -10}, 1, ease.Linear)
	for i := 0; i < 120 && !g.Done; i++ {
		g.Update(1.0 / 60)
	}
	if !g.Done {
		t.Fatal("tween not done after 2 seconds")
	}
	if math.Abs(a-100) > 1e-3 || math.Abs(b+10) > 1e-3 {
		t.Errorf("a = %f, b = %f, want 100 and -10", a, b)
	}
}

func TestTweenFieldsMidway(t *testing.T) {
	v := 0.0
	g := TweenFields([]*float64{&v}, []float64{100}, 1, ease.Linear)
	g.Update(0.5)
	if math.Abs(v-50) > 0.5 {
		t.Errorf("v = %f, want ~50", v)
	}
	if g.Done {
		t.Error("Done = true halfway")
	}
}

func TestTweenCancel(t *testing.T) {
	v := 0.0
	g := TweenFields([]*float64{&v}, []float64{100}, 1, ease.Linear)
	g.Update(0.25)
	g.Cancel()
	at := v
	g.Update(0.5)
	if v != at {
		t.Errorf("cancelled tween moved %f -> %f", at, v)
	}
}

func TestTweenFieldsEmpty(t *testing.T) {
	if g := TweenFields(nil, nil, 1, ease.Linear); !g.Done {
		t.Error("empty group should be done")
	}
}
