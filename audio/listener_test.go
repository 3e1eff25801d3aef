package audio

import "testing"

func TestListenerDefaultsAndUpdates(t *testing.T) {
	c := New(Options{})
	l := c.Listener()
	if l == nil {
		t.Fatal("expected a listener")
	}

	forward, up := l.Orientation()
	if forward != [3]float64{0, 0, -1} || up != [3]float64{0, 1, 0} {
		t.Errorf("default orientation = %v/%v, want (0,0,-1)/(0,1,0)", forward, up)
	}

	l.SetPosition(1, 2, 3)
	x, y, z := l.Position()
	if x != 1 || y != 2 || z != 3 {
		t.Errorf("position = (%v,%v,%v), want (1,2,3)", x, y, z)
	}

	l.SetOrientation(1, 0, 0, 0, 0, 1)
	forward, up = l.Orientation()
	if forward != [3]float64{1, 0, 0} || up != [3]float64{0, 0, 1} {
		t.Errorf("orientation = %v/%v after update", forward, up)
	}
}
