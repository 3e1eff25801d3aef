package block

import "testing"

func TestAcquireRelease(t *testing.T) {
	p := New(2)
	b1 := p.Acquire()
	b2 := p.Acquire()
	if b1 == b2 {
		t.Fatal("expected distinct blocks")
	}
	b1.Release()
	b3 := p.Acquire()
	if b3 != b1 {
		t.Error("expected released block to be recycled")
	}
	b2.Release()
	b3.Release()
}

func TestAcquireExhaustedPanics(t *testing.T) {
	p := New(1)
	p.Acquire()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on exhausted pool")
		}
	}()
	p.Acquire()
}

func TestRefCounting(t *testing.T) {
	p := New(1)
	b := p.Acquire()
	b.Retain() // two owners now
	b.Release()
	select {
	case <-p.free:
		t.Fatal("block released back to pool while a reference remained")
	default:
	}
	b.Release()
	select {
	case <-p.free:
	default:
		t.Fatal("block not returned to pool after last reference released")
	}
}

func TestSilenceBlockNeverReturnedOrMutatedByRelease(t *testing.T) {
	p := New(1)
	s := p.Silence()
	if !s.IsSilence() {
		t.Fatal("expected silence block")
	}
	for _, v := range s.Data {
		if v != 0 {
			t.Fatal("silence block must start zeroed")
		}
	}
	s.Release() // must be a no-op, not a panic
	s.Release()
}

func TestBlockSizeIsRenderQuantum(t *testing.T) {
	p := New(1)
	b := p.Acquire()
	if len(b.Data) != Size {
		t.Errorf("block length = %d, want %d", len(b.Data), Size)
	}
}
