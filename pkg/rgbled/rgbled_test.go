package rgbled

import (
	"errors"
	"testing"
)

type fakeChannel struct {
	duties  []uint16
	closed  int
	failSet error
}

func (f *fakeChannel) SetDuty(v uint16) error {
	if f.failSet != nil {
		return f.failSet
	}
	f.duties = append(f.duties, v)
	return nil
}

func (f *fakeChannel) Close() error { f.closed++; return nil }

func (f *fakeChannel) last(t *testing.T) uint16 {
	t.Helper()
	if len(f.duties) == 0 {
		t.Fatalf("no duty written")
	}
	return f.duties[len(f.duties)-1]
}

func newFakeLED(t *testing.T, invert bool) (*RGBLED, *fakeChannel, *fakeChannel, *fakeChannel) {
	t.Helper()
	r, g, b := &fakeChannel{}, &fakeChannel{}, &fakeChannel{}
	l, err := New(r, g, b, invert)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l, r, g, b
}

func TestNewWritesBlack(t *testing.T) {
	_, r, g, b := newFakeLED(t, false)
	for _, ch := range []*fakeChannel{r, g, b} {
		if got := ch.last(t); got != 0 {
			t.Errorf("initial duty = %d, want 0", got)
		}
	}

	_, r, g, b = newFakeLED(t, true)
	for _, ch := range []*fakeChannel{r, g, b} {
		if got := ch.last(t); got != 0xFFFF {
			t.Errorf("inverted initial duty = %d, want 65535", got)
		}
	}
}

func TestSetColorScalesDuty(t *testing.T) {
	l, r, g, b := newFakeLED(t, false)
	if err := l.SetColor(Color{255, 128, 1}); err != nil {
		t.Fatalf("SetColor: %v", err)
	}
	if got := r.last(t); got != 65535 {
		t.Errorf("red duty = %d, want 65535", got)
	}
	if got := g.last(t); got != 128*257 {
		t.Errorf("green duty = %d, want %d", got, 128*257)
	}
	if got := b.last(t); got != 257 {
		t.Errorf("blue duty = %d, want 257", got)
	}
}

func TestInvertedDuty(t *testing.T) {
	l, r, g, b := newFakeLED(t, true)
	if err := l.SetColor(Color{R: 255}); err != nil {
		t.Fatalf("SetColor: %v", err)
	}
	// Common anode: full brightness is duty 0, off is 65535.
	if got := r.last(t); got != 0 {
		t.Errorf("red duty = %d, want 0", got)
	}
	if got := g.last(t); got != 65535 {
		t.Errorf("green duty = %d, want 65535", got)
	}
	if got := b.last(t); got != 65535 {
		t.Errorf("blue duty = %d, want 65535", got)
	}
}

func TestColorRoundTrip(t *testing.T) {
	l, _, _, _ := newFakeLED(t, false)
	for _, c := range []Color{{0, 0, 0}, {255, 255, 255}, {1, 2, 3}, {200, 100, 50}} {
		if err := l.SetColor(c); err != nil {
			t.Fatalf("SetColor(%v): %v", c, err)
		}
		if got := l.Color(); got != c {
			t.Errorf("Color() = %v, want %v", got, c)
		}
	}

	// Inversion must not leak into reads.
	li, _, _, _ := newFakeLED(t, true)
	c := Color{10, 20, 30}
	if err := li.SetColor(c); err != nil {
		t.Fatalf("SetColor: %v", err)
	}
	if got := li.Color(); got != c {
		t.Errorf("inverted Color() = %v, want %v", got, c)
	}
}

func TestSetPackedInt(t *testing.T) {
	l, _, _, _ := newFakeLED(t, false)
	for _, v := range []int{0, 0xFF4023, 0x100000, 0xFFFFFF} {
		if err := l.Set(v); err != nil {
			t.Fatalf("Set(%#x): %v", v, err)
		}
		if got := l.Color().Int(); got != v {
			t.Errorf("Color().Int() = %#x, want %#x", got, v)
		}
	}
}

func TestRejectedWriteLeavesColor(t *testing.T) {
	l, r, g, b := newFakeLED(t, false)
	prev := Color{10, 20, 30}
	if err := l.SetColor(prev); err != nil {
		t.Fatalf("SetColor: %v", err)
	}
	writes := len(r.duties) + len(g.duties) + len(b.duties)

	for _, v := range []any{
		[]int{256, 0, 0},
		[]int{-1, 0, 0},
		0x1000000,
		[]int{0, 0},
		1.5,
	} {
		err := l.Set(v)
		if err == nil {
			t.Fatalf("Set(%v) succeeded, want error", v)
		}
		if !errors.Is(err, ErrOutOfRange) && !errors.Is(err, ErrInvalidType) {
			t.Errorf("Set(%v) = %v, want range or type error", v, err)
		}
	}
	if got := l.Color(); got != prev {
		t.Errorf("Color() = %v after rejected writes, want %v", got, prev)
	}
	if got := len(r.duties) + len(g.duties) + len(b.duties); got != writes {
		t.Errorf("%d duty writes after rejected sets, want %d", got, writes)
	}
}

func TestWriteFailureKeepsColor(t *testing.T) {
	l, _, g, _ := newFakeLED(t, false)
	prev := Color{1, 1, 1}
	if err := l.SetColor(prev); err != nil {
		t.Fatalf("SetColor: %v", err)
	}

	boom := errors.New("i2c write failed")
	g.failSet = boom
	if err := l.SetColor(Color{2, 2, 2}); !errors.Is(err, boom) {
		t.Fatalf("SetColor = %v, want wrapped %v", err, boom)
	}
	if got := l.Color(); got != prev {
		t.Errorf("Color() = %v after failed write, want %v", got, prev)
	}
}

func TestCloseIdempotent(t *testing.T) {
	l, r, g, b := newFakeLED(t, false)
	if err := l.SetColor(Color{255, 255, 255}); err != nil {
		t.Fatalf("SetColor: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	for _, ch := range []*fakeChannel{r, g, b} {
		if ch.closed != 1 {
			t.Errorf("channel closed %d times, want 1", ch.closed)
		}
		// The LED goes dark before the channels are released.
		if got := ch.last(t); got != 0 {
			t.Errorf("final duty = %d, want 0", got)
		}
	}
	if !l.Closed() {
		t.Error("Closed() = false after Close")
	}
	if got := l.Color(); got != (Color{}) {
		t.Errorf("Color() = %v after Close, want black", got)
	}
}

func TestUseAfterClose(t *testing.T) {
	l, _, _, _ := newFakeLED(t, false)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := l.SetColor(Color{R: 1}); !errors.Is(err, ErrClosed) {
		t.Errorf("SetColor after Close = %v, want ErrClosed", err)
	}
	if err := l.Set(0xFF0000); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after Close = %v, want ErrClosed", err)
	}
}

func TestWithClosesOnAllPaths(t *testing.T) {
	r, g, b := &fakeChannel{}, &fakeChannel{}, &fakeChannel{}
	err := With(r, g, b, false, func(l *RGBLED) error {
		return l.SetColor(Color{R: 255})
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	for _, ch := range []*fakeChannel{r, g, b} {
		if ch.closed != 1 {
			t.Errorf("channel closed %d times, want 1", ch.closed)
		}
	}

	r, g, b = &fakeChannel{}, &fakeChannel{}, &fakeChannel{}
	boom := errors.New("boom")
	if err := With(r, g, b, false, func(l *RGBLED) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("With = %v, want %v", err, boom)
	}
	for _, ch := range []*fakeChannel{r, g, b} {
		if ch.closed != 1 {
			t.Errorf("channel closed %d times after error, want 1", ch.closed)
		}
	}
}
