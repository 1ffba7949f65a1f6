package clock

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
	"testing"
	"time"

	"clockface/display/gfx"

	"tinygo.org/x/tinyfont"
)

type op struct {
	kind string
	text string
	c    color.RGBA
	args [4]int16
}

func (o op) String() string {
	if o.text != "" {
		return fmt.Sprintf("%s(%q)", o.kind, o.text)
	}
	return fmt.Sprintf("%s%v", o.kind, o.args)
}

// recordingTarget logs every call and can fail the n-th one.
type recordingTarget struct {
	ops    []op
	failAt int
}

var errBus = errors.New("bus stuck")

func (t *recordingTarget) rec(o op) error {
	t.ops = append(t.ops, o)
	if t.failAt > 0 && len(t.ops) == t.failAt {
		return errBus
	}
	return nil
}

func (t *recordingTarget) Size() (int16, int16) { return 128, 128 }
func (t *recordingTarget) Fill(c color.RGBA) error {
	return t.rec(op{kind: "fill", c: c})
}
func (t *recordingTarget) FillRect(x, y, w, h int16, c color.RGBA) error {
	return t.rec(op{kind: "rect", c: c, args: [4]int16{x, y, w, h}})
}
func (t *recordingTarget) DrawLine(x0, y0, x1, y1, w int16, c color.RGBA) error {
	return t.rec(op{kind: "line", c: c, args: [4]int16{x0, y0, x1, y1}})
}
func (t *recordingTarget) DrawCircle(cx, cy, r, s int16, c color.RGBA) error {
	return t.rec(op{kind: "circle", c: c, args: [4]int16{cx, cy, r, s}})
}
func (t *recordingTarget) FillCircle(cx, cy, r int16, c color.RGBA) error {
	return t.rec(op{kind: "hub", c: c, args: [4]int16{cx, cy, r}})
}
func (t *recordingTarget) DrawText(x, y int16, font tinyfont.Fonter, s string, c color.RGBA) (gfx.Rect, error) {
	return gfx.TextBounds(font, x, y, s), t.rec(op{kind: "text", text: s, c: c, args: [4]int16{x, y}})
}

func (t *recordingTarget) count(kind string, c color.RGBA) int {
	n := 0
	for _, o := range t.ops {
		if o.kind == kind && o.c == c {
			n++
		}
	}
	return n
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestRenderer(start time.Time) (*Renderer, *fakeClock) {
	clk := &fakeClock{t: start}
	return New(Options{Now: clk.Now}), clk
}

func TestAngles(t *testing.T) {
	if HourAngle(0) != 0 || HourAngle(12) != 0 {
		t.Fatal("hour 0 and 12 must both be at the top")
	}
	if got := HourAngle(3); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Fatalf("HourAngle(3)=%v", got)
	}
	if got := HourAngle(15); got != HourAngle(3) {
		t.Fatalf("HourAngle(15)=%v want HourAngle(3)", got)
	}
	if got := MinuteAngle(30); math.Abs(got-math.Pi) > 1e-9 {
		t.Fatalf("MinuteAngle(30)=%v", got)
	}
	for v := 0; v < 60; v++ {
		a := MinuteAngle(v)
		if a < 0 || a >= 2*math.Pi {
			t.Fatalf("MinuteAngle(%d)=%v out of [0,2pi)", v, a)
		}
	}
}

func TestPolar(t *testing.T) {
	cases := []struct {
		angle  float64
		wx, wy int16
	}{
		{0, 64, 24},
		{math.Pi / 2, 104, 64},
		{math.Pi, 64, 104},
		{3 * math.Pi / 2, 24, 64},
	}
	for _, c := range cases {
		x, y := Polar(64, 64, c.angle, 40)
		if x != c.wx || y != c.wy {
			t.Errorf("Polar(%v)=(%d,%d) want (%d,%d)", c.angle, x, y, c.wx, c.wy)
		}
	}
}

func TestGeometry(t *testing.T) {
	r, _ := newTestRenderer(time.Now())
	if r.Radius() != (128-2*DefaultMargin)/2 {
		t.Fatalf("radius=%d", r.Radius())
	}
	if x, y := r.Center(); x != 64 || y != 64 {
		t.Fatalf("center=(%d,%d)", x, y)
	}
}

func TestFirstUpdateDrawsEverything(t *testing.T) {
	r, _ := newTestRenderer(time.Date(2024, 3, 9, 10, 8, 30, 0, time.UTC))
	tg := &recordingTarget{}

	if err := r.Update(tg); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if n := tg.count("circle", gfx.ColorForeground); n != 1 {
		t.Fatalf("rings=%d want 1", n)
	}
	if n := tg.count("line", gfx.ColorForeground); n != 12 {
		t.Fatalf("ticks=%d want 12", n)
	}
	for _, c := range []color.RGBA{gfx.ColorHourHand, gfx.ColorMinuteHand, gfx.ColorSecondHand} {
		if n := tg.count("line", c); n != 1 {
			t.Fatalf("hand %v drawn %d times", c, n)
		}
	}
	if n := tg.count("line", gfx.ColorBackground); n != 0 {
		t.Fatalf("first update erased %d hands", n)
	}

	var numerals, fields []string
	for _, o := range tg.ops {
		if o.kind != "text" {
			continue
		}
		if o.args[1] == textBaseline || o.args[1] == 128-dateFromFloor {
			fields = append(fields, o.text)
		} else {
			numerals = append(numerals, o.text)
		}
	}
	if len(numerals) != 12 || numerals[0] != "12" {
		t.Fatalf("numerals=%q", numerals)
	}
	if strings.Contains(strings.Join(numerals, ","), ",0,") {
		t.Fatal("face labels a 0 position")
	}
	want := []string{"30", "08:", "10:", "2024-03-09"}
	if strings.Join(fields, "|") != strings.Join(want, "|") {
		t.Fatalf("fields=%q want %q", fields, want)
	}
	if got := r.State(); got != (State{Hour: 10, Minute: 8, Second: 30, Year: 2024, Month: 3, Day: 9}) {
		t.Fatalf("state=%+v", got)
	}
}

func TestUpdateIsDifferential(t *testing.T) {
	r, clk := newTestRenderer(time.Date(2024, 3, 9, 10, 8, 30, 0, time.UTC))
	if err := r.Update(&recordingTarget{}); err != nil {
		t.Fatal(err)
	}

	tg := &recordingTarget{}
	if err := r.Update(tg); err != nil {
		t.Fatal(err)
	}
	if n := tg.count("circle", gfx.ColorForeground); n != 0 {
		t.Fatal("face redrawn in steady state")
	}
	if n := tg.count("line", gfx.ColorBackground); n != 0 {
		t.Fatalf("unchanged time erased %d hands", n)
	}
	if n := tg.count("text", gfx.ColorForeground) + tg.count("rect", gfx.ColorBackground); n != 0 {
		t.Fatalf("unchanged time touched %d text ops", n)
	}
	if n := tg.count("line", gfx.ColorSecondHand); n != 1 {
		t.Fatalf("idempotent hand refresh missing")
	}

	clk.t = clk.t.Add(time.Second)
	tg = &recordingTarget{}
	if err := r.Update(tg); err != nil {
		t.Fatal(err)
	}
	if n := tg.count("line", gfx.ColorBackground); n != 1 {
		t.Fatalf("erased hands=%d want 1 (second)", n)
	}
	if n := tg.count("rect", gfx.ColorBackground); n != 1 {
		t.Fatalf("erased fields=%d want 1", n)
	}
	if n := tg.count("text", gfx.ColorForeground); n != 1 || tg.ops[len(tg.ops)-1].text != "31" {
		t.Fatalf("ops=%v", tg.ops)
	}
}

func TestMinuteRollover(t *testing.T) {
	r, clk := newTestRenderer(time.Date(2024, 3, 9, 10, 8, 59, 0, time.UTC))
	if err := r.Update(&recordingTarget{}); err != nil {
		t.Fatal(err)
	}

	clk.t = clk.t.Add(time.Second)
	tg := &recordingTarget{}
	if err := r.Update(tg); err != nil {
		t.Fatal(err)
	}
	if n := tg.count("line", gfx.ColorBackground); n != 2 {
		t.Fatalf("erased hands=%d want 2 (minute, second)", n)
	}
	var got []string
	for _, o := range tg.ops {
		if o.kind == "text" {
			got = append(got, o.text)
		}
	}
	if strings.Join(got, "|") != "00|09:" {
		t.Fatalf("redrawn fields=%q", got)
	}
}

func TestMidnightRollover(t *testing.T) {
	r, clk := newTestRenderer(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC))
	if err := r.Update(&recordingTarget{}); err != nil {
		t.Fatal(err)
	}

	clk.t = clk.t.Add(time.Second)
	tg := &recordingTarget{}
	if err := r.Update(tg); err != nil {
		t.Fatal(err)
	}
	if n := tg.count("line", gfx.ColorBackground); n != 3 {
		t.Fatalf("erased hands=%d want 3", n)
	}
	var got []string
	for _, o := range tg.ops {
		if o.kind == "text" {
			got = append(got, o.text)
		}
	}
	if strings.Join(got, "|") != "00|00:|00:|2025-01-01" {
		t.Fatalf("redrawn fields=%q", got)
	}
	if n := tg.count("circle", gfx.ColorForeground); n != 0 {
		t.Fatal("face redrawn on rollover")
	}
}

func dateX(t *testing.T, tg *recordingTarget) int16 {
	t.Helper()
	for _, o := range tg.ops {
		if o.kind == "text" && strings.Count(o.text, "-") == 2 {
			return o.args[0]
		}
	}
	t.Fatal("date not drawn")
	return 0
}

func TestDateKeepsItsColumn(t *testing.T) {
	r, clk := newTestRenderer(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC))
	first := &recordingTarget{}
	if err := r.Update(first); err != nil {
		t.Fatal(err)
	}
	fw := gfx.TextWidth(r.opts.DigitFont, "0")
	want := (128 - fw*dateColumns) / 2
	if x := dateX(t, first); x != want {
		t.Fatalf("date x=%d want %d", x, want)
	}

	clk.t = clk.t.Add(time.Second)
	next := &recordingTarget{}
	if err := r.Update(next); err != nil {
		t.Fatal(err)
	}
	if x := dateX(t, next); x != want {
		t.Fatalf("date moved to x=%d, want %d", x, want)
	}
}

func TestOffsetApplied(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)}
	r := New(Options{Now: clk.Now, Offset: 90 * time.Minute})
	if err := r.Update(&recordingTarget{}); err != nil {
		t.Fatal(err)
	}
	if s := r.State(); s.Hour != 1 || s.Minute != 0 || s.Day != 10 {
		t.Fatalf("state=%+v", s)
	}
}

func TestFailureDoesNotCommitAndRecovers(t *testing.T) {
	r, clk := newTestRenderer(time.Date(2024, 3, 9, 10, 8, 30, 0, time.UTC))
	if err := r.Update(&recordingTarget{}); err != nil {
		t.Fatal(err)
	}
	before := r.State()

	clk.t = clk.t.Add(time.Second)
	if err := r.Update(&recordingTarget{failAt: 1}); !errors.Is(err, errBus) {
		t.Fatalf("err=%v want %v", err, errBus)
	}
	if r.State() != before {
		t.Fatalf("state committed after failure: %+v", r.State())
	}

	tg := &recordingTarget{}
	if err := r.Update(tg); err != nil {
		t.Fatalf("recovery Update: %v", err)
	}
	if len(tg.ops) == 0 || tg.ops[0].kind != "fill" {
		t.Fatalf("recovery did not clear first: %v", tg.ops)
	}
	if n := tg.count("circle", gfx.ColorForeground); n != 1 {
		t.Fatal("recovery did not redraw the face")
	}
	if n := tg.count("line", gfx.ColorBackground); n != 0 {
		t.Fatalf("recovery erased %d stale hands", n)
	}
	if r.State().Second != 31 {
		t.Fatalf("state=%+v", r.State())
	}
}

func TestInvalidateRedrawsWithoutErase(t *testing.T) {
	r, _ := newTestRenderer(time.Date(2024, 3, 9, 10, 8, 30, 0, time.UTC))
	if err := r.Update(&recordingTarget{}); err != nil {
		t.Fatal(err)
	}
	r.Invalidate()

	tg := &recordingTarget{}
	if err := r.Update(tg); err != nil {
		t.Fatal(err)
	}
	if tg.count("fill", gfx.ColorBackground) != 0 || tg.count("rect", gfx.ColorBackground) != 0 {
		t.Fatal("invalidated update erased")
	}
	if tg.count("circle", gfx.ColorForeground) != 1 {
		t.Fatal("face not redrawn")
	}
	if tg.count("text", gfx.ColorForeground) != 12+4 {
		t.Fatalf("texts=%d want 16", tg.count("text", gfx.ColorForeground))
	}
}
