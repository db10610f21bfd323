package engine

import (
	"reflect"
	"sync"
	"testing"

	"github.com/atomicstack/keynav/internal/geom"
)

func activated(t *testing.T, s Settings) (*Engine, *recorder) {
	t.Helper()
	e, rec := newTestEngine(s)
	e.Activate()
	if got := e.Snapshot().Mode; got != ModeAwaitingRow {
		t.Fatalf("expected awaiting-row after activate, got %s", got)
	}
	rec.take()
	return e, rec
}

func TestActivateSequence(t *testing.T) {
	e, rec := newTestEngine(testSettings())
	e.Activate()
	want := []string{"show", "render", "grab", "release-mods"}
	if got := rec.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	st := e.Snapshot()
	if st.Rect != (geom.Rect{W: 1920, H: 1080}) {
		t.Fatalf("unexpected rect %v", st.Rect)
	}
	if st.Rows != 10 || st.Cols != 10 || st.Depth != 0 || len(st.History) != 0 {
		t.Fatalf("unexpected state %+v", st)
	}
	f := rec.lastFrame()
	if len(f.Labels) != 100 || f.Labels[0] != "AA" || f.Labels[11] != "BB" {
		t.Fatalf("unexpected level-0 labels %v", f.Labels)
	}
}

func TestActivateWhileActiveIsNoop(t *testing.T) {
	e, rec := activated(t, testSettings())
	e.SelectPrimary('c', false)
	before := e.Snapshot()
	e.Activate()
	if calls := rec.take(); len(calls) != 0 {
		t.Fatalf("expected no collaborator calls, got %v", calls)
	}
	if after := e.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("state changed: %+v -> %+v", before, after)
	}
}

func TestActivateInvalidScreenRollsBack(t *testing.T) {
	e, rec := newTestEngine(testSettings())
	rec.width = 0
	e.Activate()
	if got := e.Snapshot().Mode; got != ModeInactive {
		t.Fatalf("expected inactive, got %s", got)
	}
	want := []string{"show", "hide"}
	if got := rec.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	rec.width = 1920
	e.Activate()
	if got := e.Snapshot().Mode; got != ModeAwaitingRow {
		t.Fatalf("expected retry to activate, got %s", got)
	}
}

func TestActivateAdoptsSettledBounds(t *testing.T) {
	s := testSettings()
	s.Bounds.Retries = 3
	e, rec := newTestEngine(s)
	rec.bounds = geom.Rect{X: 0, Y: 0, W: 2560, H: 1440}
	rec.boundsOK = true
	e.Activate()
	if got := e.Snapshot().Rect; got != rec.bounds {
		t.Fatalf("expected %v, got %v", rec.bounds, got)
	}
	if n := rec.count("sleep 8ms"); n != 3 {
		t.Fatalf("expected 3 settle waits, got %d", n)
	}
}

func TestConcurrentActivateRunsOnce(t *testing.T) {
	e, rec := newTestEngine(testSettings())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Activate()
		}()
	}
	wg.Wait()
	if n := rec.count("grab"); n != 1 {
		t.Fatalf("expected one grab, got %d", n)
	}
}

func TestShutdownDuringActivationRollsBack(t *testing.T) {
	e, rec := newTestEngine(testSettings())
	rec.onShow = func() { e.Shutdown() }
	e.Activate()
	if got := e.Snapshot().Mode; got != ModeInactive {
		t.Fatalf("expected inactive, got %s", got)
	}
	calls := rec.take()
	if calls[len(calls)-1] != "hide" {
		t.Fatalf("expected overlay hidden last, got %v", calls)
	}
	for _, c := range calls {
		if c == "grab" {
			t.Fatalf("keyboard grabbed after shutdown: %v", calls)
		}
	}
	rec.onShow = nil
	e.Activate()
	if got := e.Snapshot().Mode; got != ModeInactive {
		t.Fatalf("expected activation refused after shutdown, got %s", got)
	}
}

func TestSelectRowColumnWarpsToCellCenter(t *testing.T) {
	e, rec := activated(t, testSettings())

	e.SelectPrimary('b', false)
	st := e.Snapshot()
	if st.Mode != ModeAwaitingCol || st.PendingRow != 'b' {
		t.Fatalf("unexpected state after row key: %+v", st)
	}
	if calls := rec.take(); len(calls) != 0 {
		t.Fatalf("row key must not touch collaborators, got %v", calls)
	}

	e.SelectPrimary('b', false)
	st = e.Snapshot()
	want := geom.Rect{X: 192, Y: 108, W: 192, H: 108}
	if st.Mode != ModeRecursive || st.Rect != want {
		t.Fatalf("expected recursive in %v, got %+v", want, st)
	}
	if st.Rows != DefaultLevel1Rows || st.Cols != DefaultLevel1Cols || st.Depth != 0 {
		t.Fatalf("expected level-1 shape at depth 0, got %+v", st)
	}
	if len(st.History) != 1 || st.History[0] != (geom.Rect{W: 1920, H: 1080}) {
		t.Fatalf("unexpected history %v", st.History)
	}
	if calls := rec.take(); !reflect.DeepEqual(calls, []string{"warp 288,162", "render"}) {
		t.Fatalf("unexpected calls %v", calls)
	}
	f := rec.lastFrame()
	if len(f.Labels) != 36 || f.Labels[0] != "A" || f.Labels[26] != "0" {
		t.Fatalf("unexpected level-1 labels %v", f.Labels)
	}
}

func TestSelectFoldsCase(t *testing.T) {
	e, _ := activated(t, testSettings())
	e.SelectPrimary('B', true)
	e.SelectPrimary('C', true)
	want := geom.Rect{X: 384, Y: 108, W: 192, H: 108}
	if got := e.Snapshot().Rect; got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSelectIgnoresOutOfRangeKeys(t *testing.T) {
	e, _ := activated(t, testSettings())
	for _, k := range []rune{'k', 'z', '1', ' '} {
		e.SelectPrimary(k, false)
	}
	if got := e.Snapshot().Mode; got != ModeAwaitingRow {
		t.Fatalf("expected awaiting-row, got %s", got)
	}
	e.SelectPrimary('a', false)
	e.SelectPrimary('q', false)
	if got := e.Snapshot().Mode; got != ModeAwaitingCol {
		t.Fatalf("expected awaiting-col, got %s", got)
	}
	e.SelectPrimary('a', false)
	before := e.Snapshot()
	e.SelectPrimary('9'+1, false)
	if after := e.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("state changed on invalid key")
	}
}

func TestInactiveIgnoresInput(t *testing.T) {
	e, rec := newTestEngine(testSettings())
	e.SelectPrimary('a', false)
	e.ReleasePrimary('a')
	e.Undo()
	e.Control(CommandConfirm)
	e.RequestClick(ButtonLeft, 1, true)
	e.Deactivate()
	if calls := rec.take(); len(calls) != 0 {
		t.Fatalf("expected no calls while inactive, got %v", calls)
	}
}

func TestDepthLimitShowsMarkerAndReleaseConfirms(t *testing.T) {
	e, rec := activated(t, testSettings())
	e.SelectPrimary('b', false)
	e.SelectPrimary('b', false)
	rec.take()

	e.SelectPrimary('a', false)
	st := e.Snapshot()
	want := geom.Rect{X: 192, Y: 108, W: 32, H: 18}
	if st.Rect != want || st.Depth != 1 || !st.ShowMarker || st.LastKey != 'a' {
		t.Fatalf("unexpected state %+v", st)
	}
	f := rec.lastFrame()
	if !f.ShowMarker || len(f.Labels) != 0 {
		t.Fatalf("expected marker frame without labels, got %+v", f)
	}
	if calls := rec.take(); !reflect.DeepEqual(calls, []string{"warp 208,117", "render"}) {
		t.Fatalf("unexpected calls %v", calls)
	}

	// further selections are refused at the limit
	e.SelectPrimary('c', false)
	if got := e.Snapshot().Depth; got != 1 {
		t.Fatalf("depth exceeded limit: %d", got)
	}

	e.ReleasePrimary('c')
	if !e.Snapshot().Active() {
		t.Fatalf("releasing another key must not deactivate")
	}
	e.ReleasePrimary('A')
	if e.Snapshot().Active() {
		t.Fatalf("expected release of the last key to deactivate")
	}
	want2 := []string{"hide", "release", "release-mods"}
	if calls := rec.take(); !reflect.DeepEqual(calls, want2) {
		t.Fatalf("expected %v, got %v", want2, calls)
	}
}

func TestReleaseBeforeLimitKeepsNavigating(t *testing.T) {
	s := testSettings()
	s.MaxDepth = 2
	e, _ := activated(t, s)
	e.SelectPrimary('a', false)
	e.SelectPrimary('a', false)
	e.SelectPrimary('a', false)
	e.ReleasePrimary('a')
	st := e.Snapshot()
	if !st.Active() || st.ShowMarker || st.Depth != 1 {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestZeroMaxDepthMarksAfterLevelZero(t *testing.T) {
	s := testSettings()
	s.MaxDepth = 0
	e, _ := activated(t, s)
	e.SelectPrimary('a', false)
	e.SelectPrimary('d', false)
	st := e.Snapshot()
	if !st.ShowMarker || st.Depth != 0 || st.LastKey != 'd' {
		t.Fatalf("unexpected state %+v", st)
	}
	e.SelectPrimary('a', false)
	if got := len(e.Snapshot().History); got != 1 {
		t.Fatalf("expected no recursion, history %d", got)
	}
	e.ReleasePrimary('d')
	if e.Snapshot().Active() {
		t.Fatalf("expected deactivation")
	}
}

func TestDegenerateCellRefused(t *testing.T) {
	s := testSettings()
	s.MaxDepth = 10
	s.MinCellSize = 20
	e, _ := activated(t, s)
	e.SelectPrimary('a', false)
	e.SelectPrimary('a', false)
	e.SelectPrimary('a', false)
	// 192x108 / 6 leaves 32x18, below the minimum height
	st := e.Snapshot()
	if st.Depth != 0 || st.Rect != (geom.Rect{W: 192, H: 108}) {
		t.Fatalf("expected refusal, got %+v", st)
	}
}

func TestConfirmClicksOnceAndDeactivates(t *testing.T) {
	e, rec := activated(t, testSettings())
	e.SelectPrimary('b', false)
	e.SelectPrimary('b', false)
	e.SelectPrimary('a', false)
	rec.take()

	e.Control(CommandConfirm)
	want := []string{"warp 208,117", "hide", "release", "release-mods", "sleep 50ms", "click left x1"}
	if got := rec.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if e.Snapshot().Active() {
		t.Fatalf("expected inactive after confirm")
	}
	e.Control(CommandConfirm)
	if calls := rec.take(); len(calls) != 0 {
		t.Fatalf("second confirm must be a no-op, got %v", calls)
	}
}

func TestClickCommands(t *testing.T) {
	cases := []struct {
		cmd    Command
		click  string
		active bool
	}{
		{CommandAltConfirm, "click right x1", false},
		{CommandDoubleConfirm, "click left x2", false},
		{CommandMiddleConfirm, "click middle x1", false},
		{CommandClickStay, "click left x1", true},
	}
	for _, tc := range cases {
		t.Run(tc.cmd.String(), func(t *testing.T) {
			e, rec := activated(t, testSettings())
			e.Control(tc.cmd)
			calls := rec.take()
			if last := calls[len(calls)-1]; tc.active {
				if last != "show" || calls[len(calls)-2] != tc.click {
					t.Fatalf("expected click then show, got %v", calls)
				}
			} else if last != tc.click {
				t.Fatalf("expected %s last, got %v", tc.click, calls)
			}
			if got := e.Snapshot().Active(); got != tc.active {
				t.Fatalf("expected active=%v", tc.active)
			}
		})
	}
}

func TestClickStaySequence(t *testing.T) {
	e, rec := activated(t, testSettings())
	e.Control(CommandClickStay)
	want := []string{"warp 960,540", "hide", "sleep 50ms", "click left x1", "show"}
	if got := rec.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := e.Snapshot().Mode; got != ModeAwaitingRow {
		t.Fatalf("expected mode preserved, got %s", got)
	}
}

func TestCancelDeactivatesWithoutClick(t *testing.T) {
	e, rec := activated(t, testSettings())
	e.SelectPrimary('e', false)
	e.Control(CommandCancel)
	want := []string{"hide", "release", "release-mods"}
	if got := rec.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	st := e.Snapshot()
	if st.Mode != ModeInactive || st.PendingRow != 0 || st.Rows != 10 || len(st.History) != 0 {
		t.Fatalf("expected baseline, got %+v", st)
	}
}

func TestUndoRestoresPreviousRect(t *testing.T) {
	s := testSettings()
	s.MaxDepth = 3
	e, rec := activated(t, s)
	e.SelectPrimary('b', false)
	e.SelectPrimary('b', false)
	level1 := e.Snapshot().Rect
	e.SelectPrimary('h', false)
	if got := e.Snapshot().Depth; got != 1 {
		t.Fatalf("expected depth 1, got %d", got)
	}
	rec.take()

	e.Control(CommandUndo)
	st := e.Snapshot()
	if st.Rect != level1 || st.Depth != 0 || st.Mode != ModeRecursive {
		t.Fatalf("expected %v at depth 0, got %+v", level1, st)
	}
	want := []string{"show", "warp 288,162", "render"}
	if got := rec.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	e.Undo()
	st = e.Snapshot()
	if st.Mode != ModeAwaitingRow || st.Rect != (geom.Rect{W: 1920, H: 1080}) || st.Rows != 10 || len(st.History) != 0 {
		t.Fatalf("expected level 0 restored, got %+v", st)
	}
	if f := rec.lastFrame(); len(f.Labels) != 100 {
		t.Fatalf("expected level-0 frame, got %d labels", len(f.Labels))
	}
}

func TestUndoClearsMarker(t *testing.T) {
	e, _ := activated(t, testSettings())
	e.SelectPrimary('a', false)
	e.SelectPrimary('a', false)
	e.SelectPrimary('a', false)
	if !e.Snapshot().ShowMarker {
		t.Fatalf("expected marker")
	}
	e.Undo()
	st := e.Snapshot()
	if st.ShowMarker || st.Depth != 0 {
		t.Fatalf("unexpected state %+v", st)
	}
	e.ReleasePrimary('a')
	if !e.Snapshot().Active() {
		t.Fatalf("release after undo must not deactivate")
	}
}

func TestUndoAwaitingColumnReturnsToRow(t *testing.T) {
	e, rec := activated(t, testSettings())
	e.SelectPrimary('d', false)
	e.Undo()
	st := e.Snapshot()
	if st.Mode != ModeAwaitingRow || st.PendingRow != 0 {
		t.Fatalf("unexpected state %+v", st)
	}
	if got := rec.take(); !reflect.DeepEqual(got, []string{"show"}) {
		t.Fatalf("expected only show, got %v", got)
	}
}

func TestShutdown(t *testing.T) {
	e, rec := activated(t, testSettings())
	e.Shutdown()
	want := []string{"hide", "release", "release-mods"}
	if got := rec.take(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	idle, rec2 := newTestEngine(testSettings())
	idle.Shutdown()
	if got := rec2.take(); !reflect.DeepEqual(got, []string{"release-mods"}) {
		t.Fatalf("expected modifier release only, got %v", got)
	}
}

func TestHistoryNonEmptyOnlyWhenRecursive(t *testing.T) {
	s := testSettings()
	s.MaxDepth = 2
	e, _ := activated(t, s)
	check := func() {
		t.Helper()
		st := e.Snapshot()
		if (len(st.History) > 0) != (st.Mode == ModeRecursive) {
			t.Fatalf("history %d in mode %s", len(st.History), st.Mode)
		}
		if st.Depth > s.MaxDepth {
			t.Fatalf("depth %d over limit", st.Depth)
		}
	}
	for _, step := range []func(){
		func() { e.SelectPrimary('c', false) },
		func() { e.SelectPrimary('c', false) },
		func() { e.SelectPrimary('5', false) },
		func() { e.SelectPrimary('x', false) },
		func() { e.SelectPrimary('x', false) },
		func() { e.Undo() },
		func() { e.Undo() },
		func() { e.Undo() },
		func() { e.Undo() },
		func() { e.SelectPrimary('a', false) },
		func() { e.Deactivate() },
	} {
		step()
		check()
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	e, _ := activated(t, testSettings())
	e.SelectPrimary('a', false)
	e.SelectPrimary('a', false)
	st := e.Snapshot()
	st.History[0] = geom.Rect{X: 1}
	if got := e.Snapshot().History[0]; got.X == 1 {
		t.Fatalf("snapshot shares history storage")
	}
}
