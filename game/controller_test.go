package game_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"aigo-board/engine/enginetest"
	"aigo-board/engine/httpapi"
	"aigo-board/game"
	"aigo-board/types"
)

type fakeView struct {
	mu      sync.Mutex
	renders []*types.Snapshot
	results []game.Result
	color   types.Color
	blocked []bool
}

func (v *fakeView) Render(snap *types.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders = append(v.renders, snap)
}

func (v *fakeView) SetResult(r game.Result) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.results = append(v.results, r)
}

func (v *fakeView) SetColor(c types.Color) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.color = c
}

func (v *fakeView) SetInputBlocked(b bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.blocked = append(v.blocked, b)
}

func (v *fakeView) lastRender() *types.Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.renders) == 0 {
		return nil
	}
	return v.renders[len(v.renders)-1]
}

func (v *fakeView) lastResult() game.Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.results[len(v.results)-1]
}

type fakeNotifier struct {
	mu     sync.Mutex
	alerts []string
}

func (n *fakeNotifier) Alert(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, msg)
}

func (n *fakeNotifier) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.alerts) == 0 {
		return ""
	}
	return n.alerts[len(n.alerts)-1]
}

type fixture struct {
	srv    *enginetest.Server
	view   *fakeView
	notify *fakeNotifier
	ctrl   *game.Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t).Sugar()
	srv := enginetest.NewServer(t)
	client, err := httpapi.NewClient(srv.URL, srv.Client(), log)
	require.NoError(t, err)

	f := &fixture{srv: srv, view: &fakeView{}, notify: &fakeNotifier{}}
	f.ctrl = game.NewController(client, f.view, f.notify, log)
	return f
}

func TestFreshLoadInProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.FetchBoard(ctx))

	assert.Equal(t, game.ResultDefault, f.view.lastResult())
	assert.False(t, f.ctrl.State().Done)
	assert.False(t, f.ctrl.State().Started)
	require.NotNil(t, f.view.lastRender())
	assert.True(t, f.view.lastRender().Empty())
	assert.Equal(t, types.White, f.view.color)
}

func TestPlaceStoneBeforeStart(t *testing.T) {
	f := newFixture(t)

	err := f.ctrl.PlaceStone(context.Background(), 3, 4)

	require.ErrorIs(t, err, game.ErrNotStarted)
	assert.Equal(t, 0, f.srv.Calls(httpapi.PathUpdateBoard))
	assert.Equal(t, game.ErrNotStarted.Error(), f.notify.last())
	assert.Empty(t, f.view.blocked)
}

func TestStartPlaceAndWin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Start(ctx))
	assert.True(t, f.ctrl.State().Started)

	require.NoError(t, f.ctrl.PlaceStone(ctx, 3, 4))

	reqs := f.srv.Requests(httpapi.PathUpdateBoard)
	require.Len(t, reqs, 1)
	var move httpapi.MoveRequest
	require.NoError(t, json.Unmarshal(reqs[0].Body, &move))
	assert.Equal(t, httpapi.MoveRequest{X: 3, Y: 4, IsWhite: 1}, move)

	color, ok := f.view.lastRender().StoneAt(3, 4)
	require.True(t, ok)
	assert.Equal(t, types.White, color)
	assert.False(t, f.ctrl.State().Done)

	f.srv.SetResult(types.ResultDecisive, true)
	require.NoError(t, f.ctrl.FetchBoard(ctx))

	assert.Equal(t, game.ResultWin, f.view.lastResult())
	assert.Equal(t, game.ResultWin, f.ctrl.Result())
	assert.True(t, f.ctrl.State().Done)

	err := f.ctrl.PlaceStone(ctx, 5, 5)
	require.ErrorIs(t, err, game.ErrGameOver)
	assert.Equal(t, 1, f.srv.Calls(httpapi.PathUpdateBoard))
	assert.Equal(t, game.ErrGameOver.Error(), f.notify.last())
}

func TestLoseAndDraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx))

	f.srv.SetResult(types.ResultDecisive, false)
	require.NoError(t, f.ctrl.FetchBoard(ctx))
	assert.Equal(t, game.ResultLose, f.view.lastResult())
	assert.True(t, f.ctrl.State().Done)

	f.srv.SetResult(types.ResultDraw, true)
	require.NoError(t, f.ctrl.FetchBoard(ctx))
	assert.Equal(t, game.ResultDraw, f.view.lastResult())
}

func TestResultIgnoredBeforeStart(t *testing.T) {
	f := newFixture(t)
	f.srv.SetResult(types.ResultDecisive, true)

	require.NoError(t, f.ctrl.FetchBoard(context.Background()))

	assert.False(t, f.ctrl.State().Done)
	assert.Equal(t, game.ResultDefault, f.ctrl.Result())
}

func TestSecondMoveWhileInFlight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx))
	rendersBefore := len(f.view.renders)

	started, release := f.srv.HoldMoves()
	defer release()

	firstErr := make(chan error, 1)
	go func() {
		firstErr <- f.ctrl.PlaceStone(ctx, 4, 4)
	}()
	<-started
	assert.True(t, f.ctrl.MoveInFlight())

	err := f.ctrl.PlaceStone(ctx, 6, 6)
	require.ErrorIs(t, err, game.ErrMoveInFlight)
	assert.Equal(t, game.ErrMoveInFlight.Error(), f.notify.last())

	release()
	require.NoError(t, <-firstErr)

	assert.False(t, f.ctrl.MoveInFlight())
	assert.Equal(t, 1, f.srv.Calls(httpapi.PathUpdateBoard))
	assert.Greater(t, len(f.view.renders), rendersBefore)
	_, ok := f.view.lastRender().StoneAt(4, 4)
	assert.True(t, ok)
	_, ok = f.view.lastRender().StoneAt(6, 6)
	assert.False(t, ok)
	assert.Equal(t, []bool{true, false}, f.view.blocked)
}

func TestPlaceStoneServerMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx))
	f.srv.SetStone(2, 2, types.Black)

	err := f.ctrl.PlaceStone(ctx, 2, 2)

	require.Error(t, err)
	assert.Equal(t, "point already occupied", f.notify.last())
	assert.False(t, f.ctrl.MoveInFlight())
	assert.Equal(t, []bool{true, false}, f.view.blocked)
}

func TestPlaceStoneGenericError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx))
	f.srv.Fail(httpapi.PathUpdateBoard, http.StatusInternalServerError, nil)

	err := f.ctrl.PlaceStone(ctx, 2, 2)

	require.Error(t, err)
	assert.Equal(t, game.GenericMoveError, f.notify.last())
	assert.False(t, f.ctrl.MoveInFlight())

	// the guard does not leak: the next move reaches the server again
	_ = f.ctrl.PlaceStone(ctx, 2, 3)
	assert.Equal(t, 2, f.srv.Calls(httpapi.PathUpdateBoard))
}

func TestPlaceStoneErrorFieldNotShown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx))
	f.srv.Fail(httpapi.PathUpdateBoard, http.StatusBadRequest, map[string]string{"error": "internal detail"})

	err := f.ctrl.PlaceStone(ctx, 2, 2)

	require.Error(t, err)
	assert.Equal(t, game.GenericMoveError, f.notify.last())
	assert.False(t, f.ctrl.MoveInFlight())
}

func TestColorLockedUntilReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.ToggleColor())
	assert.Equal(t, types.Black, f.view.color)

	require.NoError(t, f.ctrl.Start(ctx))
	require.ErrorIs(t, f.ctrl.ToggleColor(), game.ErrAlreadyStarted)
	assert.Equal(t, types.Black, f.ctrl.State().Color)

	require.NoError(t, f.ctrl.ResetBoard(ctx))
	require.NoError(t, f.ctrl.ToggleColor())
	assert.Equal(t, types.White, f.view.color)
}

func TestResetClearsFlagsAndBoard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx))
	require.NoError(t, f.ctrl.PlaceStone(ctx, 1, 1))
	f.srv.SetResult(types.ResultDecisive, false)
	require.NoError(t, f.ctrl.FetchBoard(ctx))
	require.True(t, f.ctrl.State().Done)

	require.NoError(t, f.ctrl.ResetBoard(ctx))

	st := f.ctrl.State()
	assert.False(t, st.Started)
	assert.False(t, st.Done)
	assert.True(t, f.view.lastRender().Empty())
	assert.Equal(t, game.ResultDefault, f.view.lastResult())
	assert.Equal(t, "The board has been reset.", f.notify.last())
}

func TestResetRejectedWhileMoveInFlight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx))

	started, release := f.srv.HoldMoves()
	defer release()

	moveErr := make(chan error, 1)
	go func() {
		moveErr <- f.ctrl.PlaceStone(ctx, 4, 4)
	}()
	<-started

	err := f.ctrl.ResetBoard(ctx)
	require.ErrorIs(t, err, game.ErrMoveInFlight)
	assert.Equal(t, game.ErrMoveInFlight.Error(), f.notify.last())
	assert.Equal(t, 0, f.srv.Calls(httpapi.PathResetBoard))
	assert.True(t, f.ctrl.State().Started)

	release()
	require.NoError(t, <-moveErr)
	_, ok := f.view.lastRender().StoneAt(4, 4)
	assert.True(t, ok)

	// once the move has landed the reset goes through and nothing repaints over it
	require.NoError(t, f.ctrl.ResetBoard(ctx))
	st := f.ctrl.State()
	assert.False(t, st.Started)
	assert.False(t, st.InFlight)
	assert.True(t, f.view.lastRender().Empty())
}

func TestResetFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx))
	f.srv.Fail(httpapi.PathResetBoard, http.StatusInternalServerError, map[string]string{"error": "boom"})
	alerts := len(f.notify.alerts)

	require.Error(t, f.ctrl.ResetBoard(ctx))

	assert.True(t, f.ctrl.State().Started)
	assert.False(t, f.ctrl.MoveInFlight())
	assert.Len(t, f.notify.alerts, alerts, "reset failures are only logged")
}

func TestStartTriggersOpponentWhenPlayingWhite(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.ctrl.Start(context.Background()))

	reqs := f.srv.Requests(httpapi.PathTrigger)
	require.Len(t, reqs, 1)
	var body httpapi.TriggerRequest
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Equal(t, 0, body.IsPlayerTurn)

	color, ok := f.view.lastRender().StoneAt(0, 0)
	require.True(t, ok)
	assert.Equal(t, types.Black, color)
}

func TestStartAsBlackWaitsForPlayer(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.ToggleColor())

	require.NoError(t, f.ctrl.Start(context.Background()))

	var body httpapi.TriggerRequest
	require.NoError(t, json.Unmarshal(f.srv.Requests(httpapi.PathTrigger)[0].Body, &body))
	assert.Equal(t, 1, body.IsPlayerTurn)
	assert.True(t, f.view.lastRender().Empty())
}

func TestStartTwiceIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx))

	require.ErrorIs(t, f.ctrl.Start(ctx), game.ErrAlreadyStarted)
	assert.Equal(t, 1, f.srv.Calls(httpapi.PathTrigger))
}

func TestTriggerFailureStillFetches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.Fail(httpapi.PathTrigger, http.StatusInternalServerError, map[string]string{"error": "boom"})

	require.NoError(t, f.ctrl.TriggerOpponentMove(ctx))

	assert.Equal(t, 1, f.srv.Calls(httpapi.PathGetBoard))
	assert.False(t, f.ctrl.State().Done)
}

func TestFetchFailureKeepsLastState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.SetStone(0, 0, types.White)
	require.NoError(t, f.ctrl.FetchBoard(ctx))
	renders := len(f.view.renders)

	f.srv.Fail(httpapi.PathGetBoard, http.StatusBadGateway, nil)
	require.Error(t, f.ctrl.FetchBoard(ctx))

	assert.Len(t, f.view.renders, renders)
	_, ok := f.ctrl.Snapshot().StoneAt(0, 0)
	assert.True(t, ok)
}

func TestClickOffBoardIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ctrl.Start(ctx))

	require.NoError(t, f.ctrl.Click(ctx, 9, 0))
	require.NoError(t, f.ctrl.Click(ctx, -1, 3))
	assert.Equal(t, 0, f.srv.Calls(httpapi.PathUpdateBoard))

	require.NoError(t, f.ctrl.Click(ctx, 8, 8))
	assert.Equal(t, 1, f.srv.Calls(httpapi.PathUpdateBoard))
}
