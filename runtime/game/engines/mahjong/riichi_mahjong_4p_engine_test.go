package mahjong

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"riichi/core/domain/entity"
	"riichi/core/domain/repository"
	"riichi/runtime/game/engines"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordPusher struct {
	mu     sync.Mutex
	events []TableEvent
}

func (p *recordPusher) Push(event TableEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordPusher) ofType(typ TableEventType) []TableEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []TableEvent
	for _, ev := range p.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

type recordHost struct {
	mu        sync.Mutex
	destroyed []string
}

func (h *recordHost) RequestDestroyTable(tableID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = append(h.destroyed, tableID)
}

type memoryGameRecords struct {
	mu     sync.Mutex
	games  map[primitive.ObjectID]*entity.GameRecord
	rounds []*entity.RoundRecord
}

func newMemoryGameRecords() *memoryGameRecords {
	return &memoryGameRecords{games: make(map[primitive.ObjectID]*entity.GameRecord)}
}

func (m *memoryGameRecords) SaveGameRecord(_ context.Context, record *entity.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[record.ID] = record
	return nil
}

func (m *memoryGameRecords) FindGameRecord(_ context.Context, id primitive.ObjectID) (*entity.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.games[id]; ok {
		return r, nil
	}
	return nil, repository.ErrGameRecordNotFound
}

func (m *memoryGameRecords) FindGameRecordByTable(_ context.Context, tableID string) (*entity.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.games {
		if r.TableID == tableID {
			return r, nil
		}
	}
	return nil, repository.ErrGameRecordNotFound
}

func (m *memoryGameRecords) SaveRoundRecords(_ context.Context, rounds []*entity.RoundRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds = append(m.rounds, rounds...)
	return nil
}

func (m *memoryGameRecords) FindRoundRecords(_ context.Context, id primitive.ObjectID) ([]*entity.RoundRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.RoundRecord
	for _, r := range m.rounds {
		if r.GameRecordID == id {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, repository.ErrRoundRecordNotFound
	}
	return out, nil
}

func newTestEngine(t *testing.T, seed int64) (*RiichiMahjong4p, *recordPusher, *recordHost, *memoryGameRecords) {
	t.Helper()
	rules := DefaultRules()
	rules.Length = LengthTonpu
	pusher, host, repo := &recordPusher{}, &recordHost{}, newMemoryGameRecords()
	eg := NewRiichiMahjong4p(rules, host, pusher, repo).Clone().(*RiichiMahjong4p)
	if err := eg.InitializeEngine("table-1", seed); err != nil {
		t.Fatalf("InitializeEngine: %v", err)
	}
	t.Cleanup(eg.Close)
	return eg, pusher, host, repo
}

func TestEngine_SubmitCountsSteps(t *testing.T) {
	eg, pusher, _, _ := newTestEngine(t, 3)
	if eg.Status() != engines.TableWaiting {
		t.Fatalf("status %s, want waiting", eg.Status())
	}

	s, ok, err := eg.Submit(Draw(0))
	if err != nil || ok {
		t.Fatalf("draw before the deal: ok=%v err=%v", ok, err)
	}
	if _, step := eg.Snapshot(); step != 0 || s.Phase != PhaseWaiting {
		t.Fatalf("rejected command moved the table: step %d phase %s", step, s.Phase)
	}

	s, ok, err = eg.Submit(BeginRound())
	if err != nil || !ok {
		t.Fatalf("BeginRound: ok=%v err=%v", ok, err)
	}
	if s.Phase != PhaseTsumo || eg.Status() != engines.TableInProgress {
		t.Fatalf("after deal: phase %s status %s", s.Phase, eg.Status())
	}
	if _, step := eg.Snapshot(); step != 1 {
		t.Fatalf("step %d, want 1", step)
	}
	if starts := pusher.ofType(EventRoundStart); len(starts) != 4 {
		t.Fatalf("round_start events %d, want 4", len(starts))
	}

	if _, ok, _ := eg.Submit(Draw(s.Actor)); !ok {
		t.Fatalf("dealer draw rejected")
	}
	state, step := eg.Snapshot()
	if step != 2 || state.Phase != PhaseDiscard {
		t.Fatalf("after draw: step %d phase %s", step, state.Phase)
	}
	if la := eg.LegalActions(state.Actor); len(la.Discard) == 0 {
		t.Fatalf("actor has no discard after drawing")
	}
}

func TestEngine_PlaysToGameEnd(t *testing.T) {
	eg, pusher, _, repo := newTestEngine(t, 5)
	rng := rand.New(rand.NewSource(5))

	for n := 0; n < 200000 && eg.Status() != engines.TableFinished; n++ {
		cmd, ok := pickCommand(eg.State(), rng)
		if !ok {
			t.Fatalf("no legal action in phase %s", eg.State().Phase)
		}
		if _, applied, err := eg.Submit(cmd); err != nil || !applied {
			t.Fatalf("%s: applied=%v err=%v", cmd, applied, err)
		}
	}
	if eg.Status() != engines.TableFinished {
		t.Fatalf("game not finished")
	}
	if len(pusher.ofType(EventGameEnd)) != 1 {
		t.Fatalf("expected exactly one game_end event")
	}
	if _, ok, err := eg.Submit(BeginRound()); ok || err != nil {
		t.Fatalf("finished table accepted a command: ok=%v err=%v", ok, err)
	}

	eg.Close()
	record, err := repo.FindGameRecord(context.Background(), eg.Persister.GetGameRecordID())
	if err != nil {
		t.Fatalf("game record not saved: %v", err)
	}
	if record.Status != entity.GameStatusCompleted || record.FinalResult == nil {
		t.Fatalf("record status %s result %v", record.Status, record.FinalResult)
	}
	if record.FinalResult.Points != eg.State().GameResult.Points {
		t.Fatalf("saved points %v, want %v", record.FinalResult.Points, eg.State().GameResult.Points)
	}
	rounds, err := repo.FindRoundRecords(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("round records: %v", err)
	}
	if len(rounds) != len(pusher.ofType(EventRoundEnd)) {
		t.Fatalf("round records %d, round_end events %d", len(rounds), len(pusher.ofType(EventRoundEnd)))
	}
	for _, r := range rounds {
		if r.RoundResult == nil {
			t.Fatalf("round %d saved without a result", r.HandNo)
		}
	}

	if _, _, err := eg.Submit(BeginRound()); !errors.Is(err, ErrTableClosed) {
		t.Fatalf("submit after close: %v", err)
	}
}

func TestEngine_InvariantViolationDamagesTable(t *testing.T) {
	eg, pusher, host, repo := newTestEngine(t, 9)
	if _, ok, err := eg.Submit(BeginRound()); !ok || err != nil {
		t.Fatalf("BeginRound: ok=%v err=%v", ok, err)
	}

	// 两家手里出现同一张物理牌
	view := eg.current.Load()
	broken := view.state.Clone()
	a, b := (broken.Actor+1)%4, (broken.Actor+2)%4
	broken.Players[a].Hand[0] = broken.Players[b].Hand[0]
	eg.current.Store(&tableView{state: broken, step: view.step})

	_, ok, err := eg.Submit(Draw(broken.Actor))
	if ok || !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected invariant violation, got ok=%v err=%v", ok, err)
	}
	if eg.Status() != engines.TableDamaged || !errors.Is(eg.Err(), ErrInvariantViolation) {
		t.Fatalf("status %s err %v", eg.Status(), eg.Err())
	}
	if !eg.LegalActions(broken.Actor).Empty() {
		t.Fatalf("damaged table still offers actions")
	}
	if _, step := eg.Snapshot(); step != view.step {
		t.Fatalf("damaged transition advanced the step to %d", step)
	}

	host.mu.Lock()
	destroyed := append([]string(nil), host.destroyed...)
	host.mu.Unlock()
	if len(destroyed) != 1 || destroyed[0] != "table-1" {
		t.Fatalf("destroy requests %v", destroyed)
	}
	if len(pusher.ofType(EventDamaged)) != 1 {
		t.Fatalf("expected one damaged event")
	}

	if _, _, err := eg.Submit(Draw(broken.Actor)); !errors.Is(err, ErrTableDamaged) {
		t.Fatalf("submit on damaged table: %v", err)
	}

	eg.Close()
	record, err := repo.FindGameRecordByTable(context.Background(), "table-1")
	if err != nil {
		t.Fatalf("aborted record not saved: %v", err)
	}
	if record.Status != entity.GameStatusAborted || record.AbortReason == "" {
		t.Fatalf("record status %s reason %q", record.Status, record.AbortReason)
	}
}

func TestEngine_Restore(t *testing.T) {
	eg, _, _, _ := newTestEngine(t, 21)
	rng := rand.New(rand.NewSource(21))
	for n := 0; n < 40; n++ {
		cmd, _ := pickCommand(eg.State(), rng)
		if _, ok, err := eg.Submit(cmd); !ok || err != nil {
			t.Fatalf("%s: ok=%v err=%v", cmd, ok, err)
		}
	}
	state, step := eg.Snapshot()
	data, err := MarshalSnapshotBSON(state)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := UnmarshalSnapshotBSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	restored := eg.Clone().(*RiichiMahjong4p)
	if err := restored.Restore("table-1", decoded, step); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	defer restored.Close()
	if err := restored.Restore("table-1", decoded, step); err == nil {
		t.Fatalf("second Restore must fail")
	}

	got, gotStep := restored.Snapshot()
	if gotStep != step || got.Phase != state.Phase || got.Actor != state.Actor {
		t.Fatalf("restored step %d phase %s actor %d, want %d %s %d", gotStep, got.Phase, got.Actor, step, state.Phase, state.Actor)
	}

	// 两张牌桌收到同样的命令，结果一致
	for n := 0; n < 40; n++ {
		cmd, ok := pickCommand(eg.State(), rng)
		if !ok {
			break
		}
		a, okA, errA := eg.Submit(cmd)
		b, okB, errB := restored.Submit(cmd)
		if okA != okB || errA != nil || errB != nil {
			t.Fatalf("%s diverged: %v/%v %v/%v", cmd, okA, okB, errA, errB)
		}
		if a.Phase != b.Phase || a.Actor != b.Actor || a.Wall.Cursor != b.Wall.Cursor {
			t.Fatalf("%s diverged: %s/%d vs %s/%d", cmd, a.Phase, a.Actor, b.Phase, b.Actor)
		}
	}
}

func TestEngine_RestoreRejectsBrokenState(t *testing.T) {
	s := rig(t, [4]string{kokushiHand, tanyaoWaitA, tanyaoWaitB, tanyaoWaitC}, "5p")
	s.Players[1].Hand[0] = s.Players[2].Hand[0]

	eg := NewRiichiMahjong4p(DefaultRules(), nil, nil, nil)
	if err := eg.Restore("table-2", s, 7); !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
	if err := eg.Restore("table-2", nil, 0); err == nil {
		t.Fatalf("nil state must be rejected")
	}
	eg.Close()
}

func TestEngine_ConcurrentSubmit(t *testing.T) {
	eg, _, _, _ := newTestEngine(t, 13)
	if _, ok, _ := eg.Submit(BeginRound()); !ok {
		t.Fatalf("BeginRound rejected")
	}
	actor := eg.State().Actor

	// 同一时刻多个座位抢着摸牌，只有一个生效
	var wg sync.WaitGroup
	var mu sync.Mutex
	applied := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, err := eg.Submit(Draw(actor)); ok && err == nil {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if applied != 1 {
		t.Fatalf("%d draws applied, want 1", applied)
	}
	if _, step := eg.Snapshot(); step != 2 {
		t.Fatalf("step %d, want 2", step)
	}
}
