package selfplay

import (
	"context"
	"errors"
	"sync"
	"testing"

	"riichi/core/domain/repository"
	"riichi/runtime/game"
	"riichi/runtime/game/engines"
	"riichi/runtime/game/engines/mahjong"
)

func tonpuRules() mahjong.RuleSet {
	rules := mahjong.DefaultRules()
	rules.Length = mahjong.LengthTonpu
	return rules
}

func brainsOf(t *testing.T, level Level, seed int64) [4]Brain {
	t.Helper()
	var brains [4]Brain
	for seat := range brains {
		b, err := NewBrain(level, seed+int64(seat))
		if err != nil {
			t.Fatalf("NewBrain: %v", err)
		}
		brains[seat] = b
	}
	return brains
}

func newEngine(t *testing.T, seed int64) *mahjong.RiichiMahjong4p {
	t.Helper()
	eg := mahjong.NewRiichiMahjong4p(tonpuRules(), nil, nil, nil)
	if err := eg.InitializeEngine("selfplay", seed); err != nil {
		t.Fatalf("InitializeEngine: %v", err)
	}
	t.Cleanup(eg.Close)
	return eg
}

func checkFinal(t *testing.T, s *mahjong.GameState) {
	t.Helper()
	if s.Phase != mahjong.PhaseGameResult || s.GameResult == nil {
		t.Fatalf("game not finished: phase %s", s.Phase)
	}
	sum := 0
	for _, p := range s.GameResult.Points {
		sum += p
	}
	if sum != 4*s.Rules.InitialPoints {
		t.Fatalf("final points %v do not sum to %d", s.GameResult.Points, 4*s.Rules.InitialPoints)
	}
}

func TestPlay_RandomBrains(t *testing.T) {
	for seed := int64(1); seed <= 2; seed++ {
		s, steps, err := Play(newEngine(t, seed), brainsOf(t, LevelRandom, seed), 0)
		if err != nil {
			t.Fatalf("seed %d: %v after %d steps", seed, err, steps)
		}
		checkFinal(t, s)
	}
}

func TestPlay_GreedyBrains(t *testing.T) {
	s, steps, err := Play(newEngine(t, 4), brainsOf(t, LevelGreedy, 4), 0)
	if err != nil {
		t.Fatalf("%v after %d steps", err, steps)
	}
	checkFinal(t, s)

	wins := 0
	if s.Result != nil {
		wins = len(s.Result.Wins)
	}
	t.Logf("greedy game finished in %d steps, last round wins %d, points %v", steps, wins, s.GameResult.Points)
}

func TestPlay_StepLimit(t *testing.T) {
	s, steps, err := Play(newEngine(t, 9), brainsOf(t, LevelRandom, 9), 10)
	if !errors.Is(err, ErrStepLimit) || steps != 10 {
		t.Fatalf("expected step limit after 10 steps, got %d %v", steps, err)
	}
	if s.Phase == mahjong.PhaseGameResult {
		t.Fatalf("game cannot finish in 10 steps")
	}
}

func TestPlay_Uninitialized(t *testing.T) {
	eg := mahjong.NewRiichiMahjong4p(tonpuRules(), nil, nil, nil)
	if _, _, err := Play(eg, brainsOf(t, LevelRandom, 1), 0); err == nil {
		t.Fatalf("expected error for an uninitialized table")
	}
}

func TestNewBrain_UnknownLevel(t *testing.T) {
	if _, err := NewBrain(Level(7), 1); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestBrains_StayWithinLegalActions(t *testing.T) {
	eg := newEngine(t, 12)
	brains := [2]Brain{}
	brains[0], _ = NewBrain(LevelRandom, 12)
	brains[1], _ = NewBrain(LevelGreedy, 12)

	s := eg.State()
	for n := 0; n < 300 && s.Phase != mahjong.PhaseGameResult; n++ {
		cmd, ok := nextCommand(s, [4]Brain{brains[n%2], brains[n%2], brains[n%2], brains[n%2]})
		if !ok {
			t.Fatalf("no seat can act in phase %s", s.Phase)
		}
		if !s.LegalActions(cmd.Seat).Allows(cmd) {
			t.Fatalf("brain chose illegal %s", cmd)
		}
		next, applied, err := eg.Submit(cmd)
		if err != nil || !applied {
			t.Fatalf("%s: applied=%v err=%v", cmd, applied, err)
		}
		s = next
	}
}

type memorySnapshots struct {
	mu   sync.Mutex
	data map[string]*repository.TableSnapshot
}

func (m *memorySnapshots) SaveSnapshot(_ context.Context, snap *repository.TableSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.data[snap.TableID]; ok && cur.Step >= snap.Step {
		return repository.ErrStaleSnapshot
	}
	m.data[snap.TableID] = snap
	return nil
}

func (m *memorySnapshots) LoadSnapshot(_ context.Context, tableID string) (*repository.TableSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if snap, ok := m.data[tableID]; ok {
		return snap, nil
	}
	return nil, repository.ErrSnapshotNotFound
}

func (m *memorySnapshots) DeleteSnapshot(_ context.Context, tableID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, tableID)
	return nil
}

func TestPlay_RoomTableDeletesSnapshotWhenFinished(t *testing.T) {
	repo := &memorySnapshots{data: make(map[string]*repository.TableSnapshot)}
	rooms := game.NewRoomManager()
	engineType := engines.RIICHI_MAHJONG_4P_ENGINE.Int32()
	if err := rooms.SetEnginePrototype(engineType, mahjong.NewRiichiMahjong4p(tonpuRules(), nil, nil, nil)); err != nil {
		t.Fatalf("SetEnginePrototype: %v", err)
	}
	rooms.SetSnapshotRepository(repo, 0)
	defer rooms.CloseAll()

	table, err := rooms.CreateTable(engineType, 33)
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	s, _, err := Play(RoomTable{Rooms: rooms, TableID: table.ID}, brainsOf(t, LevelGreedy, 33), 0)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	checkFinal(t, s)

	snap, err := repo.LoadSnapshot(context.Background(), table.ID)
	if err != nil {
		t.Fatalf("final snapshot missing: %v", err)
	}
	final, err := mahjong.UnmarshalSnapshotBSON(snap.Data)
	if err != nil || final.Phase != mahjong.PhaseGameResult {
		t.Fatalf("final snapshot not at game end: %v", err)
	}

	if err := rooms.CloseTable(table.ID); err != nil {
		t.Fatalf("CloseTable: %v", err)
	}
	if _, err := repo.LoadSnapshot(context.Background(), table.ID); !errors.Is(err, repository.ErrSnapshotNotFound) {
		t.Fatalf("finished table snapshot must be deleted, got %v", err)
	}
	if (RoomTable{Rooms: rooms, TableID: table.ID}).State() != nil {
		t.Fatalf("closed table has no state")
	}
}
