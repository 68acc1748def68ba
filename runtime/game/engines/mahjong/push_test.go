package mahjong

import (
	"encoding/json"
	"testing"
)

func eventsOf(events []TableEvent, typ TableEventType) []TableEvent {
	var out []TableEvent
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func applyEvents(t *testing.T, s *GameState, cmd Command) (*GameState, []TableEvent) {
	t.Helper()
	next := mustApply(t, s, cmd)
	return next, buildEvents("t", 1, s, next, cmd)
}

func TestBuildEvents_RoundStartIsPrivate(t *testing.T) {
	s, events := applyEvents(t, NewGame(DefaultRules(), 4), BeginRound())
	starts := eventsOf(events, EventRoundStart)
	if len(starts) != 4 || len(events) != 4 {
		t.Fatalf("expected 4 round_start events only, got %d of %d", len(starts), len(events))
	}
	for seat, ev := range starts {
		dto := ev.Data.(RoundStartDTO)
		if !ev.Private || ev.Seat != seat {
			t.Fatalf("round_start for seat %d must be private, got seat %d private %v", seat, ev.Seat, ev.Private)
		}
		if len(dto.HandTiles) != HandSize {
			t.Fatalf("seat %d got %d tiles", seat, len(dto.HandTiles))
		}
		if dto.HandTiles[0].ID != s.Players[seat].ConcealedTiles()[0].ID {
			t.Fatalf("seat %d received another seat's hand", seat)
		}
		if dto.Situation.Remaining != s.Wall.Remaining() || len(dto.DoraIndicators) != 1 {
			t.Fatalf("bad situation %+v", dto.Situation)
		}
	}

	s, events = applyEvents(t, s, Draw(s.Actor))
	if len(events) != 1 || events[0].Type != EventDraw || !events[0].Private || events[0].Seat != s.Actor {
		t.Fatalf("draw must be private to the drawer, got %+v", events)
	}
	if dto := events[0].Data.(DrawTileDTO); dto.Tile.ID != s.Players[s.Actor].Drawn.ID || dto.Rinshan {
		t.Fatalf("bad draw payload %+v", dto)
	}

	_, events = applyEvents(t, s, DiscardTile(s.Actor, s.Players[s.Actor].Drawn))
	discards := eventsOf(events, EventDiscard)
	if len(discards) != 1 || discards[0].Private {
		t.Fatalf("discard must be public, got %+v", discards)
	}
	if dto := discards[0].Data.(DiscardTileDTO); !dto.Tsumogiri || dto.Riichi {
		t.Fatalf("discarding the drawn tile is tsumogiri, got %+v", dto)
	}
}

func TestBuildEvents_CallOptionsAndRoundEnd(t *testing.T) {
	s := rig(t, [4]string{kokushiHand, tanyaoWaitA, tanyaoWaitB, shanponHand}, "5p")
	s = mustApply(t, s, Draw(0))

	s, events := applyEvents(t, s, DiscardTile(0, s.Players[0].Drawn))
	options := eventsOf(events, EventCallOptions)
	if len(options) != 2 || options[0].Seat != 1 || options[1].Seat != 2 {
		t.Fatalf("expected call options for seats 1 and 2, got %+v", options)
	}
	for _, ev := range options {
		if !ev.Private || !ev.Data.(LegalActions).Ron {
			t.Fatalf("call options must be private and offer ron, got %+v", ev)
		}
	}

	// 座位 1 仍在等待，不重复推送
	s, events = applyEvents(t, s, DeclareWinByDiscard(2))
	if len(events) != 0 {
		t.Fatalf("expected no events while waiting, got %+v", events)
	}

	s, events = applyEvents(t, s, DeclareWinByDiscard(1))
	ends := eventsOf(events, EventRoundEnd)
	if len(ends) != 1 || ends[0].Private {
		t.Fatalf("expected one public round_end, got %+v", events)
	}
	dto := ends[0].Data.(RoundEndDTO)
	if dto.EndType != EndRon.String() || len(dto.Claims) != 2 {
		t.Fatalf("bad round end %+v", dto)
	}
	for _, c := range dto.Claims {
		if c.LoserSeat != 0 || c.Points <= 0 || len(c.Yaku) == 0 {
			t.Fatalf("bad claim %+v", c)
		}
	}
	if dto.Delta != s.Result.Deltas || dto.Points[1] != s.Players[1].Points {
		t.Fatalf("round end must carry deltas and points")
	}
}

func TestBuildEvents_PonFromAnotherSeat(t *testing.T) {
	s := rig(t, [4]string{kokushiHand, "19m147p147s23467z", "55p123m456m789m12z", "28m258s369p34567z"}, "5p")
	s = mustApply(t, s, Draw(0))
	s, events := applyEvents(t, s, DiscardTile(0, s.Players[0].Drawn))
	if options := eventsOf(events, EventCallOptions); len(options) != 1 || options[0].Seat != 2 {
		t.Fatalf("only seat 2 can pon, got %+v", options)
	}

	s, events = applyEvents(t, s, CallPon(2))
	melds := eventsOf(events, EventMeld)
	if len(melds) != 1 || melds[0].Seat != 2 {
		t.Fatalf("expected meld event for seat 2, got %+v", events)
	}
	dto := melds[0].Data.(MeldActionDTO)
	if dto.ActionType != MeldPon.String() || dto.Meld.From != 0 || len(dto.Meld.Tiles) != 3 {
		t.Fatalf("bad meld payload %+v", dto)
	}
	if len(eventsOf(events, EventDraw)) != 0 || s.Phase != PhaseDiscard || s.Actor != 2 {
		t.Fatalf("pon goes straight to discard without a draw")
	}
}

func TestBuildEvents_AddedKanRevealsDoraAndRinshan(t *testing.T) {
	s := chankanState(t)
	_, events := applyEvents(t, s, DeclineCall(2))

	melds := eventsOf(events, EventMeld)
	if len(melds) != 1 || melds[0].Seat != 1 || melds[0].Data.(MeldActionDTO).ActionType != MeldAddedKan.String() {
		t.Fatalf("expected added kan meld for seat 1, got %+v", melds)
	}
	dora := eventsOf(events, EventDora)
	if len(dora) != 1 || len(dora[0].Data.(DoraDTO).DoraIndicators) != 2 {
		t.Fatalf("expected dora event with 2 indicators, got %+v", dora)
	}
	draws := eventsOf(events, EventDraw)
	if len(draws) != 1 || !draws[0].Private || draws[0].Seat != 1 || !draws[0].Data.(DrawTileDTO).Rinshan {
		t.Fatalf("expected private rinshan draw for seat 1, got %+v", draws)
	}
}

func TestBuildEvents_GameEnd(t *testing.T) {
	prev := NewGame(DefaultRules(), 1)
	next := prev.Clone()
	next.Phase = PhaseGameResult
	next.GameResult = &GameResult{Ranking: [4]int{2, 0, 3, 1}, Points: [4]int{30000, 5000, 41000, 24000}}

	events := buildEvents("t", 9, prev, next, AdvanceToNextRound())
	ends := eventsOf(events, EventGameEnd)
	if len(ends) != 1 || ends[0].Step != 9 {
		t.Fatalf("expected one game_end event, got %+v", events)
	}
	ranking := ends[0].Data.(GameEndDTO).FinalRanking
	if ranking[0].SeatIndex != 2 || ranking[0].Points != 41000 || ranking[3].Rank != 4 || ranking[3].SeatIndex != 1 {
		t.Fatalf("bad ranking %+v", ranking)
	}

	data, err := json.Marshal(ends[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != string(EventGameEnd) || decoded["tableId"] != "t" {
		t.Fatalf("unexpected wire form %s", data)
	}
	if _, ok := decoded["private"]; ok {
		t.Fatalf("public events omit the private flag: %s", data)
	}
}

func TestDispatchPush_IgnoresPushErrors(t *testing.T) {
	eg := NewRiichiMahjong4p(DefaultRules(), nil, failingPusher{}, nil)
	eg.dispatchPush([]TableEvent{{TableID: "t", Type: EventDora}})

	eg = NewRiichiMahjong4p(DefaultRules(), nil, nil, nil)
	eg.dispatchPush([]TableEvent{{TableID: "t", Type: EventDora}})
}

type failingPusher struct{}

func (failingPusher) Push(TableEvent) error { return ErrTableClosed }
