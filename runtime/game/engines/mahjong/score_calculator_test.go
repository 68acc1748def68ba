package mahjong

import (
	"testing"
)

// winFrom 从手牌中取出和了牌（同种取最后一张）
func winFrom(t *testing.T, hand []Tile, kind TileType) Tile {
	t.Helper()
	for i := len(hand) - 1; i >= 0; i-- {
		if hand[i].Type == kind {
			return hand[i]
		}
	}
	t.Fatalf("hand %s has no %s", FormatTiles(hand), kind)
	return Tile{}
}

func scoreInput(hand []Tile, win Tile, tsumo, dealer bool, seat, round Wind) ScoreInput {
	return ScoreInput{
		Ctx: YakuContext{
			WinTile:       win,
			Hand:          Hand34FromTiles(hand),
			Tsumo:         tsumo,
			SeatWind:      seat,
			RoundWind:     round,
			OpenTanyao:    true,
			DoubleYakuman: true,
		},
		Dealer: dealer,
		Tiles:  hand,
	}
}

// scenarioAInput 111m 234m 555p 678p 99s 庄家自摸 9s
func scenarioAInput() ScoreInput {
	hand := MustParseTiles("111m234m555p678p99s")
	return scoreInput(hand, hand[len(hand)-1], true, true, WindEast, WindEast)
}

func yakuSet(ws *WinScore) map[Yaku]bool {
	out := make(map[Yaku]bool, len(ws.Yaku))
	for _, y := range ws.Yaku {
		out[y.Yaku] = true
	}
	return out
}

func TestScoreHand_DealerTsumoTriplets(t *testing.T) {
	ws, ok := ScoreHand(scenarioAInput())
	if !ok {
		t.Fatalf("expected a scoring hand")
	}
	if len(ws.Yaku) != 1 || ws.Yaku[0].Yaku != YakuTsumo {
		t.Fatalf("expected only menzen tsumo, got %+v", ws.Yaku)
	}
	// 20 + 自摸 2 + 幺九暗刻 8 + 中张暗刻 4 + 单骑 2 = 36 -> 40
	if ws.Han != 1 || ws.Fu != 40 {
		t.Fatalf("expected 1 han 40 fu, got %d han %d fu", ws.Han, ws.Fu)
	}
	if ws.TsumoNonDealer != 700 || ws.TsumoDealer != 0 || ws.Total != 2100 {
		t.Fatalf("expected 700 all (2100), got %+v", ws)
	}
	if ws.Limit != LimitNone {
		t.Fatalf("expected no limit, got %s", ws.Limit)
	}
}

func TestScoreHand_HonbaAddsPerPayer(t *testing.T) {
	in := scenarioAInput()
	in.Honba = 2
	ws, ok := ScoreHand(in)
	if !ok {
		t.Fatalf("expected a scoring hand")
	}
	if ws.TsumoNonDealer != 900 || ws.Total != 2700 {
		t.Fatalf("expected 900 all with 2 honba, got %d (total %d)", ws.TsumoNonDealer, ws.Total)
	}
}

func TestScoreHand_DoraReachesHaneman(t *testing.T) {
	in := scenarioAInput()
	// 8s -> 9s 两张，4p -> 5p 三张
	in.DoraIndicators = []Tile{tt(So8), tt(Pin4)}
	ws, ok := ScoreHand(in)
	if !ok {
		t.Fatalf("expected a scoring hand")
	}
	if ws.Dora != 5 || ws.Han != 6 {
		t.Fatalf("expected 5 dora and 6 han, got dora %d han %d", ws.Dora, ws.Han)
	}
	if ws.Limit != LimitHaneman || ws.TsumoNonDealer != 6000 || ws.Total != 18000 {
		t.Fatalf("expected haneman 6000 all, got %s %d", ws.Limit, ws.TsumoNonDealer)
	}
}

func TestScoreHand_ManganCap(t *testing.T) {
	in := scenarioAInput()
	in.DoraIndicators = []Tile{tt(So8), tt(Man9)}
	// 8s -> 9s 两张，9m -> 1m 三张
	ws, ok := ScoreHand(in)
	if !ok {
		t.Fatalf("expected a scoring hand")
	}
	if ws.Han != 6 {
		t.Fatalf("expected 6 han, got %d", ws.Han)
	}

	in.DoraIndicators = []Tile{tt(So8)}
	ws, _ = ScoreHand(in)
	// 3 han 40 fu 基本点 1280
	if ws.Han != 3 || ws.Base != 1280 || ws.TsumoNonDealer != 2600 {
		t.Fatalf("expected 3 han 40 fu 2600 all, got %d han base %d pay %d", ws.Han, ws.Base, ws.TsumoNonDealer)
	}

	in.DoraIndicators = []Tile{tt(So8), tt(Man3)}
	ws, _ = ScoreHand(in)
	// 4 han 40 fu 基本点 2560 封顶满贯
	if ws.Han != 4 || ws.Limit != LimitMangan || ws.TsumoNonDealer != 4000 {
		t.Fatalf("expected mangan 4000 all, got %d han %s %d", ws.Han, ws.Limit, ws.TsumoNonDealer)
	}
}

func TestScoreHand_RonWithoutYaku(t *testing.T) {
	in := scenarioAInput()
	in.Ctx.Tsumo = false
	// 宝牌不是役
	in.DoraIndicators = []Tile{tt(So8)}
	if ws, ok := ScoreHand(in); ok {
		t.Fatalf("menzen ron without yaku must not score, got %+v", ws)
	}
}

func TestScoreHand_ChiitoiRon(t *testing.T) {
	hand := MustParseTiles("11m33m55p77p99s22z44z")
	win := winFrom(t, hand, North)
	ws, ok := ScoreHand(scoreInput(hand, win, false, false, WindWest, WindEast))
	if !ok {
		t.Fatalf("expected chiitoi to score")
	}
	if ws.Shape != ShapeChiitoi || !yakuSet(ws)[YakuChiitoi] {
		t.Fatalf("expected chiitoi shape, got %+v", ws)
	}
	if ws.Fu != 25 || ws.Han != 2 || ws.RonPayment != 1600 {
		t.Fatalf("expected 2 han 25 fu 1600, got %d han %d fu %d", ws.Han, ws.Fu, ws.RonPayment)
	}

	h13 := Hand34FromTiles(hand)
	if got := ShantenChiitoi(h13); got != -1 {
		t.Fatalf("chiitoi agari shanten expected -1, got %d", got)
	}
	h13[int(North)]--
	if got := ShantenChiitoi(h13); got != 0 {
		t.Fatalf("chiitoi tenpai shanten expected 0, got %d", got)
	}
}

func TestScoreHand_PinfuRonAndTsumo(t *testing.T) {
	hand := MustParseTiles("234m55m456p789s234s")
	win := winFrom(t, hand, Man4)

	ws, ok := ScoreHand(scoreInput(hand, win, false, false, WindSouth, WindEast))
	if !ok {
		t.Fatalf("expected pinfu to score")
	}
	if !yakuSet(ws)[YakuPinfu] || ws.Fu != 30 || ws.RonPayment != 1000 {
		t.Fatalf("expected pinfu ron 30 fu 1000, got %+v", ws)
	}

	ws, ok = ScoreHand(scoreInput(hand, win, true, false, WindSouth, WindEast))
	if !ok {
		t.Fatalf("expected pinfu tsumo to score")
	}
	if ws.Han != 2 || ws.Fu != 20 || ws.TsumoDealer != 700 || ws.TsumoNonDealer != 400 {
		t.Fatalf("expected 2 han 20 fu 400/700, got %d han %d fu %d/%d", ws.Han, ws.Fu, ws.TsumoNonDealer, ws.TsumoDealer)
	}
}

func TestScoreHand_RiichiIppatsuUra(t *testing.T) {
	hand := MustParseTiles("234m55m456p789s234s")
	in := scoreInput(hand, winFrom(t, hand, Man4), true, false, WindSouth, WindEast)
	in.Ctx.Riichi = true
	in.Ctx.Ippatsu = true
	ws, ok := ScoreHand(in)
	if !ok {
		t.Fatalf("expected a scoring hand")
	}
	got := yakuSet(ws)
	for _, y := range []Yaku{YakuRiichi, YakuIppatsu, YakuTsumo, YakuPinfu} {
		if !got[y] {
			t.Fatalf("expected %s, got %+v", y, ws.Yaku)
		}
	}
	if ws.Han != 4 || ws.TsumoDealer != 2600 || ws.TsumoNonDealer != 1300 {
		t.Fatalf("expected 4 han 20 fu 1300/2600, got %d han %d/%d", ws.Han, ws.TsumoNonDealer, ws.TsumoDealer)
	}

	// 1m -> 2m 里宝牌一张
	in.UraIndicators = []Tile{tt(Man1)}
	ws, _ = ScoreHand(in)
	if ws.Ura != 1 || ws.Limit != LimitMangan {
		t.Fatalf("expected 1 ura and mangan, got ura %d %s", ws.Ura, ws.Limit)
	}

	// 没有立直时里宝牌不计
	in.Ctx.Riichi = false
	in.Ctx.Ippatsu = false
	ws, _ = ScoreHand(in)
	if ws.Ura != 0 {
		t.Fatalf("ura must only count with riichi, got %d", ws.Ura)
	}
}

func TestScoreHand_RedFiveCounts(t *testing.T) {
	hand := MustParseTiles("234m05m456p789s234s")
	ws, ok := ScoreHand(scoreInput(hand, winFrom(t, hand, Man4), false, false, WindSouth, WindEast))
	if !ok {
		t.Fatalf("expected a scoring hand")
	}
	if ws.Aka != 1 || ws.Han != 2 {
		t.Fatalf("expected 1 aka for 2 han, got aka %d han %d", ws.Aka, ws.Han)
	}
}

func TestScoreHand_Yakuhai(t *testing.T) {
	hand := MustParseTiles("123m456p789s555z11s")
	ws, ok := ScoreHand(scoreInput(hand, winFrom(t, hand, So1), false, false, WindSouth, WindEast))
	if !ok {
		t.Fatalf("expected haku to score")
	}
	if !yakuSet(ws)[YakuHaku] {
		t.Fatalf("expected yakuhai haku, got %+v", ws.Yaku)
	}
}

func TestScoreHand_OpenTanyaoRule(t *testing.T) {
	hand := MustParseTiles("234m456m678s55s")
	in := scoreInput(hand, winFrom(t, hand, So5), false, false, WindSouth, WindEast)
	in.Ctx.Melds = []Meld{{Type: MeldPon, Tiles: MustParseTiles("222p"), From: 1}}
	ws, ok := ScoreHand(in)
	if !ok {
		t.Fatalf("expected open tanyao to score")
	}
	// 20 + 明刻 2 + 单骑 2 = 24 -> 30
	if !yakuSet(ws)[YakuTanyao] || ws.Fu != 30 || ws.RonPayment != 1000 {
		t.Fatalf("expected tanyao 30 fu 1000, got %+v", ws)
	}

	in.Ctx.OpenTanyao = false
	if _, ok := ScoreHand(in); ok {
		t.Fatalf("open tanyao disabled, hand has no yaku")
	}
}

func TestScoreHand_KokushiThirteenWait(t *testing.T) {
	hand := MustParseTiles("19m19p19s1234567z1m")
	in := scoreInput(hand, winFrom(t, hand, Man1), false, false, WindSouth, WindEast)
	ws, ok := ScoreHand(in)
	if !ok {
		t.Fatalf("expected kokushi to score")
	}
	if ws.Yakuman != 2 || ws.RonPayment != 64000 {
		t.Fatalf("expected double yakuman 64000, got x%d %d", ws.Yakuman, ws.RonPayment)
	}

	in.Ctx.DoubleYakuman = false
	ws, _ = ScoreHand(in)
	if ws.Yakuman != 1 || ws.RonPayment != 32000 {
		t.Fatalf("expected single yakuman 32000, got x%d %d", ws.Yakuman, ws.RonPayment)
	}
}

func TestScoreHand_PicksHighestInterpretation(t *testing.T) {
	// 二杯口优于七对子
	hand := MustParseTiles("112233m445566p77s")
	ws, ok := ScoreHand(scoreInput(hand, winFrom(t, hand, So7), false, false, WindSouth, WindEast))
	if !ok {
		t.Fatalf("expected a scoring hand")
	}
	if !yakuSet(ws)[YakuRyanpeiko] || ws.Shape != ShapeStandard {
		t.Fatalf("expected ryanpeikou interpretation, got %+v", ws.Yaku)
	}
}

func TestDoraFrom_Wraps(t *testing.T) {
	cases := map[TileType]TileType{
		Man9:  Man1,
		Pin4:  Pin5,
		North: East,
		West:  North,
		Red:   White,
		White: Green,
	}
	for ind, want := range cases {
		if got := DoraFrom(ind); got != want {
			t.Fatalf("indicator %s expected dora %s, got %s", ind, want, got)
		}
	}
}
