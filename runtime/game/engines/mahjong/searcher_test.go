package mahjong

import (
	"testing"
)

func tt(t TileType) Tile {
	return Tile{Type: t, ID: int(t) * 4}
}

func tiles(types ...TileType) []Tile {
	out := make([]Tile, 0, len(types))
	for _, t := range types {
		out = append(out, tt(t))
	}
	return out
}

func hand34(notation string) Hand34 {
	return Hand34FromTiles(MustParseTiles(notation))
}

func TestRiichiSearcher_KokushiShantenAndAgari(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	// 国士十三面听
	h13 := Hand34FromTiles(tiles(
		Man1, Man9,
		Pin1, Pin9,
		So1, So9,
		East, South, West, North,
		White, Green, Red,
	))
	if got := s.ShantenAll(h13, 0); got != 0 {
		t.Fatalf("kokushi shanten expected 0, got %d", got)
	}
	if waits := s.Waits(h13, 0); len(waits) != 13 {
		t.Fatalf("kokushi 13-sided wait expected 13 waits, got %v", waits)
	}

	h14 := h13
	h14[int(Man1)]++
	if !s.IsAgariAll(h14, 0) {
		t.Fatalf("kokushi agari expected true")
	}
	// 有副露时只看一般形
	if s.IsAgariAll(h14, 1) {
		t.Fatalf("kokushi with melds must not be agari")
	}
}

func TestRiichiSearcher_ChiitoiShantenAndAgari(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	// 6 对 + 1 张单牌 => 七对子听牌
	h13 := Hand34FromTiles(tiles(
		Man1, Man1,
		Man2, Man2,
		Man3, Man3,
		Pin1, Pin1,
		Pin2, Pin2,
		So1, So1,
		East,
	))
	if got := s.ShantenAll(h13, 0); got != 0 {
		t.Fatalf("chiitoi shanten expected 0, got %d", got)
	}

	waits, ukeire := s.WaitsAndUkeire(h13, 0, nil)
	if len(waits) != 1 || waits[0] != East {
		t.Fatalf("chiitoi waits expected [East], got %v", waits)
	}
	if ukeire != 3 {
		t.Fatalf("chiitoi ukeire expected 3 (4-1), got %d", ukeire)
	}

	h14 := h13
	h14[int(East)]++
	if !s.IsAgariAll(h14, 0) {
		t.Fatalf("chiitoi agari expected true")
	}
	if got := ShantenChiitoi(h14); got != -1 {
		t.Fatalf("chiitoi 14-tile shanten expected -1, got %d", got)
	}
}

func TestRiichiSearcher_ChiitoiRejectsFourOfAKind(t *testing.T) {
	// 四张同种不能当两对
	h := hand34("1111m22p33p44s55s6z")
	h[int(Red)] += 1
	if IsAgariChiitoi(h) {
		t.Fatalf("four of a kind must not count as two pairs")
	}
}

func TestRiichiSearcher_NormalAgari(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	// 123m 123p 123s 789m + EE
	h14 := Hand34FromTiles(tiles(
		Man1, Man2, Man3,
		Pin1, Pin2, Pin3,
		So1, So2, So3,
		Man7, Man8, Man9,
		East, East,
	))
	if !s.IsAgariAll(h14, 0) {
		t.Fatalf("normal agari expected true")
	}
	if got := s.ShantenAll(h14, 0); got != -1 {
		t.Fatalf("agari shanten expected -1, got %d", got)
	}

	// 副露一组后手牌 11 张
	h11 := hand34("123p123s789m11z")
	if !s.IsAgariAll(h11, 1) {
		t.Fatalf("agari with one meld expected true")
	}
}

func TestRiichiSearcher_Waits(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	cases := []struct {
		hand  string
		melds int
		want  []TileType
	}{
		{"123m456p789s1122z", 0, []TileType{East, South}},
		{"1112345678999m", 0, []TileType{Man1, Man2, Man3, Man4, Man5, Man6, Man7, Man8, Man9}},
		{"23m456p789s11z", 1, []TileType{Man1, Man4}},
		{"13m456p789s11z", 1, []TileType{Man2}},
		{"12m456p789s11z", 1, []TileType{Man3}},
		{"123m456p789s1z", 1, []TileType{East}},
	}
	for _, c := range cases {
		got := s.Waits(hand34(c.hand), c.melds)
		if len(got) != len(c.want) {
			t.Fatalf("%s waits expected %v, got %v", c.hand, c.want, got)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%s waits expected %v, got %v", c.hand, c.want, got)
			}
		}
	}
}

func TestRiichiSearcher_VisibleReducesUkeire(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	h13 := hand34("23m456p789s11z555s")
	var visible Hand34
	visible[int(Man1)] = 2
	visible[int(Man4)] = 4
	waits, ukeire := s.WaitsAndUkeire(h13, 0, &visible)
	if len(waits) != 2 {
		t.Fatalf("waits expected [1m 4m], got %v", waits)
	}
	if ukeire != 2 {
		t.Fatalf("ukeire expected 2 after visible tiles, got %d", ukeire)
	}
}

func TestRiichiSearcher_SeekCandidates(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	// 123m 123p 123s 78m EE + 1s：打 1s 听 6m/9m
	hand14 := tiles(
		Man1, Man2, Man3,
		Pin1, Pin2, Pin3,
		So1, So2, So3,
		Man7, Man8,
		East, East,
		So1,
	)
	cands := s.SeekCandidates(hand14, 0, nil)
	var found bool
	for _, c := range cands {
		if c.DiscardType != So1 {
			continue
		}
		found = true
		if len(c.Waits) != 2 || c.Waits[0] != Man6 || c.Waits[1] != Man9 {
			t.Fatalf("discard 1s waits expected [6m 9m], got %v", c.Waits)
		}
		if c.Ukeire != 8 {
			t.Fatalf("discard 1s ukeire expected 8, got %d", c.Ukeire)
		}
	}
	if !found {
		t.Fatalf("expected candidate discarding 1s, got %+v", cands)
	}
}

func TestRiichiSearcher_SeekCandidatesRedFiveOptions(t *testing.T) {
	s := NewSearcher()
	defer s.Close()

	hand := MustParseTiles("055m123p456s789s11z")
	for _, c := range s.SeekCandidates(hand, 0, nil) {
		if c.DiscardType != Man5 {
			continue
		}
		if len(c.DiscardOptions) != 2 {
			t.Fatalf("5m options expected red and plain, got %v", c.DiscardOptions)
		}
		return
	}
	t.Fatalf("expected candidate discarding 5m")
}

func TestShantenNormal_Known(t *testing.T) {
	cases := []struct {
		hand string
		want int
	}{
		{"123m456p789s1122z", 0},
		{"123m456p789s234m11z", -1},
		{"123m456p789s1z357z", 2},
		{"147m258p369s1234z", 8},
		{"19m19p19s1234567z", 8},
	}
	for _, c := range cases {
		if got := ShantenNormal(hand34(c.hand), 0); got != c.want {
			t.Fatalf("%s normal shanten expected %d, got %d", c.hand, c.want, got)
		}
	}
}

// 一般形向听为 -1 当且仅当能拆解出和牌
func TestShantenNormal_ConsistentWithDecompose(t *testing.T) {
	s := NewUncachedSearcher()
	wall := BuildWall(7, 0, false)
	for start := 0; start+14 <= 120; start += 3 {
		h := Hand34FromTiles(wall.Tiles[start : start+14])
		agari := IsAgariNormal(h, 0)
		if got := len(Decompose(h, 0).Standard) > 0; got != agari {
			t.Fatalf("decompose/agari mismatch at %d: decompose=%t agari=%t", start, got, agari)
		}
		if sh := ShantenNormal(h, 0); (sh == -1) != agari {
			t.Fatalf("shanten/agari mismatch at %d: shanten=%d agari=%t", start, sh, agari)
		}
		if s.ShantenAll(h, 0) > ShantenNormal(h, 0) {
			t.Fatalf("ShantenAll must not exceed normal shanten")
		}
	}
}

func TestDecompose_EnumeratesAllShapes(t *testing.T) {
	// 111222333m 可拆为三刻子或三顺子
	info := Decompose(hand34("111222333m456p11z"), 0)
	if len(info.Standard) != 2 {
		t.Fatalf("expected 2 decompositions, got %d: %+v", len(info.Standard), info.Standard)
	}
	// 二杯口形同时是七对子
	info = Decompose(hand34("112233m445566p11z"), 0)
	if !info.Chiitoi || len(info.Standard) == 0 {
		t.Fatalf("ryanpeikou shape expected both chiitoi and standard, got %+v", info)
	}
}

func TestSearcher_CacheIsTransparent(t *testing.T) {
	cached := NewSearcher()
	defer cached.Close()
	plain := NewUncachedSearcher()

	wall := BuildWall(42, 3, true)
	for start := 0; start+13 <= 120; start += 13 {
		h := Hand34FromTiles(wall.Tiles[start : start+13])
		for round := 0; round < 2; round++ {
			if a, b := cached.ShantenAll(h, 0), plain.ShantenAll(h, 0); a != b {
				t.Fatalf("cached shanten %d != plain %d", a, b)
			}
			if a, b := cached.Waits(h, 0), plain.Waits(h, 0); len(a) != len(b) {
				t.Fatalf("cached waits %v != plain %v", a, b)
			}
		}
	}
}

func TestShantenChiitoi_Known(t *testing.T) {
	cases := []struct {
		hand string
		want int
	}{
		{"112233m445566p7z", 0},
		// 四张只算一对
		{"1111445588m8p5s5z", 2},
		{"1111m2233p4455s6z", 2},
		{"11112222m3333p4z", 6},
	}
	for _, c := range cases {
		if got := ShantenChiitoi(hand34(c.hand)); got != c.want {
			t.Fatalf("%s chiitoi shanten expected %d, got %d", c.hand, c.want, got)
		}
	}
}

// 换一张牌向听最多减一，所以 2 向听的手不可能一次换牌就听牌
func TestShantenAll_QuadInChiitoiShape(t *testing.T) {
	s := NewUncachedSearcher()
	h := hand34("1111445588m8p5s5z")
	if got := s.ShantenAll(h, 0); got != 2 {
		t.Fatalf("expected 2 shanten, got %d", got)
	}

	best := 8
	for k := 0; k < KindLimit; k++ {
		if h[k] == 0 {
			continue
		}
		for d := 0; d < KindLimit; d++ {
			if d == k || h[d] >= 4 {
				continue
			}
			next := h
			next[k]--
			next[d]++
			if got := s.ShantenAll(next, 0); got < best {
				best = got
			}
		}
	}
	if best != 1 {
		t.Fatalf("one swap should reach 1 shanten at best, got %d", best)
	}
}
