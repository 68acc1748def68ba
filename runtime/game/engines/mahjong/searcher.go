package mahjong

import (
	"sync"

	"riichi/common/cache"
	"riichi/common/log"
)

type Hand34 [KindLimit]uint8

// Candidate 打出某种牌后听牌
type Candidate struct {
	DiscardType    TileType
	DiscardOptions []Tile     // 实体牌：红5/普通5供 UI 选择
	Waits          []TileType // 听哪些牌
	Ukeire         int        // 有效张数
}

// Searcher 向听、和牌、听牌计算，结果按 (手牌, 副露数) 缓存
// 缓存只是记忆化，不影响结果，多个牌桌可以共用一个 Searcher
type Searcher struct {
	cache *cache.GeneralCache
}

var (
	defaultSearcher     *Searcher
	defaultSearcherOnce sync.Once
)

// DefaultSearcher 进程内共享的 Searcher
func DefaultSearcher() *Searcher {
	defaultSearcherOnce.Do(func() {
		defaultSearcher = NewSearcher()
	})
	return defaultSearcher
}

func NewSearcher() *Searcher {
	c, err := cache.NewGeneralCache(1<<20, 1<<17, 0)
	if err != nil {
		log.Warn("向听缓存创建失败，退化为无缓存计算: %v", err)
		return &Searcher{}
	}
	return &Searcher{cache: c}
}

// NewUncachedSearcher 不带缓存，基准测试对比用
func NewUncachedSearcher() *Searcher {
	return &Searcher{}
}

func (s *Searcher) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

// SeekCandidates 弃牌后,有哪些牌听牌，是否允许立直由引擎层判断
func (s *Searcher) SeekCandidates(hand14 []Tile, fixedMelds int, visible *Hand34) []Candidate {
	h14 := Hand34FromTiles(hand14)
	var out []Candidate

	for i := 0; i < KindLimit; i++ {
		if h14[i] == 0 {
			continue
		}

		h13 := h14
		h13[i]--

		waits := s.Waits(h13, fixedMelds)
		if len(waits) == 0 {
			continue
		}

		out = append(out, Candidate{
			DiscardType:    TileType(i),
			DiscardOptions: distinctTilesOfType(hand14, TileType(i)),
			Waits:          waits,
			Ukeire:         ukeireByWaits(h13, waits, visible),
		})
	}

	return out
}

// distinctTilesOfType 同种牌中区分赤/非赤各取一张
func distinctTilesOfType(tiles []Tile, tt TileType) []Tile {
	var out []Tile
	seenRed, seenPlain := false, false
	for _, t := range tiles {
		if t.Type != tt {
			continue
		}
		if t.Red && !seenRed {
			seenRed = true
			out = append(out, t)
		}
		if !t.Red && !seenPlain {
			seenPlain = true
			out = append(out, t)
		}
	}
	return out
}

// Waits 枚举 13 张（减去副露）手牌的听牌
func (s *Searcher) Waits(h13 Hand34, fixedMelds int) []TileType {
	key := "w" + h13.keyWithFixedMelds(fixedMelds)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if waits, ok := v.([]TileType); ok {
				return append([]TileType(nil), waits...)
			}
		}
	}

	var waits []TileType
	for t := 0; t < KindLimit; t++ {
		if h13[t] >= 4 {
			continue
		}
		work := h13
		work[t]++
		if s.IsAgariAll(work, fixedMelds) {
			waits = append(waits, TileType(t))
		}
	}

	if s.cache != nil {
		s.cache.Set(key, append([]TileType(nil), waits...))
	}
	return waits
}

// WaitsAndUkeire 枚举听牌 + 计算进张
func (s *Searcher) WaitsAndUkeire(h13 Hand34, fixedMelds int, visible *Hand34) ([]TileType, int) {
	waits := s.Waits(h13, fixedMelds)
	return waits, ukeireByWaits(h13, waits, visible)
}

// ukeireByWaits 计算听牌的进张数
func ukeireByWaits(h13 Hand34, waits []TileType, visible *Hand34) int {
	ukeire := 0
	for _, tt := range waits {
		idx := int(tt)
		add := 4 - int(h13[idx])
		if visible != nil {
			add -= int((*visible)[idx])
		}
		if add > 0 {
			ukeire += add
		}
	}
	return ukeire
}

// IsAgariAll 是否和牌，有副露时只看一般形
func (s *Searcher) IsAgariAll(h Hand34, fixedMelds int) bool {
	key := "a" + h.keyWithFixedMelds(fixedMelds)
	if s.cache != nil {
		if v, ok := s.cache.GetBool(key); ok {
			return v
		}
	}

	ok := IsAgariNormal(h, fixedMelds)
	if !ok && fixedMelds == 0 {
		ok = IsAgariChiitoi(h) || IsAgariKokushi(h)
	}

	if s.cache != nil {
		s.cache.Set(key, ok)
	}
	return ok
}

// ShantenAll 向听数，带副露；-1 和了，0 听牌
func (s *Searcher) ShantenAll(h Hand34, fixedMelds int) int {
	key := "s" + h.keyWithFixedMelds(fixedMelds)
	if s.cache != nil {
		if v, ok := s.cache.GetInt(key); ok {
			return v
		}
	}

	best := ShantenNormal(h, fixedMelds)
	if fixedMelds == 0 {
		if v := ShantenChiitoi(h); v < best {
			best = v
		}
		if v := ShantenKokushi(h); v < best {
			best = v
		}
	}

	if s.cache != nil {
		s.cache.Set(key, best)
	}
	return best
}

// IsAgariNormal 普通牌型是否和牌，核心思想，找雀头、组面子
func IsAgariNormal(h Hand34, fixedMelds int) bool {
	need := 4 - fixedMelds // 需要组成的面子数
	if need < 0 || h.Count() != need*3+2 {
		return false
	}

	for j := 0; j < KindLimit; j++ {
		if h[j] < 2 {
			continue
		}
		work := h
		work[j] -= 2
		if canFormMelds(&work, need) {
			return true
		}
	}
	return false
}

// IsAgariChiitoi 七对子：七种不同的对子
func IsAgariChiitoi(h Hand34) bool {
	pairs := 0
	for i := 0; i < KindLimit; i++ {
		switch h[i] {
		case 0:
		case 2:
			pairs++
		default:
			return false
		}
	}
	return pairs == 7
}

// IsAgariKokushi 国士无双：13 种幺九各一张，其中一种成对
func IsAgariKokushi(h Hand34) bool {
	if h.Count() != 14 {
		return false
	}
	unique, pair := kokushiCounts(h)
	return unique == 13 && pair
}

func kokushiCounts(h Hand34) (unique int, pair bool) {
	for _, idx := range kokushiTiles {
		if h[idx] > 0 {
			unique++
			if h[idx] >= 2 {
				pair = true
			}
		}
	}
	return unique, pair
}

func canFormMelds(h *Hand34, need int) bool {
	// 找第一个非 0
	i := -1
	for k := 0; k < KindLimit; k++ {
		if (*h)[k] > 0 {
			i = k
			break
		}
	}
	if i == -1 {
		return need == 0
	}
	if need == 0 {
		return false
	}
	// 刻子
	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		ok := canFormMelds(h, need-1)
		(*h)[i] += 3
		if ok {
			return true
		}
	}
	// 顺子（仅数牌）
	if canStartRun(h, i) {
		takeRun(h, i)
		ok := canFormMelds(h, need-1)
		putRun(h, i)
		if ok {
			return true
		}
	}
	return false
}

// ShantenKokushi 国士无双向听数
func ShantenKokushi(h Hand34) int {
	unique, pair := kokushiCounts(h)
	sh := 13 - unique
	if pair {
		sh--
	}
	return sh
}

// ShantenChiitoi 七对子向听数
func ShantenChiitoi(h Hand34) int {
	pairs := 0
	unique := 0
	for i := 0; i < KindLimit; i++ {
		if h[i] > 0 {
			unique++
		}
		// 七对子的对子必须不同种，四张只算一对
		if h[i] >= 2 {
			pairs++
		}
	}
	sh := 6 - pairs
	if unique < 7 {
		sh += 7 - unique
	}
	return sh
}

// shantenAcc 一次一般形向听搜索的全局最优值，只在单次 ShantenNormal 调用内有效
type shantenAcc struct {
	best int
}

func (a *shantenAcc) fold(melds, partials, head int) {
	if partials > 4-melds {
		partials = 4 - melds
	}
	if v := 8 - 2*melds - partials - head; v < a.best {
		a.best = v
	}
}

// ShantenNormal 一般形向听数
// 先不指定雀头搜索一次，再对每个可作雀头的牌种各搜索一次；数牌逐张扫描，字牌单独计数
func ShantenNormal(h Hand34, fixedMelds int) int {
	acc := &shantenAcc{best: 8}
	acc.scan(&h, 0, fixedMelds, 0, 0)
	for i := 0; i < KindLimit; i++ {
		if h[i] < 2 {
			continue
		}
		h[i] -= 2
		acc.scan(&h, 0, fixedMelds, 0, 1)
		h[i] += 2
	}
	return acc.best
}

func (a *shantenAcc) scan(h *Hand34, i, melds, partials, head int) {
	if melds >= 4 {
		a.fold(melds, partials, head)
		return
	}
	for i < int(East) && (*h)[i] == 0 {
		i++
	}
	if i >= int(East) {
		a.scanHonors(h, melds, partials, head)
		return
	}

	// 刻子
	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		a.scan(h, i, melds+1, partials, head)
		(*h)[i] += 3
	}
	// 顺子
	if canStartRun(h, i) {
		takeRun(h, i)
		a.scan(h, i, melds+1, partials, head)
		putRun(h, i)
	}
	// 对子作搭子
	if (*h)[i] >= 2 {
		(*h)[i] -= 2
		a.scan(h, i, melds, partials+1, head)
		(*h)[i] += 2
	}
	// 两面/边张
	if i%9 <= 7 && (*h)[i+1] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		a.scan(h, i, melds, partials+1, head)
		(*h)[i]++
		(*h)[i+1]++
	}
	// 嵌张
	if i%9 <= 6 && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+2]--
		a.scan(h, i, melds, partials+1, head)
		(*h)[i]++
		(*h)[i+2]++
	}
	// 孤张
	(*h)[i]--
	a.scan(h, i, melds, partials, head)
	(*h)[i]++
}

func (a *shantenAcc) scanHonors(h *Hand34, melds, partials, head int) {
	for i := int(East); i < KindLimit; i++ {
		switch {
		case (*h)[i] >= 3:
			melds++
		case (*h)[i] == 2:
			partials++
		}
	}
	a.fold(melds, partials, head)
}

func canStartRun(h *Hand34, i int) bool {
	return TileType(i).IsNumbered() && i%9 <= 6 && (*h)[i] > 0 && (*h)[i+1] > 0 && (*h)[i+2] > 0
}

func takeRun(h *Hand34, i int) {
	(*h)[i]--
	(*h)[i+1]--
	(*h)[i+2]--
}

func putRun(h *Hand34, i int) {
	(*h)[i]++
	(*h)[i+1]++
	(*h)[i+2]++
}

// -------------- 基础工具：转换与 key --------------

func Hand34FromTiles(tiles []Tile) Hand34 {
	var h Hand34
	for _, t := range tiles {
		h[int(t.Type)]++
	}
	return h
}

func (h Hand34) Count() int {
	n := 0
	for _, c := range h {
		n += int(c)
	}
	return n
}

func (h Hand34) keyWithFixedMelds(fixedMelds int) string {
	var b [KindLimit + 1]byte
	for i := 0; i < KindLimit; i++ {
		b[i] = byte(h[i])
	}
	b[KindLimit] = byte(fixedMelds)
	return string(b[:])
}

var kokushiTiles = [13]int{
	int(Man1), int(Man9),
	int(Pin1), int(Pin9),
	int(So1), int(So9),
	int(East), int(South), int(West), int(North),
	int(White), int(Green), int(Red),
}
