package mahjong

import "math/rand"

const (
	HandSize     = 13
	DealTiles    = HandSize * 4
	DeadWallSize = 14
	LiveWallEnd  = TileLimit - DeadWallSize // 牌山中可摸部分的终点（不含）
	MaxKans      = 4

	replacementSlots = 4 // 王牌 0-3 岭上牌
	doraSlot         = 4 // 王牌 4-8 宝牌指示牌
	uraSlot          = 9 // 王牌 9-13 里宝牌指示牌
)

// Wall 牌山
// Tiles[0:52] 配牌，Tiles[52:122] 可摸牌，Tiles[122:136] 王牌
// 每开一次杠摸一张岭上牌，王牌从牌山末尾补一张，所以可摸数同时减一
type Wall struct {
	Tiles      []Tile `json:"tiles" bson:"tiles"`
	Cursor     int    `json:"cursor" bson:"cursor"`
	DeadCursor int    `json:"deadCursor" bson:"deadCursor"`
	Revealed   int    `json:"revealed" bson:"revealed"`
}

// NewTileSet 136 张按物理编号排列的牌
func NewTileSet(redFives bool) []Tile {
	tiles := make([]Tile, TileLimit)
	for id := 0; id < TileLimit; id++ {
		tiles[id] = NewTile(id, redFives)
	}
	return tiles
}

// BuildWall 由对局种子和开局序号确定性地洗牌，复盘只需要种子
func BuildWall(seed int64, dealNo int, redFives bool) Wall {
	var w Wall
	w.Reshuffle(seed, dealNo, redFives)
	return w
}

// Reshuffle 复用已有的 136 张牌重新洗牌，结果与 BuildWall 相同
func (w *Wall) Reshuffle(seed int64, dealNo int, redFives bool) {
	if cap(w.Tiles) < TileLimit {
		w.Tiles = NewTileSet(redFives)
	} else {
		w.Tiles = w.Tiles[:TileLimit]
		for id := range w.Tiles {
			w.Tiles[id] = NewTile(id, redFives)
		}
	}
	rng := rand.New(rand.NewSource(wallSeed(seed, dealNo)))
	rng.Shuffle(len(w.Tiles), func(i, j int) {
		w.Tiles[i], w.Tiles[j] = w.Tiles[j], w.Tiles[i]
	})
	w.Cursor = DealTiles
	w.DeadCursor = 0
	w.Revealed = 0
}

func wallSeed(seed int64, dealNo int) int64 {
	// splitmix64 混合，避免相邻局的种子相关
	z := uint64(seed) + uint64(dealNo+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}

// Deal 从庄家开始依次配牌，每人 13 张
func (w *Wall) Deal(dealer int) [4][]Tile {
	var hands [4][]Tile
	for i := range hands {
		hands[i] = make([]Tile, 0, HandSize+1)
	}
	pos := 0
	for pass := 0; pass < 3; pass++ {
		for k := 0; k < 4; k++ {
			seat := (dealer + k) % 4
			hands[seat] = append(hands[seat], w.Tiles[pos:pos+4]...)
			pos += 4
		}
	}
	for k := 0; k < 4; k++ {
		seat := (dealer + k) % 4
		hands[seat] = append(hands[seat], w.Tiles[pos])
		pos++
	}
	for i := range hands {
		SortTiles(hands[i])
	}
	return hands
}

// Remaining 剩余可摸牌数
func (w *Wall) Remaining() int {
	return LiveWallEnd - w.Cursor - w.DeadCursor
}

func (w *Wall) Draw() (Tile, bool) {
	if w.Remaining() <= 0 {
		return Tile{}, false
	}
	t := w.Tiles[w.Cursor]
	w.Cursor++
	return t, true
}

// DrawReplacement 摸岭上牌
func (w *Wall) DrawReplacement() (Tile, bool) {
	if w.DeadCursor >= replacementSlots || w.Remaining() <= 0 {
		return Tile{}, false
	}
	t := w.Tiles[LiveWallEnd+w.DeadCursor]
	w.DeadCursor++
	return t, true
}

// RevealDora 翻开下一张宝牌指示牌，返回宝牌指示牌与对应的里宝牌指示牌
func (w *Wall) RevealDora() (Tile, Tile, bool) {
	if w.Revealed >= 1+MaxKans {
		return Tile{}, Tile{}, false
	}
	dora := w.Tiles[LiveWallEnd+doraSlot+w.Revealed]
	ura := w.Tiles[LiveWallEnd+uraSlot+w.Revealed]
	w.Revealed++
	return dora, ura, true
}

// Undrawn 尚在牌山中（含王牌）的牌
func (w *Wall) Undrawn() []Tile {
	out := make([]Tile, 0, TileLimit-w.Cursor)
	out = append(out, w.Tiles[w.Cursor:LiveWallEnd]...)
	out = append(out, w.Tiles[LiveWallEnd+w.DeadCursor:]...)
	return out
}

func (w Wall) clone() Wall {
	w.Tiles = append([]Tile(nil), w.Tiles...)
	return w
}
