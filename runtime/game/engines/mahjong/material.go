package mahjong

import (
	"fmt"
	"sort"
	"strings"
)

type Wind int

const (
	WindEast  Wind = iota // 东风
	WindSouth             // 南风
	WindWest              // 西风
	WindNorth             // 北风
)

type TileType int

const (
	// 万子 (0-8)
	Man1 TileType = iota
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9

	// 筒子 (9-17)
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9

	// 索子 (18-26)
	So1
	So2
	So3
	So4
	So5
	So6
	So7
	So8
	So9

	// 字牌 (27-33)
	East
	South
	West
	North
	White
	Green
	Red
)

const (
	TileLimit = 136 // 物理牌总数
	KindLimit = 34  // 牌种数
)

// Tile 物理牌，创建后不再修改
// ID 为物理编号 0-135，ID/4 即牌种，ID%4 为同种牌的副本序号
// 开启赤宝牌时，5m/5p/5s 的 0 号副本为赤牌
type Tile struct {
	Type TileType `json:"type" bson:"type"`
	ID   int      `json:"id" bson:"id"`
	Red  bool     `json:"red,omitempty" bson:"red,omitempty"`
}

// NewTile 由物理编号构造牌
func NewTile(id int, redFives bool) Tile {
	t := Tile{Type: TileType(id / 4), ID: id}
	t.Red = redFives && id%4 == 0 && t.Type.IsFive()
	return t
}

func (t TileType) IsNumbered() bool {
	return t >= Man1 && t <= So9
}

func (t TileType) IsHonor() bool {
	return t >= East && t <= Red
}

func (t TileType) IsWind() bool {
	return t >= East && t <= North
}

func (t TileType) IsDragon() bool {
	return t >= White && t <= Red
}

func (t TileType) IsFive() bool {
	return t == Man5 || t == Pin5 || t == So5
}

// IsTerminal 老头牌（数牌 1、9）
func (t TileType) IsTerminal() bool {
	return t.IsNumbered() && (t.Number() == 1 || t.Number() == 9)
}

// IsYaochu 幺九牌（1、9、字牌）
func (t TileType) IsYaochu() bool {
	return t.IsHonor() || t.IsTerminal()
}

// Suit 0 万 1 筒 2 索，字牌为 -1
func (t TileType) Suit() int {
	if !t.IsNumbered() {
		return -1
	}
	return int(t) / 9
}

// Number 数牌点数 1-9，字牌返回 0
func (t TileType) Number() int {
	if !t.IsNumbered() {
		return 0
	}
	return int(t)%9 + 1
}

// DoraFrom 指示牌对应的宝牌：数牌 9->1 循环，风牌 东南西北 循环，三元牌 白发中 循环
func DoraFrom(indicator TileType) TileType {
	switch {
	case indicator.IsNumbered():
		if indicator.Number() == 9 {
			return indicator - 8
		}
		return indicator + 1
	case indicator.IsWind():
		return East + (indicator-East+1)%4
	default:
		return White + (indicator-White+1)%3
	}
}

func (t TileType) String() string {
	if t.IsNumbered() {
		return fmt.Sprintf("%d%c", t.Number(), "mps"[t.Suit()])
	}
	if t.IsHonor() {
		return fmt.Sprintf("%dz", int(t-East)+1)
	}
	return "?"
}

func (t Tile) String() string {
	if t.Red {
		return fmt.Sprintf("0%c", "mps"[t.Type.Suit()])
	}
	return t.Type.String()
}

// IsRedFive 判断是否为赤宝牌
func (t Tile) IsRedFive() bool {
	return t.Red
}

func (w Wind) String() string {
	switch w {
	case WindEast:
		return "东"
	case WindSouth:
		return "南"
	case WindWest:
		return "西"
	case WindNorth:
		return "北"
	default:
		return "未知"
	}
}

func (w Wind) Next() Wind {
	return (w + 1) % 4
}

// TileType 风牌对应的牌种
func (w Wind) TileType() TileType {
	return East + TileType(w)
}

type MeldType int

const (
	MeldChi       MeldType = iota // 吃
	MeldPon                       // 碰
	MeldOpenKan                   // 大明杠
	MeldClosedKan                 // 暗杠
	MeldAddedKan                  // 加杠
)

func (m MeldType) String() string {
	switch m {
	case MeldChi:
		return "Chi"
	case MeldPon:
		return "Pon"
	case MeldOpenKan:
		return "OpenKan"
	case MeldClosedKan:
		return "ClosedKan"
	case MeldAddedKan:
		return "AddedKan"
	default:
		return "Unknown"
	}
}

// Meld 副露
// From 为来源的相对座位：0 自己（暗杠），1 下家，2 对家，3 上家
type Meld struct {
	Type   MeldType `json:"type" bson:"type"`
	Tiles  []Tile   `json:"tiles" bson:"tiles"`
	From   int      `json:"from" bson:"from"`
	Called Tile     `json:"called" bson:"called"` // 鸣入的那张牌，暗杠时无意义
}

func (m Meld) IsKan() bool {
	return m.Type == MeldOpenKan || m.Type == MeldClosedKan || m.Type == MeldAddedKan
}

// IsOpen 除暗杠外的副露都会破坏门清
func (m Meld) IsOpen() bool {
	return m.Type != MeldClosedKan
}

// Kind 副露中最小的牌种（顺子取首张）
func (m Meld) Kind() TileType {
	k := m.Tiles[0].Type
	for _, t := range m.Tiles[1:] {
		if t.Type < k {
			k = t.Type
		}
	}
	return k
}

// SortTiles 按物理编号排序（同种牌相邻）
func SortTiles(tiles []Tile) {
	sort.Slice(tiles, func(i, j int) bool { return tiles[i].ID < tiles[j].ID })
}

// FormatTiles 把牌转成紧凑记法，例如 123m055p11z
func FormatTiles(tiles []Tile) string {
	sorted := append([]Tile(nil), tiles...)
	SortTiles(sorted)
	var b strings.Builder
	suit := byte(0)
	for _, t := range sorted {
		s := t.String()
		if suit != 0 && s[1] != suit {
			b.WriteByte(suit)
		}
		b.WriteByte(s[0])
		suit = s[1]
	}
	if suit != 0 {
		b.WriteByte(suit)
	}
	return b.String()
}

// ParseTiles 解析牌的记法：数字在前、花色在后，m 万 p 筒 s 索 z 字（1-7 东南西北白发中），0 为赤五
// 同种牌按出现顺序分配物理副本，普通 5 优先使用非赤副本
func ParseTiles(notation string) ([]Tile, error) {
	var used [TileLimit]bool
	var out []Tile
	var digits []byte
	for i := 0; i < len(notation); i++ {
		c := notation[i]
		switch {
		case c >= '0' && c <= '9':
			digits = append(digits, c)
		case c == 'm' || c == 'p' || c == 's' || c == 'z':
			if len(digits) == 0 {
				return nil, fmt.Errorf("花色 %c 之前没有数字", c)
			}
			for _, d := range digits {
				t, err := allocTile(&used, c, int(d-'0'))
				if err != nil {
					return nil, err
				}
				out = append(out, t)
			}
			digits = digits[:0]
		case c == ' ':
		default:
			return nil, fmt.Errorf("无法识别的字符 %q", c)
		}
	}
	if len(digits) > 0 {
		return nil, fmt.Errorf("末尾的数字缺少花色: %s", digits)
	}
	return out, nil
}

// MustParseTiles 解析失败直接 panic，测试与命令行使用
func MustParseTiles(notation string) []Tile {
	tiles, err := ParseTiles(notation)
	if err != nil {
		panic(err)
	}
	return tiles
}

func allocTile(used *[TileLimit]bool, suit byte, n int) (Tile, error) {
	var kind TileType
	red := false
	switch suit {
	case 'z':
		if n < 1 || n > 7 {
			return Tile{}, fmt.Errorf("字牌只有 1-7z: %dz", n)
		}
		kind = East + TileType(n-1)
	default:
		base := TileType(strings.IndexByte("mps", suit) * 9)
		if n == 0 {
			red = true
			n = 5
		}
		kind = base + TileType(n-1)
	}

	order := [4]int{0, 1, 2, 3}
	if kind.IsFive() {
		if red {
			order = [4]int{0, -1, -1, -1}
		} else {
			order = [4]int{1, 2, 3, 0}
		}
	}
	for _, c := range order {
		if c < 0 {
			continue
		}
		id := int(kind)*4 + c
		if !used[id] {
			used[id] = true
			return Tile{Type: kind, ID: id, Red: red}, nil
		}
	}
	return Tile{}, fmt.Errorf("%s 超过 4 张", kind)
}
