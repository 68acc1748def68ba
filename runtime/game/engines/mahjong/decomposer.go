package mahjong

import (
	"sort"
	"strconv"
	"strings"
)

type GroupKind int

const (
	GroupRun     GroupKind = iota // 顺子
	GroupTriplet                  // 刻子（杠子也按刻子计，Kan 标记）
)

// Group 和牌拆解中的一个面子，Tile 为顺子首张或刻子牌种
type Group struct {
	Kind GroupKind `json:"kind"`
	Tile TileType  `json:"tile"`
	Open bool      `json:"open,omitempty"`
	Kan  bool      `json:"kan,omitempty"`
}

func (g Group) Contains(t TileType) bool {
	if g.Kind == GroupTriplet {
		return g.Tile == t
	}
	return t >= g.Tile && t <= g.Tile+2 && t.Suit() == g.Tile.Suit()
}

// HasYaochu 面子是否含幺九牌
func (g Group) HasYaochu() bool {
	if g.Kind == GroupTriplet {
		return g.Tile.IsYaochu()
	}
	return g.Tile.Number() == 1 || g.Tile.Number() == 7
}

// HasTerminal 面子是否含老头牌（1、9）
func (g Group) HasTerminal() bool {
	if g.Kind == GroupTriplet {
		return g.Tile.IsTerminal()
	}
	return g.Tile.Number() == 1 || g.Tile.Number() == 7
}

// Decomposition 一般形拆解：雀头 + 手牌中的面子（不含副露）
type Decomposition struct {
	Head   TileType `json:"head"`
	Groups []Group  `json:"groups"`
}

func (d Decomposition) key() string {
	parts := make([]string, 0, len(d.Groups)+1)
	parts = append(parts, strconv.Itoa(int(d.Head)))
	gs := append([]Group(nil), d.Groups...)
	sort.Slice(gs, func(i, j int) bool {
		if gs[i].Tile != gs[j].Tile {
			return gs[i].Tile < gs[j].Tile
		}
		return gs[i].Kind < gs[j].Kind
	})
	for _, g := range gs {
		parts = append(parts, strconv.Itoa(int(g.Kind))+":"+strconv.Itoa(int(g.Tile)))
	}
	return strings.Join(parts, ",")
}

type AgariShape int

const (
	ShapeStandard AgariShape = iota // 一般形
	ShapeChiitoi                    // 七对子
	ShapeKokushi                    // 国士无双
)

// AgariInfo 一手牌的全部和牌拆解
type AgariInfo struct {
	Standard []Decomposition
	Chiitoi  bool
	Kokushi  bool
}

func (a AgariInfo) IsAgari() bool {
	return len(a.Standard) > 0 || a.Chiitoi || a.Kokushi
}

// Decompose 枚举一手牌（手牌部分）的全部拆解，按 (雀头, 面子多重集) 去重
// fixedMelds 为已有副露数，手牌需拆出 4-fixedMelds 个面子
func Decompose(h Hand34, fixedMelds int) AgariInfo {
	var info AgariInfo
	need := 4 - fixedMelds
	if need >= 0 && h.Count() == need*3+2 {
		d := &decomposer{hand: h, need: need, seen: make(map[string]struct{})}
		for head := 0; head < KindLimit; head++ {
			if d.hand[head] < 2 {
				continue
			}
			d.hand[head] -= 2
			d.head = TileType(head)
			d.walk(0)
			d.hand[head] += 2
		}
		info.Standard = d.out
	}
	if fixedMelds == 0 {
		info.Chiitoi = IsAgariChiitoi(h)
		info.Kokushi = IsAgariKokushi(h)
	}
	return info
}

// decomposer 回溯拆解，每一步的取牌都在同一层还原
type decomposer struct {
	hand   Hand34
	need   int
	head   TileType
	groups []Group
	seen   map[string]struct{}
	out    []Decomposition
}

func (d *decomposer) walk(from int) {
	i := from
	for i < KindLimit && d.hand[i] == 0 {
		i++
	}
	if i == KindLimit {
		if len(d.groups) == d.need {
			d.emit()
		}
		return
	}
	if len(d.groups) == d.need {
		return
	}

	if d.hand[i] >= 3 {
		d.hand[i] -= 3
		d.groups = append(d.groups, Group{Kind: GroupTriplet, Tile: TileType(i)})
		d.walk(i)
		d.groups = d.groups[:len(d.groups)-1]
		d.hand[i] += 3
	}
	if canStartRun(&d.hand, i) {
		takeRun(&d.hand, i)
		d.groups = append(d.groups, Group{Kind: GroupRun, Tile: TileType(i)})
		d.walk(i)
		d.groups = d.groups[:len(d.groups)-1]
		putRun(&d.hand, i)
	}
}

func (d *decomposer) emit() {
	dec := Decomposition{Head: d.head, Groups: append([]Group(nil), d.groups...)}
	k := dec.key()
	if _, dup := d.seen[k]; dup {
		return
	}
	d.seen[k] = struct{}{}
	d.out = append(d.out, dec)
}

// MeldGroups 副露转换为面子
func MeldGroups(melds []Meld) []Group {
	out := make([]Group, 0, len(melds))
	for _, m := range melds {
		g := Group{Tile: m.Kind(), Open: m.IsOpen(), Kan: m.IsKan()}
		if m.Type == MeldChi {
			g.Kind = GroupRun
		} else {
			g.Kind = GroupTriplet
		}
		out = append(out, g)
	}
	return out
}
