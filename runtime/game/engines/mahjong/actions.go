package mahjong

import "fmt"

type CommandKind int

const (
	CmdBeginRound CommandKind = iota
	CmdDraw
	CmdDiscard
	CmdDeclareRiichi
	CmdDeclareWinByDraw
	CmdDeclareWinByDiscard
	CmdCallPon
	CmdCallChi
	CmdCallOpenKan
	CmdCallClosedKan
	CmdCallAddedKan
	CmdDeclineCall
	CmdDeclareNineTerminalsDraw
	CmdAdvanceToNextRound
)

var commandNames = [...]string{
	"begin_round",
	"draw",
	"discard",
	"declare_riichi",
	"declare_win_by_draw",
	"declare_win_by_discard",
	"call_pon",
	"call_chi",
	"call_open_kan",
	"call_closed_kan",
	"call_added_kan",
	"decline_call",
	"declare_nine_terminals_draw",
	"advance_to_next_round",
}

func (k CommandKind) String() string {
	if k < 0 || int(k) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[k]
}

// ParseCommandKind 由命令名解析
func ParseCommandKind(name string) (CommandKind, bool) {
	for i, n := range commandNames {
		if n == name {
			return CommandKind(i), true
		}
	}
	return 0, false
}

// Command 一次状态转移请求
// Seat 为发出命令的座位；对 begin_round、advance_to_next_round 无意义
type Command struct {
	Kind   CommandKind `json:"kind" bson:"kind"`
	Seat   int         `json:"seat" bson:"seat"`
	Tile   Tile        `json:"tile,omitempty" bson:"tile,omitempty"`
	Kind34 TileType    `json:"kind34,omitempty" bson:"kind34,omitempty"`
	Pair   [2]Tile     `json:"pair,omitempty" bson:"pair,omitempty"`
}

func (c Command) String() string {
	switch c.Kind {
	case CmdDiscard, CmdDeclareRiichi:
		return fmt.Sprintf("%s(seat=%d, %s)", c.Kind, c.Seat, c.Tile)
	case CmdCallChi:
		return fmt.Sprintf("%s(seat=%d, %s%s)", c.Kind, c.Seat, c.Pair[0], c.Pair[1])
	case CmdCallClosedKan, CmdCallAddedKan:
		return fmt.Sprintf("%s(seat=%d, %s)", c.Kind, c.Seat, c.Kind34)
	case CmdBeginRound, CmdAdvanceToNextRound:
		return c.Kind.String()
	default:
		return fmt.Sprintf("%s(seat=%d)", c.Kind, c.Seat)
	}
}

func BeginRound() Command {
	return Command{Kind: CmdBeginRound}
}

func Draw(seat int) Command {
	return Command{Kind: CmdDraw, Seat: seat}
}

func DiscardTile(seat int, tile Tile) Command {
	return Command{Kind: CmdDiscard, Seat: seat, Tile: tile}
}

func DeclareRiichi(seat int, tile Tile) Command {
	return Command{Kind: CmdDeclareRiichi, Seat: seat, Tile: tile}
}

func DeclareWinByDraw(seat int) Command {
	return Command{Kind: CmdDeclareWinByDraw, Seat: seat}
}

func DeclareWinByDiscard(claimant int) Command {
	return Command{Kind: CmdDeclareWinByDiscard, Seat: claimant}
}

func CallPon(claimant int) Command {
	return Command{Kind: CmdCallPon, Seat: claimant}
}

func CallChi(claimant int, pair [2]Tile) Command {
	return Command{Kind: CmdCallChi, Seat: claimant, Pair: pair}
}

func CallOpenKan(claimant int) Command {
	return Command{Kind: CmdCallOpenKan, Seat: claimant}
}

func CallClosedKan(seat int, kind TileType) Command {
	return Command{Kind: CmdCallClosedKan, Seat: seat, Kind34: kind}
}

func CallAddedKan(seat int, kind TileType) Command {
	return Command{Kind: CmdCallAddedKan, Seat: seat, Kind34: kind}
}

func DeclineCall(seat int) Command {
	return Command{Kind: CmdDeclineCall, Seat: seat}
}

func DeclareNineTerminalsDraw(seat int) Command {
	return Command{Kind: CmdDeclareNineTerminalsDraw, Seat: seat}
}

func AdvanceToNextRound() Command {
	return Command{Kind: CmdAdvanceToNextRound}
}
