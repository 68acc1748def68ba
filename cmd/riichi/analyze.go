package main

import (
	"fmt"
	"strings"

	"riichi/runtime/game/engines/mahjong"

	"github.com/spf13/cobra"
)

func newShantenCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "shanten <hand>",
		Short:   "门清手牌的向听数与听牌/打牌候选，例如 riichi shanten 123m456p789s1122z",
		Args:    cobra.ExactArgs(1),
		Example: "  riichi shanten 13m456p789s11z234s\n  riichi shanten 123m456p789s11z235s",
		RunE: func(cmd *cobra.Command, args []string) error {
			hand, err := mahjong.ParseTiles(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			searcher := mahjong.DefaultSearcher()
			h := mahjong.Hand34FromTiles(hand)

			switch len(hand) {
			case 13:
				fmt.Fprintf(out, "shanten: %d (normal %d, chiitoi %d, kokushi %d)\n",
					searcher.ShantenAll(h, 0), mahjong.ShantenNormal(h, 0), mahjong.ShantenChiitoi(h), mahjong.ShantenKokushi(h))
				waits, ukeire := searcher.WaitsAndUkeire(h, 0, nil)
				if len(waits) > 0 {
					fmt.Fprintf(out, "waits: %s (%d tiles)\n", formatKinds(waits), ukeire)
				}
			case 14:
				fmt.Fprintf(out, "shanten: %d, agari: %t\n", searcher.ShantenAll(h, 0), searcher.IsAgariAll(h, 0))
				for _, c := range searcher.SeekCandidates(hand, 0, nil) {
					fmt.Fprintf(out, "discard %s -> waits %s (%d tiles)\n", c.DiscardType, formatKinds(c.Waits), c.Ukeire)
				}
			default:
				return fmt.Errorf("手牌应为 13 或 14 张，实际 %d 张", len(hand))
			}
			return nil
		},
	}
}

type scoreOptions struct {
	win       string
	tsumo     bool
	riichi    bool
	ippatsu   bool
	seatWind  string
	roundWind string
	dora      string
	ura       string
	honba     int
}

func newScoreCmd() *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:     "score <hand>",
		Short:   "门清和牌计分，hand 为含和了牌的 14 张",
		Args:    cobra.ExactArgs(1),
		Example: "  riichi score 111m234m555p678p99s --win 9s --tsumo --seat e",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := scoreHand(args[0], opts)
			if err != nil {
				return err
			}
			printScore(cmd, ws, opts.tsumo)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.win, "win", "", "和了牌，例如 5m（必填）")
	cmd.Flags().BoolVar(&opts.tsumo, "tsumo", false, "自摸")
	cmd.Flags().BoolVar(&opts.riichi, "riichi", false, "立直")
	cmd.Flags().BoolVar(&opts.ippatsu, "ippatsu", false, "一发")
	cmd.Flags().StringVar(&opts.seatWind, "seat", "s", "自风: e|s|w|n")
	cmd.Flags().StringVar(&opts.roundWind, "round", "e", "场风: e|s|w|n")
	cmd.Flags().StringVar(&opts.dora, "dora", "", "宝牌指示牌")
	cmd.Flags().StringVar(&opts.ura, "ura", "", "里宝牌指示牌（立直时计入）")
	cmd.Flags().IntVar(&opts.honba, "honba", 0, "本场数")
	_ = cmd.MarkFlagRequired("win")
	return cmd
}

func parseWind(s string) (mahjong.Wind, error) {
	switch strings.ToLower(s) {
	case "e", "east":
		return mahjong.WindEast, nil
	case "s", "south":
		return mahjong.WindSouth, nil
	case "w", "west":
		return mahjong.WindWest, nil
	case "n", "north":
		return mahjong.WindNorth, nil
	default:
		return 0, fmt.Errorf("未知的风: %s", s)
	}
}

func parseOptionalTiles(notation string) ([]mahjong.Tile, error) {
	if notation == "" {
		return nil, nil
	}
	return mahjong.ParseTiles(notation)
}

func scoreHand(notation string, opts *scoreOptions) (*mahjong.WinScore, error) {
	hand, err := mahjong.ParseTiles(notation)
	if err != nil {
		return nil, err
	}
	if len(hand) != 14 {
		return nil, fmt.Errorf("和牌应为 14 张，实际 %d 张", len(hand))
	}
	winTiles, err := mahjong.ParseTiles(opts.win)
	if err != nil || len(winTiles) != 1 {
		return nil, fmt.Errorf("和了牌无效: %q", opts.win)
	}
	win, ok := pickTile(hand, winTiles[0])
	if !ok {
		return nil, fmt.Errorf("手牌中没有和了牌 %s", winTiles[0])
	}
	seat, err := parseWind(opts.seatWind)
	if err != nil {
		return nil, err
	}
	round, err := parseWind(opts.roundWind)
	if err != nil {
		return nil, err
	}
	dora, err := parseOptionalTiles(opts.dora)
	if err != nil {
		return nil, err
	}
	ura, err := parseOptionalTiles(opts.ura)
	if err != nil {
		return nil, err
	}

	rules := mahjong.DefaultRules()
	in := mahjong.ScoreInput{
		Ctx: mahjong.YakuContext{
			WinTile:       win,
			Hand:          mahjong.Hand34FromTiles(hand),
			Tsumo:         opts.tsumo,
			SeatWind:      seat,
			RoundWind:     round,
			Riichi:        opts.riichi,
			Ippatsu:       opts.riichi && opts.ippatsu,
			OpenTanyao:    rules.OpenTanyao,
			DoubleYakuman: rules.DoubleYakuman,
		},
		Dealer:         seat == mahjong.WindEast,
		DoraIndicators: dora,
		UraIndicators:  ura,
		Tiles:          hand,
		Honba:          opts.honba,
	}
	ws, ok := mahjong.ScoreHand(in)
	if !ok {
		return nil, fmt.Errorf("不是和牌或没有役")
	}
	return ws, nil
}

// pickTile 从手牌中取出与 want 同种（赤五需一致）的实体牌
func pickTile(hand []mahjong.Tile, want mahjong.Tile) (mahjong.Tile, bool) {
	for _, t := range hand {
		if t.Type == want.Type && t.Red == want.Red {
			return t, true
		}
	}
	return mahjong.Tile{}, false
}

func printScore(cmd *cobra.Command, ws *mahjong.WinScore, tsumo bool) {
	out := cmd.OutOrStdout()
	for _, y := range ws.Yaku {
		if y.Yakuman > 0 {
			fmt.Fprintf(out, "  %s x%d yakuman\n", y.Name, y.Yakuman)
			continue
		}
		fmt.Fprintf(out, "  %s %d han\n", y.Name, y.Han)
	}
	if ws.Dora+ws.Ura+ws.Aka > 0 {
		fmt.Fprintf(out, "  dora %d, ura %d, aka %d\n", ws.Dora, ws.Ura, ws.Aka)
	}
	if ws.Yakuman > 0 {
		fmt.Fprintf(out, "yakuman x%d", ws.Yakuman)
	} else {
		fmt.Fprintf(out, "%d han %d fu", ws.Han, ws.Fu)
	}
	if ws.Limit != mahjong.LimitNone {
		fmt.Fprintf(out, " (%s)", ws.Limit)
	}
	fmt.Fprintln(out)
	switch {
	case !tsumo:
		fmt.Fprintf(out, "ron: %d\n", ws.RonPayment)
	case ws.TsumoDealer == 0:
		fmt.Fprintf(out, "tsumo: %d all\n", ws.TsumoNonDealer)
	default:
		fmt.Fprintf(out, "tsumo: %d / %d\n", ws.TsumoNonDealer, ws.TsumoDealer)
	}
}

func formatKinds(kinds []mahjong.TileType) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, " ")
}
