package mahjong

import "riichi/common/config"

type GameLength int

const (
	LengthTonpu   GameLength = iota // 东风战，4 局
	LengthHanchan                   // 半庄战，8 局
)

func (l GameLength) HandCount() int {
	if l == LengthTonpu {
		return 4
	}
	return 8
}

// RuleSet 牌桌规则，开桌时确定，对局中不变
type RuleSet struct {
	RedFives      bool       `json:"redFives" bson:"redFives"`
	OpenTanyao    bool       `json:"openTanyao" bson:"openTanyao"`
	Length        GameLength `json:"length" bson:"length"`
	InitialPoints int        `json:"initialPoints" bson:"initialPoints"`
	Busting       bool       `json:"busting" bson:"busting"`
	DoubleYakuman bool       `json:"doubleYakuman" bson:"doubleYakuman"`
}

const DefaultInitialPoint = 25000 // 默认初始点数

func DefaultRules() RuleSet {
	return RuleSet{
		RedFives:      true,
		OpenTanyao:    true,
		Length:        LengthHanchan,
		InitialPoints: DefaultInitialPoint,
		Busting:       true,
		DoubleYakuman: true,
	}
}

// RuleSetFromConf 配置文件中的规则段转换为牌桌规则
func RuleSetFromConf(conf config.RulesConf) RuleSet {
	rules := RuleSet{
		RedFives:      conf.RedFives,
		OpenTanyao:    conf.OpenTanyao,
		Length:        LengthHanchan,
		InitialPoints: conf.InitialPoints,
		Busting:       conf.Busting,
		DoubleYakuman: conf.DoubleYakuman,
	}
	if conf.Length == "tonpu" {
		rules.Length = LengthTonpu
	}
	if rules.InitialPoints <= 0 {
		rules.InitialPoints = DefaultInitialPoint
	}
	return rules
}
