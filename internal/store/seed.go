package store

import "context"

// defaultCorrections is the starter set of common game terms with their
// standard zh renderings. Seeded at high priority so they beat ad-hoc
// entries added later at the default priority.
var defaultCorrections = []Correction{
	{SourceText: "HP", Translation: "生命值"},
	{SourceText: "MP", Translation: "魔法值"},
	{SourceText: "EXP", Translation: "经验值"},
	{SourceText: "Level", Translation: "等级"},
	{SourceText: "Attack", Translation: "攻击力"},
	{SourceText: "Defense", Translation: "防御力"},
	{SourceText: "Speed", Translation: "速度"},
	{SourceText: "Critical", Translation: "暴击"},
	{SourceText: "Skill", Translation: "技能"},
	{SourceText: "Item", Translation: "道具"},
	{SourceText: "Equipment", Translation: "装备"},
	{SourceText: "Weapon", Translation: "武器"},
	{SourceText: "Armor", Translation: "护甲"},
	{SourceText: "Quest", Translation: "任务"},
	{SourceText: "Boss", Translation: "首领"},
	{SourceText: "Guild", Translation: "公会"},
	{SourceText: "Team", Translation: "队伍"},
	{SourceText: "Player", Translation: "玩家"},
	{SourceText: "Character", Translation: "角色"},
}

// SeedDefaultCorrections installs the built-in en→zh game-term corrections.
// Existing keys are overwritten, so re-seeding is safe.
func (s *Store) SeedDefaultCorrections(ctx context.Context) error {
	for _, c := range defaultCorrections {
		c.SourceLang = "en"
		c.TargetLang = "zh"
		c.Category = "game_term"
		c.Priority = 10
		if err := s.UpsertCorrection(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
