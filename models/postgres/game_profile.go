package postgres

import (
	"gorm.io/datatypes"
)

/*
 * 'GameProfile' defines the battle-facing data of an account: display
 * name, avatar and aggregate stats. It is referenced in User,
 * BattleResult and RewardEntry.
 */
type GameProfile struct {
	Username        string         `gorm:"primaryKey;size:50;not null"`
	DisplayName     string         `gorm:"size:50;not null"`
	ProfileImageURL string         `gorm:"size:255"`
	UserStats       datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	BattleResults []BattleResult `gorm:"foreignKey:Username"`
	RewardEntries []RewardEntry  `gorm:"foreignKey:Username"`
}
