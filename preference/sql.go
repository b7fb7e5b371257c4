package preference

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rushteam/gamerec/core"
)

// Record 是 user_game_preferences 表的行结构。
type Record struct {
	ID        uint      `gorm:"primaryKey"`
	SteamID   string    `gorm:"column:steam_id;not null;uniqueIndex:uq_user_game,priority:1"`
	AppID     int64     `gorm:"column:appid;not null;uniqueIndex:uq_user_game,priority:2"`
	Status    string    `gorm:"column:status;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Record) TableName() string { return "user_game_preferences" }

// SQLStore 是基于 gorm 的反馈存储（默认与目录共用 sqlite）。
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Name() string { return "sql" }

// AutoMigrate 创建/更新表结构。
func (s *SQLStore) AutoMigrate() error {
	return s.db.AutoMigrate(&Record{})
}

func (s *SQLStore) List(ctx context.Context, userID string) (core.Preferences, error) {
	var rows []Record
	err := s.db.WithContext(ctx).Where("steam_id = ?", userID).Order("appid").Find(&rows).Error
	if err != nil {
		return nil, core.ErrPreferenceUnavailable.Wrap(err)
	}
	prefs := make(core.Preferences, len(rows))
	for _, r := range rows {
		if p := core.Preference(r.Status); p.Valid() {
			prefs[r.AppID] = p
		}
	}
	return prefs, nil
}

func (s *SQLStore) Set(ctx context.Context, userID string, appID int64, p core.Preference) error {
	if !p.Valid() {
		_, err := core.ParsePreference(string(p))
		return err
	}
	rec := Record{SteamID: userID, AppID: appID, Status: string(p)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "steam_id"}, {Name: "appid"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return core.ErrPreferenceUnavailable.Wrap(err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, userID string, appID int64) error {
	err := s.db.WithContext(ctx).
		Where("steam_id = ? AND appid = ?", userID, appID).
		Delete(&Record{}).Error
	if err != nil {
		return core.ErrPreferenceUnavailable.Wrap(err)
	}
	return nil
}

var _ core.PreferenceStore = (*SQLStore)(nil)
