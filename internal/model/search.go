package model

import "time"

type SearchHistory struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"index:idx_search_history_user;not null"`
	Keyword   string    `json:"keyword" gorm:"type:varchar(128);not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (SearchHistory) TableName() string { return "search_histories" }

// SearchTrend aggregates per-keyword search counts for the hot list.
type SearchTrend struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Keyword   string    `json:"keyword" gorm:"type:varchar(128);uniqueIndex:ux_trend_keyword;not null"`
	Count     int64     `json:"count" gorm:"index:idx_trend_count;not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SearchTrend) TableName() string { return "search_trends" }
