package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/muse-lab/muse-server/internal/errs"
	"github.com/muse-lab/muse-server/internal/model"
	"github.com/muse-lab/muse-server/pkg/logger"
)

const (
	hotKeywordsKey = "search:hot"
	hotKeywordsTTL = 5 * time.Minute
)

// SearchResult bundles per-entity hits for one keyword.
type SearchResult struct {
	Songs     []*model.Song       `json:"songs"`
	Artists   []*model.Artist     `json:"artists"`
	Albums    []*model.Album      `json:"albums"`
	Playlists []*model.Playlist   `json:"playlists"`
	Users     []model.UserProfile `json:"users"`
}

type HotKeyword struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
}

// SearchService runs keyword search across the catalog and social entities.
// History and trend writes are best-effort; a failed write never fails the
// search itself.
type SearchService interface {
	Search(ctx context.Context, userID int64, keyword string, limit int) (*SearchResult, error)
	HotKeywords(ctx context.Context, limit int) ([]HotKeyword, error)
	ListHistory(ctx context.Context, userID int64, limit int) ([]*model.SearchHistory, error)
	ClearHistory(ctx context.Context, userID int64) error
}

type searchService struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewSearchService wires the search layer; rdb may be nil, which disables
// the hot keyword cache.
func NewSearchService(db *gorm.DB, rdb *redis.Client) SearchService {
	return &searchService{db: db, rdb: rdb}
}

func (s *searchService) Search(ctx context.Context, userID int64, keyword string, limit int) (*SearchResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, errs.Errorf(errs.EINVALID, "search keyword must not be empty")
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	pattern := "%" + keyword + "%"
	res := &SearchResult{}

	if err := s.db.WithContext(ctx).Where("title LIKE ?", pattern).
		Preload("Artist").Preload("Stat").Limit(limit).
		Find(&res.Songs).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Where("name LIKE ?", pattern).
		Limit(limit).Find(&res.Artists).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Where("title LIKE ?", pattern).
		Preload("Artist").Limit(limit).Find(&res.Albums).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Where("title LIKE ?", pattern).
		Preload("Creator").Limit(limit).Find(&res.Playlists).Error; err != nil {
		return nil, err
	}
	var users []*model.User
	if err := s.db.WithContext(ctx).Where("username LIKE ?", pattern).
		Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	res.Users = make([]model.UserProfile, 0, len(users))
	for _, u := range users {
		res.Users = append(res.Users, u.Profile())
	}

	s.recordSearch(ctx, userID, keyword)
	return res, nil
}

// recordSearch appends history and bumps the trend counter. Failures are
// logged and swallowed.
func (s *searchService) recordSearch(ctx context.Context, userID int64, keyword string) {
	if userID > 0 {
		h := &model.SearchHistory{UserID: userID, Keyword: keyword}
		if err := s.db.WithContext(ctx).Create(h).Error; err != nil {
			logger.L().Warn("record search history failed",
				zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.SearchTrend{Keyword: keyword}).Error; err != nil {
			return err
		}
		return tx.Model(&model.SearchTrend{}).Where("keyword = ?", keyword).
			UpdateColumn("count", gorm.Expr("count + 1")).Error
	})
	if err != nil {
		logger.L().Warn("record search trend failed",
			zap.String("keyword", keyword), zap.Error(err))
	}
	if s.rdb != nil {
		// Trend moved; drop the cached hot list.
		if err := s.rdb.Del(ctx, hotKeywordsKey).Err(); err != nil {
			logger.L().Warn("invalidate hot keyword cache failed", zap.Error(err))
		}
	}
}

func (s *searchService) HotKeywords(ctx context.Context, limit int) ([]HotKeyword, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, hotKeywordsKey).Bytes(); err == nil {
			var cached []HotKeyword
			if json.Unmarshal(raw, &cached) == nil && len(cached) >= limit {
				return cached[:limit], nil
			}
		}
	}

	var trends []*model.SearchTrend
	err := s.db.WithContext(ctx).Order("count DESC").Limit(limit).Find(&trends).Error
	if err != nil {
		return nil, err
	}
	hot := make([]HotKeyword, 0, len(trends))
	for _, t := range trends {
		hot = append(hot, HotKeyword{Keyword: t.Keyword, Count: t.Count})
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(hot); err == nil {
			if err := s.rdb.Set(ctx, hotKeywordsKey, raw, hotKeywordsTTL).Err(); err != nil {
				logger.L().Warn("cache hot keywords failed", zap.Error(err))
			}
		}
	}
	return hot, nil
}

func (s *searchService) ListHistory(ctx context.Context, userID int64, limit int) ([]*model.SearchHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var history []*model.SearchHistory
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&history).Error
	return history, err
}

func (s *searchService) ClearHistory(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).
		Delete(&model.SearchHistory{}).Error
}
