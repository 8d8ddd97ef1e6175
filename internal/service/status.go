package service

import (
	"time"

	"newshub/internal/model"
	"newshub/internal/store"
)

type StatusService struct {
	store *store.Store
}

type SystemStatus struct {
	// 内容统计
	TotalArticles   int64 `json:"total_articles"`
	TotalCategories int64 `json:"total_categories"`
	TotalSaved      int64 `json:"total_saved"`
	TotalUsers      int64 `json:"total_users"`

	// 定时任务信息
	NextFeedFetch      time.Time `json:"next_feed_fetch"`
	NextHeadlinesFetch time.Time `json:"next_headlines_fetch"`
}

func NewStatusService(st *store.Store) *StatusService {
	return &StatusService{store: st}
}

// GetSystemStatus 获取系统状态
func (s *StatusService) GetSystemStatus() *SystemStatus {
	return &SystemStatus{
		TotalArticles:   s.store.Count(&model.Article{}),
		TotalCategories: s.store.Count(&model.Category{}),
		TotalSaved:      s.store.Count(&model.SavedArticle{}),
		TotalUsers:      s.store.Count(&model.User{}),
	}
}
