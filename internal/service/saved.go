package service

import (
	"errors"

	"newshub/internal/model"
	"newshub/internal/store"
)

// ToggleResult 收藏开关的落点状态
type ToggleResult string

const (
	ToggleSaved   ToggleResult = "saved"
	ToggleUnsaved ToggleResult = "unsaved"
)

type SavedPage struct {
	Items []model.SavedArticle `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Pages int                  `json:"pages"`
}

type SavedService struct {
	store *store.Store
}

func NewSavedService(st *store.Store) *SavedService {
	return &SavedService{store: st}
}

// Toggle 收藏开关:不存在则创建并返回saved,已存在则删除并返回unsaved
// 先试插入,唯一索引冲突(已收藏或并发竞争落败)转为取消收藏,保证不会出现重复行
func (s *SavedService) Toggle(userID, articleID uint) (ToggleResult, error) {
	if _, err := s.store.GetArticle(articleID); err != nil {
		return "", err
	}

	err := s.store.CreateSaved(&model.SavedArticle{UserID: userID, ArticleID: articleID})
	if err == nil {
		return ToggleSaved, nil
	}
	if errors.Is(err, store.ErrDuplicateSave) {
		if _, derr := s.store.DeleteSaved(userID, articleID); derr != nil {
			return "", derr
		}
		return ToggleUnsaved, nil
	}
	return "", err
}

// ListSaved 按收藏时间倒序分页列出收藏
func (s *SavedService) ListSaved(userID uint, page int) (*SavedPage, error) {
	total := s.store.CountSaved(userID)
	page, pages := clampPage(page, total)

	items, err := s.store.ListSaved(userID, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, err
	}

	return &SavedPage{
		Items: items,
		Total: total,
		Page:  page,
		Pages: pages,
	}, nil
}
