package service

import (
	"context"
	"strings"

	"newshub/internal/model"
	"newshub/internal/store"
)

// PageSize 列表页固定每页20条
const PageSize = 20

// Notice 附带在列表结果上的非致命提示
type Notice struct {
	Level   string `json:"level"` // info, warning
	Message string `json:"message"`
}

type ListOptions struct {
	CategoryID uint
	Query      string
	Page       int
	UserID     uint // 0表示未登录
}

type ArticlePage struct {
	Articles []model.Article `json:"data"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	Pages    int             `json:"pages"`
	Notice   *Notice         `json:"notice,omitempty"`
	SavedIDs []uint          `json:"saved_ids,omitempty"`
}

type QueryService struct {
	store   *store.Store
	newsapi *NewsAPIService
}

func NewQueryService(st *store.Store, newsapi *NewsAPIService) *QueryService {
	return &QueryService{store: st, newsapi: newsapi}
}

// ListArticles 分页列出文章,支持分类过滤与关键词搜索
// 带关键词且配置了凭证时先触发按需搜索,上游不可用一律回退本地数据并附警告
func (s *QueryService) ListArticles(ctx context.Context, opts ListOptions) (*ArticlePage, error) {
	filter := store.ArticleFilter{CategoryID: opts.CategoryID}
	var notice *Notice

	if query := strings.TrimSpace(opts.Query); query != "" {
		if s.newsapi.HasKey() {
			_, status := s.newsapi.Search(ctx, query)
			switch status {
			case SearchOK:
				// 搜索成功后在全库范围内过滤,覆盖刚写回的新文章
				filter = store.ArticleFilter{Keyword: query}
			case SearchRateLimited:
				notice = &Notice{Level: "warning", Message: "NewsAPI rate limit reached. Showing cached results."}
				filter.Keyword = query
			case SearchTimedOut:
				notice = &Notice{Level: "warning", Message: "API request timed out. Showing cached results."}
				filter.Keyword = query
			default:
				notice = &Notice{Level: "warning", Message: "Unable to fetch latest news. Showing cached results."}
				filter.Keyword = query
			}
		} else {
			notice = &Notice{Level: "info", Message: "Searching local news database."}
			filter.Keyword = query
		}
	}

	total := s.store.CountArticles(filter)
	page, pages := clampPage(opts.Page, total)

	articles, err := s.store.ListArticles(filter, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, err
	}

	result := &ArticlePage{
		Articles: articles,
		Total:    total,
		Page:     page,
		Pages:    pages,
		Notice:   notice,
	}

	if opts.UserID != 0 {
		ids, err := s.store.SavedArticleIDs(opts.UserID)
		if err != nil {
			return nil, err
		}
		result.SavedIDs = ids
	}

	return result, nil
}

func (s *QueryService) ListCategories() ([]model.Category, error) {
	return s.store.ListCategories()
}

// clampPage 越界页码收敛到[1, 最后一页]
func clampPage(page int, total int64) (int, int) {
	pages := int((total + PageSize - 1) / PageSize)
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	return page, pages
}
