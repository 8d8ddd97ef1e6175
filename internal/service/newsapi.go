package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newshub/config"
	"newshub/internal/model"
	"newshub/internal/store"
)

// SearchStatus 按需搜索的结果状态,非OK时调用方必须回退本地数据
type SearchStatus int

const (
	// SearchOK 搜索成功,新结果已写回本地库
	SearchOK SearchStatus = iota
	// SearchRateLimited 上游返回426,配额用尽
	SearchRateLimited
	// SearchTimedOut 请求超时
	SearchTimedOut
	// SearchUnavailable 其他网络错误或非200状态
	SearchUnavailable
)

type NewsAPIService struct {
	store  *store.Store
	client *http.Client
	cfg    config.NewsAPIConfig
}

// apiArticle NewsAPI返回的文章,字段可能缺失,入库前逐项兜底
type apiArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

type apiResponse struct {
	Status   string       `json:"status"`
	Articles []apiArticle `json:"articles"`
}

func NewNewsAPIService(st *store.Store, cfg config.NewsAPIConfig) *NewsAPIService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://newsapi.org/v2"
	}
	return &NewsAPIService{
		store:  st,
		client: &http.Client{Timeout: 10 * time.Second},
		cfg:    cfg,
	}
}

// HasKey 是否配置了API凭证,未配置时搜索只查本地库
func (s *NewsAPIService) HasKey() bool {
	return s.cfg.APIKey != ""
}

// FetchTopHeadlines 按国家批量抓取头条
// 单个国家失败只记日志,继续下一个
func (s *NewsAPIService) FetchTopHeadlines(ctx context.Context) int {
	if !s.HasKey() {
		log.Println("[NewsAPI] no api key configured, skip headlines fetch")
		return 0
	}

	var total int
	for _, country := range s.cfg.Countries {
		reqURL := fmt.Sprintf("%s/top-headlines?country=%s&apiKey=%s",
			s.cfg.BaseURL, country, s.cfg.APIKey)

		resp, err := s.get(ctx, reqURL)
		if err != nil {
			log.Printf("[NewsAPI] headlines %s failed: %v", country, err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			log.Printf("[NewsAPI] headlines %s: status %d", country, resp.StatusCode)
			continue
		}

		var data apiResponse
		err = json.NewDecoder(resp.Body).Decode(&data)
		resp.Body.Close()
		if err != nil {
			log.Printf("[NewsAPI] headlines %s decode failed: %v", country, err)
			continue
		}

		suffix := " (" + strings.ToUpper(country) + ")"
		total += s.ingest(data.Articles, suffix, true)
	}
	log.Printf("[NewsAPI] headlines fetch done, %d new articles", total)
	return total
}

// Search 按需关键词搜索,成功时把新文章写回库
// 非200路径不入库,由调用方回退本地数据
func (s *NewsAPIService) Search(ctx context.Context, query string) (int, SearchStatus) {
	reqURL := fmt.Sprintf("%s/everything?q=%s&apiKey=%s&language=en&sortBy=publishedAt",
		s.cfg.BaseURL, url.QueryEscape(query), s.cfg.APIKey)

	resp, err := s.get(ctx, reqURL)
	if err != nil {
		if isTimeout(err) {
			return 0, SearchTimedOut
		}
		return 0, SearchUnavailable
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var data apiResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return 0, SearchUnavailable
		}
		// 按需搜索不推断分类,留空;批量头条才做关键词推断
		return s.ingest(data.Articles, "", false), SearchOK
	case http.StatusUpgradeRequired:
		return 0, SearchRateLimited
	default:
		return 0, SearchUnavailable
	}
}

func (s *NewsAPIService) get(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	return s.client.Do(req)
}

// ingest 逐条入库,URL缺失或已存在的跳过,返回新入库数
func (s *NewsAPIService) ingest(articles []apiArticle, sourceSuffix string, categorize bool) int {
	var count int
	for _, a := range articles {
		if a.URL == "" || s.store.ExistsByLink(a.URL) {
			continue
		}

		var categoryID *uint
		if categorize {
			category, err := s.store.GetOrCreateCategory(inferCategory(a.Title))
			if err != nil {
				log.Printf("[NewsAPI] category lookup failed: %v", err)
			} else {
				categoryID = &category.ID
			}
		}

		title := a.Title
		if title == "" {
			title = "No Title"
		}

		sourceName := a.Source.Name
		if sourceName == "" {
			sourceName = "Unknown"
		}

		article := model.Article{
			Title:       truncate(title, maxTitleLen),
			Link:        a.URL,
			Image:       a.URLToImage,
			Description: truncate(a.Description, maxDescriptionLen),
			Content:     a.Content,
			Author:      a.Author,
			PubDate:     parsePublishedAt(a.PublishedAt),
			Source:      sourceName + sourceSuffix,
			CategoryID:  categoryID,
		}

		if err := s.store.InsertArticle(&article); err != nil {
			if errors.Is(err, store.ErrDuplicateLink) {
				continue
			}
			log.Printf("[NewsAPI] insert %s failed: %v", a.URL, err)
			continue
		}
		count++
	}
	return count
}

// inferCategory 标题关键词粗分类,匹配不到归General
func inferCategory(title string) string {
	lower := strings.ToLower(title)
	for _, m := range []struct {
		keyword  string
		category string
	}{
		{"tech", "Technology"},
		{"sport", "Sports"},
		{"business", "Business"},
		{"health", "Health"},
	} {
		if strings.Contains(lower, m.keyword) {
			return m.category
		}
	}
	return "General"
}

// parsePublishedAt 解析ISO-8601时间戳,缺失或非法返回nil
func parsePublishedAt(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
