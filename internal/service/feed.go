package service

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"newshub/config"
	"newshub/internal/model"
	"newshub/internal/store"
)

const (
	maxTitleLen       = 500
	maxDescriptionLen = 500
)

type FeedService struct {
	store     *store.Store
	parser    *gofeed.Parser
	sanitizer *bluemonday.Policy
	sources   []config.FeedSource
	limit     int
}

func NewFeedService(st *store.Store, cfg config.FeedsConfig) *FeedService {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 10 * time.Second}

	limit := cfg.FetchLimit
	if limit <= 0 {
		limit = 10
	}

	return &FeedService{
		store:     st,
		parser:    parser,
		sanitizer: bluemonday.StrictPolicy(),
		sources:   cfg.Sources,
		limit:     limit,
	}
}

// FetchAll 抓取所有订阅源
// 单个源失败只记日志,不影响其余源
func (s *FeedService) FetchAll(ctx context.Context) int {
	var total int
	for _, src := range s.sources {
		count, err := s.FetchSource(ctx, src)
		if err != nil {
			log.Printf("[Feed] fetch %s failed: %v", src.Source, err)
			continue
		}
		total += count
	}
	log.Printf("[Feed] fetch done, %d new articles", total)
	return total
}

// FetchSource 抓取单个订阅源,返回新入库的文章数
func (s *FeedService) FetchSource(ctx context.Context, src config.FeedSource) (int, error) {
	parsed, err := s.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return 0, err
	}

	category, err := s.store.GetOrCreateCategory(src.Category)
	if err != nil {
		return 0, err
	}

	items := parsed.Items
	if len(items) > s.limit {
		items = items[:s.limit]
	}

	var count int
	for _, item := range items {
		if item.Link == "" || s.store.ExistsByLink(item.Link) {
			continue
		}

		article := model.Article{
			Title:       truncate(item.Title, maxTitleLen),
			Link:        item.Link,
			Image:       s.extractImage(item),
			Description: truncate(s.sanitizer.Sanitize(item.Description), maxDescriptionLen),
			Author:      itemAuthor(item),
			PubDate:     item.PublishedParsed, // 解析失败为nil,不阻断本条
			Source:      src.Source,
			CategoryID:  &category.ID,
			GUID:        itemGUID(item),
		}

		if err := s.store.InsertArticle(&article); err != nil {
			// 并发抓取同一Link时以唯一索引为准,输的一方跳过
			if errors.Is(err, store.ErrDuplicateLink) {
				continue
			}
			log.Printf("[Feed] insert %s failed: %v", item.Link, err)
			continue
		}
		count++
	}

	return count, nil
}

// extractImage 提取配图,依次尝试feed自带图片、media扩展、正文首图
func (s *FeedService) extractImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, key := range []string{"content", "thumbnail"} {
			for _, ext := range media[key] {
				if url := ext.Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}

	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}

	return firstImageSrc(item.Description)
}

// firstImageSrc 从HTML片段中取第一个img的src
func firstImageSrc(html string) string {
	if !strings.Contains(html, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return src
}

func itemAuthor(item *gofeed.Item) string {
	if item.Author != nil {
		return item.Author.Name
	}
	return ""
}

func itemGUID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	return item.Link
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
