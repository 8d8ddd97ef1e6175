package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/config"
	"newshub/internal/store"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
<title>Test Feed</title>
<link>https://example.com</link>
<item>
  <title>Rocket launch scheduled</title>
  <link>https://example.com/articles/1</link>
  <guid>urn:example:1</guid>
  <description><![CDATA[<p>Launch <b>day</b> details</p>]]></description>
  <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
  <media:thumbnail url="https://img.example.com/thumb.jpg"/>
</item>
<item>
  <title>Second story</title>
  <link>https://example.com/articles/2</link>
  <description><![CDATA[Text with image <img src="https://img.example.com/inline.jpg"> inside]]></description>
  <pubDate>not a real date</pubDate>
</item>
</channel>
</rss>`

func serveRSS(t *testing.T, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestFetchSource(t *testing.T) {
	st := newTestStore(t)
	ts := serveRSS(t, rssFixture)

	svc := NewFeedService(st, config.FeedsConfig{
		FetchLimit: 10,
		Sources:    []config.FeedSource{{URL: ts.URL, Source: "Example", Category: "World"}},
	})

	count, err := svc.FetchSource(context.Background(), svc.sources[0])
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	articles, err := st.ListArticles(store.ArticleFilter{}, 0, 20)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	first := articles[0] // 有发布时间的排前面
	assert.Equal(t, "Rocket launch scheduled", first.Title)
	assert.Equal(t, "https://example.com/articles/1", first.Link)
	assert.Equal(t, "urn:example:1", first.GUID)
	assert.Equal(t, "Example", first.Source)
	require.NotNil(t, first.PubDate)
	// 描述的HTML标签被剥掉
	assert.Equal(t, "Launch day details", first.Description)
	// media扩展里的配图
	assert.Equal(t, "https://img.example.com/thumb.jpg", first.Image)
	require.NotNil(t, first.Category)
	assert.Equal(t, "World", first.Category.Name)

	second := articles[1]
	// 日期解析失败按空处理,不阻断本条
	assert.Nil(t, second.PubDate)
	// 没有GUID时回退为Link
	assert.Equal(t, second.Link, second.GUID)
	// 没有media扩展时取正文首图
	assert.Equal(t, "https://img.example.com/inline.jpg", second.Image)
}

func TestFetchSourceRefetchIsNoop(t *testing.T) {
	st := newTestStore(t)
	ts := serveRSS(t, rssFixture)

	svc := NewFeedService(st, config.FeedsConfig{
		Sources: []config.FeedSource{{URL: ts.URL, Source: "Example", Category: "World"}},
	})

	count, err := svc.FetchSource(context.Background(), svc.sources[0])
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// 重复抓取同一Link不产生新行
	count, err = svc.FetchSource(context.Background(), svc.sources[0])
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, int64(2), st.CountArticles(store.ArticleFilter{}))
}

func TestFetchSourceRespectsLimit(t *testing.T) {
	st := newTestStore(t)

	var items strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&items, `<item><title>Story %d</title><link>https://example.com/articles/%d</link></item>`, i, i)
	}
	body := `<?xml version="1.0"?><rss version="2.0"><channel><title>Big</title>` + items.String() + `</channel></rss>`
	ts := serveRSS(t, body)

	svc := NewFeedService(st, config.FeedsConfig{
		FetchLimit: 10,
		Sources:    []config.FeedSource{{URL: ts.URL, Source: "Big", Category: "World"}},
	})

	count, err := svc.FetchSource(context.Background(), svc.sources[0])
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestFetchAllContinuesPastBrokenFeed(t *testing.T) {
	st := newTestStore(t)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)
	good := serveRSS(t, rssFixture)

	svc := NewFeedService(st, config.FeedsConfig{
		Sources: []config.FeedSource{
			{URL: broken.URL, Source: "Broken", Category: "World"},
			{URL: good.URL, Source: "Example", Category: "World"},
		},
	})

	// 坏源只跳过,不影响后面的源
	total := svc.FetchAll(context.Background())
	assert.Equal(t, 2, total)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "标题", truncate("标题很长", 2))
}
