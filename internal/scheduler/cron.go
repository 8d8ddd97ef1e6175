package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"newshub/config"
	"newshub/internal/service"
)

type Scheduler struct {
	cron             *cron.Cron
	feed             *service.FeedService
	newsapi          *service.NewsAPIService
	config           config.CronConfig
	feedEntryID      cron.EntryID
	headlinesEntryID cron.EntryID
}

func NewScheduler(feed *service.FeedService, newsapi *service.NewsAPIService, cfg config.CronConfig) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		feed:    feed,
		newsapi: newsapi,
		config:  cfg,
	}
}

func (s *Scheduler) Start() {
	// RSS抓取任务
	s.feedEntryID, _ = s.cron.AddFunc(s.config.FeedInterval, func() {
		log.Println("[Cron] Fetching feeds...")
		s.feed.FetchAll(context.Background())
	})

	// 头条抓取任务
	s.headlinesEntryID, _ = s.cron.AddFunc(s.config.HeadlinesInterval, func() {
		log.Println("[Cron] Fetching top headlines...")
		s.newsapi.FetchTopHeadlines(context.Background())
	})

	s.cron.Start()
	log.Printf("[Cron] Scheduler started (feeds: %s, headlines: %s)", s.config.FeedInterval, s.config.HeadlinesInterval)
}

// GetNextFeedTime 获取下次RSS抓取时间
func (s *Scheduler) GetNextFeedTime() time.Time {
	return s.cron.Entry(s.feedEntryID).Next
}

// GetNextHeadlinesTime 获取下次头条抓取时间
func (s *Scheduler) GetNextHeadlinesTime() time.Time {
	return s.cron.Entry(s.headlinesEntryID).Next
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
