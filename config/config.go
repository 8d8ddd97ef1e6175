package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Cron     CronConfig     `yaml:"cron"`
	Feeds    FeedsConfig    `yaml:"feeds"`
	NewsAPI  NewsAPIConfig  `yaml:"newsapi"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type CronConfig struct {
	FeedInterval      string `yaml:"feed_interval"`      // RSS抓取间隔
	HeadlinesInterval string `yaml:"headlines_interval"` // 头条抓取间隔
}

type FeedsConfig struct {
	FetchLimit int          `yaml:"fetch_limit"` // 每个源最多取多少条
	Sources    []FeedSource `yaml:"sources"`
}

// FeedSource 订阅源描述,通过配置注入,便于测试替换
type FeedSource struct {
	URL      string `yaml:"url"`
	Source   string `yaml:"source"`
	Category string `yaml:"category"`
}

type NewsAPIConfig struct {
	APIKey    string   `yaml:"api_key"`
	BaseURL   string   `yaml:"base_url"`
	Countries []string `yaml:"countries"` // 头条抓取的国家代码
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	// 默认配置
	cfg := &Config{
		Server: ServerConfig{
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Path: "data/news.db",
		},
		Cron: CronConfig{
			FeedInterval:      "*/30 * * * *", // 每30分钟
			HeadlinesInterval: "0 * * * *",    // 每小时
		},
		Feeds: FeedsConfig{
			FetchLimit: 10,
			Sources: []FeedSource{
				{URL: "http://feeds.bbci.co.uk/news/rss.xml", Source: "BBC", Category: "World"},
				{URL: "https://techcrunch.com/feed/", Source: "TechCrunch", Category: "Technology"},
				{URL: "http://rss.cnn.com/rss/edition.rss", Source: "CNN", Category: "World"},
				{URL: "https://www.theguardian.com/world/rss", Source: "The Guardian", Category: "World"},
				{URL: "https://www.espn.com/espn/rss/news", Source: "ESPN", Category: "Sports"},
			},
		},
		NewsAPI: NewsAPIConfig{
			BaseURL:   "https://newsapi.org/v2",
			Countries: []string{"us", "in", "gb"},
		},
		Auth: AuthConfig{
			JWTSecret: "newshub-dev-secret",
		},
	}

	// 如果配置文件存在,读取配置
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else {
		log.Printf("配置文件不存在: %s, 使用默认配置", configPath)
	}

	// 环境变量覆盖配置
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if apiKey := os.Getenv("NEWSAPI_KEY"); apiKey != "" {
		cfg.NewsAPI.APIKey = apiKey
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}

	return cfg, nil
}

// GetServerAddress 获取服务器监听地址
func (c *Config) GetServerAddress() string {
	// 如果端口是纯数字,加上冒号前缀
	if _, err := strconv.Atoi(c.Server.Port); err == nil {
		return ":" + c.Server.Port
	}
	return c.Server.Port
}
