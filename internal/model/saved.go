package model

import "time"

// SavedArticle 用户收藏,(user, article)组合唯一
// 并发收藏竞争由唯一索引裁决,输的一方按已存在处理
type SavedArticle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_article" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_user_article" json:"article_id"`
	Article   *Article  `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"article,omitempty"`
	CreatedAt time.Time `json:"saved_at"`
}
