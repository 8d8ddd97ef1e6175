package model

import "time"

// Article 聚合的新闻文章,Link为全局唯一去重键
// 插入后不再更新,重复抓取同一Link直接跳过
type Article struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:500;not null" json:"title"`
	Link        string     `gorm:"size:500;uniqueIndex;not null" json:"link"`
	Image       string     `gorm:"size:500" json:"image,omitempty"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Content     string     `gorm:"type:text" json:"content,omitempty"`
	Author      string     `gorm:"size:255" json:"author,omitempty"`
	PubDate     *time.Time `json:"pub_date,omitempty"`
	Source      string     `gorm:"size:100" json:"source"`
	CategoryID  *uint      `json:"category_id,omitempty"`
	Category    *Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	GUID        string     `gorm:"size:255" json:"guid,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
