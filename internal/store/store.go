package store

import (
	"errors"

	"gorm.io/gorm"

	"newshub/internal/model"
)

var (
	// ErrDuplicateLink 文章Link已存在,唯一索引拒绝插入
	ErrDuplicateLink = errors.New("article link already exists")
	// ErrDuplicateSave (user, article)收藏已存在
	ErrDuplicateSave = errors.New("article already saved by user")
	ErrNotFound      = errors.New("record not found")
)

// Store 封装所有持久化操作
// 唯一性约束(Link、user+article)是并发写入的唯一仲裁,上层不加锁
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ===== Article =====

// ExistsByLink 判断Link是否已入库,调用方用它把重复当作静默跳过
func (s *Store) ExistsByLink(link string) bool {
	var count int64
	s.db.Model(&model.Article{}).Where("link = ?", link).Count(&count)
	return count > 0
}

// InsertArticle 插入新文章,Link冲突返回ErrDuplicateLink
func (s *Store) InsertArticle(article *model.Article) error {
	if err := s.db.Create(article).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateLink
		}
		return err
	}
	return nil
}

func (s *Store) GetArticle(id uint) (*model.Article, error) {
	var article model.Article
	if err := s.db.Preload("Category").First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

// ArticleFilter 列表过滤条件,零值表示不过滤
type ArticleFilter struct {
	CategoryID uint
	Keyword    string // 标题或描述的子串匹配,不区分大小写
}

func (s *Store) articleQuery(f ArticleFilter) *gorm.DB {
	query := s.db.Model(&model.Article{})
	if f.CategoryID != 0 {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.Keyword != "" {
		pattern := "%" + escapeLike(f.Keyword) + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) ESCAPE '\\' OR LOWER(description) LIKE LOWER(?) ESCAPE '\\'",
			pattern, pattern,
		)
	}
	return query
}

func (s *Store) CountArticles(f ArticleFilter) int64 {
	var total int64
	s.articleQuery(f).Count(&total)
	return total
}

// ListArticles 按发布时间倒序分页,无发布时间的排在最后
func (s *Store) ListArticles(f ArticleFilter, offset, limit int) ([]model.Article, error) {
	var articles []model.Article
	err := s.articleQuery(f).
		Preload("Category").
		Order("pub_date IS NULL, pub_date DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&articles).Error
	return articles, err
}

// ===== Category =====

// GetOrCreateCategory 按名称取分类,不存在则创建
func (s *Store) GetOrCreateCategory(name string) (*model.Category, error) {
	var category model.Category
	err := s.db.Where("name = ?", name).FirstOrCreate(&category, model.Category{Name: name}).Error
	if err != nil {
		// 并发创建同名分类时输的一方重新读取
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = s.db.Where("name = ?", name).First(&category).Error
		}
		if err != nil {
			return nil, err
		}
	}
	return &category, nil
}

func (s *Store) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	err := s.db.Order("name").Find(&categories).Error
	return categories, err
}

// ===== SavedArticle =====

// CreateSaved 新建收藏,(user, article)冲突返回ErrDuplicateSave
func (s *Store) CreateSaved(saved *model.SavedArticle) error {
	if err := s.db.Create(saved).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSave
		}
		return err
	}
	return nil
}

// DeleteSaved 删除收藏,返回是否确有删除
func (s *Store) DeleteSaved(userID, articleID uint) (bool, error) {
	result := s.db.Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&model.SavedArticle{})
	return result.RowsAffected > 0, result.Error
}

// ListSaved 按收藏时间倒序分页
func (s *Store) ListSaved(userID uint, offset, limit int) ([]model.SavedArticle, error) {
	var saved []model.SavedArticle
	err := s.db.Where("user_id = ?", userID).
		Preload("Article").
		Preload("Article.Category").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&saved).Error
	return saved, err
}

func (s *Store) CountSaved(userID uint) int64 {
	var total int64
	s.db.Model(&model.SavedArticle{}).Where("user_id = ?", userID).Count(&total)
	return total
}

// SavedArticleIDs 用户已收藏的文章ID集合,列表页标记用
func (s *Store) SavedArticleIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&model.SavedArticle{}).
		Where("user_id = ?", userID).
		Pluck("article_id", &ids).Error
	return ids, err
}

// ===== User =====

func (s *Store) CreateUser(user *model.User) error {
	return s.db.Create(user).Error
}

func (s *Store) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ===== 统计 =====

func (s *Store) Count(value any) int64 {
	var total int64
	s.db.Model(value).Count(&total)
	return total
}

// escapeLike 转义LIKE通配符,用户输入按字面匹配
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
