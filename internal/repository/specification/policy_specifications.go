package specification

import "gorm.io/gorm"

// ByCategory filters policies by their support-type bucket.
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// ByTitleSearch does a case-insensitive substring search over policy titles.
type ByTitleSearch struct {
	Query string
}

func (s ByTitleSearch) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title ILIKE ?", "%"+s.Query+"%")
}

// BySessionKey filters archived match sessions by their conversation key.
type BySessionKey struct {
	Key string
}

func (s BySessionKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_key = ?", s.Key)
}

// ByEmail filters admins by email.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}
