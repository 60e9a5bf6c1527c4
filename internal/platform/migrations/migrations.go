package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the catalog schema. Adapters do not automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&dogRecord{},
		&sessionRecord{},
	)
}

// Dog schema mirrors the catalog Postgres repository.
type dogRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	Name      string    `gorm:"column:name;index"`
	Breed     string    `gorm:"column:breed;index"`
	Age       int       `gorm:"column:age;index"`
	ZipCode   string    `gorm:"column:zip_code;size:16"`
	ImageURL  string    `gorm:"column:img"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (dogRecord) TableName() string { return "dogs" }

// Session schema mirrors the catalog session store.
type sessionRecord struct {
	Token     string    `gorm:"primaryKey;column:token;size:512"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "catalog_sessions" }
