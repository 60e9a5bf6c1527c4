package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists catalog dogs in PostgreSQL using GORM. Schema comes from platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

// Save upserts dogs in one statement.
func (r *Repository) Save(ctx context.Context, dogs ...domain.Dog) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if len(dogs) == 0 {
		return nil
	}
	records := make([]dogRecord, 0, len(dogs))
	for _, d := range dogs {
		if err := d.Validate(); err != nil {
			return err
		}
		records = append(records, toRecord(d))
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":       gorm.Expr("EXCLUDED.name"),
				"breed":      gorm.Expr("EXCLUDED.breed"),
				"age":        gorm.Expr("EXCLUDED.age"),
				"zip_code":   gorm.Expr("EXCLUDED.zip_code"),
				"img":        gorm.Expr("EXCLUDED.img"),
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		CreateInBatches(&records, 200).Error
}

func (r *Repository) Breeds(ctx context.Context) ([]string, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var breeds []string
	if err := r.db.WithContext(ctx).
		Model(&dogRecord{}).
		Distinct("breed").
		Order("breed").
		Pluck("breed", &breeds).Error; err != nil {
		return nil, err
	}
	if breeds == nil {
		breeds = []string{}
	}
	return breeds, nil
}

// Search counts the full match set, then plucks one ordered window of ids.
func (r *Repository) Search(ctx context.Context, q domain.Query) ([]string, int, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&dogRecord{}).
		Scopes(filtered(q)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	ids := []string{}
	if int64(q.From) >= total {
		return ids, int(total), nil
	}
	if err := r.db.WithContext(ctx).
		Model(&dogRecord{}).
		Scopes(filtered(q)).
		Order(orderBy(q.Order)).
		Offset(q.From).
		Limit(q.Size).
		Pluck("id", &ids).Error; err != nil {
		return nil, 0, err
	}
	return ids, int(total), nil
}

func (r *Repository) GetByIDs(ctx context.Context, ids []string) ([]domain.Dog, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Dog{}, nil
	}
	var records []dogRecord
	if err := r.db.WithContext(ctx).
		Where("id = ANY(?)", pq.Array(ids)).
		Find(&records).Error; err != nil {
		return nil, err
	}
	dogs := make([]domain.Dog, 0, len(records))
	for i := range records {
		dogs = append(dogs, records[i].toDomain())
	}
	return dogs, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&dogRecord{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func filtered(q domain.Query) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if len(q.Breeds) > 0 {
			tx = tx.Where("breed = ANY(?)", pq.Array(q.Breeds))
		}
		if q.AgeMin != nil {
			tx = tx.Where("age >= ?", *q.AgeMin)
		}
		if q.AgeMax != nil {
			tx = tx.Where("age <= ?", *q.AgeMax)
		}
		return tx
	}
}

// orderBy mirrors domain.Order.Less: ties fall back to ascending id.
func orderBy(o domain.Order) clause.OrderBy {
	column := string(o.Field)
	switch o.Field {
	case domain.SortName, domain.SortAge, domain.SortBreed:
	default:
		column = string(domain.SortBreed)
	}
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: column}, Desc: o.Descending},
		{Column: clause.Column{Name: "id"}},
	}}
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres dog repository not configured")
	}
	return nil
}

func toRecord(d domain.Dog) dogRecord {
	return dogRecord{
		ID:       d.ID,
		Name:     d.Name,
		Breed:    d.Breed,
		Age:      d.Age,
		ZipCode:  d.ZipCode,
		ImageURL: d.ImageURL,
	}
}

func (r dogRecord) toDomain() domain.Dog {
	return domain.Dog{
		ID:       r.ID,
		Name:     r.Name,
		Breed:    r.Breed,
		Age:      r.Age,
		ZipCode:  r.ZipCode,
		ImageURL: r.ImageURL,
	}
}
