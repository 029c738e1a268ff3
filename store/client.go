// Package store is the record-store client: generic CRUD access to the two
// collections this system owns, mocs and env_reviews. The client is built
// once in main and handed to every component that needs it.
package store

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/mmdatafocus/envreview_backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Client struct {
	db *gorm.DB
}

func NewClient(db *gorm.DB) *Client {
	return &Client{db: db}
}

// DB exposes the underlying handle for migrations and operational tooling.
func (c *Client) DB() *gorm.DB {
	return c.db
}

// ListMocs returns every MOC in store order. Ordering by business key is the
// catalog's job, not the store's.
func (c *Client) ListMocs(ctx context.Context) ([]models.Moc, error) {
	var mocs []models.Moc
	if err := c.db.WithContext(ctx).Find(&mocs).Error; err != nil {
		return nil, fmt.Errorf("list mocs: %w", err)
	}
	return mocs, nil
}

func (c *Client) GetMoc(ctx context.Context, id uuid.UUID) (*models.Moc, error) {
	var moc models.Moc
	if err := c.db.WithContext(ctx).First(&moc, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get moc: %w", err)
	}
	return &moc, nil
}

// FindReviewByMoc returns the review attached to a MOC, or (nil, nil) when
// none exists. Most-recent-first with a single row kept, so stores still
// holding pre-constraint duplicate reviews surface the newest one.
func (c *Client) FindReviewByMoc(ctx context.Context, mocID uuid.UUID) (*models.EnvReview, error) {
	var review models.EnvReview
	err := c.db.WithContext(ctx).
		Where("moc_id = ?", mocID).
		Order("created_at DESC").
		Limit(1).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return &review, nil
}

// InsertReview creates the review row. A second review for the same MOC is
// rejected by the unique moc_id index and surfaces as gorm.ErrDuplicatedKey.
func (c *Client) InsertReview(ctx context.Context, review *models.EnvReview) error {
	if err := c.db.WithContext(ctx).Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// UpdateReview applies the encoded form fields to the row keyed by id and
// returns the stored row. Unconditional last-write-wins.
func (c *Client) UpdateReview(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.EnvReview, error) {
	tx := c.db.WithContext(ctx).Model(&models.EnvReview{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return nil, fmt.Errorf("update review: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		// Updates with identical values also report zero rows on some
		// drivers, so verify the row actually exists before failing.
		var count int64
		if err := c.db.WithContext(ctx).Model(&models.EnvReview{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("update review: %w", err)
		}
		if count == 0 {
			return nil, fmt.Errorf("update review: %w", gorm.ErrRecordNotFound)
		}
	}
	var stored models.EnvReview
	if err := c.db.WithContext(ctx).First(&stored, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("update review: reload: %w", err)
	}
	return &stored, nil
}

// UpsertMocs merges the rows into the mocs collection on the natural key.
// Existing keys have their columns overwritten; new keys are created. The
// whole batch runs in one transaction, so a row failure applies nothing.
// In-batch duplicates are not deduplicated; rows apply in order, so the last
// occurrence of a key wins.
func (c *Client) UpsertMocs(ctx context.Context, rows []models.Moc) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "moc_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"columns", "updated_at"}),
			}).Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("upsert mocs: %w", err)
	}
	return len(rows), nil
}

// UpdateMocColumn rewrites a single column of a MOC's column map.
func (c *Client) UpdateMocColumn(ctx context.Context, id uuid.UUID, column, value string) (*models.Moc, error) {
	var moc models.Moc
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&moc, "id = ?", id).Error; err != nil {
			return err
		}
		if moc.Columns == nil {
			moc.Columns = models.ColumnMap{}
		}
		moc.Columns[column] = value
		return tx.Model(&moc).Update("Columns", moc.Columns).Error
	})
	if err != nil {
		return nil, fmt.Errorf("update moc column: %w", err)
	}
	return &moc, nil
}
