package workflow

import (
	"context"
	"sort"
	"sync"

	"bitbucket.org/mmdatafocus/envreview_backend/models"
	"github.com/google/uuid"
)

// CatalogStore is the slice of the record-store client the catalog needs.
type CatalogStore interface {
	ListMocs(ctx context.Context) ([]models.Moc, error)
}

// Catalog loads and orders the MOC list and tracks the current selection.
// Single selection only; selection is driven by the caller except for the
// default applied on first load.
type Catalog struct {
	store CatalogStore

	mu          sync.Mutex
	mocs        []models.Moc
	selectedIdx int
	hasSelected bool
}

func NewCatalog(store CatalogStore) *Catalog {
	return &Catalog{store: store, selectedIdx: -1}
}

// Load fetches all MOCs and orders them descending by sort key. On the first
// successful load the first element becomes the selection. On failure the
// catalog renders empty and the error is reported to the caller.
func (c *Catalog) Load(ctx context.Context) error {
	mocs, err := c.store.ListMocs(ctx)
	if err != nil {
		c.mu.Lock()
		c.mocs = nil
		c.selectedIdx = -1
		c.hasSelected = false
		c.mu.Unlock()
		return err
	}

	OrderMocs(mocs)

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-resolve a held selection by id; the reloaded list may have shuffled.
	var keep uuid.UUID
	if c.hasSelected && c.selectedIdx >= 0 && c.selectedIdx < len(c.mocs) {
		keep = c.mocs[c.selectedIdx].ID
	}

	c.mocs = mocs
	c.selectedIdx = -1
	c.hasSelected = false

	if keep != uuid.Nil {
		for i := range mocs {
			if mocs[i].ID == keep {
				c.selectedIdx = i
				c.hasSelected = true
				break
			}
		}
	}
	if !c.hasSelected && len(mocs) > 0 {
		c.selectedIdx = 0
		c.hasSelected = true
	}
	return nil
}

// Mocs returns the ordered list as of the last load.
func (c *Catalog) Mocs() []models.Moc {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Moc, len(c.mocs))
	copy(out, c.mocs)
	return out
}

// Selected returns the currently selected MOC, or nil.
func (c *Catalog) Selected() *models.Moc {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasSelected || c.selectedIdx < 0 || c.selectedIdx >= len(c.mocs) {
		return nil
	}
	moc := c.mocs[c.selectedIdx]
	return &moc
}

// Select moves the selection to the MOC with the given id.
func (c *Catalog) Select(id uuid.UUID) (*models.Moc, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.mocs {
		if c.mocs[i].ID == id {
			c.selectedIdx = i
			c.hasSelected = true
			moc := c.mocs[i]
			return &moc, true
		}
	}
	return nil, false
}

// OrderMocs sorts in place, descending by the numeric sort key. Ties keep the
// store's order (stable).
func OrderMocs(mocs []models.Moc) {
	sort.SliceStable(mocs, func(i, j int) bool {
		return mocs[i].SortKey() > mocs[j].SortKey()
	})
}
