package workflow

import (
	"context"
	"errors"
	"sync"

	"bitbucket.org/mmdatafocus/envreview_backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNoMocSelected    = errors.New("no MOC selected")
	ErrNoReviewSelected = errors.New("no review selected")
)

// ReviewStore is the slice of the record-store client the lifecycle needs.
type ReviewStore interface {
	FindReviewByMoc(ctx context.Context, mocID uuid.UUID) (*models.EnvReview, error)
	InsertReview(ctx context.Context, review *models.EnvReview) error
	UpdateReview(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.EnvReview, error)
}

// ReviewForm is the editable state of a review: everything is a string, the
// way a form carries it. Tri-state answers hold "true", "false" or "".
type ReviewForm struct {
	EnvStatus    string `json:"env_status"`
	EnvReviewer  string `json:"env_reviewer"`
	StartDate    string `json:"env_review_start_date"`
	CompleteDate string `json:"env_review_complete_date"`

	ModifyLdar                   string `json:"modify_ldar"`
	ModifyControlDevice          string `json:"modify_control_device"`
	IncreaseProcess              string `json:"increase_process"`
	RequireOutsideEmissionSource string `json:"require_outside_emission_source"`
	Permitting                   string `json:"permitting"`

	Comments string `json:"comments"`
}

// HydrateForm decodes a persisted review into editable state.
func HydrateForm(review *models.EnvReview) ReviewForm {
	if review == nil {
		return ReviewForm{}
	}
	return ReviewForm{
		EnvStatus:    string(review.EnvStatus),
		EnvReviewer:  models.DecodeText(review.EnvReviewer),
		StartDate:    models.DecodeDate(review.EnvReviewStartDate),
		CompleteDate: models.DecodeDate(review.EnvReviewCompleteDate),

		ModifyLdar:                   models.DecodeBool(review.ModifyLdar),
		ModifyControlDevice:          models.DecodeBool(review.ModifyControlDevice),
		IncreaseProcess:              models.DecodeBool(review.IncreaseProcess),
		RequireOutsideEmissionSource: models.DecodeBool(review.RequireOutsideEmissionSource),
		Permitting:                   models.DecodeBool(review.Permitting),

		Comments: models.DecodeText(review.Comments),
	}
}

// encode builds the update payload for save. Unrecognized tri-state values
// and empty strings persist as null (status excepted: it is a closed set and
// validated before this point).
func (f ReviewForm) encode() map[string]interface{} {
	return map[string]interface{}{
		"EnvStatus":   models.EnvStatus(f.EnvStatus),
		"EnvReviewer": models.EncodeText(f.EnvReviewer),

		"EnvReviewStartDate":    models.EncodeDate(f.StartDate),
		"EnvReviewCompleteDate": models.EncodeDate(f.CompleteDate),

		"ModifyLdar":                   models.EncodeBool(f.ModifyLdar),
		"ModifyControlDevice":          models.EncodeBool(f.ModifyControlDevice),
		"IncreaseProcess":              models.EncodeBool(f.IncreaseProcess),
		"RequireOutsideEmissionSource": models.EncodeBool(f.RequireOutsideEmissionSource),
		"Permitting":                   models.EncodeBool(f.Permitting),

		"Comments": models.EncodeText(f.Comments),
	}
}

// ReviewSession owns the start/continue/edit/save state machine for the
// review attached to the selected MOC. One instance per client session; the
// session mutex serializes its transitions, but nothing orders two sessions
// against each other (last write wins at the store).
type ReviewSession struct {
	store ReviewStore

	mu          sync.Mutex
	selectToken uint64
	selectedMoc *models.Moc
	review      *models.EnvReview
}

func NewReviewSession(store ReviewStore) *ReviewSession {
	return &ReviewSession{store: store}
}

// SelectMoc moves the session to a new MOC and reloads its review. The fetch
// runs outside the lock; a monotonically increasing token guards application
// of the result, so a fetch that resolves after the selection has moved on is
// discarded instead of overwriting the newer selection's state.
func (s *ReviewSession) SelectMoc(ctx context.Context, moc *models.Moc) (*models.EnvReview, error) {
	s.mu.Lock()
	s.selectToken++
	token := s.selectToken
	s.selectedMoc = moc
	s.review = nil
	s.mu.Unlock()

	if moc == nil {
		return nil, nil
	}

	review, err := s.store.FindReviewByMoc(ctx, moc.ID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.selectToken {
		// Stale response: the selection changed while this fetch was in
		// flight. Never applied.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.review = review
	return review, nil
}

// StartOrContinue exposes the existing review when one is held (continue) or
// inserts one with status "Not Reviewed" (start). A duplicate-key rejection
// from the store means another session started the review first; that is a
// continue, not an error. Insert failure leaves the session without a review
// so the user can retry.
func (s *ReviewSession) StartOrContinue(ctx context.Context) (*models.EnvReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedMoc == nil {
		return nil, ErrNoMocSelected
	}
	if s.review != nil {
		return s.review, nil
	}

	review := &models.EnvReview{
		MocID:     s.selectedMoc.ID,
		EnvStatus: models.EnvStatusNotReviewed,
	}
	if err := s.store.InsertReview(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, ferr := s.store.FindReviewByMoc(ctx, s.selectedMoc.ID)
			if ferr != nil {
				return nil, ferr
			}
			s.review = existing
			return existing, nil
		}
		return nil, err
	}
	s.review = review
	return review, nil
}

// Save encodes the form and updates the held review. On success the stored
// row replaces the held review, so re-selecting the same MOC reflects the
// save without a re-fetch. On failure nothing is replaced; the caller keeps
// the form contents for a retry.
func (s *ReviewSession) Save(ctx context.Context, form ReviewForm) (*models.EnvReview, error) {
	if _, err := models.ParseEnvStatus(form.EnvStatus); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.review == nil {
		return nil, ErrNoReviewSelected
	}

	stored, err := s.store.UpdateReview(ctx, s.review.ID, form.encode())
	if err != nil {
		return nil, err
	}
	s.review = stored
	return stored, nil
}

// Review returns the held review, or nil in the NoReview state.
func (s *ReviewSession) Review() *models.EnvReview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.review
}

// SelectedMoc returns the session's selected MOC, or nil.
func (s *ReviewSession) SelectedMoc() *models.Moc {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedMoc
}

// Form hydrates editable state from the held review.
func (s *ReviewSession) Form() ReviewForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return HydrateForm(s.review)
}
