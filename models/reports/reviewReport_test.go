package reports

import (
	"testing"

	"bitbucket.org/mmdatafocus/envreview_backend/models"
	"bitbucket.org/mmdatafocus/envreview_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewQuestions(t *testing.T) {
	assert.Nil(t, ReviewQuestions(nil))

	review := &models.EnvReview{
		ModifyLdar:      utils.NewTrue(),
		IncreaseProcess: utils.NewFalse(),
	}
	questions := ReviewQuestions(review)
	require.Len(t, questions, 5)
	assert.Equal(t, utils.NewTrue(), questions[0].Answer)
	assert.Nil(t, questions[1].Answer)
	assert.Equal(t, utils.NewFalse(), questions[2].Answer)
}

func TestActionRequired(t *testing.T) {
	allNo := &models.EnvReview{
		ModifyLdar:                   utils.NewFalse(),
		ModifyControlDevice:          utils.NewFalse(),
		IncreaseProcess:              utils.NewFalse(),
		RequireOutsideEmissionSource: utils.NewFalse(),
		Permitting:                   utils.NewFalse(),
	}
	assert.Empty(t, ActionRequired(ReviewQuestions(allNo)))

	// Unset answers never raise a flag either.
	assert.Empty(t, ActionRequired(ReviewQuestions(&models.EnvReview{})))

	flagged := &models.EnvReview{
		IncreaseProcess: utils.NewTrue(),
		Permitting:      utils.NewTrue(),
	}
	assert.Equal(t, []string{flagEmissionCalc, flagPermitting}, ActionRequired(ReviewQuestions(flagged)))
}

func TestReportFilename(t *testing.T) {
	moc := &models.Moc{Columns: models.ColumnMap{"MOC ID": "ML.A1 | 2025 | 3356"}}
	assert.Equal(t, "Review_ML.A1 | 2025 | 3356.xlsx", ReportFilename(moc))
	assert.Equal(t, "Review_Draft.xlsx", ReportFilename(&models.Moc{}))
	assert.Equal(t, "Review_Draft.xlsx", ReportFilename(nil))
}

func TestBuildReviewReport(t *testing.T) {
	reviewer := "R. Patel"
	start := "2025-12-01"
	moc := &models.Moc{Columns: models.ColumnMap{
		"MOC ID":    "ML.A1 | 2025 | 3356",
		"Title":     "Flare tip replacement",
		"MOC Owner": "J. Ortiz",
	}}
	review := &models.EnvReview{
		EnvStatus:           models.EnvStatusInProgress,
		EnvReviewer:         &reviewer,
		EnvReviewStartDate:  &start,
		ModifyLdar:          utils.NewTrue(),
		ModifyControlDevice: utils.NewFalse(),
	}

	f, err := BuildReviewReport(moc, review)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{reportSheet}, f.GetSheetList())

	get := func(cell string) string {
		v, err := f.GetCellValue(reportSheet, cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Environmental Review", get("A1"))
	assert.Equal(t, "MOC Information", get("A6"))
	assert.Equal(t, "ML.A1 | 2025 | 3356", get("B7"))
	assert.Equal(t, "Flare tip replacement", get("B8"))
	assert.Equal(t, "J. Ortiz", get("B9"))
	assert.Equal(t, "N/A", get("B10"), "absent MOC columns render as N/A")

	assert.Equal(t, "Review Details", get("A14"))
	assert.Equal(t, "In Progress", get("B15"))
	assert.Equal(t, "R. Patel", get("B16"))
	assert.Equal(t, "2025-12-01", get("B17"))
	assert.Equal(t, "N/A", get("B18"))

	// Question 1 answered Yes carries its flag on the following row.
	assert.Equal(t, "Environmental Impact Questions", get("A20"))
	assert.Equal(t, "YES", get("B22"))
	assert.Equal(t, flagLdarTeam, get("B23"))
	assert.Equal(t, "NO", get("B25"))
}

func TestBuildReviewReport_NoReview(t *testing.T) {
	moc := &models.Moc{Columns: models.ColumnMap{"MOC ID": "ML.A1 | 2025 | 1"}}
	f, err := BuildReviewReport(moc, nil)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(reportSheet, "B15")
	require.NoError(t, err)
	assert.Equal(t, "No review started", v)
}
