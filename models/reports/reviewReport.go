// Package reports renders a completed MOC + review pair into a formatted
// workbook. Read-only: the renderer never mutates either record.
package reports

import (
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/envreview_backend/models"
	"github.com/xuri/excelize/v2"
)

// Question is one impact question as it appears on the report: its text, the
// answer taken from the review, and the action required when answered Yes.
type Question struct {
	Text   string
	Answer *bool
	Flag   string
}

const (
	flagLdarTeam     = "Send Summary Email of MOC to LDAR Team"
	flagEmissionCalc = "Requires updated Emission Calculations"
	flagPermitting   = "Requires updated Permitting process. Send Summary email to Air Team"
)

// ReviewQuestions is the renderer's input for the question section. A
// review with every answer No (not unset) produces five questions and zero
// active flags.
func ReviewQuestions(review *models.EnvReview) []Question {
	if review == nil {
		return nil
	}
	return []Question{
		{"1. Does this project modify equipment or piping in the LDAR program?", review.ModifyLdar, flagLdarTeam},
		{"2. Does this project modify equipment or piping relating to a control device?", review.ModifyControlDevice, flagLdarTeam},
		{"3. Does this project increase product output from the process?", review.IncreaseProcess, flagEmissionCalc},
		{"4. Does this project require an outside emission source to be brought onsite?", review.RequireOutsideEmissionSource, flagEmissionCalc},
		{"5. Does this project require an update or new permitting?", review.Permitting, flagPermitting},
	}
}

// ActionRequired returns the flags of every question answered Yes.
func ActionRequired(questions []Question) []string {
	var flags []string
	for _, q := range questions {
		if q.Answer != nil && *q.Answer {
			flags = append(flags, q.Flag)
		}
	}
	return flags
}

// ReportFilename suggests a download name from the MOC's business
// identifier, falling back to a constant placeholder.
func ReportFilename(moc *models.Moc) string {
	id := ""
	if moc != nil {
		id = moc.Identifier()
	}
	if id == "" {
		id = "Draft"
	}
	return fmt.Sprintf("Review_%s.xlsx", id)
}

func yesNo(val *bool) string {
	if val == nil {
		return "-"
	}
	if *val {
		return "YES"
	}
	return "NO"
}

const reportSheet = "Review"

// BuildReviewReport renders the report workbook: MOC information, review
// details, the five questions with their action flags, and comments.
func BuildReviewReport(moc *models.Moc, review *models.EnvReview) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, err
	}
	sectionStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	if err != nil {
		return nil, err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	_ = f.SetColWidth(reportSheet, "A", "A", 32)
	_ = f.SetColWidth(reportSheet, "B", "B", 70)

	f.SetCellValue(reportSheet, "A1", "Environmental Review")
	_ = f.SetCellStyle(reportSheet, "A1", "A1", titleStyle)
	f.SetCellValue(reportSheet, "A2", "Air Department")
	f.SetCellValue(reportSheet, "A3", "Generated: "+time.Now().Format("2006-01-02"))

	row := 5
	setRow := func(label, value string) {
		cellA := fmt.Sprintf("A%d", row)
		cellB := fmt.Sprintf("B%d", row)
		f.SetCellValue(reportSheet, cellA, label)
		_ = f.SetCellStyle(reportSheet, cellA, cellA, labelStyle)
		f.SetCellValue(reportSheet, cellB, value)
		row++
	}
	setSection := func(title string) {
		row++
		cell := fmt.Sprintf("A%d", row)
		f.SetCellValue(reportSheet, cell, title)
		_ = f.SetCellStyle(reportSheet, cell, cell, sectionStyle)
		row++
	}
	orNA := func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	}

	setSection("MOC Information")
	setRow("MOC ID:", orNA(moc.Identifier()))
	setRow("Title:", orNA(moc.Title()))
	setRow("Owner:", orNA(moc.Owner()))
	setRow("Status:", orNA(moc.Status()))
	setRow("Location:", orNA(moc.Location()))
	setRow("Description:", orNA(moc.Description()))

	setSection("Review Details")
	if review != nil {
		setRow("Review Status:", orNA(string(review.EnvStatus)))
		setRow("Reviewer:", orNA(models.DecodeText(review.EnvReviewer)))
		setRow("Start Date:", orNA(models.DecodeDate(review.EnvReviewStartDate)))
		setRow("Complete Date:", orNA(models.DecodeDate(review.EnvReviewCompleteDate)))
	} else {
		setRow("Review Status:", "No review started")
	}

	setSection("Environmental Impact Questions")
	for _, q := range ReviewQuestions(review) {
		setRow(q.Text, "")
		setRow("Answer:", yesNo(q.Answer))
		if q.Answer != nil && *q.Answer {
			setRow("Action Required:", q.Flag)
		}
	}

	setSection("General Comments")
	comments := ""
	if review != nil {
		comments = models.DecodeText(review.Comments)
	}
	if comments == "" {
		comments = "No comments."
	}
	f.SetCellValue(reportSheet, fmt.Sprintf("A%d", row), comments)

	return f, nil
}
