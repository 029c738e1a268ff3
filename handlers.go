package main

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync/atomic"

	"bitbucket.org/mmdatafocus/envreview_backend/config"
	"bitbucket.org/mmdatafocus/envreview_backend/middlewares"
	"bitbucket.org/mmdatafocus/envreview_backend/models"
	"bitbucket.org/mmdatafocus/envreview_backend/models/reports"
	"bitbucket.org/mmdatafocus/envreview_backend/store"
	"bitbucket.org/mmdatafocus/envreview_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type application struct {
	store    *store.Client
	catalog  *workflow.Catalog
	registry *middlewares.SessionRegistry
	logger   *logrus.Logger
}

const appContextKey = "envreview-app"

func appFrom(c *gin.Context) *application {
	v, _ := c.Get(appContextKey)
	a, _ := v.(*application)
	return a
}

func registerRoutes(r *gin.Engine, app *atomic.Pointer[application]) {
	api := r.Group("/api")
	// The readiness gate runs before this, so app.Load() is non-nil here.
	api.Use(func(c *gin.Context) {
		a := app.Load()
		c.Set(appContextKey, a)
		middlewares.Bind(c, a.registry)
		c.Next()
	})

	api.GET("/mocs", listMocsHandler)
	api.POST("/mocs/import", importMocsHandler)
	api.PATCH("/mocs/:id/description", updateMocDescriptionHandler)

	api.POST("/session/select/:id", selectMocHandler)
	api.POST("/session/review", startOrContinueHandler)
	api.PUT("/session/review", saveReviewHandler)
	api.GET("/session/review/report", reviewReportHandler)
}

type mocListItem struct {
	ID       uuid.UUID        `json:"id"`
	Label    string           `json:"label"`
	Location string           `json:"location"`
	Columns  models.ColumnMap `json:"columns"`
}

// listMocsHandler reloads the catalog and returns the ordered list plus the
// default selection. A load failure renders an empty list with a message.
func listMocsHandler(c *gin.Context) {
	a := appFrom(c)
	ctx := c.Request.Context()

	if err := a.catalog.Load(ctx); err != nil {
		config.LogError(a.logger, "handlers.go", "listMocsHandler", "catalog.Load", nil, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load MOCs: " + err.Error(), "mocs": []mocListItem{}})
		return
	}

	mocs := a.catalog.Mocs()
	items := make([]mocListItem, 0, len(mocs))
	for i := range mocs {
		items = append(items, mocListItem{
			ID:       mocs[i].ID,
			Label:    mocs[i].Label(),
			Location: mocs[i].Location(),
			Columns:  mocs[i].Columns,
		})
	}

	resp := gin.H{"mocs": items}
	if selected := a.catalog.Selected(); selected != nil {
		resp["selected_id"] = selected.ID
	}
	c.JSON(http.StatusOK, resp)
}

// selectMocHandler moves this session's selection and returns the review for
// the newly selected MOC (or null when none exists yet).
func selectMocHandler(c *gin.Context) {
	a := appFrom(c)
	session := middlewares.SessionFrom(c)
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid MOC id"})
		return
	}

	moc, ok := a.catalog.Select(id)
	if !ok {
		// The catalog may not have been loaded in this process yet.
		fetched, gerr := a.store.GetMoc(ctx, id)
		if gerr != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "MOC not found"})
			return
		}
		moc = fetched
	}

	review, err := session.SelectMoc(ctx, moc)
	if err != nil {
		config.LogError(a.logger, "handlers.go", "selectMocHandler", "session.SelectMoc", id, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load review: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"moc":    moc,
		"review": review,
		"form":   workflow.HydrateForm(review),
	})
}

// startOrContinueHandler is the start-or-continue transition for the
// session's selected MOC.
func startOrContinueHandler(c *gin.Context) {
	a := appFrom(c)
	session := middlewares.SessionFrom(c)

	review, err := session.StartOrContinue(c.Request.Context())
	if err != nil {
		if err == workflow.ErrNoMocSelected {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		config.LogError(a.logger, "handlers.go", "startOrContinueHandler", "session.StartOrContinue", nil, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to start review: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review": review,
		"form":   workflow.HydrateForm(review),
	})
}

// saveReviewHandler encodes the submitted form and updates the selected
// review. On failure the client keeps its form contents and retries.
func saveReviewHandler(c *gin.Context) {
	a := appFrom(c)
	session := middlewares.SessionFrom(c)

	var form workflow.ReviewForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review form: " + err.Error()})
		return
	}

	review, err := session.Save(c.Request.Context(), form)
	if err != nil {
		if err == workflow.ErrNoReviewSelected {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		config.LogError(a.logger, "handlers.go", "saveReviewHandler", "session.Save", nil, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save review: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review": review,
		"form":   workflow.HydrateForm(review),
	})
}

// reviewReportHandler renders the selected MOC + review as a downloadable
// workbook. Read-only.
func reviewReportHandler(c *gin.Context) {
	a := appFrom(c)
	session := middlewares.SessionFrom(c)

	moc := session.SelectedMoc()
	if moc == nil {
		c.JSON(http.StatusConflict, gin.H{"error": workflow.ErrNoMocSelected.Error()})
		return
	}

	f, err := reports.BuildReviewReport(moc, session.Review())
	if err != nil {
		config.LogError(a.logger, "handlers.go", "reviewReportHandler", "BuildReviewReport", moc.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report: " + err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write report: " + err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reports.ReportFilename(moc)))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// importMocsHandler accepts a spreadsheet upload and reconciles it into the
// MOC collection, then reloads the catalog (full reload, not incremental).
func importMocsHandler(c *gin.Context) {
	a := appFrom(c)
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload: " + err.Error()})
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xlsm" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type: only .xlsx files are allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload: " + err.Error()})
		return
	}
	defer file.Close()

	count, err := workflow.ImportMocs(ctx, a.store, config.MocKeyColumn(), file)
	if err != nil {
		config.LogError(a.logger, "handlers.go", "importMocsHandler", "workflow.ImportMocs", fileHeader.Filename, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error importing: " + err.Error()})
		return
	}

	if err := a.catalog.Load(ctx); err != nil {
		config.LogError(a.logger, "handlers.go", "importMocsHandler", "catalog.Load", nil, err)
	}

	c.JSON(http.StatusOK, gin.H{"imported": count})
}

type descriptionUpdate struct {
	Description string `json:"description"`
}

// updateMocDescriptionHandler rewrites the change-description column of one
// MOC.
func updateMocDescriptionHandler(c *gin.Context) {
	a := appFrom(c)
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid MOC id"})
		return
	}

	var body descriptionUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}

	moc, err := a.store.UpdateMocColumn(ctx, id, "Change Description", body.Description)
	if err != nil {
		config.LogError(a.logger, "handlers.go", "updateMocDescriptionHandler", "store.UpdateMocColumn", id, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error saving description: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"moc": moc})
}
