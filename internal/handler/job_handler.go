package handler

import (
	"net/http"
	"strconv"

	"github.com/kawojue/phrednetwork/internal/middleware"
	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/internal/repository"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobs *repository.JobRepository
}

func NewJobHandler(jobs *repository.JobRepository) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type JobRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=128"`
	Description string `json:"description" binding:"max=1024"`
	Location    string `json:"location" binding:"max=128"`
	ApplyLink   string `json:"apply_link" binding:"omitempty,url,max=512"`
}

func (h *JobHandler) Create(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job := &models.Job{
		PostedByID:  middleware.GetUserID(c),
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		ApplyLink:   req.ApplyLink,
	}
	if err := h.jobs.Create(job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not post job"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

func (h *JobHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	if q := c.Query("q"); q != "" {
		list, err := h.jobs.Search(q, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"jobs": list})
		return
	}
	list, err := h.jobs.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load jobs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": list})
}

func (h *JobHandler) Get(c *gin.Context) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}
	job, err := h.jobs.GetByID(uint(jobID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) Mine(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.jobs.ListByPoster(middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load jobs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": list})
}

func (h *JobHandler) Update(c *gin.Context) {
	job, ok := h.editableJob(c)
	if !ok {
		return
	}
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job.Name = req.Name
	job.Description = req.Description
	job.Location = req.Location
	job.ApplyLink = req.ApplyLink
	if err := h.jobs.Update(job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) Delete(c *gin.Context) {
	job, ok := h.editableJob(c)
	if !ok {
		return
	}
	if err := h.jobs.Delete(job.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "job deleted"})
}

func (h *JobHandler) editableJob(c *gin.Context) (*models.Job, bool) {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return nil, false
	}
	job, err := h.jobs.GetByID(uint(jobID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return nil, false
	}
	if job.PostedByID != middleware.GetUserID(c) && !middleware.GetRole(c).IsModerator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return job, true
}
