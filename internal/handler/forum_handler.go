package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kawojue/phrednetwork/internal/middleware"
	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/internal/repository"
	"github.com/kawojue/phrednetwork/internal/service"
	"github.com/kawojue/phrednetwork/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

type ForumHandler struct {
	forums   *repository.ForumRepository
	uploads  cloudinary.Client
	notifier *service.Notifier
}

func NewForumHandler(forums *repository.ForumRepository, uploads cloudinary.Client, notifier *service.Notifier) *ForumHandler {
	return &ForumHandler{forums: forums, uploads: uploads, notifier: notifier}
}

type CreateForumRequest struct {
	Title       string `form:"title" binding:"required,min=3,max=128"`
	Description string `form:"description" binding:"required,max=512"`
	Keywords    string `form:"keywords"`
}

// Create opens a forum with the creator as first participant.
func (h *ForumHandler) Create(c *gin.Context) {
	var req CreateForumRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	forum := &models.Forum{
		OwnerID:      userID,
		Title:        req.Title,
		Description:  req.Description,
		KeywordsText: req.Keywords,
	}
	if file, _, err := c.Request.FormFile("profile_img"); err == nil {
		defer file.Close()
		res, err := h.uploads.Upload(c.Request.Context(), file, "forums", fmt.Sprintf("forum-%d-%d", userID, time.Now().UnixNano()))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}
		forum.ProfileImg = res.SecureURL
	}
	if err := h.forums.Create(forum); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create forum"})
		return
	}
	if err := h.forums.AddParticipant(forum.ID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not join own forum"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"forum": forum})
}

func (h *ForumHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	if q := c.Query("q"); q != "" {
		list, err := h.forums.Search(q, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"forums": list})
		return
	}
	list, err := h.forums.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load forums"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"forums": list})
}

// Mine lists forums the user participates in, with unread counts.
func (h *ForumHandler) Mine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.forums.ListByMember(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load forums"})
		return
	}
	out := make([]gin.H, 0, len(list))
	for i := range list {
		unread, _ := h.forums.UnreadCount(list[i].ID, userID)
		out = append(out, gin.H{"forum": list[i], "unread": unread})
	}
	c.JSON(http.StatusOK, gin.H{"forums": out})
}

func (h *ForumHandler) Get(c *gin.Context) {
	forumID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid forum id"})
		return
	}
	forum, err := h.forums.GetByID(uint(forumID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "forum not found"})
		return
	}
	participants, _ := h.forums.CountParticipants(forum.ID)
	resp := gin.H{"forum": forum, "participants": participants}
	if userID := middleware.GetUserID(c); userID != 0 {
		isMember, _ := h.forums.IsParticipant(forum.ID, userID)
		resp["is_member"] = isMember
		if !isMember {
			if _, err := h.forums.GetJoinRequest(forum.ID, userID); err == nil {
				resp["join_requested"] = true
			}
		}
	}
	c.JSON(http.StatusOK, resp)
}

// RequestJoin files a join request for the owner to review.
func (h *ForumHandler) RequestJoin(c *gin.Context) {
	forumID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid forum id"})
		return
	}
	forum, err := h.forums.GetByID(uint(forumID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "forum not found"})
		return
	}
	userID := middleware.GetUserID(c)
	if isMember, _ := h.forums.IsParticipant(forum.ID, userID); isMember {
		c.JSON(http.StatusConflict, gin.H{"error": "already a member"})
		return
	}
	if err := h.forums.CreateJoinRequest(forum.ID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not request join"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "join requested"})
}

// JoinRequests lists pending requests. Owner only.
func (h *ForumHandler) JoinRequests(c *gin.Context) {
	forum, ok := h.ownedForum(c)
	if !ok {
		return
	}
	list, err := h.forums.ListJoinRequests(forum.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": list})
}

// ApproveJoin admits a requester. Owner only.
func (h *ForumHandler) ApproveJoin(c *gin.Context) {
	forum, ok := h.ownedForum(c)
	if !ok {
		return
	}
	requesterID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if _, err := h.forums.GetJoinRequest(forum.ID, uint(requesterID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "join request not found"})
		return
	}
	if err := h.forums.AddParticipant(forum.ID, uint(requesterID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not admit"})
		return
	}
	_ = h.forums.DeleteJoinRequest(forum.ID, uint(requesterID))
	h.notifier.ForumRequestApproved(uint(requesterID), forum.Title)
	c.JSON(http.StatusOK, gin.H{"message": "admitted"})
}

// RejectJoin discards a join request. Owner only.
func (h *ForumHandler) RejectJoin(c *gin.Context) {
	forum, ok := h.ownedForum(c)
	if !ok {
		return
	}
	requesterID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := h.forums.DeleteJoinRequest(forum.ID, uint(requesterID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reject"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rejected"})
}

// Leave removes the caller from the forum. The owner cannot leave their
// own forum, they delete it instead.
func (h *ForumHandler) Leave(c *gin.Context) {
	forumID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid forum id"})
		return
	}
	forum, err := h.forums.GetByID(uint(forumID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "forum not found"})
		return
	}
	userID := middleware.GetUserID(c)
	if forum.OwnerID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner cannot leave, delete the forum instead"})
		return
	}
	if err := h.forums.RemoveParticipant(forum.ID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not leave"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "left forum"})
}

// Delete tears the forum down. Owner or moderator.
func (h *ForumHandler) Delete(c *gin.Context) {
	forumID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid forum id"})
		return
	}
	forum, err := h.forums.GetByID(uint(forumID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "forum not found"})
		return
	}
	if forum.OwnerID != middleware.GetUserID(c) && !middleware.GetRole(c).IsModerator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := h.forums.Delete(forum.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "forum deleted"})
}

// Participants lists the forum's members. Participants only.
func (h *ForumHandler) Participants(c *gin.Context) {
	forumID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid forum id"})
		return
	}
	if isMember, _ := h.forums.IsParticipant(uint(forumID), middleware.GetUserID(c)); !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "participants only"})
		return
	}
	list, err := h.forums.ListParticipants(uint(forumID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load participants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": list})
}

// Messages pages through the forum's history. Participants only.
func (h *ForumHandler) Messages(c *gin.Context) {
	forumID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid forum id"})
		return
	}
	userID := middleware.GetUserID(c)
	if isMember, _ := h.forums.IsParticipant(uint(forumID), userID); !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "participants only"})
		return
	}
	limit, offset := pagination(c)
	list, err := h.forums.ListMessages(uint(forumID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load messages"})
		return
	}
	if len(list) > 0 {
		_ = h.forums.MarkRead(uint(forumID), userID, list[0].ID)
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}

func (h *ForumHandler) ownedForum(c *gin.Context) (*models.Forum, bool) {
	forumID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid forum id"})
		return nil, false
	}
	forum, err := h.forums.GetByID(uint(forumID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "forum not found"})
		return nil, false
	}
	if forum.OwnerID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "owner only"})
		return nil, false
	}
	return forum, true
}
