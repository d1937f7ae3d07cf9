package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kawojue/phrednetwork/config"
	"github.com/kawojue/phrednetwork/internal/auth"
	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/internal/repository"
	"github.com/kawojue/phrednetwork/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	forumWriteWait  = 10 * time.Second
	forumPongWait   = 60 * time.Second
	forumPingPeriod = (forumPongWait * 9) / 10
)

var forumUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeForumWS upgrades to WebSocket for a forum room; query: token, forum_id.
// The user must be a participant of the forum.
func UpgradeForumWS(cfg *config.JWTConfig, hub *ws.ForumHub, forumRepo *repository.ForumRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		forumIDStr := c.Query("forum_id")
		if token == "" || forumIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token and forum_id required"})
			return
		}
		claims, err := auth.ParseToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		var forumID uint
		if _, err := fmt.Sscanf(forumIDStr, "%d", &forumID); err != nil || forumID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid forum_id"})
			return
		}
		forum, err := forumRepo.GetByID(forumID)
		if err != nil || forum == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "forum not found"})
			return
		}
		isMember, err := forumRepo.IsParticipant(forumID, claims.UserID)
		if err != nil || !isMember {
			c.JSON(http.StatusForbidden, gin.H{"error": "participants only"})
			return
		}
		conn, err := forumUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		client := &ws.Client{
			UserID:   claims.UserID,
			Username: claims.Username,
			Send:     make(chan []byte, 256),
		}
		room := hub.GetOrCreateRoom(forumID)
		room.Join(client)
		defer func() {
			room.Leave(client)
			client.Close()
			if room.ClientCount() == 0 {
				hub.RemoveRoom(forumID)
			}
		}()
		conn.SetReadDeadline(time.Now().Add(forumPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(forumPongWait))
			return nil
		})
		go func() {
			ticker := time.NewTicker(forumPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.Send:
					if !ok {
						return
					}
					conn.SetWriteDeadline(time.Now().Add(forumWriteWait))
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(forumWriteWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var msg struct {
				Type    string `json:"type"`
				Content string `json:"content"`
			}
			if json.Unmarshal(raw, &msg) != nil || msg.Type != "message" || msg.Content == "" {
				continue
			}
			fm := &models.ForumMessage{
				ForumID:  forumID,
				SenderID: claims.UserID,
				Content:  msg.Content,
				SentAt:   time.Now(),
			}
			if err := forumRepo.CreateMessage(fm); err != nil {
				continue
			}
			_ = forumRepo.MarkRead(forumID, claims.UserID, fm.ID)
			payload := map[string]interface{}{
				"type":            "message",
				"id":              fm.ID,
				"forum_id":        fm.ForumID,
				"sender_id":       fm.SenderID,
				"sender_username": claims.Username,
				"content":         fm.Content,
				"sent_at":         fm.SentAt,
			}
			room.Broadcast(client, payload)
		}
	}
}
