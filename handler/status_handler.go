package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voxcommunity/rafflebot/raffle"
	"github.com/voxcommunity/rafflebot/texts"
)

// StatusHandler serves the keep-alive endpoint the hosting pinger hits
// plus a couple of read-only statistics routes.
type StatusHandler struct {
	Service *raffle.Service
}

type StatisticResponse struct {
	UserID        int64    `json:"user_id"`
	Link          string   `json:"link"`
	Registrations int      `json:"registrations"`
	Wins          int      `json:"wins"`
	Rank          string   `json:"rank"`
	WonRaffles    []string `json:"won_raffles"`
}

func NewStatusHandler(service *raffle.Service) *StatusHandler {
	return &StatusHandler{Service: service}
}

// Register attaches all routes to the router.
func (h *StatusHandler) Register(router *gin.Engine) {
	router.GET("/", h.HandleKeepAlive)
	router.GET("/status", h.HandleStatus)
	router.GET("/statistics/:user_id", h.HandleUserStatistics)
}

func (h *StatusHandler) HandleKeepAlive(c *gin.Context) {
	c.String(http.StatusOK, texts.Keepalive)
}

func (h *StatusHandler) HandleStatus(c *gin.Context) {
	report, err := h.Service.Status(nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "status unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"registered":  report.Registered,
		"picked":      report.Picked,
		"blacklisted": report.Blacklisted,
	})
}

func (h *StatusHandler) HandleUserStatistics(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return
	}
	profile := h.Service.Profile(userID)
	wins, err := h.Service.Wins(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "statistics unavailable"})
		return
	}
	c.JSON(http.StatusOK, StatisticResponse{
		UserID:        userID,
		Link:          profile.Link,
		Registrations: profile.Registrations,
		Wins:          profile.Wins,
		Rank:          profile.Rank,
		WonRaffles:    wins,
	})
}
