package apihttp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dammed/internal/cert"
)

func (r *Router) handleHistory(c *gin.Context) {
	claims := currentClaims(c)
	entries, err := r.Store.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (r *Router) handleDashboard(c *gin.Context) {
	claims := currentClaims(c)
	totals, err := r.Store.Totals(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load totals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username":     claims.Username,
		"points":       totals.Points,
		"credits":      totals.Credits,
		"cash_inr":     totals.Credits * 2,
		"co2_saved_kg": totals.CO2SavedKg,
		"entries":      totals.Entries,
	})
}

func (r *Router) handleLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rows, err := r.Store.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": rows})
}

// handleCertificate 以 PNG 形式下载用户的绿色贡献证书。
func (r *Router) handleCertificate(c *gin.Context) {
	claims := currentClaims(c)
	totals, err := r.Store.Totals(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load totals"})
		return
	}
	png, err := cert.Render(claims.Username, totals.Points, totals.CO2SavedKg, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render certificate"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="green-certificate.png"`)
	c.Data(http.StatusOK, "image/png", png)
}
