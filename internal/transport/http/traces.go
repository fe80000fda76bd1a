package apihttp

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// handleTrace 返回某次运行的全部阶段留痕，按调用顺序。
func (r *Router) handleTrace(c *gin.Context) {
	traceID := c.Param("id")
	if traceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trace id is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	stages, err := r.Traces.ListByTrace(c.Request.Context(), traceID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load trace"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trace_id": traceID, "stages": stages})
}
