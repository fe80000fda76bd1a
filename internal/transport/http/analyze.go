package apihttp

import (
	"errors"
	"net/http"
	"strings"

	"dammed/internal/analysis"
	"dammed/internal/imaging"
	"dammed/internal/logger"

	"github.com/gin-gonic/gin"
)

type analyzeRequest struct {
	Description string `json:"description"`
}

// handleAnalyze 接收图像（multipart 字段 image）和/或文字描述
// （表单字段或 JSON body 的 description），跑完整流水线并把成功条目落入用户台账。
func (r *Router) handleAnalyze(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var input analysis.Input
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req analyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
		input.Text = strings.TrimSpace(req.Description)
	} else {
		input.Text = strings.TrimSpace(c.PostForm("description"))
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded image"})
			return
		}
		defer f.Close()
		processed, perr := imaging.Process(f)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
			return
		}
		input.Image = processed.Data
		input.ImageMIME = processed.MIME
	}

	if !input.HasImage() && input.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide an image or a description"})
		return
	}

	result, err := r.Runner.Run(c.Request.Context(), input)
	if err != nil {
		var runErr *analysis.RunFailedError
		if errors.As(err, &runErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": runErr.Error(), "stage": runErr.Stage})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entryIDs := make([]int64, 0, len(result.Records))
	for _, rec := range result.Records {
		id, aerr := r.Store.AppendEntry(c.Request.Context(), claims.UserID, rec)
		if aerr != nil {
			logger.Errorf("[http] 台账写入失败 user=%d trace=%s: %v", claims.UserID, result.TraceID, aerr)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record results"})
			return
		}
		entryIDs = append(entryIDs, id)
	}

	c.JSON(http.StatusOK, gin.H{
		"trace_id":  result.TraceID,
		"records":   result.Records,
		"skipped":   result.Skipped,
		"failures":  result.Failures,
		"entry_ids": entryIDs,
	})
}
