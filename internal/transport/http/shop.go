package apihttp

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"dammed/internal/imaging"
	"dammed/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dammed/internal/store/gormstore"
)

func (r *Router) handleShopList(c *gin.Context) {
	items, err := r.Store.ListShopItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load shop items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// handleShopAdd 上架物品：multipart 表单（item_name、description、price，可选 image）。
// 卖家取自会话，不信任表单。
func (r *Router) handleShopAdd(c *gin.Context) {
	claims := currentClaims(c)

	name := strings.TrimSpace(c.PostForm("item_name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_name is required"})
		return
	}
	price, err := decimal.NewFromString(strings.TrimSpace(c.DefaultPostForm("price", "0")))
	if err != nil || price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a non-negative number"})
		return
	}

	item := gormstore.ShopItem{
		Seller:      claims.Username,
		Name:        name,
		Description: strings.TrimSpace(c.PostForm("description")),
		Price:       price,
	}

	if file, ferr := c.FormFile("image"); ferr == nil && file != nil {
		path, serr := r.saveShopImage(file)
		if serr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": serr.Error()})
			return
		}
		item.ImagePath = path
	}

	id, err := r.Store.AddShopItem(c.Request.Context(), item)
	if err != nil {
		logger.Errorf("[http] 商店上架失败 seller=%s: %v", item.Seller, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add shop item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (r *Router) saveShopImage(file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("cannot read uploaded image")
	}
	defer f.Close()
	processed, err := imaging.Process(f)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}
	name := uuid.NewString() + ".jpg"
	path := filepath.Join(r.UploadDir, name)
	if err := os.WriteFile(path, processed.Data, 0o644); err != nil {
		return "", fmt.Errorf("saving image: %w", err)
	}
	return path, nil
}
