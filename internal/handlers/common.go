package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/middleware"
	"pharmacare-backend/internal/models"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const pageSize = 10

// principal returns the authenticated caller put in place by the auth
// middleware. Zero value when the route is somehow unauthenticated.
func principal(c *gin.Context) models.Principal {
	v, exists := c.Get(middleware.PrincipalKey)
	if !exists {
		return models.Principal{}
	}
	return v.(models.Principal)
}

// paginate applies the ?page= offset; pages are 1-based, 10 rows each.
func paginate(c *gin.Context, q *gorm.DB) *gorm.DB {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	return q.Offset((page - 1) * pageSize).Limit(pageSize)
}

// notify stores a notification row and mirrors it as a push message when the
// recipient has a device token. The push is best-effort and never fails the
// surrounding transaction.
func notify(tx *gorm.DB, userID uint64, subject, message string) error {
	n := models.Notification{
		UserID:  userID,
		Subject: subject,
		Message: message,
	}
	if err := tx.Create(&n).Error; err != nil {
		return err
	}

	var user models.User
	if err := config.DB.Select("id", "fcm_token").First(&user, userID).Error; err == nil && user.FCMToken != "" {
		go utils.SendPush(user.FCMToken, subject, message, map[string]string{
			"notification_id": fmt.Sprintf("%d", n.ID),
		})
	}
	return nil
}

// saveUpload writes a multipart file under uploads/<dir>/ with a random name
// and returns the public URL path.
func saveUpload(c *gin.Context, file *multipart.FileHeader, dir string) (string, error) {
	if err := os.MkdirAll(filepath.Join("uploads", dir), 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst := filepath.Join("uploads", dir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}
	return "/uploads/" + dir + "/" + name, nil
}
