package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/notshop-backend/internal/http/handlers/common"
	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/service"
	"github.com/ignatzorin/notshop-backend/internal/storage"
)

// Разрешённые типы изображений профиля.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ProfileMediaHandler загружает аватар и обложку профиля.
type ProfileMediaHandler struct {
	profiles       *service.ProfileService
	maxUploadBytes int64
}

// NewProfileMediaHandler создаёт хэндлер.
func NewProfileMediaHandler(profiles *service.ProfileService, maxUploadMB int64) *ProfileMediaHandler {
	return &ProfileMediaHandler{profiles: profiles, maxUploadBytes: maxUploadMB * 1024 * 1024}
}

// UploadAvatar обрабатывает POST /profile/avatar.
func (h *ProfileMediaHandler) UploadAvatar(c *gin.Context) {
	h.upload(c, models.ProfileImageAvatar)
}

// UploadCover обрабатывает POST /profile/cover.
func (h *ProfileMediaHandler) UploadCover(c *gin.Context) {
	h.upload(c, models.ProfileImageCover)
}

func (h *ProfileMediaHandler) upload(c *gin.Context, kind string) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondBadRequest(c, "поле file обязательно")
		return
	}
	if file.Size == 0 {
		common.RespondBadRequest(c, "файл не может быть пустым")
		return
	}
	if file.Size > h.maxUploadBytes {
		common.RespondError(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("размер файла превышает %d МБ", h.maxUploadBytes/1024/1024))
		return
	}

	src, err := file.Open()
	if err != nil {
		common.RespondInternalError(c, "")
		return
	}
	defer src.Close()

	// тип определяется по магическим байтам, имя файла не учитывается
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		common.RespondBadRequest(c, "не удалось прочитать файл")
		return
	}

	detected, err := filetype.Match(head[:n])
	if err != nil || detected == filetype.Unknown || !allowedImageTypes[detected.MIME.Value] {
		common.RespondBadRequest(c, "разрешены только изображения: "+strings.Join(allowedImageList(), ", "))
		return
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		common.RespondInternalError(c, "не удалось сбросить позицию файла")
		return
	}

	profile, err := h.profiles.UploadImage(c.Request.Context(), userID, service.ImageUpload{
		Kind:        kind,
		Extension:   detected.Extension,
		ContentType: detected.MIME.Value,
		Size:        file.Size,
		Body:        src,
	})
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			common.RespondError(c, http.StatusRequestEntityTooLarge, "файл слишком большой")
			return
		}
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func allowedImageList() []string {
	return []string{"jpeg", "png", "gif", "webp"}
}
