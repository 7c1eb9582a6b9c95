package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
)

// multipart overhead allowed on top of the file itself
const uploadFormSlack = 1 << 20

// UploadPhoto accepts a multipart form with file, user_id, is_primary and
// order fields and stores the image in Cloudinary.
func UploadPhoto(ps *services.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxPhotoSize+uploadFormSlack)

		userID := c.PostForm("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("user_id is required"))
			return
		}
		if !authorizeFor(c, userID) {
			return
		}

		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("file is required"))
			return
		}
		isPrimary, _ := strconv.ParseBool(c.DefaultPostForm("is_primary", "false"))
		order, err := strconv.Atoi(c.DefaultPostForm("order", "0"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("order must be an integer"))
			return
		}

		file, err := header.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer file.Close()

		photo, err := ps.Upload(c.Request.Context(), &services.PhotoUpload{
			UserID:    userID,
			Filename:  header.Filename,
			Size:      header.Size,
			File:      file,
			IsPrimary: isPrimary,
			Order:     order,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(photo, "photo uploaded"))
	}
}

func CreatePhoto(ps *services.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreatePhotoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if !authorizeFor(c, req.UserID) {
			return
		}

		photo, err := ps.CreatePhoto(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(photo, "photo created"))
	}
}

func GetPhoto(ps *services.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		photo, err := ps.GetPhoto(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(photo, ""))
	}
}

func ListUserPhotos(ps *services.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		photos, err := ps.ListUserPhotos(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(photos, ""))
	}
}

func UpdatePhoto(ps *services.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		photo, err := ps.GetPhoto(ctx, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !authorizeFor(c, photo.UserID) {
			return
		}
		var update models.PhotoUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			badRequest(c, err)
			return
		}

		updated, err := ps.UpdatePhoto(ctx, photo.ID, &update)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "photo updated"))
	}
}

func DeletePhoto(ps *services.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		photo, err := ps.GetPhoto(ctx, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !authorizeFor(c, photo.UserID) {
			return
		}
		if err := ps.DeletePhoto(ctx, photo.ID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "photo deleted"))
	}
}

func ReorderPhotos(ps *services.PhotoService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		var req models.ReorderPhotosRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		photos, err := ps.ReorderPhotos(c.Request.Context(), id, req.Photos)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(photos, "photos reordered"))
	}
}
