package handler

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"install_manager/constants"
	"install_manager/database"
	"install_manager/helper"
	"install_manager/model"
	"install_manager/utils"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

// GenerateUploadSignature signs direct-to-Cloudinary upload parameters so
// the browser can upload completion photos without the API secret.
func GenerateUploadSignature(c *fiber.Ctx) error {
	type sigParams struct {
		Folder   string `json:"folder"`
		PublicID string `json:"public_id"`
	}

	var params sigParams
	if err := c.BodyParser(&params); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid signature params", err)
	}

	timestamp := time.Now().Unix()

	paramMap := map[string]string{
		"timestamp": fmt.Sprintf("%d", timestamp),
	}
	if params.Folder != "" {
		paramMap["folder"] = params.Folder
	}
	if params.PublicID != "" {
		paramMap["public_id"] = params.PublicID
	}

	keys := make([]string, 0, len(paramMap))
	for k := range paramMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var stringToSign strings.Builder
	for i, k := range keys {
		if i > 0 {
			stringToSign.WriteString("&")
		}
		stringToSign.WriteString(k)
		stringToSign.WriteString("=")
		stringToSign.WriteString(paramMap[k])
	}
	stringToSign.WriteString(os.Getenv("CLOUDINARY_API_SECRET"))

	h := sha1.New()
	h.Write([]byte(stringToSign.String()))
	signature := hex.EncodeToString(h.Sum(nil))

	return c.JSON(fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"apiKey":    os.Getenv("CLOUDINARY_API_KEY"),
		"cloudName": os.Getenv("CLOUDINARY_CLOUD_NAME"),
	})
}

// RegisterPhoto records an uploaded completion photo against the order.
func RegisterPhoto(c *fiber.Ctx) error {
	order, claim, ok := loadVisibleOrder(c)
	if !ok {
		return nil
	}
	input := c.Locals("inputRegisterPhoto").(model.RegisterPhotoInput)

	photo := model.CompletionPhoto{
		OrderId:    order.ID,
		Url:        input.Url,
		PublicId:   input.PublicId,
		UploadedBy: claim.AccountId,
		Caption:    input.Caption,
	}
	if err := database.DB.Create(&photo).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, photo)
}

// GetPhotos lists the order's completion photos.
func GetPhotos(c *fiber.Ctx) error {
	order, _, ok := loadVisibleOrder(c)
	if !ok {
		return nil
	}

	var photos []model.CompletionPhoto
	if err := database.DB.Where("order_id = ?", order.ID).
		Order("created_at asc").Find(&photos).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, photos)
}

// DeletePhoto removes the record and the stored asset.
func DeletePhoto(c *fiber.Ctx) error {
	photoId := c.Locals("inputId").(int)

	var photo model.CompletionPhoto
	if err := database.DB.First(&photo, photoId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.RECORD_NOT_FOUND, err)
	}

	cld := helper.InitCloudinary()
	if _, err := cld.Upload.Destroy(context.Background(), uploader.DestroyParams{
		PublicID: photo.PublicId,
	}); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Asset delete failed", err)
	}

	if err := database.DB.Delete(&photo).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deleted": photo.ID})
}
