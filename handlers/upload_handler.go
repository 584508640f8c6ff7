package handlers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const uploadFolder = "tutor_market_services"

// GenerateUploadSignature signs a direct browser upload of a service image.
func (h *Handler) GenerateUploadSignature(c *fiber.Ctx) error {
	if h.CloudinaryURL == "" {
		return fail(c, fiber.StatusServiceUnavailable, "errors.upload_not_configured")
	}

	cld, err := cloudinary.NewFromURL(h.CloudinaryURL)
	if err != nil {
		h.Logger.Error("failed to initialize cloudinary", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "errors.internal")
	}

	parsedURL, err := url.Parse(h.CloudinaryURL)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "errors.internal")
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: uploadFolder,
	})
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "errors.internal")
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "errors.internal")
	}

	return c.JSON(fiber.Map{
		"signature":  signature,
		"timestamp":  timestamp,
		"api_key":    cld.Config.Cloud.APIKey,
		"cloud_name": cld.Config.Cloud.CloudName,
		"folder":     uploadFolder,
	})
}
