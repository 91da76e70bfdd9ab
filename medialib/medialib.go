package medialib

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"velora/audit"
	"velora/db"
	"velora/models"
	"velora/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	_ "image/gif"
	_ "image/png"
)

const (
	uploadDir    = "static/uploads/media"
	thumbDir     = "static/uploads/media/thumbs"
	maxUploadLen = 10 << 20
	thumbWidth   = 200
)

// UploadMedia accepts a multipart image, stores the original and a
// jpeg thumbnail, and records the asset.
func UploadMedia(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := r.ParseMultipartForm(maxUploadLen); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !utils.ValidateImageFileType(mimeType) {
		utils.RespondWithError(w, http.StatusUnsupportedMediaType, "Unsupported file type")
		return
	}

	buf, err := io.ReadAll(io.LimitReader(file, maxUploadLen+1))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not read file")
		return
	}
	if len(buf) > maxUploadLen {
		utils.RespondWithError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "File is not a valid image")
		return
	}

	assetID := utils.GetUUID()
	fileName := assetID + strings.ToLower(filepath.Ext(utils.SanitizeFilename(header.Filename)))
	if err := writeOriginal(fileName, buf); err != nil {
		log.Println("UploadMedia: save failed:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not store file")
		return
	}

	thumbName := assetID + ".jpg"
	if err := writeThumb(thumbName, img); err != nil {
		// asset is still usable without a thumbnail
		log.Println("UploadMedia: thumbnail failed:", err)
		thumbName = ""
	}

	asset := models.MediaAsset{
		AssetID:    assetID,
		FileName:   header.Filename,
		URL:        "/" + filepath.ToSlash(filepath.Join(uploadDir, fileName)),
		MimeType:   mimeType,
		SizeBytes:  int64(len(buf)),
		UploadedBy: utils.GetUserIDFromRequest(r),
		CreatedAt:  time.Now(),
	}
	if thumbName != "" {
		asset.ThumbURL = "/" + filepath.ToSlash(filepath.Join(thumbDir, thumbName))
	}

	if _, err := db.MediaLibraryCollection.InsertOne(ctx, asset); err != nil {
		log.Println("UploadMedia: insert failed:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not record asset")
		return
	}

	audit.Emit(ctx, asset.UploadedBy, "media.upload", "media_asset", assetID, header.Filename)
	utils.RespondWithJSON(w, http.StatusCreated, asset)
}

func writeOriginal(name string, buf []byte) error {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", uploadDir, err)
	}
	return os.WriteFile(filepath.Join(uploadDir, name), buf, 0o644)
}

func writeThumb(name string, img image.Image) error {
	resized := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", thumbDir, err)
	}
	out, err := os.Create(filepath.Join(thumbDir, name))
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}
	defer out.Close()
	return jpeg.Encode(out, resized, &jpeg.Options{Quality: 85})
}

func ListMedia(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := db.MediaLibraryCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Println("ListMedia Find error:", err)
		utils.RespondWithData(w, http.StatusOK, []models.MediaAsset{})
		return
	}
	defer cursor.Close(ctx)

	var assets []models.MediaAsset
	if err := cursor.All(ctx, &assets); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read media library")
		return
	}
	if assets == nil {
		assets = []models.MediaAsset{}
	}

	utils.RespondWithData(w, http.StatusOK, assets)
}

func DeleteMedia(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	assetID := ps.ByName("assetid")

	var asset models.MediaAsset
	if err := db.MediaLibraryCollection.FindOne(ctx, bson.M{"assetId": assetID}).Decode(&asset); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Asset not found")
		return
	}

	if _, err := db.MediaLibraryCollection.DeleteOne(ctx, bson.M{"assetId": assetID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not delete asset")
		return
	}

	for _, url := range []string{asset.URL, asset.ThumbURL} {
		if url == "" {
			continue
		}
		if err := os.Remove(strings.TrimPrefix(url, "/")); err != nil && !os.IsNotExist(err) {
			log.Println("DeleteMedia: file remove failed:", err)
		}
	}

	audit.Emit(ctx, utils.GetUserIDFromRequest(r), "media.delete", "media_asset", assetID, asset.FileName)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
