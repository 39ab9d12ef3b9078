package media

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/handlers/auth"
	"fundingnl/backend/handlers/respond"
)

// UploadResponse represents the response for a successful upload
type UploadResponse struct {
	URL string `json:"url"`
}

type uploader func(ctx context.Context, userID uuid.UUID, src io.Reader) (string, error)

// handleUpload reads the "file" part of a multipart form and passes it to upload.
func handleUpload(upload uploader, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+1<<20)
		if err := r.ParseMultipartForm(maxFileSize); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respond.Error(w, logger, apperrors.Invalid("file", "File too large. Maximum size is 10MB"))
				return
			}
			respond.Error(w, logger, apperrors.Invalid("file", "Expected a multipart form"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, _, err := r.FormFile("file")
		if err != nil {
			respond.Error(w, logger, apperrors.Invalid("file", "No file uploaded"))
			return
		}
		defer file.Close()

		url, err := upload(r.Context(), auth.UserIDFromContext(r.Context()), file)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, UploadResponse{URL: url})
	}
}

// UploadAvatarHandler handles POST /api/me/avatar
func UploadAvatarHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return handleUpload(svc.UploadAvatar, logger)
}

// UploadLogoHandler handles POST /api/me/startup/logo
func UploadLogoHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return handleUpload(svc.UploadLogo, logger)
}

// DeleteAvatarHandler handles DELETE /api/me/avatar
func DeleteAvatarHandler(svc *Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteAvatar(r.Context(), auth.UserIDFromContext(r.Context())); err != nil {
			respond.Error(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// FileServer serves the uploads directory under URLPrefix without directory listings.
func FileServer(svc *Service) http.Handler {
	fs := http.FileServer(noListing{http.Dir(svc.Dir())})
	return http.StripPrefix(URLPrefix, fs)
}

type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	if st, err := f.Stat(); err == nil && st.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
