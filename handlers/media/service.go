package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/handlers/profile"
)

const (
	maxFileSize = 10 << 20 // 10 MB

	// URLPrefix is where the uploads directory is served.
	URLPrefix = "/uploads/"

	kindAvatar = "avatars"
	kindLogo   = "logos"
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ProfileWriter is the part of the profile service that stores image URLs.
type ProfileWriter interface {
	Get(ctx context.Context, userID uuid.UUID) (*profile.Bundle, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, u profile.ProfileUpdate) (*profile.Bundle, error)
	UpdateStartup(ctx context.Context, userID uuid.UUID, u profile.StartupUpdate) (*profile.Bundle, error)
}

// Service stores images under dir and points the profile at them.
type Service struct {
	dir      string
	profiles ProfileWriter
	logger   *zap.Logger
}

func NewService(dir string, profiles ProfileWriter, logger *zap.Logger) *Service {
	return &Service{dir: dir, profiles: profiles, logger: logger}
}

// Dir is the root served under URLPrefix.
func (s *Service) Dir() string {
	return s.dir
}

// save sniffs the content, writes it to a fresh file and returns its public URL.
func (s *Service) save(kind string, userID uuid.UUID, src io.Reader) (string, string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		if err == io.EOF {
			return "", "", apperrors.Invalid("file", "is empty")
		}
		return "", "", fmt.Errorf("error reading upload: %w", err)
	}
	head = head[:n]

	ext, ok := allowedTypes[http.DetectContentType(head)]
	if !ok {
		return "", "", apperrors.Invalid("file", "Invalid file type. Only JPEG, PNG, and GIF are allowed")
	}

	name := fmt.Sprintf("%s_%s%s", userID, uuid.NewString(), ext)
	dst := filepath.Join(s.dir, kind, name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.MultiReader(bytes.NewReader(head), io.LimitReader(src, maxFileSize+1-int64(len(head)))))
	if err == nil && written > maxFileSize {
		err = apperrors.Invalid("file", "File too large. Maximum size is 10MB")
	}
	if err != nil {
		os.Remove(dst)
		return "", "", err
	}
	return path.Join(URLPrefix, kind, name), dst, nil
}

// remove deletes a previously uploaded file. URLs outside the uploads dir are ignored.
func (s *Service) remove(url string) {
	if !strings.HasPrefix(url, URLPrefix) {
		return
	}
	rel := strings.TrimPrefix(path.Clean(url), URLPrefix)
	if strings.Contains(rel, "..") {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Error deleting upload", zap.String("url", url), zap.Error(err))
	}
}

// UploadAvatar replaces the user's avatar.
func (s *Service) UploadAvatar(ctx context.Context, userID uuid.UUID, src io.Reader) (string, error) {
	current, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	url, file, err := s.save(kindAvatar, userID, src)
	if err != nil {
		return "", err
	}
	if _, err := s.profiles.UpdateProfile(ctx, userID, profile.ProfileUpdate{AvatarURL: &url}); err != nil {
		os.Remove(file)
		return "", err
	}
	s.remove(current.Profile.AvatarURL)
	return url, nil
}

// UploadLogo replaces the founder's startup logo.
func (s *Service) UploadLogo(ctx context.Context, userID uuid.UUID, src io.Reader) (string, error) {
	current, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	url, file, err := s.save(kindLogo, userID, src)
	if err != nil {
		return "", err
	}
	if _, err := s.profiles.UpdateStartup(ctx, userID, profile.StartupUpdate{LogoURL: &url}); err != nil {
		os.Remove(file)
		return "", err
	}
	if current.Startup != nil {
		s.remove(current.Startup.LogoURL)
	}
	return url, nil
}

// DeleteAvatar clears the avatar and removes the stored file.
func (s *Service) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	current, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}
	if current.Profile.AvatarURL == "" {
		return apperrors.Invalid("avatar_url", "No profile picture to delete")
	}
	empty := ""
	if _, err := s.profiles.UpdateProfile(ctx, userID, profile.ProfileUpdate{AvatarURL: &empty}); err != nil {
		return err
	}
	s.remove(current.Profile.AvatarURL)
	return nil
}
