package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"fundingnl/backend/apperrors"
	"fundingnl/backend/handlers/auth"
	"fundingnl/backend/handlers/profile"
	"fundingnl/backend/models"
)

type fakeProfiles struct {
	mu      sync.Mutex
	bundles map[uuid.UUID]*profile.Bundle
}

func (f *fakeProfiles) add(role models.UserType) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.bundles[id] = &profile.Bundle{Profile: &models.Profile{ID: id, UserType: role}}
	return id
}

func (f *fakeProfiles) Get(_ context.Context, userID uuid.UUID) (*profile.Bundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bundles[userID]
	if !ok {
		return nil, fmt.Errorf("profile: %w", apperrors.ErrNotFound)
	}
	return b, nil
}

func (f *fakeProfiles) UpdateProfile(_ context.Context, userID uuid.UUID, u profile.ProfileUpdate) (*profile.Bundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bundles[userID] = profile.Apply(f.bundles[userID], userID, profile.Changes{Profile: &u})
	return f.bundles[userID], nil
}

func (f *fakeProfiles) UpdateStartup(_ context.Context, userID uuid.UUID, u profile.StartupUpdate) (*profile.Bundle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bundles[userID].Profile.UserType != models.UserTypeFounder {
		return nil, fmt.Errorf("only founders have a startup profile: %w", apperrors.ErrForbidden)
	}
	f.bundles[userID] = profile.Apply(f.bundles[userID], userID, profile.Changes{Startup: &u})
	return f.bundles[userID], nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func newTestService(t *testing.T) (*Service, *fakeProfiles) {
	profiles := &fakeProfiles{bundles: make(map[uuid.UUID]*profile.Bundle)}
	return NewService(t.TempDir(), profiles, zaptest.NewLogger(t)), profiles
}

func onDisk(svc *Service, url string) string {
	return filepath.Join(svc.Dir(), filepath.FromSlash(strings.TrimPrefix(url, URLPrefix)))
}

func TestUploadAvatar_ReplacesPreviousFile(t *testing.T) {
	svc, profiles := newTestService(t)
	ctx := context.Background()
	user := profiles.add(models.UserTypeFounder)

	first, err := svc.UploadAvatar(ctx, user, bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "/uploads/avatars/"+user.String()))
	assert.True(t, strings.HasSuffix(first, ".png"))
	assert.FileExists(t, onDisk(svc, first))

	second, err := svc.UploadAvatar(ctx, user, bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.NoFileExists(t, onDisk(svc, first))

	b, _ := profiles.Get(ctx, user)
	assert.Equal(t, second, b.Profile.AvatarURL)

	require.NoError(t, svc.DeleteAvatar(ctx, user))
	assert.NoFileExists(t, onDisk(svc, second))
	b, _ = profiles.Get(ctx, user)
	assert.Empty(t, b.Profile.AvatarURL)

	assert.ErrorIs(t, svc.DeleteAvatar(ctx, user), apperrors.ErrInvalid)
}

func TestUpload_RejectsNonImages(t *testing.T) {
	svc, profiles := newTestService(t)
	user := profiles.add(models.UserTypeFounder)

	_, err := svc.UploadAvatar(context.Background(), user, strings.NewReader("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, apperrors.ErrInvalid)

	_, err = svc.UploadAvatar(context.Background(), user, strings.NewReader(""))
	assert.ErrorIs(t, err, apperrors.ErrInvalid)

	entries, _ := os.ReadDir(filepath.Join(svc.Dir(), "avatars"))
	assert.Empty(t, entries)
}

func TestUploadLogo_FoundersOnly(t *testing.T) {
	svc, profiles := newTestService(t)
	ctx := context.Background()
	founder := profiles.add(models.UserTypeFounder)
	investor := profiles.add(models.UserTypeInvestor)

	url, err := svc.UploadLogo(ctx, founder, bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	b, _ := profiles.Get(ctx, founder)
	require.NotNil(t, b.Startup)
	assert.Equal(t, url, b.Startup.LogoURL)

	_, err = svc.UploadLogo(ctx, investor, bytes.NewReader(pngBytes(t)))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	entries, _ := os.ReadDir(filepath.Join(svc.Dir(), "logos"))
	assert.Len(t, entries, 1, "the rejected upload is cleaned up")
}

func multipartBody(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "avatar.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadAvatarHandler(t *testing.T) {
	svc, profiles := newTestService(t)
	user := profiles.add(models.UserTypeInvestor)
	handler := UploadAvatarHandler(svc, zaptest.NewLogger(t))

	body, contentType := multipartBody(t, "file", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/api/me/avatar", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithUserID(req.Context(), user))
	rec := httptest.NewRecorder()
	handler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "/uploads/avatars/")

	body, contentType = multipartBody(t, "other", pngBytes(t))
	req = httptest.NewRequest(http.MethodPost, "/api/me/avatar", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithUserID(req.Context(), user))
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	b, _ := profiles.Get(context.Background(), user)
	rec = httptest.NewRecorder()
	FileServer(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, b.Profile.AvatarURL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	FileServer(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/avatars/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
