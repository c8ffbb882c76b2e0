package utils

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pumpkin-store/models"
)

// ImageStore is the external image-hosting capability. The controllers never
// talk to a concrete host directly.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader, filename, folder string) (models.Image, error)
	Delete(ctx context.Context, publicID string) error
}

// DiskImageStore stores images on the local filesystem and serves them from
// a static base URL.
type DiskImageStore struct {
	BaseDir string
	BaseURL string
}

// NewDiskImageStore creates the store rooted at baseDir.
func NewDiskImageStore(baseDir, baseURL string) *DiskImageStore {
	return &DiskImageStore{BaseDir: baseDir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Upload writes the file under folder with a generated name. The public id
// keeps the extension so Delete can address the file directly.
func (ds *DiskImageStore) Upload(ctx context.Context, file io.Reader, filename, folder string) (models.Image, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	publicID := path.Join(folder, uuid.NewString()+ext)

	dir := filepath.Join(ds.BaseDir, folder)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return models.Image{}, fmt.Errorf("create upload directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(ds.BaseDir, filepath.FromSlash(publicID)))
	if err != nil {
		return models.Image{}, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return models.Image{}, fmt.Errorf("save file: %w", err)
	}

	return models.Image{
		PublicID: publicID,
		URL:      ds.BaseURL + "/" + publicID,
	}, nil
}

// Delete removes the stored file for publicID.
func (ds *DiskImageStore) Delete(ctx context.Context, publicID string) error {
	clean := path.Clean("/" + publicID)
	target := filepath.Join(ds.BaseDir, filepath.FromSlash(clean))
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("delete image %s: %w", publicID, err)
	}
	return nil
}

// UploadAll stores every file header under folder concurrently. If any
// upload fails the whole batch fails.
func UploadAll(ctx context.Context, store ImageStore, files []*multipart.FileHeader, folder string) ([]models.Image, error) {
	images := make([]models.Image, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, header := range files {
		i, header := i, header
		g.Go(func() error {
			f, err := header.Open()
			if err != nil {
				return err
			}
			defer f.Close()
			img, err := store.Upload(ctx, f, header.Filename, folder)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// DeleteAll removes every public id concurrently. Placeholder images are
// skipped. The first failure fails the batch; callers on best-effort paths
// log and move on.
func DeleteAll(ctx context.Context, store ImageStore, publicIDs []string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range publicIDs {
		if id == "" || id == models.DefaultAvatarID || id == models.DefaultProductID {
			continue
		}
		id := id
		g.Go(func() error {
			return store.Delete(ctx, id)
		})
	}
	return g.Wait()
}
