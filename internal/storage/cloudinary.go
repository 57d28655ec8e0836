package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	FolderResumes         = "resumes"
	FolderProfilePictures = "profile_pictures"
)

var ErrMissingCredentials = errors.New("cloudinary credentials are not configured")

// Uploader stores bytes under a folder and returns a public URL for them.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, folder string) (string, error)
}

type Cloudinary struct {
	cld     *cloudinary.Cloudinary
	timeout time.Duration
}

// NewCloudinary fails when any credential is empty so the server refuses to
// start half-configured.
func NewCloudinary(cloudName, apiKey, apiSecret string, timeout time.Duration) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, ErrMissingCredentials
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &Cloudinary{cld: cld, timeout: timeout}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, folder string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload to %s: %w", folder, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload to %s: %s", folder, res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload to %s: empty url in response", folder)
	}
	return res.SecureURL, nil
}
