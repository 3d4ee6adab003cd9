package utils

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const cloudinaryHost = "res.cloudinary.com"

var versionSegment = regexp.MustCompile(`^v\d+$`)

// Cloudinary hosts gallery uploads in one folder of one cloud.
type Cloudinary struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	folder    string
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %v", err)
	}
	return &Cloudinary{cld: cld, cloudName: cloudName, folder: folder}, nil
}

// Upload stores file and returns its https URL. Cloudinary picks the public ID.
func (c *Cloudinary) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	uploadResp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: c.folder})
	if err != nil {
		return "", fmt.Errorf("upload error: %v", err)
	}
	if uploadResp.Error.Message != "" {
		return "", fmt.Errorf("upload error: %s", uploadResp.Error.Message)
	}
	return uploadResp.SecureURL, nil
}

// Destroy removes the image behind a full Cloudinary URL.
func (c *Cloudinary) Destroy(ctx context.Context, imageURL string) error {
	publicID, err := extractPublicID(imageURL)
	if err != nil {
		return fmt.Errorf("could not extract public ID: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("delete error: %v", err)
	}
	return nil
}

// Owns reports whether imageURL lives in this cloud. Links to other hosts
// are left alone on delete.
func (c *Cloudinary) Owns(imageURL string) bool {
	u, err := url.Parse(imageURL)
	if err != nil || u.Host != cloudinaryHost {
		return false
	}
	return strings.HasPrefix(u.Path, "/"+c.cloudName+"/")
}

// extractPublicID returns the folder/name part after /upload/, without the
// version segment and file extension.
//
//	https://res.cloudinary.com/demo/image/upload/v1234567890/gallery/abc123.jpg -> gallery/abc123
func extractPublicID(imageURL string) (string, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}

	parts := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")
	upload := -1
	for i, p := range parts {
		if p == "upload" {
			upload = i
			break
		}
	}
	if upload < 0 || upload == len(parts)-1 {
		return "", fmt.Errorf("invalid cloudinary URL format")
	}

	rest := parts[upload+1:]
	if len(rest) > 1 && versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	joined := path.Join(rest...)
	return strings.TrimSuffix(joined, path.Ext(joined)), nil
}
