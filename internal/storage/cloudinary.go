package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Images larger than 800x600 are scaled down on upload; quality and format are picked by Cloudinary.
const uploadTransformation = "c_limit,w_800,h_600/q_auto,f_auto"

// Cloudinary is an ObjectStore backed by the Cloudinary upload API.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

var _ ObjectStore = (*Cloudinary)(nil)

// NewCloudinary creates a Cloudinary store from account credentials.
func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &Cloudinary{cld: cld}, nil
}

// Put uploads r under opts.Folder/opts.PublicID.
func (c *Cloudinary) Put(ctx context.Context, r io.Reader, opts PutOptions) (*Object, error) {
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         opts.Folder,
		PublicID:       opts.PublicID,
		Transformation: uploadTransformation,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	return &Object{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Remove destroys the asset. Cloudinary answers "not found" for missing assets, which is success here.
func (c *Cloudinary) Remove(ctx context.Context, publicID string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	switch res.Result {
	case "ok", "not found":
		return nil
	default:
		return fmt.Errorf("cloudinary destroy: unexpected result %q", res.Result)
	}
}
