package prez

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"hash/crc32"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/corona10/goimagehash"
	"github.com/k1LoW/errors"
)

type MIMEType string

const (
	MIMETypeImagePNG  MIMEType = "image/png"
	MIMETypeImageJPEG MIMEType = "image/jpeg"
	MIMETypeImageGIF  MIMEType = "image/gif"
)

// Image is a slide image loaded from a local file or a URL.
type Image struct {
	i        image.Image
	b        []byte // Raw image data
	mimeType MIMEType
	source   string                 // Path or URL the image was loaded from
	checksum uint32                 // Checksum for the image data
	pHash    *goimagehash.ImageHash // Perceptual hash, computed lazily
	modTime  time.Time              // Modification time of the image file, if applicable
}

// NewImage loads an image from a local path or an http(s) URL. Loaded images
// are cached per source. A local file is reloaded when its modification time
// changes; if the reloaded content is still visually identical the cached
// image is kept, so watch-mode rebuilds do not churn on retouched timestamps.
func NewImage(ctx context.Context, client *http.Client, pathOrURL string) (_ *Image, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	var r io.Reader
	var modTime time.Time
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		if i, ok := cachedImage(pathOrURL); ok {
			return i, nil
		}
		if _, err := url.Parse(pathOrURL); err != nil {
			return nil, fmt.Errorf("invalid URL %s: %w", pathOrURL, err)
		}
		if client == nil {
			client = &http.Client{Timeout: 30 * time.Second}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pathOrURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL %s: %w", pathOrURL, err)
		}
		req.Header.Set("User-Agent", userAgent)
		res, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL %s: %w", pathOrURL, err)
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch image from URL %s: status code %d", pathOrURL, res.StatusCode)
		}
		r = res.Body
	} else {
		fi, err := os.Stat(pathOrURL)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &AssetNotFoundError{Path: pathOrURL}
			}
			return nil, fmt.Errorf("failed to stat image file %s: %w", pathOrURL, err)
		}
		modTime = fi.ModTime()
		if cached, ok := cachedImage(pathOrURL); ok {
			if modTime.Equal(cached.modTime) {
				return cached, nil
			}
			fresh, err := readImageFile(pathOrURL)
			if err != nil {
				return nil, err
			}
			fresh.source = pathOrURL
			fresh.modTime = modTime
			if cached.Equivalent(fresh) {
				// Touched but visually unchanged. Keep the cached image and
				// its computed hashes.
				cached.modTime = modTime
				return cached, nil
			}
			storeImage(pathOrURL, fresh)
			return fresh, nil
		}
		file, err := os.Open(pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open image file %s: %w", pathOrURL, err)
		}
		defer file.Close()
		r = file
	}
	i, err := newImageFromBuffer(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create image from buffer: %w", err)
	}
	i.source = pathOrURL
	i.modTime = modTime
	storeImage(pathOrURL, i)
	return i, nil
}

func readImageFile(path string) (_ *Image, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()
	i, err := newImageFromBuffer(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create image from buffer: %w", err)
	}
	return i, nil
}

func newImageFromBuffer(r io.Reader) (_ *Image, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	var mt MIMEType
	switch format {
	case "png":
		mt = MIMETypeImagePNG
	case "jpeg":
		mt = MIMETypeImageJPEG
	case "gif":
		mt = MIMETypeImageGIF
	default:
		return nil, fmt.Errorf("unsupported image MIME type: %s", format)
	}
	return &Image{
		b:        b,
		mimeType: mt,
	}, nil
}

// Ext returns the media part extension for the image format.
func (i *Image) Ext() string {
	switch i.mimeType {
	case MIMETypeImagePNG:
		return "png"
	case MIMETypeImageJPEG:
		return "jpeg"
	case MIMETypeImageGIF:
		return "gif"
	}
	return ""
}

// Equivalent reports whether two images would look the same on a slide.
// Byte-identical data matches immediately; otherwise a perceptual hash
// absorbs re-encoded variants of the same picture.
func (i *Image) Equivalent(ii *Image) bool {
	if i == nil || ii == nil {
		return false
	}
	if i.mimeType != ii.mimeType {
		return false
	}
	if i.Checksum() == ii.Checksum() {
		return true
	}
	aHash, err := i.PHash()
	if err != nil {
		return false
	}
	bHash, err := ii.PHash()
	if err != nil {
		return false
	}
	distance, err := aHash.Distance(bHash)
	if err != nil {
		return false
	}
	return distance < 5 // threshold for similarity
}

func (i *Image) Checksum() uint32 {
	if i == nil {
		return 0
	}
	if i.checksum == 0 {
		i.checksum = crc32.ChecksumIEEE(i.b)
	}
	return i.checksum
}

func (i *Image) Image() (image.Image, error) {
	if i == nil {
		return nil, fmt.Errorf("image is nil")
	}
	if i.i == nil {
		img, _, err := image.Decode(bytes.NewReader(i.b))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		i.i = img
	}
	return i.i, nil
}

func (i *Image) PHash() (_ *goimagehash.ImageHash, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if i == nil {
		return nil, fmt.Errorf("image is nil")
	}
	if i.i == nil {
		if _, err := i.Image(); err != nil {
			return nil, err
		}
	}
	if i.pHash == nil {
		pHash, err := goimagehash.PerceptionHash(i.i)
		if err != nil {
			return nil, fmt.Errorf("failed to compute perceptual hash: %w", err)
		}
		i.pHash = pHash
	}
	return i.pHash, nil
}

func (i *Image) String() string {
	if i == nil {
		return ""
	}
	encoded := base64.StdEncoding.EncodeToString(i.b)
	return fmt.Sprintf("data:%s;base64,%s", i.mimeType, encoded)
}

func (i *Image) Bytes() []byte {
	if i == nil {
		return nil
	}
	return i.b
}
