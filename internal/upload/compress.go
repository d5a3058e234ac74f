// Package upload compresses images and posts them to the external
// image host in concurrent fixed-size batches.
package upload

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// CompressOptions bounds the output of Compress. Zero values take the
// defaults below.
type CompressOptions struct {
	MaxWidth  int
	MaxHeight int
	Quality   float64 // JPEG quality in (0,1]
	MaxSizeMB float64 // Inputs at or under this size are passed through
}

const (
	defaultMaxWidth  = 2000
	defaultMaxHeight = 3000
	defaultQuality   = 0.85
	defaultMaxSizeMB = 2

	// Quality floor for the single reduced-quality retry.
	minRetryQuality = 0.5
)

func (o *CompressOptions) applyDefaults() {
	if o.MaxWidth <= 0 {
		o.MaxWidth = defaultMaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = defaultMaxHeight
	}
	if o.Quality <= 0 || o.Quality > 1 {
		o.Quality = defaultQuality
	}
	if o.MaxSizeMB <= 0 {
		o.MaxSizeMB = defaultMaxSizeMB
	}
}

// Compress shrinks an image file to fit the option bounds and returns the
// path of the result. Files already under the size threshold are returned
// unchanged (same path, no re-encode). Oversized files are decoded,
// fit-resized and re-encoded as JPEG; if the result is still over the
// threshold, one retry re-encodes at reduced quality from the original
// decode, never from the first lossy output.
func Compress(path string, opts CompressOptions) (string, error) {
	opts.applyDefaults()

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	maxBytes := int64(opts.MaxSizeMB * 1024 * 1024)
	if info.Size() <= maxBytes {
		return path, nil
	}

	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}

	fitted := imaging.Fit(src, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)

	outPath, size, err := encodeJPEG(fitted, path, opts.Quality)
	if err != nil {
		return "", err
	}
	if size <= maxBytes {
		return outPath, nil
	}

	retryQuality := opts.Quality * 0.7
	if retryQuality < minRetryQuality {
		retryQuality = minRetryQuality
	}

	retryPath, _, err := encodeJPEG(fitted, path, retryQuality)
	os.Remove(outPath)
	if err != nil {
		return "", err
	}
	return retryPath, nil
}

// encodeJPEG writes img to a fresh temp file as JPEG at the given quality
// and reports the encoded size.
func encodeJPEG(img image.Image, origPath string, quality float64) (string, int64, error) {
	base := strings.TrimSuffix(filepath.Base(origPath), filepath.Ext(origPath))

	out, err := os.CreateTemp("", "mediakit-"+base+"-*.jpg")
	if err != nil {
		return "", 0, fmt.Errorf("creating temp file: %w", err)
	}

	err = imaging.Encode(out, img, imaging.JPEG, imaging.JPEGQuality(int(quality*100+0.5)))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(out.Name())
		return "", 0, fmt.Errorf("encoding %s: %w", base, err)
	}

	info, err := os.Stat(out.Name())
	if err != nil {
		os.Remove(out.Name())
		return "", 0, fmt.Errorf("stat %s: %w", out.Name(), err)
	}

	return out.Name(), info.Size(), nil
}
