// Package pdfrender rasterizes uploaded PDF batches one page at a time
// using poppler's pdftoppm, the resolution seam in front of the decoder.
package pdfrender

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultDPI matches a 2.0x render scale for a standard page, the
// resolution the decoder's thresholds are tuned against.
const DefaultDPI = 144

type Renderer struct {
	dpi int
}

func New(dpi int) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{dpi: dpi}
}

// CountPages reads the page count from pdfinfo output.
func (r *Renderer) CountPages(ctx context.Context, pdfPath string) (int, error) {
	cmd := exec.CommandContext(ctx, "pdfinfo", pdfPath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("pdfinfo failed: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "Pages:") {
			parts := strings.Fields(line)
			if len(parts) >= 2 {
				if total, convErr := strconv.Atoi(parts[1]); convErr == nil {
					return total, nil
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, errors.New("failed to determine page count from pdfinfo output")
}

// RenderPage rasterizes a single 1-based page to an in-memory image. The
// intermediate file lives in a temporary directory removed before return.
func (r *Renderer) RenderPage(ctx context.Context, pdfPath string, page int) (image.Image, error) {
	workDir, err := os.MkdirTemp("", "scanserver-render-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create render directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	prefix := filepath.Join(workDir, "page")
	args := []string{
		"-jpeg",
		"-r", strconv.Itoa(r.dpi),
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		pdfPath,
		prefix,
	}
	cmd := exec.CommandContext(ctx, "pdftoppm", args...)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed on page %d: %w", page, err)
	}

	rendered, err := findRenderedImage(prefix, page)
	if err != nil {
		return nil, err
	}
	return loadImage(rendered)
}

// findRenderedImage locates pdftoppm's output for a page; the tool
// zero-pads the page number to the width of the document's page count.
func findRenderedImage(prefix string, page int) (string, error) {
	candidates := []string{
		fmt.Sprintf("%s-%d.jpg", prefix, page),
		fmt.Sprintf("%s-%02d.jpg", prefix, page),
		fmt.Sprintf("%s-%03d.jpg", prefix, page),
		fmt.Sprintf("%s-%04d.jpg", prefix, page),
		fmt.Sprintf("%s-%05d.jpg", prefix, page),
		fmt.Sprintf("%s-%06d.jpg", prefix, page),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("rendered image not found for page %d", page)
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
