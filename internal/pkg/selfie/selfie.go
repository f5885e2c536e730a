package selfie

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/storage"
)

// Kind distinguishes the two selfie capture moments.
type Kind string

const (
	KindCheckIn  Kind = "checkin"
	KindCheckOut Kind = "checkout"
)

// Processor stores an employee selfie and returns its public URL. Failures
// are reported as errors; callers treat selfie processing as best-effort and
// must never block a check-in/check-out on it.
type Processor interface {
	Process(ctx context.Context, image string, employeeID string, kind Kind) (string, error)
}

type processor struct {
	files      storage.FileStorage
	httpClient *http.Client
}

func NewProcessor(files storage.FileStorage) Processor {
	return &processor{
		files: files,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

const maxImageBytes = 10 << 20

// Process accepts either an image URL (as delivered by the messaging
// provider) or a base64/data-URI payload.
func (p *processor) Process(ctx context.Context, image string, employeeID string, kind Kind) (string, error) {
	data, err := p.fetch(ctx, image)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("selfies/%s/%s-%s.jpg", employeeID, time.Now().Format("2006-01-02"), kind)
	path, err := p.files.Upload(ctx, bytes.NewReader(data), name, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("store selfie: %w", err)
	}

	return p.files.GetURL(path), nil
}

func (p *processor) fetch(ctx context.Context, image string) ([]byte, error) {
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, image, nil)
		if err != nil {
			return nil, fmt.Errorf("build selfie request: %w", err)
		}
		resp, err := p.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("download selfie: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("download selfie: unexpected status %d", resp.StatusCode)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
		if err != nil {
			return nil, fmt.Errorf("read selfie body: %w", err)
		}
		return data, nil
	}

	// data:image/jpeg;base64,... or bare base64
	payload := image
	if idx := strings.Index(payload, "base64,"); idx >= 0 {
		payload = payload[idx+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode selfie base64: %w", err)
	}
	return data, nil
}
