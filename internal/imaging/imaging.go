// Package imaging validates screening images and talks to the image
// classification service.
package imaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jwalitptl/cancerguard-api/internal/model"
)

// MaxImageBytes is the largest accepted upload.
const MaxImageBytes = 10 << 20

var (
	ErrEmptyImage    = errors.New("please select an image to upload")
	ErrImageTooLarge = errors.New("image size should be less than 10MB")
	ErrNotAnImage    = errors.New("please upload an image file")
	// ErrClassifier marks transport failures and non-2xx replies from the classifier.
	ErrClassifier = errors.New("image classification failed")
)

// Image is a validated upload.
type Image struct {
	Filename string
	MIME     string
	Data     []byte
}

// Validate checks size and sniffed content type. It performs no I/O.
func Validate(filename string, data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if len(data) > MaxImageBytes {
		return nil, ErrImageTooLarge
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, ErrNotAnImage
	}
	if filename == "" {
		filename = "upload" + mt.Extension()
	}
	return &Image{Filename: filename, MIME: mt.String(), Data: data}, nil
}

// Classifier predicts from an image.
type Classifier interface {
	Predict(ctx context.Context, img *Image, cancerType string, userID int64) (*model.Prediction, error)
}

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the classification service's /predict endpoint.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

func NewClient(baseURL string, httpClient HTTPDoer) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Predict uploads img as multipart form data. A relative image_url in the
// reply is resolved against the service base URL.
func (c *Client) Predict(ctx context.Context, img *Image, cancerType string, userID int64) (*model.Prediction, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, img.Filename))
	h.Set("Content-Type", img.MIME)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := w.WriteField("cancer_type", cancerType); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := w.WriteField("user_id", strconv.FormatInt(userID, 10)); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", &buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifier, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifier, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifier, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrClassifier, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var p model.Prediction
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: invalid reply: %v", ErrClassifier, err)
	}
	if p.Prediction == "" {
		return nil, fmt.Errorf("%w: reply has no prediction", ErrClassifier)
	}
	if p.ImageURL != "" && !strings.HasPrefix(p.ImageURL, "http://") && !strings.HasPrefix(p.ImageURL, "https://") {
		p.ImageURL = c.baseURL + "/" + strings.TrimLeft(p.ImageURL, "/")
	}
	return &p, nil
}
