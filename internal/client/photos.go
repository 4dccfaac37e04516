package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/internal/http"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
)

// Static errors for err113 compliance.
var (
	ErrPhotoSourceRequired = errors.New("photo source is required")
)

// PhotosClient implements graph.PhotosClient
type PhotosClient struct {
	httpClient *http.Client
	version    string
}

// NewPhotosClient creates a new photos client
func NewPhotosClient(httpClient *http.Client, version string) *PhotosClient {
	return &PhotosClient{
		httpClient: httpClient,
		version:    version,
	}
}

// Upload implements graph.PhotosClient.Upload. The image travels as the
// source field of a multipart form; the body is buffered up front so the
// transport can replay it on retries.
func (c *PhotosClient) Upload(ctx context.Context, request *graph.PhotoUploadRequest) (*graph.ID, error) {
	if !c.httpClient.Authenticated() {
		return nil, graph.ErrAccessTokenRequired
	}

	if request == nil || len(request.Source) == 0 {
		return nil, ErrPhotoSourceRequired
	}

	body, contentType, err := buildPhotoForm(request)
	if err != nil {
		return nil, fmt.Errorf("building photo upload: %w", err)
	}

	albumPath := constants.DefaultAlbumPath
	if request.Album != "" {
		albumPath = request.Album + "/photos"
	}

	resp, err := c.httpClient.PostMultipart(ctx, versionedPath(c.version, albumPath), contentType, body)
	if err != nil {
		return nil, fmt.Errorf("uploading photo: %w", err)
	}

	var result graph.ID
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing photo response: %w", err)
	}

	return &result, nil
}

// List implements graph.PhotosClient.List
func (c *PhotosClient) List(ctx context.Context, albumID string, params *graph.Params) (*graph.Edge[graph.Photo], error) {
	if albumID == "" {
		albumID = "me"
	}

	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	path := versionedPath(c.version, albumID+"/photos")

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing photos for %s: %w", albumID, err)
	}

	var result graph.Edge[graph.Photo]
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parsing photos response: %w", err)
	}

	return &result, nil
}

// buildPhotoForm assembles the multipart body for a photo upload.
func buildPhotoForm(request *graph.PhotoUploadRequest) ([]byte, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	filename := request.Filename
	if filename == "" {
		filename = "photo"
	}

	var (
		part io.Writer
		err  error
	)

	if request.ContentType != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, constants.PhotoSourceField, filename))
		header.Set("Content-Type", request.ContentType)
		part, err = writer.CreatePart(header)
	} else {
		part, err = writer.CreateFormFile(constants.PhotoSourceField, filename)
	}

	if err != nil {
		return nil, "", fmt.Errorf("creating source part: %w", err)
	}

	if _, err := part.Write(request.Source); err != nil {
		return nil, "", fmt.Errorf("writing source part: %w", err)
	}

	if request.Message != "" {
		if err := writer.WriteField("message", request.Message); err != nil {
			return nil, "", fmt.Errorf("writing message field: %w", err)
		}
	}

	if request.NoStory {
		if err := writer.WriteField("no_story", constants.BooleanTrue); err != nil {
			return nil, "", fmt.Errorf("writing no_story field: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalizing form: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}
