package commands

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/spf13/cobra"
)

// NewPhotoCommand creates the photo command group.
func NewPhotoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "photo",
		Aliases: []string{"photos"},
		Short:   "Manage photos",
		Long:    "Upload photos to albums and walls",
	}

	cmd.AddCommand(newPhotoUploadCommand())

	return cmd
}

func newPhotoUploadCommand() *cobra.Command {
	var (
		album   string
		message string
		noStory bool
	)

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a photo",
		Long:  "Upload an image file to an album (your wall album by default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]

			data, contentType, err := readImageFile(file)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			request := &graph.PhotoUploadRequest{
				Source:      data,
				Filename:    filepath.Base(file),
				ContentType: contentType,
				Message:     message,
				Album:       album,
				NoStory:     noStory,
			}

			ctx := context.Background()

			result, err := client.Photos().Upload(ctx, request)
			if err != nil {
				return fmt.Errorf("failed to upload photo: %w", err)
			}

			fmt.Printf("Uploaded photo %s", result.ID)

			if result.PostID != "" {
				fmt.Printf(" (post %s)", result.PostID)
			}

			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&album, "album", "", "album ID to upload into")
	cmd.Flags().StringVar(&message, "message", "", "photo caption")
	cmd.Flags().BoolVar(&noStory, "no-story", false, "suppress the feed story for the upload")

	return cmd
}

// readImageFile validates the path, reads the image bytes, and determines
// their content type.
func readImageFile(file string) ([]byte, string, error) {
	if file == "" {
		return nil, "", constants.ErrFileRequired
	}

	if strings.Contains(file, "..") {
		return nil, "", fmt.Errorf("%w: %s", constants.ErrDirectoryTraversalDetected, file)
	}

	info, err := os.Stat(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to stat file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil, "", fmt.Errorf("%w: %s", constants.ErrNotRegularFile, file)
	}

	// The path was validated above
	// #nosec G304
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(file))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return data, contentType, nil
}
