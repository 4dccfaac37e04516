package commands

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/fivetwenty-io/graph-client/pkg/graph"
	"github.com/spf13/cobra"
)

// NewPostCommand creates the post command.
func NewPostCommand() *cobra.Command {
	var (
		to          string
		link        string
		name        string
		caption     string
		description string
		picture     string
		place       string
		tags        []string
		unpublished bool
	)

	cmd := &cobra.Command{
		Use:   "post MESSAGE",
		Short: "Publish a post",
		Long:  "Publish a post to a profile's feed (your own wall by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := ""
			if len(args) > 0 {
				message = args[0]
			}

			if message == "" && link == "" {
				return constants.ErrMessageRequired
			}

			client, err := CreateClient(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			request := &graph.PostCreateRequest{
				Message:     message,
				Link:        link,
				Name:        name,
				Caption:     caption,
				Description: description,
				Picture:     picture,
				Place:       place,
				Tags:        tags,
			}

			if unpublished {
				published := false
				request.Published = &published
			}

			ctx := context.Background()

			result, err := client.Feed().PublishPost(ctx, to, request)
			if err != nil {
				return fmt.Errorf("failed to publish post: %w", err)
			}

			fmt.Printf("Published post %s\n", result.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "profile or page ID to post to (defaults to me)")
	cmd.Flags().StringVar(&link, "link", "", "URL to attach to the post")
	cmd.Flags().StringVar(&name, "name", "", "link title")
	cmd.Flags().StringVar(&caption, "caption", "", "link caption")
	cmd.Flags().StringVar(&description, "description", "", "link description")
	cmd.Flags().StringVar(&picture, "picture", "", "preview image URL for the link")
	cmd.Flags().StringVar(&place, "place", "", "page ID of a location to tag")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "user IDs to tag in the post")
	cmd.Flags().BoolVar(&unpublished, "unpublished", false, "create the post unpublished")

	return cmd
}

// NewCommentCommand creates the comment command.
func NewCommentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "comment ID MESSAGE",
		Short: "Comment on an object",
		Long:  "Publish a comment on a Graph object such as a post or photo",
		Args:  cobra.ExactArgs(constants.TwoArgumentsRequired),
		RunE: func(cmd *cobra.Command, args []string) error {
			objectID := args[0]
			message := args[1]

			if message == "" {
				return constants.ErrMessageRequired
			}

			client, err := CreateClient(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			result, err := client.Comments().Create(ctx, objectID, message)
			if err != nil {
				return fmt.Errorf("failed to publish comment: %w", err)
			}

			fmt.Printf("Published comment %s\n", result.ID)
			return nil
		},
	}
}

// NewLikeCommand creates the like command.
func NewLikeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "like ID",
		Short: "Like an object",
		Long:  "Like a Graph object such as a post, photo, or comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objectID := args[0]

			client, err := CreateClient(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			err = client.Likes().Create(ctx, objectID)
			if err != nil {
				return fmt.Errorf("failed to like object: %w", err)
			}

			fmt.Printf("Liked %s\n", objectID)
			return nil
		},
	}
}

// NewUnlikeCommand creates the unlike command.
func NewUnlikeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlike ID",
		Short: "Remove a like from an object",
		Long:  "Remove a previously placed like from a Graph object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objectID := args[0]

			client, err := CreateClient(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			err = client.Likes().Delete(ctx, objectID)
			if err != nil {
				return fmt.Errorf("failed to unlike object: %w", err)
			}

			fmt.Printf("Unliked %s\n", objectID)
			return nil
		},
	}
}
