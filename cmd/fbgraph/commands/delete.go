package commands

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/graph-client/internal/constants"
	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a Graph object",
		Long:  "Delete a Graph object such as a post, comment, or photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objectID := args[0]

			if objectID == "" {
				return constants.ErrObjectIDRequired
			}

			if !force && !confirmAction(fmt.Sprintf("Really delete object '%s'?", objectID)) {
				fmt.Println("Cancelled")
				return nil
			}

			client, err := CreateClient(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			err = client.Objects().Delete(ctx, objectID)
			if err != nil {
				return fmt.Errorf("failed to delete object: %w", err)
			}

			fmt.Printf("Deleted %s\n", objectID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")

	return cmd
}

// NewDeleteRequestCommand creates the delete-request command.
func NewDeleteRequestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-request REQUEST_ID USER_ID",
		Short: "Delete an app request",
		Long:  "Delete an app-to-user request for the given user",
		Args:  cobra.ExactArgs(constants.TwoArgumentsRequired),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID := args[0]
			userID := args[1]

			client, err := CreateClient(cmd.Flag("profile").Value.String())
			if err != nil {
				return err
			}

			ctx := context.Background()

			err = client.Requests().Delete(ctx, requestID, userID)
			if err != nil {
				return fmt.Errorf("failed to delete request: %w", err)
			}

			fmt.Printf("Deleted request %s for user %s\n", requestID, userID)
			return nil
		},
	}
}
