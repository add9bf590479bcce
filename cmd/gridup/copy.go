package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdxmph/gridup/pkg/clipboard"
)

func copyCommand(cmd *cobra.Command, args []string) {
	if err := copyToClipboard(cmd.Context(), args); err != nil {
		fail(err)
	}
}

func copyToClipboard(ctx context.Context, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return fmt.Errorf("nothing to copy")
	}

	writer := clipboard.NewSystem(log)
	var ok bool
	if plainText {
		ok = writer.CopyText(ctx, content)
	} else {
		ok = writer.CopyMarkup(ctx, content)
	}
	if !ok {
		if err := writer.Status().LastError; err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		return fmt.Errorf("copy failed")
	}

	log.Info("copied to clipboard")
	return nil
}
