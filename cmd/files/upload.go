// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/scc-digitalhub/iadea-cli-sdk/cmd/cmdutil"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/transfer"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/utils"
	"github.com/spf13/cobra"
)

var (
	uploadDir        string
	uploadQuiet      bool
	uploadPlay       bool
	uploadSetStart   bool
	uploadAsFallback bool
)

var UploadCmd = &cobra.Command{
	Use:   "upload <local-file> [download-path]",
	Short: "Upload a media file to the player",
	Long: `Upload a media file to the player.

The download path defaults to the file name under --dir. The MIME type is
taken from the file extension.`,
	Example: `  iadea upload clip.mp4
  iadea upload banner.png /user-data/media/lobby/banner.png --play`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		local := args[0]
		remote := path.Join(uploadDir, filepath.Base(local))
		if len(args) == 2 {
			remote = args[1]
		}
		if uploadPlay && uploadSetStart {
			return errors.New("use only one of --play and --start")
		}

		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		req := device.UploadRequest{LocalPath: local, DownloadPath: remote}
		var bar *utils.ProgressLine
		if !uploadQuiet {
			bar = utils.NewProgressLine(cmd.ErrOrStderr(), filepath.Base(local))
			req.Progress = func(p device.Progress) { bar.Update(p.BytesSent, p.TotalSize) }
		}
		rec, err := svc.Upload(ctx, req)
		if bar != nil {
			bar.Done()
		}
		if err != nil {
			return err
		}

		switch {
		case uploadPlay:
			if _, err := svc.PlayFile(ctx, device.ContentRecord(*rec)); err != nil {
				return fmt.Errorf("uploaded but not played: %w", err)
			}
		case uploadSetStart:
			target := device.StartContent(device.ContentRecord(*rec))
			if _, err := svc.SetStart(ctx, target, uploadAsFallback); err != nil {
				return fmt.Errorf("uploaded but not set as start content: %w", err)
			}
		}
		return cmdutil.Print(cmd, rec)
	},
}

func init() {
	UploadCmd.Flags().StringVar(&uploadDir, "dir", transfer.DefaultRemoteDir, "player directory used when no download path is given")
	UploadCmd.Flags().BoolVarP(&uploadQuiet, "quiet", "q", false, "do not show progress")
	UploadCmd.Flags().BoolVar(&uploadPlay, "play", false, "play the file once uploaded")
	UploadCmd.Flags().BoolVar(&uploadSetStart, "start", false, "make the file the start content once uploaded")
	UploadCmd.Flags().BoolVar(&uploadAsFallback, "fallback", false, "with --start, set the fallback content instead")
}
