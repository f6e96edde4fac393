// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/scc-digitalhub/iadea-cli-sdk/cmd/cmdutil"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/transfer"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/utils"
	"github.com/spf13/cobra"
)

var (
	bucket string

	syncPrefix    string
	syncDir       string
	syncAll       bool
	syncQuiet     bool
	archiveFormat string
)

var Cmd = &cobra.Command{
	Use:   "s3",
	Short: "Move content and configuration between S3 and the player",
	Long: `Move content and configuration between S3 and the player.

Credentials come from the aws_* INI keys or the AWS_* environment
variables; the bucket from --bucket, s3_bucket or S3_BUCKET.`,
}

// connect returns an authenticated player and a transfer service on it.
func connect(cmd *cobra.Command) (*transfer.TransferService, string, error) {
	conf, v, err := cmdutil.LoadConfig(cmd)
	if err != nil {
		return nil, "", err
	}
	b := bucket
	if b == "" {
		b = v.GetString(utils.S3Bucket)
	}
	if b == "" {
		return nil, "", errors.New("no bucket: set --bucket or S3_BUCKET")
	}

	dev, err := device.NewDeviceService(cmd.Context(), conf, device.WithLogger(slog.Default()))
	if err != nil {
		return nil, "", err
	}
	if _, err := dev.Connect(cmd.Context()); err != nil {
		return nil, "", fmt.Errorf("connect to %s:%d: %w", dev.Host(), dev.Port(), err)
	}
	svc, err := transfer.NewTransferService(cmd.Context(), conf, dev, transfer.WithLogger(slog.Default()))
	if err != nil {
		return nil, "", err
	}
	return svc, b, nil
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Upload the supported media under a bucket prefix",
	Example: `  iadea s3 sync --bucket signage --prefix lobby/
  iadea s3 sync --prefix lobby/ --dir /user-data/media/lobby --all`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, b, err := connect(cmd)
		if err != nil {
			return err
		}

		req := transfer.SyncRequest{
			Bucket:       b,
			Prefix:       syncPrefix,
			RemoteDir:    syncDir,
			SkipExisting: !syncAll,
		}
		var bar *utils.ProgressLine
		if !syncQuiet {
			current := ""
			req.Progress = func(key string, p device.Progress) {
				if key != current {
					if bar != nil {
						bar.Done()
					}
					current = key
					bar = utils.NewProgressLine(cmd.ErrOrStderr(), path.Base(key))
				}
				bar.Update(p.BytesSent, p.TotalSize)
			}
		}

		res, err := svc.SyncFromS3(cmd.Context(), req)
		if bar != nil {
			bar.Done()
		}
		if res != nil {
			if perr := cmdutil.Print(cmd, res); perr != nil && err == nil {
				err = perr
			}
		}
		return err
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <key>",
	Short: "Store the exported player configuration as an S3 object",
	Example: `  iadea s3 archive configs/lobby.yaml
  iadea s3 archive configs/lobby --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, b, err := connect(cmd)
		if err != nil {
			return err
		}
		res, err := svc.ArchiveConfiguration(cmd.Context(), transfer.ArchiveRequest{
			Bucket: b,
			Key:    args[0],
			Format: archiveFormat,
		})
		if err != nil {
			return err
		}
		return cmdutil.Print(cmd, res)
	},
}

func init() {
	Cmd.PersistentFlags().StringVar(&bucket, "bucket", "", "S3 bucket")

	syncCmd.Flags().StringVar(&syncPrefix, "prefix", "", "object key prefix")
	syncCmd.Flags().StringVar(&syncDir, "dir", transfer.DefaultRemoteDir, "player directory the objects land in")
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "upload objects already on the player too")
	syncCmd.Flags().BoolVarP(&syncQuiet, "quiet", "q", false, "do not show progress")

	archiveCmd.Flags().StringVar(&archiveFormat, "format", "", "json or yaml (default from the key extension)")

	Cmd.AddCommand(syncCmd, archiveCmd)
}
