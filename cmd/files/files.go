// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/scc-digitalhub/iadea-cli-sdk/cmd/cmdutil"
	"github.com/scc-digitalhub/iadea-cli-sdk/sdk/services/device"
	"github.com/spf13/cobra"
)

var (
	listMime       string
	listPath       string
	listCompleted  bool
	listIncomplete bool

	deleteMatch string
	deleteAll   bool

	downloadOut string
)

var Cmd = &cobra.Command{
	Use:   "files",
	Short: "Manage the files stored on the player",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := listFilter()
		if err != nil {
			return err
		}
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		list, err := svc.GetFileList(cmd.Context(), filter)
		if err != nil {
			return err
		}
		return cmdutil.Print(cmd, list)
	},
}

// listFilter maps the flags to a FileFilter, which holds one criterion.
func listFilter() (device.FileFilter, error) {
	set := 0
	filter := device.NoFilter()
	if listMime != "" {
		set++
		filter = device.ByMimeType(listMime)
	}
	if listPath != "" {
		set++
		filter = device.ByDownloadPath(listPath)
	}
	if listCompleted || listIncomplete {
		set++
		filter = device.ByCompleted(listCompleted)
	}
	if set > 1 || (listCompleted && listIncomplete) {
		return device.FileFilter{}, errors.New("use only one of --mime, --path, --completed, --incomplete")
	}
	return filter, nil
}

var findCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Show the first file whose download path contains name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		rec, err := svc.FindFileByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return cmdutil.Print(cmd, rec)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a file by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		rec, err := svc.GetFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return cmdutil.Print(cmd, rec)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]...",
	Short: "Delete files by id, by download path match, or all of them",
	Example: `  iadea files delete 3f2a 3f2b
  iadea files delete --match /user-data/media/old-
  iadea files delete --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		modes := 0
		for _, on := range []bool{len(args) > 0, deleteMatch != "", deleteAll} {
			if on {
				modes++
			}
		}
		if modes != 1 {
			return errors.New("pass ids, --match or --all")
		}

		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		var results []*device.Response
		if len(args) > 0 {
			refs := make([]device.FileRef, 0, len(args))
			for _, id := range args {
				refs = append(refs, device.FileID(id))
			}
			results, err = svc.DeleteFiles(ctx, refs...)
		} else {
			filter := device.NoFilter()
			if deleteMatch != "" {
				filter = device.ByDownloadPath(deleteMatch)
			}
			var list *device.FileList
			if list, err = svc.GetFileList(ctx, filter); err != nil {
				return err
			}
			results, err = svc.DeleteFileList(ctx, *list)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d file(s)\n", len(results))
		return err
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <download-path>",
	Short: "Copy a stored file to the local disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := downloadOut
		if out == "" {
			out = path.Base(args[0])
		}
		svc, err := cmdutil.Connect(cmd)
		if err != nil {
			return err
		}

		f, err := os.Create(out)
		if err != nil {
			return err
		}
		n, err := svc.DownloadFile(cmd.Context(), device.ContentPath(args[0]), f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(out)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d bytes)\n", out, n)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listMime, "mime", "", "keep files whose MIME type contains this")
	listCmd.Flags().StringVar(&listPath, "path", "", "keep files whose download path contains this")
	listCmd.Flags().BoolVar(&listCompleted, "completed", false, "keep completed files")
	listCmd.Flags().BoolVar(&listIncomplete, "incomplete", false, "keep incomplete files")

	deleteCmd.Flags().StringVar(&deleteMatch, "match", "", "delete files whose download path contains this")
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "delete every stored file")

	downloadCmd.Flags().StringVarP(&downloadOut, "file", "f", "", "output file (default the base name)")

	Cmd.AddCommand(listCmd, findCmd, getCmd, deleteCmd, downloadCmd)
}
