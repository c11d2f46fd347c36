package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"VectorConsole/backend/go/internal/folderconfig"
)

var foldersCmd = &cobra.Command{
	Use:               "folders",
	Short:             "Manage folders of a project",
	PersistentPreRunE: connect,
}

var foldersListCmd = &cobra.Command{
	Use:   "list [project-id]",
	Short: "List folders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folders, err := client.ListFolders(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := newTable(cmd.OutOrStdout())
		fmt.Fprintln(w, "ID\tNAME\tCHUNK\tOVERLAP\tDOCUMENTS\tMETADATA")
		for _, f := range folders {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n", f.ID, f.Name, f.ChunkSize, f.ChunkOverlap, f.DocumentCount, strings.Join(f.MetadataParams, ","))
		}
		return w.Flush()
	},
}

var (
	chunkSize      int
	chunkOverlap   int
	requiredFields []string
	optionalFields []string
)

var foldersCreateCmd = &cobra.Command{
	Use:   "create [project-id] [name]",
	Short: "Create a folder",
	Long: `Create a folder with its chunking settings and metadata schema.

Fields are given as key:type[:opt1,opt2], where type is text, number, date or select.
Options are only used by select fields. --field declares a required field and
--optional-field an optional one; required fields come first in the schema.`,
	Example: `  console-cli folders create <project-id> Contracts --chunk-size 800 --chunk-overlap 100 \
    --field category:select:legal,finance --optional-field signed:date`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFields(requiredFields, optionalFields)
		if err != nil {
			return err
		}

		// 提交前在本地完成与表单相同的校验
		c, _ := folderconfig.ValidateChunking(chunkSize, chunkOverlap)
		if c.Size != chunkSize || c.Overlap != chunkOverlap {
			fmt.Fprintf(cmd.ErrOrStderr(), "chunking adjusted to size %d, overlap %d\n", c.Size, c.Overlap)
		}
		payload, err := folderconfig.BuildFolder(folderconfig.FolderInput{
			ProjectID:    args[0],
			Name:         args[1],
			ChunkSize:    c.Size,
			ChunkOverlap: c.Overlap,
			Fields:       fields,
		})
		if err != nil {
			return err
		}

		f, err := client.CreateFolder(cmd.Context(), args[0], payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created folder %s (%s), chunk %d/%d\n", f.Name, f.ID, f.ChunkSize, f.ChunkOverlap)
		return nil
	},
}

var foldersDeleteCmd = &cobra.Command{
	Use:   "delete [project-id] [folder-id]",
	Short: "Delete a folder and its documents",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, fmt.Sprintf("Delete folder %s and its documents?", args[1])) {
			return nil
		}
		if err := client.DeleteFolder(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted folder %s\n", args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(foldersCmd)
	foldersCmd.AddCommand(foldersListCmd)
	foldersCmd.AddCommand(foldersCreateCmd)
	foldersCmd.AddCommand(foldersDeleteCmd)

	foldersCreateCmd.Flags().IntVar(&chunkSize, "chunk-size", folderconfig.DefaultChunkSize, "chunk size in characters (100-5000)")
	foldersCreateCmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", folderconfig.DefaultChunkOverlap, "chunk overlap, at most half the chunk size")
	foldersCreateCmd.Flags().StringArrayVar(&requiredFields, "field", nil, "required metadata field key:type[:opt1,opt2] (repeatable)")
	foldersCreateCmd.Flags().StringArrayVar(&optionalFields, "optional-field", nil, "optional metadata field key:type[:opt1,opt2] (repeatable)")
	foldersDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
