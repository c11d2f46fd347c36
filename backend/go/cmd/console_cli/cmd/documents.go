package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"VectorConsole/backend/go/internal/models"
)

var documentsCmd = &cobra.Command{
	Use:               "documents",
	Short:             "Manage documents of a folder",
	PersistentPreRunE: connect,
}

var documentsListCmd = &cobra.Command{
	Use:   "list [project-id] [folder-id]",
	Short: "List documents",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := client.ListDocuments(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		w := newTable(cmd.OutOrStdout())
		fmt.Fprintln(w, "ID\tNAME\tSIZE\tSTATUS\tVECTORS")
		for _, d := range docs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, models.FormatFileSize(d.FileSize), d.Status, vectors(d))
		}
		return w.Flush()
	},
}

func vectors(d *models.Document) string {
	switch {
	case d.VectorCount != nil:
		return fmt.Sprint(*d.VectorCount)
	case d.Status == models.DocumentError:
		return d.ErrorMessage
	default:
		return "-"
	}
}

var metadataPairs []string

var documentsUploadCmd = &cobra.Command{
	Use:   "upload [project-id] [folder-id] [file.pdf]",
	Short: "Upload a PDF document",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		metadata, err := parseMetadata(metadataPairs)
		if err != nil {
			return err
		}
		f, err := os.Open(args[2])
		if err != nil {
			return err
		}
		defer f.Close()

		d, err := client.UploadDocument(cmd.Context(), args[0], args[1], filepath.Base(args[2]), f, metadata)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%s, %s), status %s\n", d.Name, d.ID, models.FormatFileSize(d.FileSize), d.Status)
		return nil
	},
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [project-id] [folder-id] [document-id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, fmt.Sprintf("Delete document %s?", args[2])) {
			return nil
		}
		if err := client.DeleteDocument(cmd.Context(), args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted document %s\n", args[2])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(documentsCmd)
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsUploadCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)

	documentsUploadCmd.Flags().StringArrayVar(&metadataPairs, "meta", nil, "document metadata key=value (repeatable)")
	documentsDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
