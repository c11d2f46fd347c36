package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"VectorConsole/backend/go/internal/folderconfig"
	"VectorConsole/backend/go/internal/models"
)

var projectsCmd = &cobra.Command{
	Use:               "projects",
	Short:             "Manage projects",
	PersistentPreRunE: connect,
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := client.ListProjects(cmd.Context())
		if err != nil {
			return err
		}
		w := newTable(cmd.OutOrStdout())
		fmt.Fprintln(w, "ID\tNAME\tFOLDERS\tDOCUMENTS\tCREATED")
		for _, p := range projects {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", p.ID, p.Name, p.FolderCount, p.DocumentCount, p.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := folderconfig.ValidateName("name", args[0])
		if err != nil {
			return err
		}
		p, err := client.CreateProject(cmd.Context(), models.CreateProjectPayload{Name: name})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", p.Name, p.ID)
		return nil
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete [project-id]",
	Short: "Delete a project with all its folders and documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, fmt.Sprintf("Delete project %s and everything in it?", args[0])) {
			return nil
		}
		if err := client.DeleteProject(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsCreateCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
	projectsDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
