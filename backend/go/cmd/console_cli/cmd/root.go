package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"VectorConsole/backend/go/internal/config"
	"VectorConsole/backend/go/internal/console_service/apiclient"
)

var (
	cfgFile string
	apiURL  string
	apiKey  string

	client *apiclient.Client
)

var rootCmd = &cobra.Command{
	Use:          "console-cli",
	Short:        "A CLI client for the vector console API",
	Long:         `Manage projects, folders and documents of the vector console from the command line.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $CONSOLE_CONFIG or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL, overrides client.baseURL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key, overrides client.apiKey")
}

// connect 构建 API 客户端，供需要访问服务端的子命令在 PreRunE 中调用。
func connect(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.Client.BaseURL = apiURL
	}
	if apiKey != "" {
		cfg.Client.APIKey = apiKey
	}
	client, err = apiclient.New(cfg.Client, cfg.Middleware.CircuitBreaker)
	return err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// confirm 在删除前询问用户；--yes 跳过。
func confirm(cmd *cobra.Command, prompt string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
