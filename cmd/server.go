package cmd

import (
	"Tuder/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动Tuder服务器",
	Long:  `启动Tuder曲库的HTTP服务器，提供用户、歌单、专辑、上传与搜索API`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
