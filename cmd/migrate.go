package cmd

import (
	"log"

	"Tuder/config"
	"Tuder/db"
	"Tuder/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "创建数据库并迁移表结构",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.Init(cfg)
		defer logger.Sync()

		if err := db.EnsureDatabase(cfg); err != nil {
			log.Fatalf("创建数据库失败: %v", err)
		}
		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("连接数据库失败: %v", err)
		}
		defer db.CloseGormDB()

		if err := db.AutoMigrate(db.GormDB); err != nil {
			log.Fatalf("迁移失败: %v", err)
		}
		log.Println("数据库迁移完成")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
