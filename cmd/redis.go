package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"Tuder/cache"
	"Tuder/config"
	"Tuder/db"

	"github.com/spf13/cobra"
)

var redisFlush bool

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Redis连接测试",
	Long:  `测试Redis连接是否成功，并进行基本读写操作。使用 --flush 清空搜索缓存。`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("开始测试Redis连接...")

		cfg := config.Load()
		fmt.Printf("Redis配置: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		if err := db.ConnectRedis(cfg); err != nil {
			log.Fatalf("无法连接到Redis: %v", err)
		}
		defer db.CloseRedis()
		fmt.Println("Redis连接成功！")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		fmt.Println("开始测试Redis基本操作...")
		if err := db.TestRedis(ctx); err != nil {
			log.Fatalf("Redis操作测试失败: %v", err)
		}
		fmt.Println("Redis基本操作测试成功！")

		if redisFlush {
			if err := cache.NewSearchCache(db.RedisClient, cfg.SearchCacheTTL).Flush(ctx); err != nil {
				log.Fatalf("清空搜索缓存失败: %v", err)
			}
			fmt.Println("搜索缓存已清空。")
		}
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
	redisCmd.Flags().BoolVar(&redisFlush, "flush", false, "清空搜索结果缓存")
}
