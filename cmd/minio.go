package cmd

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"Tuder/config"
	"Tuder/storage"

	"github.com/spf13/cobra"
)

var (
	minioPrefix    string
	minioStats     bool
	minioRecursive bool
	minioDelete    bool
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "MinIO存储桶管理",
	Long:  `查看和管理MinIO存储桶中的文件，支持列出文件、查看统计信息、递归显示目录结构、删除目录等功能。`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("开始连接MinIO服务器...")

		cfg := config.Load()
		fmt.Printf("MinIO配置: %s, Bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		store, err := storage.NewMinioStore(ctx, cfg)
		if err != nil {
			log.Fatalf("无法连接到MinIO: %v", err)
		}
		fmt.Println("MinIO连接成功！")

		if minioDelete {
			if minioPrefix == "" {
				log.Fatal("删除操作需要指定目录前缀")
			}
			fmt.Printf("\n删除目录: %s\n", minioPrefix)
			n, err := store.DeletePrefix(ctx, minioPrefix)
			if err != nil {
				log.Fatalf("删除目录失败: %v", err)
			}
			fmt.Printf("已删除 %d 个文件\n", n)
			return
		}

		objects, stats, err := store.ListObjects(ctx, minioPrefix, minioRecursive || minioStats)
		if err != nil {
			log.Fatalf("列出文件失败: %v", err)
		}

		if minioStats {
			fmt.Println("\n存储桶统计信息:")
			fmt.Printf("文件总数: %d\n", stats.TotalObjects)
			fmt.Printf("总大小: %s\n", storage.FormatSize(stats.TotalSize))
			if !stats.LastModified.IsZero() {
				fmt.Printf("最后修改: %s\n", stats.LastModified.Format(time.RFC3339))
			}
			kinds := make([]string, 0, len(stats.SizeByKind))
			for kind := range stats.SizeByKind {
				kinds = append(kinds, kind)
			}
			sort.Strings(kinds)
			for _, kind := range kinds {
				fmt.Printf("  %-6s %s\n", kind, storage.FormatSize(stats.SizeByKind[kind]))
			}
			return
		}

		fmt.Printf("\n列出存储桶中的文件 (前缀: %s)...\n", minioPrefix)
		for _, obj := range objects {
			fmt.Printf("%-60s %10s  %s\n", obj.Key, storage.FormatSize(obj.Size), obj.LastModified.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("\n共 %d 个文件\n", len(objects))
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)

	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "按前缀过滤文件或指定要操作的目录")
	minioCmd.Flags().BoolVarP(&minioStats, "stats", "s", false, "显示存储桶统计信息")
	minioCmd.Flags().BoolVarP(&minioRecursive, "recursive", "r", false, "递归显示目录结构")
	minioCmd.Flags().BoolVarP(&minioDelete, "delete", "d", false, "删除指定目录及其下的所有文件")

	minioCmd.Example = `  # 列出所有文件
  tuder minio

  # 按前缀过滤文件
  tuder minio -p "musics/"

  # 显示存储桶统计信息
  tuder minio -s

  # 删除目录及其下的所有文件
  tuder minio -d -p "musics/covers/"`
}
