package cmd

import (
	"context"
	"log"

	"Tuder/config"
	"Tuder/core/library"
	"Tuder/db"
	"Tuder/logger"
	"Tuder/repository"

	"github.com/spf13/cobra"
)

var rebuildAlbumID string

var rebuildCmd = &cobra.Command{
	Use:   "rebuild-albums",
	Short: "修复专辑歌曲列表",
	Long:  `把 album_id 指向专辑、但不在专辑歌曲列表中的歌曲重新加入专辑。上传时追加失败留下的歌曲由此修复。`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.Init(cfg)
		defer logger.Sync()

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("连接数据库失败: %v", err)
		}
		defer db.CloseGormDB()

		// 修复不涉及上传，无需对象存储和时长解析
		lib := library.NewService(
			repository.NewGormPlaylistRepository(db.GormDB),
			repository.NewGormMusicRepository(db.GormDB),
			repository.NewGormUserRepository(db.GormDB),
			nil, nil, library.Options{},
		)

		ctx := context.Background()
		var (
			added int
			err   error
		)
		if rebuildAlbumID != "" {
			added, err = lib.RebuildAlbumMembers(ctx, rebuildAlbumID)
		} else {
			added, err = lib.RebuildAllAlbums(ctx)
		}
		if err != nil {
			log.Fatalf("修复失败: %v", err)
		}
		log.Printf("修复完成，重新加入 %d 首歌曲", added)
	},
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
	rebuildCmd.Flags().StringVar(&rebuildAlbumID, "album", "", "只修复指定专辑")
}
