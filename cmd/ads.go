package cmd

import (
	"context"
	"fmt"
	"log"

	"Tuder/config"
	"Tuder/core/advert"
	"Tuder/db"
	"Tuder/logger"
	"Tuder/repository"

	"github.com/spf13/cobra"
)

var adInput advert.CreateInput

var adsCmd = &cobra.Command{
	Use:   "ads",
	Short: "广告管理",
}

var adsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "新增一条广告",
	Long:  `新增广告。例: tuder ads add --name "Summer Sale" --url https://cdn.example.com/ad.mp3 --duration 15`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.Init(cfg)
		defer logger.Sync()

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("连接数据库失败: %v", err)
		}
		defer db.CloseGormDB()

		svc := advert.NewService(repository.NewGormAdvertisementRepository(db.GormDB))
		ad, err := svc.Create(context.Background(), adInput)
		if err != nil {
			log.Fatalf("新增广告失败: %v", err)
		}
		fmt.Printf("广告已创建: %s (%s)\n", ad.Name, ad.ID)
	},
}

func init() {
	rootCmd.AddCommand(adsCmd)
	adsCmd.AddCommand(adsAddCmd)
	adsAddCmd.Flags().StringVar(&adInput.Name, "name", "", "广告名称")
	adsAddCmd.Flags().StringVar(&adInput.Description, "description", "", "广告描述")
	adsAddCmd.Flags().StringVar(&adInput.URL, "url", "", "音频地址")
	adsAddCmd.Flags().IntVar(&adInput.Duration, "duration", 0, "时长（秒）")
}
