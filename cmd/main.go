package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"CensusMap-App/internal/handler"
	"CensusMap-App/internal/infrastructure/database"
	"CensusMap-App/internal/infrastructure/firestore"
	"CensusMap-App/internal/infrastructure/storage"
	"CensusMap-App/internal/repository"
	"CensusMap-App/internal/usecase"

	domainrepo "CensusMap-App/internal/domain/repository"
	"CensusMap-App/internal/domain/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseAnonKey := os.Getenv("SUPABASE_ANON_KEY")

	if supabaseURL == "" || supabaseAnonKey == "" {
		fmt.Println("⚠️  環境変数が設定されていません:")
		fmt.Println("必要な環境変数: SUPABASE_URL, SUPABASE_ANON_KEY")
		fmt.Println("\n.envファイルを作成するか、環境変数を設定してください")
		log.Fatal("Environment variables not set")
	}

	fmt.Println("Initializing Supabase client...")
	supabaseClient, err := database.NewSupabaseClient()
	if err != nil {
		log.Fatalf("Supabaseクライアント初期化失敗: %v", err)
	}
	if err := supabaseClient.HealthCheck(); err != nil {
		log.Fatalf("Supabaseヘルスチェック失敗: %v", err)
	}
	fmt.Println("✅ Supabase connection successful!")

	// 建物ポイントストアのバックエンドを選択
	buildingsRepo, cleanup, err := newBuildingsRepository(supabaseClient)
	if err != nil {
		log.Fatalf("建物リポジトリ初期化失敗: %v", err)
	}
	defer cleanup()

	// 添付メディアの解決（Supabase Storageの署名付きURL）
	attachmentsRepo := repository.NewSupabaseAttachmentsRepository(supabaseClient)
	mediaStorage := storage.NewSupabaseStorage(supabaseClient.GetStorage())
	attachmentResolver := service.NewAttachmentResolver(attachmentsRepo, mediaStorage)

	// ユースケースの組み立て
	clusterService := service.NewGridClusterService()
	mapQueryUseCase := usecase.NewMapQueryUseCase(buildingsRepo, clusterService)
	entityDetailUseCase := usecase.NewEntityDetailUseCase(buildingsRepo)
	aggregationUseCase := usecase.NewBuildingAggregationUseCase(buildingsRepo, attachmentResolver)

	mapHandler := handler.NewMapHandler(mapQueryUseCase, entityDetailUseCase)
	buildingsHandler := handler.NewBuildingsHandler(aggregationUseCase)

	r := gin.Default()

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "CensusMap-App"})
	})

	api := r.Group("/api")
	{
		api.GET("/map/points", mapHandler.GetMapPoints)
		api.GET("/map/clusters/:cluster_id", mapHandler.ExpandCluster)
		api.GET("/map/entities/:kind/:id", mapHandler.GetEntity)
		api.GET("/buildings", buildingsHandler.GetBuildings)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("CensusMap-App server starting on :%s...\n", port)
	log.Fatal(r.Run(":" + port))
}

// newBuildingsRepository MAP_STORE環境変数に応じてポイントストアの実装を選択する
// postgres（デフォルト）| supabase | firestore
func newBuildingsRepository(supabaseClient *database.SupabaseClient) (domainrepo.BuildingsRepository, func(), error) {
	noop := func() {}

	switch os.Getenv("MAP_STORE") {
	case "supabase":
		return repository.NewSupabaseBuildingsRepository(supabaseClient), noop, nil

	case "firestore":
		projectID := os.Getenv("FIRESTORE_PROJECT_ID")
		if projectID == "" {
			return nil, noop, fmt.Errorf("FIRESTORE_PROJECT_ID環境変数が設定されていません")
		}
		fsClient, err := firestore.NewFirestoreClient(context.Background(), projectID)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() { fsClient.Close() }
		return repository.NewFirestoreBuildingsRepository(fsClient.GetClient()), cleanup, nil

	default:
		pgClient, err := database.NewPostgreSQLClientWithRetry(5, 2*time.Second)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() { pgClient.Close() }
		return repository.NewPostgresBuildingsRepository(pgClient), cleanup, nil
	}
}
