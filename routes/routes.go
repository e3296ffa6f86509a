package routes

import (
	"galleryshare/config"
	"galleryshare/services"
	"galleryshare/services/storage"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceContainer wires every service once so route registration and tests
// share the same object graph.
type ServiceContainer struct {
	JWTSecret       string
	AuthService     *services.AuthService
	FolderService   *services.FolderService
	FileService     *services.FileService
	ShareService    *services.ShareService
	ZipService      *services.ZipService
	OrderService    *services.OrderService
	ProductService  *services.ProductService
	ActivityService *services.ActivityService
	StatsService    *services.StatsService
}

func NewServiceContainer(db *mongo.Database, cfg *config.Config, store storage.BlobStore) *ServiceContainer {
	imageService := services.NewImageService(cfg.ThumbnailMaxPx, cfg.PreviewMaxPx)
	folderService := services.NewFolderService(db, store)
	shareService := services.NewShareService(db, cfg.ShareDomain)
	productService := services.NewProductService(db)

	return &ServiceContainer{
		JWTSecret:       cfg.JWTSecret,
		AuthService:     services.NewAuthService(db, cfg.JWTSecret, cfg.JWTExpiration, cfg.JWTIssuer),
		FolderService:   folderService,
		FileService:     services.NewFileService(db, store, imageService, cfg.MaxFileSize),
		ShareService:    shareService,
		ZipService:      services.NewZipService(db, store),
		OrderService:    services.NewOrderService(db, productService, shareService, folderService, cfg.PaymentLinkURL),
		ProductService:  productService,
		ActivityService: services.NewActivityService(db),
		StatsService:    services.NewStatsService(db),
	}
}

// SetupRoutesWithContainer registers every route group under the api group.
func SetupRoutesWithContainer(api *gin.RouterGroup, container *ServiceContainer) {
	RegisterAuthRoutes(api, container)
	RegisterFolderRoutes(api, container)
	RegisterFileRoutes(api, container)
	RegisterShareRoutes(api, container)
	RegisterGalleryRoutes(api, container)
	RegisterProductRoutes(api, container)
	RegisterOrderRoutes(api, container)
	RegisterAdminRoutes(api, container)
}
