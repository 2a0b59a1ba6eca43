package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/PhotoAlbums/app/controllers"
	"github.com/ManuelReschke/PhotoAlbums/app/repository"
	"github.com/ManuelReschke/PhotoAlbums/app/services"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/cache"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/database"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/env"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/events"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/media"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/middleware"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/plugin"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/router"
	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/storage"
	"github.com/ManuelReschke/PhotoAlbums/views"
)

// pageCacheDatabase is the redis database of the public page cache; the
// media existence cache uses database 0.
const pageCacheDatabase = 2

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/photoalbums to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// asset store with the optional existence cache in front
	storageCfg, err := storage.LoadConfig()
	if err != nil {
		log.Fatalf("invalid storage configuration: %v", err)
	}
	baseStore, err := storage.New(context.Background(), storageCfg)
	if err != nil {
		log.Fatalf("could not open asset store: %v", err)
	}
	store := storage.WithExistenceCache(baseStore, cache.NewStore(cache.GetClient(), storage.ExistsCachePrefix))

	repository.InitializeFactory(database.GetDB())
	svc := services.NewService(repository.GetGlobalRepositories(), store,
		services.WithUploadWorkers(env.GetEnvInt("UPLOAD_WORKERS", services.DefaultUploadWorkers)))

	// thumbnail URLs are signed, only variants handed out by the resolver get rendered
	var signer *media.Signer
	if secret := env.GetEnv("THUMBNAIL_SECRET", ""); secret != "" {
		signer = media.NewSigner([]byte(secret))
	} else {
		log.Println("THUMBNAIL_SECRET is not set, using a random key; thumbnail URLs change on restart")
		if signer, err = media.NewRandomSigner(); err != nil {
			log.Fatalf("could not create thumbnail signer: %v", err)
		}
	}
	resolver := media.NewResolver(store, env.GetEnv("PUBLIC_DOMAIN", ""), media.WithSigner(signer))

	// module registration and event listeners
	dispatcher := events.NewDispatcher()
	registration := plugin.Register(svc, resolver)
	registration.Boot(dispatcher)

	// init fiber app
	app := fiber.New(fiber.Config{
		Views:        views.NewEngine(),
		BodyLimit:    200 << 20, // 200 MiB for bulk uploads
		ErrorHandler: controllers.ErrorHandler,
	})

	// ignore and cache favicon
	app.Use(favicon.New(favicon.Config{
		File:         basePath + "public/favicon.ico",
		URL:          "/favicon.ico",
		CacheControl: "public, max-age=604800",
	}))

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	if metricsPassword := env.GetEnv("METRICS_PASSWORD", ""); metricsPassword != "" {
		app.Get("/metrics", basicauth.New(basicauth.Config{
			Users: map[string]string{
				env.GetEnv("METRICS_USER", "admin"): metricsPassword,
			},
		}), monitor.New(monitor.Config{Title: "PhotoAlbums Metrics"}))
	}

	// static files
	app.Static("/css", basePath+"public/css", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
		Title:    "PhotoAlbums API",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app, router.Deps{
		Service:      svc,
		Registration: registration,
		Resolver:     resolver,
		Events:       dispatcher,
		Store:        store,
		Auth:         middleware.LoadAdminAuthConfig(),
		PageCache:    cache.FiberStorage(pageCacheDatabase),
		PageCacheTTL: time.Duration(env.GetEnvInt("PAGE_CACHE_TTL", 60)) * time.Second,
	})

	return app
}
