package main

import (
	"log"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"soundblog/auth"
	"soundblog/blog"
	"soundblog/common"
	"soundblog/database"
	"soundblog/soundboard"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading config from environment")
	}

	db := common.ConnectDb()
	if db == nil {
		log.Fatal("Failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	soundsDir := os.Getenv("SOUNDS_DIR")
	if soundsDir == "" {
		soundsDir = "public/sounds"
	}

	soundIndex, err := soundboard.BuildIndex(soundsDir)
	if err != nil {
		log.Fatal("Failed to build soundboard index:", err)
	}
	log.Printf("Soundboard index: %d sounds from %d contributors", len(soundIndex.Sounds), len(soundIndex.People))

	router := gin.Default()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET environment variable not set")
	}

	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   false,
	})

	router.Use(sessions.Sessions("soundblog-session", store))

	router.SetFuncMap(map[string]interface{}{
		"gravatar": common.GravatarURL,
	})

	router.LoadHTMLGlob("*/views/*.html")

	router.Static("/public", "./public")

	authModule := auth.NewAuthModule(db, auth.PolicyFromEnv())
	authModule.RegisterRoutes(router)

	blogModule := blog.NewBlogModule(db, authModule)
	blogModule.RegisterRoutes(router)

	soundboardModule := soundboard.NewSoundboardModule(soundIndex)
	soundboardModule.RegisterRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
