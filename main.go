package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"

	"github.com/spenceriam/portfolio/internal/logutil"
	"github.com/spenceriam/portfolio/internal/starfield"
)

func main() {
	cfg := loadConfig()

	conn, err := openDatabase(cfg.DBPath)
	if err != nil {
		logutil.Fatalf("Failed to open database: %v", err)
	}
	db = conn
	defer db.Close()

	initAdminToken()
	if err := initVisitorTracking(); err != nil {
		logutil.Fatalf("Failed to initialize visitor tracking: %v", err)
	}

	mailer = smtpMailer{cfg: cfg.SMTP}
	if cfg.SMTP.User == "" || cfg.SMTP.Pass == "" {
		logutil.Warnf("SMTP credentials not configured; contact messages will only be archived")
	}

	background = starfield.NewController(cfg.Starfield, starfield.SystemClock(), rand.New(rand.NewSource(cfg.Seed)))
	background.Start()
	defer background.Stop()

	r := gin.Default()
	r.LoadHTMLGlob("templates/*")
	r.Use(visitorTrackingMiddleware())

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	setupRoutes(r)
	setupAdminRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logutil.Infof("Listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logutil.Errorf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logutil.Infof("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// Stop closes background subscriptions so open sockets return.
	background.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logutil.Errorf("shutdown: %v", err)
	}
}

func setupRoutes(r *gin.Engine) {
	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"name":           OwnerName,
			"title":          OwnerTitle,
			"aboutMe":        AboutMe,
			"contactMethods": ContactMethods,
		})
	})

	// HTMX fragments
	r.GET("/work-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "work-content.html", gin.H{
			"jobs": WorkHistory,
		})
	})

	r.GET("/education-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "education-content.html", gin.H{
			"degrees": Education,
		})
	})

	r.GET("/github-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "github-content.html", gin.H{
			"user": GithubUser,
			"url":  GithubURL,
		})
	})

	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title":          "Let's Connect",
			"contactMethods": ContactMethods,
		})
	})

	r.POST("/contact", handleContactForm)
	r.POST("/api/send-email", handleSendEmail)

	r.GET("/api/background", handleBackgroundJSON)
	r.GET("/background.svg", handleBackgroundSVG)
	r.GET("/ws/background", handleBackgroundSocket)

	r.GET("/healthz", func(c *gin.Context) {
		status := gin.H{"status": "ok", "background": background.Running()}
		if db != nil {
			if err := db.Ping(); err != nil {
				status["status"] = "degraded"
				status["database"] = err.Error()
			}
		}
		c.JSON(http.StatusOK, status)
	})
}
