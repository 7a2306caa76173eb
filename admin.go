// admin.go - privacy-conscious visitor log and owner dashboard
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spenceriam/portfolio/internal/logutil"
	"github.com/spenceriam/portfolio/internal/starfield"
)

// Privacy-conscious visitor tracking struct
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type BackgroundStatus struct {
	Running bool            `json:"running"`
	Phase   starfield.Phase `json:"phase"`
	Cycle   int             `json:"cycle"`
}

type AdminStats struct {
	TotalVisitors       int64            `json:"total_visitors"`
	UniqueVisitors      int64            `json:"unique_visitors"`
	TotalMessages       int64            `json:"total_messages"`
	UndeliveredMessages int64            `json:"undelivered_messages"`
	RecentMessages      []StoredMessage  `json:"recent_messages"`
	RecentVisitors      []VisitorMetric  `json:"recent_visitors"`
	VisitorsToday       int64            `json:"visitors_today"`
	VisitorsThisWeek    int64            `json:"visitors_this_week"`
	Background          BackgroundStatus `json:"background"`
}

var adminToken string
var hashingSalt string

// Initialize admin system with privacy considerations
func initAdminToken() {
	adminToken = generateAdminToken()
	hashingSalt = generateAdminToken() // Use for IP hashing

	logutil.Infof("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		logutil.Debugf("Admin token (dev only): %s", adminToken)
	}
}

func generateAdminToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		logutil.Fatalf("Failed to generate admin token: %v", err)
	}
	return hex.EncodeToString(bytes)
}

// Hash IP address for privacy compliance (consistent per IP)
func hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16] // Truncate for storage efficiency
}

// Middleware to check admin authentication
func adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// untrackedPrefixes are never written to the visitor log.
var untrackedPrefixes = []string{"/static/", "/images/", "/admin/", "/api/", "/ws/", "/background.svg", "/favicon", "/privacy", "/healthz"}

func shouldTrack(path string, dnt string) bool {
	if dnt == "1" {
		return false
	}
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// Privacy-conscious visitor tracking middleware
func visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if shouldTrack(path, c.GetHeader("DNT")) {
			go trackVisitorPrivacy(c.ClientIP(), c.GetHeader("User-Agent"), path)
		}
		c.Next()
	}
}

// Track visitor with privacy protections
func trackVisitorPrivacy(ip, userAgent, path string) {
	if db == nil {
		return
	}
	_, err := db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, hashIP(ip), userAgent, path, time.Now().UTC())
	if err != nil {
		logutil.Errorf("Error recording visitor: %v", err)
	}
}

// initVisitorTracking creates the visitor table and starts retention cleanup.
func initVisitorTracking() error {
	if err := createVisitorTable(); err != nil {
		return err
	}

	go cleanupOldVisitorData()

	logutil.Infof("Privacy: visitor tracking enabled with hashed IP addresses")
	return nil
}

func createVisitorTable() error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,  -- Store hashed IP instead of raw IP
		user_agent TEXT,
		path TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("create visitors table: %w", err)
	}
	return nil
}

// Cleanup old visitor data for privacy compliance
func cleanupOldVisitorData() {
	result, err := db.Exec(`
		DELETE FROM visitors
		WHERE timestamp < datetime('now', '-12 months')
	`)
	if err != nil {
		logutil.Errorf("Error cleaning up old visitor data: %v", err)
		return
	}

	rowsDeleted, _ := result.RowsAffected()
	if rowsDeleted > 0 {
		logutil.Infof("Privacy cleanup: Removed %d visitor records older than 12 months", rowsDeleted)
	}
}

func recentVisitors(limit int) ([]VisitorMetric, error) {
	rows, err := db.Query(`
		SELECT id, hashed_ip, user_agent, path, timestamp
		FROM visitors
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query visitors: %w", err)
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var visitor VisitorMetric
		if err := rows.Scan(&visitor.ID, &visitor.HashedIP, &visitor.UserAgent, &visitor.Path, &visitor.Timestamp); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		visitors = append(visitors, visitor)
	}
	return visitors, rows.Err()
}

// Get comprehensive admin statistics
func getAdminStats() (*AdminStats, error) {
	stats := &AdminStats{}

	if background != nil {
		frame := background.Snapshot()
		stats.Background = BackgroundStatus{Running: background.Running(), Phase: frame.Phase, Cycle: frame.Cycle}
	}

	counters := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM visitors", &stats.TotalVisitors},
		{"SELECT COUNT(DISTINCT hashed_ip) FROM visitors", &stats.UniqueVisitors},
		{"SELECT COUNT(*) FROM contact_messages", &stats.TotalMessages},
		{"SELECT COUNT(*) FROM contact_messages WHERE delivered = 0", &stats.UndeliveredMessages},
		{"SELECT COUNT(*) FROM visitors WHERE DATE(timestamp) = DATE('now')", &stats.VisitorsToday},
		{"SELECT COUNT(*) FROM visitors WHERE timestamp >= datetime('now', '-7 days')", &stats.VisitorsThisWeek},
	}
	for _, counter := range counters {
		if err := db.QueryRow(counter.query).Scan(counter.dest); err != nil {
			return nil, fmt.Errorf("%s: %w", counter.query, err)
		}
	}

	var err error
	if stats.RecentMessages, err = listContactMessages(10); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = recentVisitors(50); err != nil {
		return nil, err
	}
	return stats, nil
}

func adminCredentials() (string, string) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")

	// Default credentials for development only
	if username == "" {
		username = "admin"
		if gin.Mode() == gin.DebugMode {
			logutil.Warnf("Using default admin username. Set ADMIN_USERNAME environment variable.")
		}
	}
	if password == "" {
		password = "admin123"
		if gin.Mode() == gin.DebugMode {
			logutil.Warnf("Using default admin password. Set ADMIN_PASSWORD environment variable.")
		}
	}
	return username, password
}

// Setup all admin routes
func setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")
		wantUser, wantPass := adminCredentials()

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(wantUser)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(wantPass)) == 1
		if userOK && passOK {
			// Set secure cookie (24 hours)
			c.SetCookie("admin_token", adminToken, 3600*24, "/admin", "", false, true)
			logutil.Infof("Admin login successful from %s", hashIP(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		logutil.Warnf("Failed admin login attempt from %s", hashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		logutil.Infof("Admin logout from %s", hashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(adminAuthMiddleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := getAdminStats()
		if err != nil {
			logutil.Errorf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := getAdminStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/messages", func(c *gin.Context) {
		messages, err := listContactMessages(200)
		if err != nil {
			logutil.Errorf("Error loading messages: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load messages",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-messages.html", gin.H{
			"messages": messages,
		})
	})

	adminGroup.DELETE("/messages/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message id"})
			return
		}

		deleted, err := deleteContactMessage(id)
		if err != nil {
			logutil.Errorf("Error deleting message %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}

		logutil.Infof("Message %d deleted by admin from %s", id, hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := recentVisitors(200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	adminGroup.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		go cleanupOldVisitorData()
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup initiated"})
	})

	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := getAdminStats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		logutil.Infof("Admin stats exported by %s", hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}
