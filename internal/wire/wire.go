// Package wire provides dependency injection for stockroom.
// It creates singleton services with lazy initialization from the
// configuration handed to Configure.
package wire

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	cliadapter "github.com/example/stockroom/internal/adapters/cli"
	"github.com/example/stockroom/internal/adapters/sqlstore"
	"github.com/example/stockroom/internal/adapters/web"
	"github.com/example/stockroom/internal/app"
	"github.com/example/stockroom/internal/config"
	"github.com/example/stockroom/internal/core/admin"
	"github.com/example/stockroom/internal/core/product"
	"github.com/example/stockroom/internal/core/tour"
	"github.com/example/stockroom/internal/db"
	"github.com/example/stockroom/internal/ports/primary"
)

var logger = log.New("stockroom")

var (
	cfg *config.Config

	database       *db.DB
	productService primary.ProductService
	tourService    primary.TourService
	authService    primary.AuthService
	adminService   primary.AdminService
	fixtureService primary.FixtureService
	once           sync.Once
	dbOnce         sync.Once
)

// Configure sets the configuration used on first use of any service.
// Calls after initialization have no effect.
func Configure(c *config.Config) {
	cfg = c
}

// Config returns the active configuration, loading defaults if none was set.
func Config() *config.Config {
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg
}

// Database returns the singleton database handle without building services.
func Database() *db.DB {
	dbOnce.Do(openDatabase)
	return database
}

func openDatabase() {
	c := Config()
	logger.SetLevel(logLevel(c.Log.Level))

	var err error
	database, err = db.Open(c.Database.Driver, c.Database.DSN)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
}

// ProductService returns the singleton ProductService instance.
func ProductService() primary.ProductService {
	once.Do(initServices)
	return productService
}

// TourService returns the singleton TourService instance.
func TourService() primary.TourService {
	once.Do(initServices)
	return tourService
}

// AuthService returns the singleton AuthService instance.
func AuthService() primary.AuthService {
	once.Do(initServices)
	return authService
}

// AdminService returns the singleton AdminService instance.
func AdminService() primary.AdminService {
	once.Do(initServices)
	return adminService
}

// FixtureService returns the singleton FixtureService instance.
func FixtureService() primary.FixtureService {
	once.Do(initServices)
	return fixtureService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c := Config()
	Database()
	warnPendingMigrations(database)

	// Repository adapters (secondary ports)
	tourRepo := sqlstore.NewTourRepository(database)
	productRepo := sqlstore.NewProductRepository(database)
	logRepo := sqlstore.NewAdminLogRepository(database)
	logWriter := sqlstore.NewLogWriterAdapter(logRepo)

	site, err := admin.NewSite(tour.Admin, product.Admin)
	if err != nil {
		logger.Fatalf("invalid admin registration: %v", err)
	}

	// Services (primary ports)
	productService = app.NewProductService(productRepo, logWriter, c.Inventory.LowStockThreshold)
	tourService = app.NewTourService(tourRepo, logWriter)
	adminService = app.NewAdminService(site, sqlstore.NewAdminRepository(database), logRepo, logWriter)
	fixtureService = app.NewFixtureService(tourRepo, productRepo)

	authService, err = app.NewAuthService(
		sqlstore.NewUserRepository(database),
		sqlstore.NewSessionRepository(database),
		app.AuthConfig{
			SecretKey:  []byte(c.SecretKey),
			SessionTTL: c.Auth.SessionTTL,
			BcryptCost: c.Auth.BcryptCost,
		},
	)
	if err != nil {
		logger.Fatalf("failed to initialize auth: %v", err)
	}
}

// warnPendingMigrations logs when the schema is behind. Commands that need
// tables fail on their own; the warning says how to fix it.
func warnPendingMigrations(d *db.DB) {
	states, err := db.Status(context.Background(), d)
	if err != nil {
		logger.Warnf("could not read migration state: %v", err)
		return
	}
	pending := 0
	for _, s := range states {
		if !s.Applied {
			pending++
		}
	}
	if pending > 0 {
		logger.Warnf("%d unapplied migration(s); run 'stockroom migrate'", pending)
	}
}

// WebServer builds the HTTP server from the configured services.
func WebServer() (*echo.Echo, error) {
	once.Do(initServices)
	c := Config()
	return web.NewServer(web.Config{
		Debug:             c.Debug,
		LogLevel:          c.Log.Level,
		LoginURL:          c.Auth.LoginURL,
		LoginRedirect:     c.Auth.LoginRedirect,
		LogoutRedirect:    c.Auth.LogoutRedirect,
		SecureCookies:     c.Auth.SecureCookies,
		MetricsEnabled:    c.Metrics.Enabled,
		LowStockThreshold: c.Inventory.LowStockThreshold,
	}, web.Services{
		Products: productService,
		Tours:    tourService,
		Auth:     authService,
		Admin:    adminService,
		Ping:     database.PingContext,
	})
}

// ProductAdapter returns a new ProductAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ProductAdapter() *cliadapter.ProductAdapter {
	return ProductAdapterWithOutput(os.Stdout)
}

// ProductAdapterWithOutput returns a new ProductAdapter writing to the given output.
func ProductAdapterWithOutput(out io.Writer) *cliadapter.ProductAdapter {
	once.Do(initServices)
	return cliadapter.NewProductAdapter(productService, out)
}

// TourAdapter returns a new TourAdapter writing to stdout.
func TourAdapter() *cliadapter.TourAdapter {
	return TourAdapterWithOutput(os.Stdout)
}

// TourAdapterWithOutput returns a new TourAdapter writing to the given output.
func TourAdapterWithOutput(out io.Writer) *cliadapter.TourAdapter {
	once.Do(initServices)
	return cliadapter.NewTourAdapter(tourService, out)
}

// Shell returns an interactive shell over tours and products.
func Shell(out io.Writer) *cliadapter.Shell {
	return cliadapter.NewShell(TourAdapterWithOutput(out), ProductAdapterWithOutput(out), out)
}

// Close releases the database handle if it was opened.
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

func logLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
