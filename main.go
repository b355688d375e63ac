package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"projectmarket/cart"
	"projectmarket/collections"
	"projectmarket/config"
	"projectmarket/handlers"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := pocketbase.New()

	carts := cart.NewProvider(func(session string) cart.Storage {
		return cart.RecordStorage{App: app, Session: session}
	}, cart.WithLimits(cfg.CartMaxSessions, cfg.CartIdleTTL))

	app.RootCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Create collections and insert the sample catalog if it is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			collections.Setup(app)
			return collections.Seed(app)
		},
	})
	app.RootCmd.AddCommand(&cobra.Command{
		Use:   "promote-admin <email>",
		Short: "Grant store administrator rights to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collections.Setup(app)
			return collections.PromoteAdmin(app, args[0])
		},
	})

	// Create collections, seed data and run migrations on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if cfg.Seed {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		if err := collections.MigrateProjectDefaults(app); err != nil {
			log.Printf("Warning: project migration failed: %v", err)
		}
		if cfg.AdminEmail != "" {
			if err := collections.PromoteAdmin(app, cfg.AdminEmail); err != nil {
				log.Printf("Warning: could not promote %s: %v", cfg.AdminEmail, err)
			}
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// Order matters: the header needs the session and the signed-in user.
		se.Router.BindFunc(handlers.SessionMiddleware(cfg))
		se.Router.BindFunc(handlers.AuthMiddleware(app, cfg))
		se.Router.BindFunc(handlers.HeaderMiddleware(carts, cfg))

		// ── Storefront ───────────────────────────────────────────
		se.Router.GET("/projects", handlers.HandleProjectList(app, cfg))
		se.Router.GET("/projects/{id}", handlers.HandleProjectDetail(app, cfg))
		se.Router.POST("/projects/{id}/price", handlers.HandleBundlePrice(app))
		se.Router.POST("/projects/{id}/cart", handlers.HandleAddToCart(app, carts, cfg)).
			BindFunc(handlers.RequireAuth())

		// ── Cart ─────────────────────────────────────────────────
		se.Router.GET("/cart", handlers.HandleCartView(carts, cfg))
		se.Router.POST("/cart/items/{id}/quantity", handlers.HandleCartUpdateQuantity(carts, cfg))
		se.Router.DELETE("/cart/items/{id}", handlers.HandleCartRemove(carts, cfg))
		se.Router.POST("/cart/clear", handlers.HandleCartClear(carts, cfg))
		se.Router.GET("/cart/quote.pdf", handlers.HandleCartQuotePDF(carts, cfg))

		// ── Auth ─────────────────────────────────────────────────
		se.Router.GET("/login", handlers.HandleLoginPage())
		se.Router.POST("/login", handlers.HandleLogin(app, cfg))
		se.Router.GET("/register", handlers.HandleRegisterPage())
		se.Router.POST("/register", handlers.HandleRegister(app, cfg))
		se.Router.POST("/logout", handlers.HandleLogout(cfg))
		se.Router.GET("/profile", handlers.HandleProfilePage()).BindFunc(handlers.RequireAuth())
		se.Router.POST("/profile", handlers.HandleProfileUpdate(app)).BindFunc(handlers.RequireAuth())

		// ── Admin ────────────────────────────────────────────────
		admin := se.Router.Group("/admin")
		admin.BindFunc(handlers.RequireAdmin())
		admin.GET("", handlers.HandleAdminProjectList(app))
		admin.GET("/projects/new", handlers.HandleAdminProjectNew(app, cfg))
		admin.GET("/projects/export", handlers.HandleCatalogExportExcel(app, cfg))
		admin.POST("/projects", handlers.HandleAdminProjectCreate(app, cfg))
		admin.GET("/projects/{id}/edit", handlers.HandleAdminProjectEdit(app, cfg))
		admin.POST("/projects/{id}/save", handlers.HandleAdminProjectUpdate(app, cfg))
		admin.DELETE("/projects/{id}", handlers.HandleAdminProjectDelete(app))
		admin.POST("/projects/{id}/files", handlers.HandleAdminFileUpload(app, cfg))
		admin.DELETE("/projects/{id}/files/{fileId}", handlers.HandleAdminFileDelete(app, cfg))
		admin.POST("/projects/{id}/image", handlers.HandleAdminImageUpload(app, cfg))

		se.Router.GET("/{$}", handlers.HandleHome(app, cfg))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
