package routes

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/josebdo/Cristal-Event-Planner/app/configs"
	"github.com/josebdo/Cristal-Event-Planner/app/handlers"
	"github.com/josebdo/Cristal-Event-Planner/app/handlers/admin"
	"github.com/josebdo/Cristal-Event-Planner/app/middlewares"
	"github.com/josebdo/Cristal-Event-Planner/app/repositories"
	"github.com/josebdo/Cristal-Event-Planner/app/services"
	"github.com/josebdo/Cristal-Event-Planner/app/storage"
	"github.com/josebdo/Cristal-Event-Planner/app/utils/renderer"
	"github.com/josebdo/Cristal-Event-Planner/app/utils/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, cfg configs.Config) (*mux.Router, error) {
	keys, err := cfg.SessionKeys()
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}
	bucket, err := storage.NewLocalBucket(cfg.UploadsDir, cfg.UploadBucket, cfg.MaxImageWidth)
	if err != nil {
		return nil, err
	}

	rnd := renderer.New(cfg.IsDevelopment())
	validate := validator.New()
	sessionStore := sessions.NewCookieSessionStore(cfg.SessionTTL, cfg.CookieSecure, keys.AuthKey, keys.EncKey)

	productRepo := repositories.NewProductRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	promotionRepo := repositories.NewPromotionRepository(db)
	settingRepo := repositories.NewSettingRepository(db)
	userRepo := repositories.NewUserRepository(db)
	authUserRepo := repositories.NewAuthUserRepository(db)

	catalogSvc := services.NewCatalogService(productRepo, categoryRepo, promotionRepo, validate)
	promotionSvc := services.NewPromotionService(promotionRepo, productRepo, validate)
	settingsSvc := services.NewSettingsService(settingRepo)
	storefrontSvc := services.NewStorefrontService(catalogSvc, promotionSvc, settingsSvc)
	identitySvc := services.NewIdentityService(authUserRepo, cfg.JWTSecret, cfg.SessionTTL)

	var userAdmin services.UserAdmin
	if identityAdmin, err := services.NewIdentityAdmin(cfg.ServiceRoleKey, authUserRepo, userRepo); err == nil {
		userAdmin = identityAdmin
	} else {
		zap.S().Warnw("NewRouter: user management disabled", "error", err)
	}
	userSvc := services.NewUserService(userAdmin, validate)

	storefrontHandler := handlers.NewStorefrontHandler(rnd, storefrontSvc)
	authHandler := handlers.NewAuthHandler(rnd, identitySvc, sessionStore)
	adminHandler := admin.NewAdminHandler(rnd, catalogSvc, promotionSvc, settingsSvc, userSvc, storefrontSvc, bucket, cfg.MaxUploadMB<<20)

	router := mux.NewRouter()
	router.NotFoundHandler = handlers.NotFound(rnd)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", handlers.Healthz(rnd, sqlDB)).Methods(http.MethodGet)
	router.PathPrefix(storage.PublicPrefix).Handler(
		http.StripPrefix(storage.PublicPrefix, http.FileServer(http.Dir(cfg.UploadsDir))),
	).Methods(http.MethodGet, http.MethodHead)

	csrfMiddleware := csrf.Protect(keys.AuthKey[:32],
		csrf.Secure(cfg.CookieSecure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			zap.S().Warnw("CSRF: request rejected", "path", r.URL.Path, "reason", csrf.FailureReason(r))
			handlers.RenderError(rnd, w, r, http.StatusForbidden, "La sesión del formulario expiró. Recarga la página e inténtalo de nuevo.")
		})),
	)

	router.Use(middlewares.MetricsMiddleware)

	site := router.NewRoute().Subrouter()
	site.Use(csrfMiddleware, middlewares.LoadAuthContext(sessionStore, identitySvc, userRepo))

	site.HandleFunc("/", storefrontHandler.Home).Methods(http.MethodGet)
	site.HandleFunc("/promotions", storefrontHandler.Promotions).Methods(http.MethodGet)
	site.HandleFunc("/promotions/{slug}", storefrontHandler.PromotionDetail).Methods(http.MethodGet)

	site.HandleFunc("/auth/login", authHandler.LoginGetHandler).Methods(http.MethodGet)
	site.HandleFunc("/auth/login", authHandler.LoginPostHandler).Methods(http.MethodPost)
	site.HandleFunc("/auth/logout", authHandler.LogoutHandler).Methods(http.MethodPost)

	adminRouter := site.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middlewares.RequireSignedIn)

	adminRouter.HandleFunc("", adminHandler.Dashboard).Methods(http.MethodGet)

	adminRouter.HandleFunc("/products", adminHandler.GetProductsPage).Methods(http.MethodGet)
	adminRouter.HandleFunc("/products/new", adminHandler.NewProductPage).Methods(http.MethodGet)
	adminRouter.HandleFunc("/products", adminHandler.SaveProduct).Methods(http.MethodPost)
	adminRouter.HandleFunc("/products/{id}/edit", adminHandler.EditProductPage).Methods(http.MethodGet)
	adminRouter.HandleFunc("/products/{id}", adminHandler.SaveProduct).Methods(http.MethodPost)
	adminRouter.HandleFunc("/products/{id}/delete", adminHandler.DeleteProduct).Methods(http.MethodPost)

	adminRouter.HandleFunc("/categories", adminHandler.GetCategoriesPage).Methods(http.MethodGet)
	adminRouter.HandleFunc("/categories/new", adminHandler.NewCategoryPage).Methods(http.MethodGet)
	adminRouter.HandleFunc("/categories", adminHandler.SaveCategory).Methods(http.MethodPost)
	adminRouter.HandleFunc("/categories/{id}/edit", adminHandler.EditCategoryPage).Methods(http.MethodGet)
	adminRouter.HandleFunc("/categories/{id}", adminHandler.SaveCategory).Methods(http.MethodPost)
	adminRouter.HandleFunc("/categories/{id}/delete", adminHandler.DeleteCategory).Methods(http.MethodPost)

	adminRouter.HandleFunc("/promotions", adminHandler.GetPromotionsPage).Methods(http.MethodGet)
	adminRouter.HandleFunc("/promotions/new", adminHandler.NewPromotionPage).Methods(http.MethodGet)
	adminRouter.HandleFunc("/promotions", adminHandler.SavePromotion).Methods(http.MethodPost)
	adminRouter.HandleFunc("/promotions/{id}/edit", adminHandler.EditPromotionPage).Methods(http.MethodGet)
	adminRouter.HandleFunc("/promotions/{id}", adminHandler.SavePromotion).Methods(http.MethodPost)
	adminRouter.HandleFunc("/promotions/{id}/delete", adminHandler.DeletePromotion).Methods(http.MethodPost)

	adminRouter.HandleFunc("/settings", adminHandler.GetSettingsPage).Methods(http.MethodGet)
	adminRouter.HandleFunc("/settings", adminHandler.SaveSettings).Methods(http.MethodPost)

	usersRouter := adminRouter.PathPrefix("/users").Subrouter()
	usersRouter.Use(middlewares.RequireUserManagement)
	usersRouter.HandleFunc("", adminHandler.GetUsersPage).Methods(http.MethodGet)
	usersRouter.HandleFunc("", adminHandler.CreateUser).Methods(http.MethodPost)
	usersRouter.HandleFunc("/{id}/role", adminHandler.UpdateUserRole).Methods(http.MethodPost)

	return router, nil
}
