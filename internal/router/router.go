package router

import (
	"time"

	"github.com/GloDelMar/la-tiendita-pos/internal/config"
	"github.com/GloDelMar/la-tiendita-pos/internal/handler"
	"github.com/GloDelMar/la-tiendita-pos/internal/middleware"
	"github.com/GloDelMar/la-tiendita-pos/internal/repository"
	"github.com/GloDelMar/la-tiendita-pos/internal/service"
	"github.com/GloDelMar/la-tiendita-pos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	movRepo := repository.NewMovimientoRepository(db)
	transRepo := repository.NewTransaccionRepository(db)
	deudorRepo := repository.NewDeudorRepository(db)
	productoRepo := repository.NewProductoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	cajaSvc := service.NewCajaService(cajaRepo)
	movSvc := service.NewMovimientoService(movRepo, cajaRepo, service.NewCajaLocker())
	deudorSvc := service.NewDeudorService(deudorRepo, movRepo, movSvc)
	transSvc := service.NewTransaccionService(transRepo, cajaRepo, movRepo, deudorSvc, movSvc)
	productoSvc := service.NewProductoService(productoRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cajasH := handler.NewCajaHandler(cajaSvc)
	movH := handler.NewMovimientoHandler(movSvc)
	transH := handler.NewTransaccionHandler(transSvc)
	deudoresH := handler.NewDeudorHandler(deudorSvc)
	productosH := handler.NewProductoHandler(productoSvc)
	reportesH := handler.NewReporteHandler(dispatcher, cfg)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	operador := middleware.RequireRole("cajero", "administrador")
	admin := middleware.RequireRole("administrador")

	v1 := r.Group("/v1", jwtMW)
	{
		cajas := v1.Group("/cajas")
		{
			cajas.GET("", operador, cajasH.Listar)
			cajas.GET("/:id", operador, cajasH.Obtener)
			cajas.GET("/:id/saldo", operador, movH.SaldoCaja)
			cajas.GET("/:id/productos", operador, productosH.ListarPorCaja)
			cajas.POST("", admin, cajasH.Crear)
			cajas.PATCH("/:id", admin, cajasH.Actualizar)
			cajas.DELETE("/:id", admin, cajasH.Desactivar)
		}

		movimientos := v1.Group("/movimientos", operador)
		{
			movimientos.GET("", movH.Listar)
			movimientos.POST("", movH.Registrar)
			movimientos.GET("/saldo", movH.Saldo)
			movimientos.GET("/stats/diario", movH.CorteDiario)
			movimientos.POST("/ingreso", movH.Ingreso)
			movimientos.POST("/egreso", movH.Egreso)
			movimientos.POST("/ajuste", movH.Ajuste)
			movimientos.GET("/:id", movH.Obtener)
			// Siempre 405: el libro es inmutable
			movimientos.DELETE("/:id", movH.Eliminar)
		}

		transacciones := v1.Group("/transacciones", operador)
		{
			transacciones.GET("", transH.Listar)
			transacciones.POST("", transH.Registrar)
			transacciones.GET("/stats/diario", transH.StatsDiario)
			transacciones.GET("/stats/mensual", transH.StatsMensual)
			transacciones.GET("/cliente/:nombre", transH.PorCliente)
			transacciones.GET("/cliente/:nombre/resumen", transH.ResumenCliente)
			transacciones.GET("/:id", transH.Obtener)
		}

		deudores := v1.Group("/deudores", operador)
		{
			deudores.GET("", deudoresH.Listar)
			deudores.GET("/stats/resumen", deudoresH.Resumen)
			deudores.GET("/por-nombre/:nombre/:grupo", deudoresH.ObtenerPorNombre)
			deudores.GET("/:id", deudoresH.Obtener)
			deudores.PATCH("/:id/pagar", deudoresH.Pagar)
			deudores.DELETE("/:id", admin, deudoresH.Condonar)
		}

		productos := v1.Group("/productos")
		{
			productos.GET("", operador, productosH.Listar)
			productos.GET("/:id", operador, productosH.Obtener)
			productos.POST("", admin, productosH.Crear)
			productos.PUT("/:id", admin, productosH.Actualizar)
			productos.DELETE("/:id", admin, productosH.Eliminar)
		}

		v1.POST("/reportes/diario/enviar", admin, reportesH.EnviarDiario)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
