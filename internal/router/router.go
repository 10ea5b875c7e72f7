package router

import (
	"time"

	"github.com/RamsesGirala/machinery-ops/internal/config"
	"github.com/RamsesGirala/machinery-ops/internal/handler"
	"github.com/RamsesGirala/machinery-ops/internal/middleware"
	"github.com/RamsesGirala/machinery-ops/internal/repository"
	"github.com/RamsesGirala/machinery-ops/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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
	maquinaRepo := repository.NewMachineBaseRepository(db)
	accesorioRepo := repository.NewAccessoryRepository(db)
	impuestoRepo := repository.NewTaxRepository(db)
	tramoRepo := repository.NewLogisticsLegRepository(db)
	presupuestoRepo := repository.NewPresupuestoRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	unidadRepo := repository.NewUnidadRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogoSvc := service.NewCatalogoService(maquinaRepo, accesorioRepo, impuestoRepo, tramoRepo)
	compraSvc := service.NewCompraService(compraRepo, presupuestoRepo)
	presupuestoSvc := service.NewPresupuestoService(
		presupuestoRepo, compraRepo, maquinaRepo, accesorioRepo, impuestoRepo, tramoRepo, compraSvc,
	)
	unidadSvc := service.NewUnidadService(unidadRepo)
	reporteSvc := service.NewReporteService(reporteRepo, rdb, time.Duration(cfg.ReportCacheTTLSeconds)*time.Second)

	// ── Handlers ─────────────────────────────────────────────────────────────
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	presupuestosH := handler.NewPresupuestosHandler(presupuestoSvc)
	unidadesH := handler.NewUnidadesHandler(unidadSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		catalogo := v1.Group("/catalogo")
		{
			catalogo.POST("/maquinas", catalogoH.CrearMaquina)
			catalogo.GET("/maquinas", catalogoH.ListarMaquinas)
			catalogo.GET("/maquinas/:id", catalogoH.ObtenerMaquina)
			catalogo.PUT("/maquinas/:id", catalogoH.ActualizarMaquina)
			catalogo.DELETE("/maquinas/:id", catalogoH.EliminarMaquina)

			catalogo.POST("/accesorios", catalogoH.CrearAccesorio)
			catalogo.GET("/accesorios", catalogoH.ListarAccesorios)
			catalogo.GET("/accesorios/:id", catalogoH.ObtenerAccesorio)
			catalogo.PUT("/accesorios/:id", catalogoH.ActualizarAccesorio)
			catalogo.DELETE("/accesorios/:id", catalogoH.EliminarAccesorio)

			catalogo.POST("/impuestos", catalogoH.CrearImpuesto)
			catalogo.GET("/impuestos", catalogoH.ListarImpuestos)
			catalogo.GET("/impuestos/:id", catalogoH.ObtenerImpuesto)
			catalogo.PUT("/impuestos/:id", catalogoH.ActualizarImpuesto)
			catalogo.DELETE("/impuestos/:id", catalogoH.EliminarImpuesto)

			catalogo.POST("/logistica", catalogoH.CrearTramo)
			catalogo.GET("/logistica", catalogoH.ListarTramos)
			catalogo.GET("/logistica/:id", catalogoH.ObtenerTramo)
			catalogo.PUT("/logistica/:id", catalogoH.ActualizarTramo)
			catalogo.DELETE("/logistica/:id", catalogoH.EliminarTramo)
		}

		presupuestos := v1.Group("/presupuestos")
		{
			presupuestos.POST("", presupuestosH.Crear)
			presupuestos.GET("", presupuestosH.Listar)
			presupuestos.GET("/:id", presupuestosH.Obtener)
			presupuestos.PUT("/:id", presupuestosH.Actualizar)
			presupuestos.DELETE("/:id", presupuestosH.Eliminar)
			presupuestos.POST("/:id/comprar", presupuestosH.MarcarComprado)
		}

		unidades := v1.Group("/unidades")
		{
			unidades.GET("", unidadesH.Listar)
			unidades.GET("/:id", unidadesH.Obtener)
			unidades.POST("/:id/alquilar", unidadesH.MarcarAlquilada)
			unidades.POST("/:id/finalizar-alquiler", unidadesH.FinalizarAlquiler)
			unidades.POST("/:id/vender", unidadesH.MarcarVendida)
		}

		v1.GET("/reportes/finanzas", reportesH.Finanzas)
	}

	// Swagger — not exposed in production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
