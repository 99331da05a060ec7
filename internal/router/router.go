package router

import (
	"time"

	"brazzero/internal/config"
	"brazzero/internal/handler"
	"brazzero/internal/middleware"
	"brazzero/internal/repository"
	"brazzero/internal/service"
	"brazzero/internal/worker"

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
	userRepo := repository.NewUserRepository(db)
	caixaRepo := repository.NewCashSessionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	caixaSvc := service.NewCashSessionService(caixaRepo, orderRepo, expenseRepo, dispatcher)
	pedidoSvc := service.NewPedidoService(orderRepo, menuRepo, customerRepo, caixaSvc, dispatcher)
	despesaSvc := service.NewDespesaService(expenseRepo, caixaSvc, caixaRepo, dispatcher)
	clienteSvc := service.NewClienteService(customerRepo)
	cardapioSvc := service.NewCardapioService(menuRepo, rdb)
	relatorioSvc := service.NewRelatorioService(reportRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc)
	pedidosH := handler.NewPedidoHandler(pedidoSvc)
	despesasH := handler.NewDespesaHandler(despesaSvc)
	clientesH := handler.NewClienteHandler(clienteSvc)
	cardapioH := handler.NewCardapioHandler(cardapioSvc)
	relatoriosH := handler.NewRelatorioHandler(relatorioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Public menu for the storefront
	r.GET("/v1/cardapio", cardapioH.Publico)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operator, admin. Declared per-endpoint.
		caixa := v1.Group("/caixa")
		{
			caixa.POST("/abrir", middleware.RequireRole("operator", "admin"), caixaH.Abrir)
			caixa.GET("/ativa", middleware.RequireRole("operator", "admin"), caixaH.Ativa)
			caixa.GET("/:id/transacoes", middleware.RequireRole("operator", "admin"), caixaH.Transacoes)
			caixa.POST("/:id/fechar", middleware.RequireRole("operator", "admin"), caixaH.Fechar)
			caixa.GET("/historico", middleware.RequireRole("admin"), caixaH.Historico)
		}

		pedidos := v1.Group("/pedidos", middleware.RequireRole("operator", "admin"))
		{
			pedidos.POST("", pedidosH.Criar)
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/:id", pedidosH.Obter)
			pedidos.PATCH("/:id/status", pedidosH.AtualizarStatus)
		}

		despesas := v1.Group("/despesas", middleware.RequireRole("operator", "admin"))
		{
			despesas.POST("", despesasH.Criar)
			despesas.GET("", despesasH.Listar)
			despesas.DELETE("/:id", despesasH.Excluir)
		}

		clientes := v1.Group("/clientes", middleware.RequireRole("operator", "admin"))
		{
			clientes.POST("", clientesH.Criar)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obter)
			clientes.PUT("/:id", clientesH.Atualizar)
			clientes.POST("/:id/enderecos", clientesH.AdicionarEndereco)
		}

		// Menu management: admin writes, all authenticated can read
		v1.GET("/cardapio/itens", middleware.RequireRole("operator", "admin"), cardapioH.Listar)
		cardapio := v1.Group("/cardapio/itens", middleware.RequireRole("admin"))
		{
			cardapio.POST("", cardapioH.Criar)
			cardapio.PUT("/:id", cardapioH.Atualizar)
			cardapio.DELETE("/:id", cardapioH.Excluir)
		}

		relatorios := v1.Group("/relatorios", middleware.RequireRole("admin"))
		{
			relatorios.GET("/dashboard", relatoriosH.Dashboard)
			relatorios.POST("/dashboard/recompute", relatoriosH.Recompute)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("admin"))
		{
			usuarios.POST("", usuariosH.Criar)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Desativar)
			usuarios.PATCH("/:id/reativar", usuariosH.Reativar)
		}
	}

	// Swagger UI is only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
