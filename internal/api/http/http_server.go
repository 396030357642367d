package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/equityflow/order-engine/internal/api/dto"
	"github.com/equityflow/order-engine/internal/core"
	"github.com/equityflow/order-engine/internal/domain"
	"github.com/equityflow/order-engine/internal/middleware"
)

// HTTPServer is the thin request/response mapping over the engine and
// catalog. All validation and state transitions live in the core.
type HTTPServer struct {
	eng         *core.Engine
	catalog     *core.Catalog
	logger      *slog.Logger
	defaultUser string
	rateLimit   time.Duration
}

func NewHTTPServer(eng *core.Engine, catalog *core.Catalog, logger *slog.Logger, defaultUser string, rateLimit time.Duration) *HTTPServer {
	return &HTTPServer{
		eng:         eng,
		catalog:     catalog,
		logger:      logger,
		defaultUser: defaultUser,
		rateLimit:   rateLimit,
	}
}

// Router builds the gin engine with all routes registered.
func (s *HTTPServer) Router() *gin.Engine {
	r := gin.Default()

	if s.rateLimit > 0 {
		rl := middleware.NewRateLimiter(s.rateLimit)
		r.Use(rl.Middleware(s.defaultUser))
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/instruments", s.listInstruments)
		v1.GET("/instruments/:symbol", s.getInstrument)

		v1.POST("/orders", s.placeOrder)
		v1.GET("/orders", s.listOrders)
		v1.GET("/orders/:id", s.getOrder)
		v1.DELETE("/orders/:id", s.cancelOrder)

		v1.GET("/trades", s.listTrades)
		v1.GET("/trades/order/:orderId", s.listTradesForOrder)

		v1.GET("/portfolio", s.listHoldings)
		v1.GET("/portfolio/:symbol", s.getHolding)
	}
	return r
}

func (s *HTTPServer) Run(addr string) error {
	return s.Router().Run(addr)
}

// userID resolves the acting user from the X-User-ID header, falling
// back to the configured default.
func (s *HTTPServer) userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return s.defaultUser
}

func (s *HTTPServer) listInstruments(c *gin.Context) {
	instruments, err := s.catalog.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(
		fmt.Sprintf("Fetched %d instruments", len(instruments)),
		dto.FromInstruments(instruments),
	))
}

func (s *HTTPServer) getInstrument(c *gin.Context) {
	symbol := c.Param("symbol")
	exchange := c.DefaultQuery("exchange", "NSE")

	inst, err := s.catalog.Lookup(c.Request.Context(), symbol, exchange)
	if err != nil {
		s.fail(c, err)
		return
	}
	if inst == nil {
		c.JSON(http.StatusNotFound, dto.Error(
			fmt.Sprintf("Instrument not found: %s on %s", symbol, exchange)))
		return
	}
	c.JSON(http.StatusOK, dto.Success("", dto.FromInstrument(inst)))
}

func (s *HTTPServer) placeOrder(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}

	order, err := s.eng.PlaceOrder(c.Request.Context(), s.userID(c), core.OrderRequest{
		Symbol:   req.Symbol,
		Exchange: req.Exchange,
		Side:     domain.Side(req.Side),
		Style:    domain.OrderStyle(req.Style),
		Quantity: req.Quantity,
		Price:    req.Price.InexactFloat64(),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Success("Order placed successfully", dto.FromOrder(order)))
}

func (s *HTTPServer) listOrders(c *gin.Context) {
	orders, err := s.eng.ListOrders(c.Request.Context(), s.userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(
		fmt.Sprintf("Fetched %d orders", len(orders)),
		dto.FromOrders(orders),
	))
}

func (s *HTTPServer) getOrder(c *gin.Context) {
	order, err := s.eng.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success("", dto.FromOrder(order)))
}

func (s *HTTPServer) cancelOrder(c *gin.Context) {
	order, err := s.eng.CancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success("Order cancelled successfully", dto.FromOrder(order)))
}

func (s *HTTPServer) listTrades(c *gin.Context) {
	trades, err := s.eng.ListTrades(c.Request.Context(), s.userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(
		fmt.Sprintf("Fetched %d trades", len(trades)),
		dto.FromTrades(trades),
	))
}

func (s *HTTPServer) listTradesForOrder(c *gin.Context) {
	trades, err := s.eng.ListTradesForOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(
		fmt.Sprintf("Fetched %d trades", len(trades)),
		dto.FromTrades(trades),
	))
}

func (s *HTTPServer) listHoldings(c *gin.Context) {
	holdings, err := s.eng.ListHoldings(c.Request.Context(), s.userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(
		fmt.Sprintf("Fetched %d holdings", len(holdings)),
		dto.FromHoldings(holdings),
	))
}

func (s *HTTPServer) getHolding(c *gin.Context) {
	symbol := c.Param("symbol")
	exchange := c.DefaultQuery("exchange", "NSE")

	holding, err := s.eng.GetHolding(c.Request.Context(), s.userID(c), symbol, exchange)
	if err != nil {
		s.fail(c, err)
		return
	}
	if holding == nil {
		c.JSON(http.StatusNotFound, dto.Error(
			fmt.Sprintf("Holding not found: %s on %s", symbol, exchange)))
		return
	}
	c.JSON(http.StatusOK, dto.Success("", dto.FromHolding(holding)))
}

// fail maps domain errors onto HTTP statuses. Anything outside the
// caller-correctable taxonomy is a 500 with a generic message.
func (s *HTTPServer) fail(c *gin.Context, err error) {
	var insufficient *domain.InsufficientHoldingsError
	var invalidState *domain.InvalidStateError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Error(err.Error()))
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.As(err, &insufficient),
		errors.As(err, &invalidState):
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
	default:
		s.logger.ErrorContext(c.Request.Context(), "http: unexpected error",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, dto.Error("An unexpected error occurred. Please try again later."))
	}
}
