// @title           Commodity Oracle Dashboard API
// @version         1.0
// @description     API for simulated commodity prices, oracle feeds and portfolio accounting

// @host      localhost:8080
// @BasePath  /api/v1

package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	appinterfaces "main/internal/application/interfaces"
	appmarket "main/internal/application/service/market"
	appportfolio "main/internal/application/service/portfolio"
	"main/internal/domain/entity/commodity"
	domainmarket "main/internal/domain/entity/market"
	domainportfolio "main/internal/domain/entity/portfolio"
	"main/internal/engine"
	"main/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const basePath = "/api/v1"

var (
	errMissingAuth     = errors.New("bearer token required")
	errInvalidCategory = errors.New("unknown category")
	errMissingAddress  = errors.New("tokenAddress is required")
)

type Handler struct {
	router    *gin.Engine
	engine    *engine.Engine
	scheduler *engine.Scheduler
	market    *appmarket.Service
	portfolio *appportfolio.Service
	cache     *redis.Client
	cacheTTL  time.Duration
}

var _ appinterfaces.HTTPHandler = (*Handler)(nil)

func NewHandler(eng *engine.Engine, sched *engine.Scheduler, mkt *appmarket.Service, pf *appportfolio.Service, cache *redis.Client, cacheTTL time.Duration) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:    router,
		engine:    eng,
		scheduler: sched,
		market:    mkt,
		portfolio: pf,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	h.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := h.router.Group(basePath)

	reads := api.Group("")
	if h.cache != nil {
		reads.Use(h.cacheMiddleware())
	}
	{
		reads.GET("/commodities", h.listCommodities)
		reads.GET("/commodities/:id", h.getCommodity)
		reads.GET("/commodities/:id/history", h.getCommodityHistory)
		reads.GET("/oracles", h.listOracles)
		reads.GET("/oracles/:commodityId", h.getOracle)
		reads.GET("/arbitrage", h.listArbitrage)
		reads.GET("/dex/prices", h.listDexPrices)
	}

	api.POST("/refresh", h.refresh)
	api.GET("/status", h.status)
	api.POST("/dex/prices", h.fetchSpotPrice)

	authed := api.Group("")
	authed.Use(h.authMiddleware())
	{
		authed.POST("/trade", h.executeTrade)
		authed.GET("/portfolio", h.getPortfolio)
	}
}

// Commodity handlers

// listCommodities lists current commodity prices
// @Summary      List commodities
// @Description  Current prices for all tracked commodities, optionally filtered by category
// @Tags         commodities
// @Produce      json
// @Param        category  query     string  false  "Category filter"
// @Success      200       {array}   commodity.Commodity
// @Failure      400       {object}  map[string]string
// @Router       /commodities [get]
func (h *Handler) listCommodities(c *gin.Context) {
	if raw := c.Query("category"); raw != "" {
		category, err := commodity.NewCategory(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, errInvalidCategory)
			return
		}
		c.JSON(http.StatusOK, h.engine.CommoditiesByCategory(category))
		return
	}
	c.JSON(http.StatusOK, h.engine.Commodities())
}

// getCommodity returns one commodity by id
// @Summary      Get commodity
// @Tags         commodities
// @Produce      json
// @Param        id   path      string  true  "Commodity id"
// @Success      200  {object}  commodity.Commodity
// @Failure      404  {object}  map[string]string
// @Router       /commodities/{id} [get]
func (h *Handler) getCommodity(c *gin.Context) {
	item, err := h.engine.Commodity(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// getCommodityHistory returns the retained price history for one commodity
// @Summary      Commodity price history
// @Tags         commodities
// @Produce      json
// @Param        id   path      string  true  "Commodity id"
// @Success      200  {array}   engine.Sample
// @Failure      404  {object}  map[string]string
// @Router       /commodities/{id}/history [get]
func (h *Handler) getCommodityHistory(c *gin.Context) {
	samples, err := h.engine.HistoryFor(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, samples)
}

// Oracle handlers

// listOracles lists simulated on-chain oracle feeds
// @Summary      List oracle feeds
// @Tags         oracles
// @Produce      json
// @Success      200  {array}  oracle.Record
// @Router       /oracles [get]
func (h *Handler) listOracles(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Oracles())
}

// getOracle returns the oracle feed for one commodity
// @Summary      Get oracle feed
// @Tags         oracles
// @Produce      json
// @Param        commodityId  path      string  true  "Commodity id"
// @Success      200          {object}  oracle.Record
// @Failure      404          {object}  map[string]string
// @Router       /oracles/{commodityId} [get]
func (h *Handler) getOracle(c *gin.Context) {
	record, err := h.engine.OracleFor(c.Param("commodityId"))
	if err != nil {
		writeError(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Market handlers

// listArbitrage lists current cross-venue arbitrage opportunities
// @Summary      List arbitrage opportunities
// @Tags         market
// @Produce      json
// @Success      200  {array}   market.Opportunity
// @Failure      500  {object}  map[string]string
// @Router       /arbitrage [get]
func (h *Handler) listArbitrage(c *gin.Context) {
	opportunities, err := h.market.Opportunities(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, opportunities)
}

// listDexPrices lists active pairs enriched with venue quote metadata
// @Summary      List DEX prices
// @Tags         market
// @Produce      json
// @Success      200  {array}   market.EnrichedPair
// @Failure      500  {object}  map[string]string
// @Router       /dex/prices [get]
func (h *Handler) listDexPrices(c *gin.Context) {
	pairs, err := h.market.EnrichedPairs(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, pairs)
}

type spotPricePayload struct {
	TokenAddress string `json:"tokenAddress"`
	Venue        string `json:"venue"`
}

// fetchSpotPrice observes a venue spot price for a token contract
// @Summary      Fetch spot price
// @Tags         market
// @Accept       json
// @Produce      json
// @Param        request  body      spotPricePayload  true  "Token contract and venue"
// @Success      200      {object}  market.SpotPrice
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /dex/prices [post]
func (h *Handler) fetchSpotPrice(c *gin.Context) {
	var payload spotPricePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if payload.TokenAddress == "" {
		writeError(c, http.StatusBadRequest, errMissingAddress)
		return
	}
	venue, err := domainmarket.NewVenue(payload.Venue)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	observation, err := h.market.SpotPrice(c.Request.Context(), payload.TokenAddress, venue)
	if err != nil {
		if errors.Is(err, appmarket.ErrUnknownVenue) {
			writeError(c, http.StatusBadRequest, err)
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, observation)
}

// Engine control handlers

// refresh triggers one price refresh pass
// @Summary      Manual refresh
// @Description  Runs one refresh pass; overlapping requests coalesce into the running pass
// @Tags         engine
// @Produce      json
// @Success      200  {object}  map[string]string
// @Success      202  {object}  map[string]string
// @Router       /refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	if err := h.engine.Refresh(c.Request.Context()); err != nil {
		if errors.Is(err, engine.ErrRefreshInFlight) {
			c.JSON(http.StatusAccepted, gin.H{"status": "refresh already running"})
			return
		}
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

// status reports engine liveness
// @Summary      Engine status
// @Tags         engine
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /status [get]
func (h *Handler) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"last_refreshed":    h.engine.LastRefreshed(),
		"scheduler_running": h.scheduler != nil && h.scheduler.Running(),
		"commodities":       len(h.engine.Commodities()),
	})
}

// Portfolio handlers

type tradePayload struct {
	CommodityTicker string  `json:"commodityTicker"`
	Side            string  `json:"side"`
	TokenAmount     float64 `json:"tokenAmount"`
	PricePerToken   float64 `json:"pricePerToken"`
	Venue           string  `json:"venue"`
	ChainTxRef      string  `json:"chainTxRef"`
}

type tradeResponse struct {
	Transaction *domainportfolio.Transaction `json:"transaction"`
	Position    *domainportfolio.Position    `json:"position"`
}

// executeTrade records a buy or sell against the caller's position
// @Summary      Execute trade
// @Tags         portfolio
// @Accept       json
// @Produce      json
// @Param        request  body      tradePayload  true  "Trade order"
// @Success      201      {object}  tradeResponse
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Security     BearerAuth
// @Router       /trade [post]
func (h *Handler) executeTrade(c *gin.Context) {
	userID := currentUser(c)

	var payload tradePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	req := appportfolio.TradeRequest{
		CommodityTicker: payload.CommodityTicker,
		Side:            domainportfolio.Side(payload.Side),
		TokenAmount:     payload.TokenAmount,
		PricePerToken:   payload.PricePerToken,
		Venue:           domainmarket.Venue(payload.Venue),
		ChainTxRef:      payload.ChainTxRef,
	}

	txn, position, err := h.portfolio.ExecuteTrade(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, tradeStatus(err), err)
		return
	}

	metrics.TradesExecuted.WithLabelValues(string(txn.Side)).Inc()
	c.JSON(http.StatusCreated, tradeResponse{Transaction: txn, Position: position})
}

func tradeStatus(err error) int {
	switch {
	case errors.Is(err, appportfolio.ErrMissingTicker),
		errors.Is(err, appportfolio.ErrInvalidSide),
		errors.Is(err, domainportfolio.ErrInvalidAmount),
		errors.Is(err, domainportfolio.ErrInvalidPrice),
		errors.Is(err, domainportfolio.ErrInsufficientBalance):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getPortfolio returns the caller's valued positions, recent trades and profile
// @Summary      Get portfolio
// @Tags         portfolio
// @Produce      json
// @Success      200  {object}  portfolio.Overview
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Security     BearerAuth
// @Router       /portfolio [get]
func (h *Handler) getPortfolio(c *gin.Context) {
	overview, err := h.portfolio.Overview(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// Middleware

const userIDKey = "user_id"

// authMiddleware resolves the caller identity from a bearer token carrying a
// user UUID. Real authentication sits behind an upstream gateway.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(c, http.StatusUnauthorized, errMissingAuth)
			c.Abort()
			return
		}
		userID, err := uuid.Parse(strings.TrimSpace(token))
		if err != nil {
			writeError(c, http.StatusUnauthorized, fmt.Errorf("invalid bearer token: %w", err))
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) uuid.UUID {
	value, _ := c.Get(userIDKey)
	userID, _ := value.(uuid.UUID)
	return userID
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// cacheMiddleware caches GET responses in Redis.
func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := h.cacheKey(c)
		ctx := c.Request.Context()

		if cached, err := h.cache.Get(ctx, key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			c.Abort()
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status >= 200 && recorder.status < 300 && recorder.body.Len() > 0 {
			_ = h.cache.Set(ctx, key, recorder.body.Bytes(), h.cacheTTL).Err()
		}
	}
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

func (h *Handler) cacheKey(c *gin.Context) string {
	return fmt.Sprintf("cache:%s:%s?%s", c.Request.Method, c.FullPath(), c.Request.URL.RawQuery)
}
