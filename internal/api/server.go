package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/david/opportunity-navigator/internal/ai"
	"github.com/david/opportunity-navigator/internal/catalog"
	"github.com/david/opportunity-navigator/internal/config"
	"github.com/david/opportunity-navigator/internal/recommend"
	"github.com/david/opportunity-navigator/internal/session"
)

// InterestOptions is the fixed interest list offered by the profile form.
var InterestOptions = []string{"AI", "ML", "Data Science", "Research", "Women in Tech"}

// YearOptions are the selectable academic years. Absent is always allowed.
var YearOptions = []int{1, 2, 3, 4}

type Server struct {
	Echo *echo.Echo

	cfg       config.Config
	log       *zap.Logger
	catalog   *catalog.Catalog
	sessions  *session.Store
	tokens    *session.Tokens
	explainer ai.Explainer
	sanitizer *bluemonday.Policy

	// now is swapped in tests to pin the evaluation instant.
	now func() time.Time
}

func NewServer(cfg config.Config, log *zap.Logger, cat *catalog.Catalog, explainer ai.Explainer) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	tokens, err := session.NewTokens(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Echo:      e,
		cfg:       cfg,
		log:       log,
		catalog:   cat,
		sessions:  session.NewStore(),
		tokens:    tokens,
		explainer: explainer,
		sanitizer: bluemonday.UGCPolicy(),
		now:       time.Now,
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api/v1")
	api.POST("/session", s.handleCreateSession)
	api.GET("/options", s.handleOptions)
	api.GET("/opportunities", s.handleListOpportunities)

	sess := api.Group("")
	sess.Use(s.tokens.Middleware)
	sess.PUT("/profile", s.handleSaveProfile)
	sess.GET("/recommendations", s.handleRecommendations)
	sess.GET("/chat", s.handleChatHistory)
	sess.POST("/chat", s.handleChat)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleCreateSession(c echo.Context) error {
	sess := s.sessions.Create(s.now())

	token, err := s.tokens.Mint(sess.ID)
	if err != nil {
		s.log.Error("failed to mint session token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"token":      token,
		"session_id": sess.ID,
		"messages":   sess.Messages,
	})
}

func (s *Server) handleOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"skills":    s.catalog.SkillOptions(),
		"interests": InterestOptions,
		"years":     YearOptions,
	})
}

func (s *Server) handleListOpportunities(c echo.Context) error {
	opps := s.catalog.Prepared(s.now())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count": len(opps),
		"items": opps,
	})
}

func (s *Server) handleSaveProfile(c echo.Context) error {
	id, err := session.SessionIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var profile recommend.Profile
	if err := c.Bind(&profile); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if profile.Year != nil && (*profile.Year < 1 || *profile.Year > 4) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "academic_year must be between 1 and 4"})
	}

	if err := s.sessions.ReplaceProfile(id, profile); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Session not found"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "saved",
		"profile": profile,
	})
}

type recommendationItem struct {
	recommend.ScoredOpportunity
	Explanation string `json:"explanation,omitempty"`
}

func (s *Server) handleRecommendations(c echo.Context) error {
	id, err := session.SessionIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	sess, err := s.sessions.Get(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Session not found"})
	}

	opps := s.catalog.Prepared(s.now())
	ranked := recommend.Rank(sess.Profile, opps)
	explain := strings.EqualFold(c.QueryParam("explain"), "true")

	items := make([]recommendationItem, 0, len(ranked))
	for _, r := range ranked {
		item := recommendationItem{ScoredOpportunity: r}
		if explain {
			prompt := ai.ExplainPrompt(sess.Profile, r.Opportunity)
			item.Explanation = s.completeOrFallback(c.Request().Context(), prompt)
		}
		items = append(items, item)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count": len(items),
		"items": items,
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(c echo.Context) error {
	id, err := session.SessionIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	if err := s.sessions.AppendMessages(id, session.Message{Role: "user", Content: req.Message}); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Session not found"})
	}

	prompt := ai.ChatPrompt(s.catalog.Size(), req.Message)
	reply := s.completeOrFallback(c.Request().Context(), prompt)

	if err := s.sessions.AppendMessages(id, session.Message{Role: "assistant", Content: reply}); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Session not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) handleChatHistory(c echo.Context) error {
	id, err := session.SessionIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	sess, err := s.sessions.Get(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Session not found"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": sess.Messages,
	})
}

// completeOrFallback runs one generation call and substitutes the fixed
// fallback text on any failure. Model output passes through the HTML
// sanitizer before it reaches a client.
func (s *Server) completeOrFallback(ctx context.Context, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ExplainTimeout)
	defer cancel()

	out, err := s.explainer.GenerateCompletion(ctx, prompt)
	if err != nil {
		s.log.Warn("generation failed, using fallback", zap.Error(err))
		return ai.FallbackText
	}
	return s.sanitizer.Sanitize(strings.TrimSpace(out))
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}
