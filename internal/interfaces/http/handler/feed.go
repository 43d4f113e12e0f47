package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	feedapp "github.com/erp/clerkfeed/internal/application/feed"
	"github.com/erp/clerkfeed/internal/domain/feed"
	"github.com/erp/clerkfeed/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// FeedContentType is sent on successful feed responses. Crawlers match it exactly.
const FeedContentType = "application/json"

// FeedAssembler builds the payload of one signed feed request
type FeedAssembler interface {
	Assemble(ctx context.Context, req feed.Request) (feedapp.Payload, error)
}

// OrderTracker returns the record of one completed order
type OrderTracker interface {
	TrackOrder(ctx context.Context, orderID uint64, req feed.Request) (feed.Record, error)
}

// FeedHandler serves the signed data feed and the sales tracking lookup
type FeedHandler struct {
	BaseHandler
	assembler      FeedAssembler
	tracker        OrderTracker
	requestTimeout time.Duration
	now            func() time.Time
}

// FeedHandlerOption configures a FeedHandler
type FeedHandlerOption func(*FeedHandler)

// WithRequestTimeout bounds the time spent assembling one feed. Zero disables the deadline.
func WithRequestTimeout(d time.Duration) FeedHandlerOption {
	return func(h *FeedHandler) {
		h.requestTimeout = d
	}
}

// WithClock overrides the clock used to stamp request arrival
func WithClock(now func() time.Time) FeedHandlerOption {
	return func(h *FeedHandler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(assembler FeedAssembler, tracker OrderTracker, opts ...FeedHandlerOption) *FeedHandler {
	h := &FeedHandler{
		assembler: assembler,
		tracker:   tracker,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts the feed endpoints on rg
func (h *FeedHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/feed/:channelId", h.Feed)
	rg.GET("/feed/:channelId/:entityType", h.FeedByType)
	rg.GET("/sales-tracking/:orderId", h.SalesTracking)
}

// Feed handles GET /feed/:channelId
func (h *FeedHandler) Feed(c *gin.Context) {
	h.serveFeed(c, nil)
}

// FeedByType handles GET /feed/:channelId/:entityType.
// The type is checked by the assembler after the signature.
func (h *FeedHandler) FeedByType(c *gin.Context) {
	h.serveFeed(c, []feed.EntityType{feed.EntityType(c.Param("entityType"))})
}

func (h *FeedHandler) serveFeed(c *gin.Context, types []feed.EntityType) {
	req := h.signedRequest(c)
	req.ChannelID = parseID(c.Param("channelId"))
	req.EntityTypes = types

	ctx, cancel := h.withTimeout(c.Request.Context())
	defer cancel()

	payload, err := h.assembler.Assemble(ctx, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeFeedJSON(c, payload)
}

// SalesTracking handles GET /sales-tracking/:orderId
func (h *FeedHandler) SalesTracking(c *gin.Context) {
	req := h.signedRequest(c)

	ctx, cancel := h.withTimeout(c.Request.Context())
	defer cancel()

	rec, err := h.tracker.TrackOrder(ctx, parseID(c.Param("orderId")), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeFeedJSON(c, dto.SalesTrackingResponse{Order: rec})
}

// writeFeedJSON renders obj without gin's charset suffix; render.JSON keeps a
// Content-Type that is already set.
func writeFeedJSON(c *gin.Context, obj any) {
	c.Header("Content-Type", FeedContentType)
	c.Render(http.StatusOK, render.JSON{Data: obj})
}

func (h *FeedHandler) signedRequest(c *gin.Context) feed.Request {
	return feed.Request{
		Salt:      c.Query("salt"),
		Signature: c.Query("hash"),
		ArrivedAt: h.now(),
	}
}

func (h *FeedHandler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.requestTimeout)
}

// parseID returns 0 for anything that is not a positive integer; 0 never
// matches a stored row, so the caller still answers after the signature check.
func parseID(raw string) uint64 {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
