// README: API surface; registers HTTP routes and delegates to module services.
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"skyhail/internal/http/middleware"
	"skyhail/internal/modules/bid"
	"skyhail/internal/modules/need"
	"skyhail/internal/modules/vehicle"
	"skyhail/internal/types"
)

type BidAPI interface {
	BidsForNeed(ctx context.Context, needID types.ID) ([]bid.Bid, error)
	Get(ctx context.Context, id int64) (*bid.Bid, error)
	DeleteForNeed(ctx context.Context, needID types.ID) error
}

type NeedAPI interface {
	Get(ctx context.Context, id types.ID) (*need.Need, error)
	Create(ctx context.Context, n *need.Need) error
}

type VehicleAPI interface {
	Get(ctx context.Context, id types.ID) (*vehicle.Vehicle, error)
}

type ServerDeps struct {
	Bids     BidAPI
	Needs    NeedAPI
	Vehicles VehicleAPI
	Log      *zap.Logger
}

type Server struct {
	bids     BidAPI
	needs    NeedAPI
	vehicles VehicleAPI
	log      *zap.Logger
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		bids:     deps.Bids,
		needs:    deps.Needs,
		vehicles: deps.Vehicles,
		log:      deps.Log,
	}
}

func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(s.log), middleware.Recovery(s.log))

	api := r.Group("/api")
	api.GET("/needs/:id/bids", s.handleBidsForNeed)
	api.DELETE("/needs/:id/bids", s.handleDeleteBidsForNeed)
	api.POST("/needs", s.handleCreateNeed)
	api.GET("/bids/:id", s.handleGetBid)
	api.GET("/vehicles/:id", s.handleGetVehicle)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
