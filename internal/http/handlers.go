// README: HTTP handlers and JSON shapes for the bid query API.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skyhail/internal/modules/bid"
	"skyhail/internal/modules/need"
	"skyhail/internal/modules/vehicle"
	"skyhail/internal/types"
)

type bidResponse struct {
	ID               int64   `json:"id"`
	VehicleID        string  `json:"vehicle_id"`
	UserID           string  `json:"user_id"`
	Price            float64 `json:"price"`
	PriceType        string  `json:"price_type"`
	PriceDescription string  `json:"price_description"`
	TimeToPickup     float64 `json:"time_to_pickup"`
	TimeToDropoff    float64 `json:"time_to_dropoff"`
	ExpiresAt        int64   `json:"expires_at"`
	NeedID           string  `json:"need_id"`
}

func toBidResponse(b bid.Bid) bidResponse {
	return bidResponse{
		ID:               b.ID,
		VehicleID:        string(b.VehicleID),
		UserID:           string(b.UserID),
		Price:            b.Price,
		PriceType:        b.PriceType,
		PriceDescription: b.PriceDescription,
		TimeToPickup:     b.TimeToPickup,
		TimeToDropoff:    b.TimeToDropoff,
		ExpiresAt:        b.ExpiresAt.UnixMilli(),
		NeedID:           string(b.NeedID),
	}
}

func (s *Server) handleBidsForNeed(c *gin.Context) {
	needID := types.ID(c.Param("id"))
	bids, err := s.bids.BidsForNeed(c.Request.Context(), needID)
	if err != nil {
		s.log.Error("bids for need", zap.String("need_id", string(needID)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	out := make([]bidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, toBidResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetBid(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bid id"})
		return
	}
	b, err := s.bids.Get(c.Request.Context(), id)
	if errors.Is(err, bid.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "bid not found"})
		return
	}
	if err != nil {
		s.log.Error("get bid", zap.Int64("bid_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, toBidResponse(*b))
}

func (s *Server) handleDeleteBidsForNeed(c *gin.Context) {
	needID := types.ID(c.Param("id"))
	if err := s.bids.DeleteForNeed(c.Request.Context(), needID); err != nil {
		s.log.Error("delete bids", zap.String("need_id", string(needID)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

type createNeedRequest struct {
	Pickup  types.Point `json:"pickup" binding:"required"`
	Dropoff types.Point `json:"dropoff" binding:"required"`
	UserID  string      `json:"user_id" binding:"required"`
}

func (s *Server) handleCreateNeed(c *gin.Context) {
	var req createNeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n := &need.Need{
		Pickup:  req.Pickup,
		Dropoff: req.Dropoff,
		UserID:  types.ID(req.UserID),
	}
	if err := s.needs.Create(c.Request.Context(), n); err != nil {
		s.log.Error("create need", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": string(n.ID)})
}

type vehicleResponse struct {
	ID                     string      `json:"id"`
	Model                  string      `json:"model"`
	Icon                   string      `json:"icon"`
	Coords                 types.Point `json:"coords"`
	MissionsCompleted      int         `json:"missions_completed"`
	MissionsCompleted7Days int         `json:"missions_completed_7_days"`
	Status                 string      `json:"status"`
}

func (s *Server) handleGetVehicle(c *gin.Context) {
	id := types.ID(c.Param("id"))
	v, err := s.vehicles.Get(c.Request.Context(), id)
	if errors.Is(err, vehicle.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	if err != nil {
		s.log.Error("get vehicle", zap.String("vehicle_id", string(id)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, vehicleResponse{
		ID:                     string(v.ID),
		Model:                  v.Model,
		Icon:                   v.Icon,
		Coords:                 v.Coords,
		MissionsCompleted:      v.MissionsCompleted,
		MissionsCompleted7Days: v.MissionsCompleted7Days,
		Status:                 string(v.Status),
	})
}
