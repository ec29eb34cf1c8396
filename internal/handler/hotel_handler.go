package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/DJprogre33/booking-app/internal/dto"
	"github.com/DJprogre33/booking-app/internal/repository"
	"github.com/DJprogre33/booking-app/internal/service"
	"github.com/DJprogre33/booking-app/internal/telemetry"
)

// HotelHandler handles hotel HTTP requests
type HotelHandler struct {
	hotelService service.HotelService
}

// NewHotelHandler creates a new hotel handler
func NewHotelHandler(hotelService service.HotelService) *HotelHandler {
	return &HotelHandler{hotelService: hotelService}
}

// RegisterPublicRoutes registers routes that need no authentication.
func (h *HotelHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	hotels := rg.Group("/hotels")
	{
		hotels.GET("/search", h.SearchHotels)
		hotels.GET("/:id", h.GetHotel)
	}
}

// RegisterRoutes registers routes on the authenticated group.
func (h *HotelHandler) RegisterRoutes(rg *gin.RouterGroup) {
	hotels := rg.Group("/hotels")
	{
		hotels.POST("", h.CreateHotel)
		hotels.GET("/my", h.ListOwnHotels)
		hotels.PATCH("/:id", h.UpdateHotel)
		hotels.DELETE("/:id", h.DeleteHotel)
	}
}

// parseWindow reads date_from and date_to query parameters.
func parseWindow(c *gin.Context) (time.Time, time.Time, error) {
	from, err := dto.ParseDate(c.Query("date_from"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date_from: %w", err)
	}
	to, err := dto.ParseDate(c.Query("date_to"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("date_to: %w", err)
	}
	return from, to, nil
}

// SearchHotels handles GET /hotels/search
func (h *HotelHandler) SearchHotels(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.hotel.search")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	location := c.Query("location")
	dateFrom, dateTo, err := parseWindow(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	span.SetAttributes(attribute.String("location", location))

	hits, err := h.hotelService.SearchAvailable(ctx, location, dateFrom, dateTo)
	if err != nil {
		span.RecordError(err)
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHotelAvailabilityResponses(hits))
}

// GetHotel handles GET /hotels/:id
func (h *HotelHandler) GetHotel(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.hotel.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	hotel, err := h.hotelService.GetHotel(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHotelResponse(hotel))
}

// CreateHotel handles POST /hotels
func (h *HotelHandler) CreateHotel(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.hotel.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := principalID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req dto.CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	hotel, err := h.hotelService.CreateHotel(ctx, userID, service.CreateHotelInput{
		Name:          req.Name,
		Location:      req.Location,
		Services:      req.Services,
		RoomsQuantity: req.RoomsQuantity,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		span.RecordError(err)
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToHotelResponse(hotel))
}

// ListOwnHotels handles GET /hotels/my
func (h *HotelHandler) ListOwnHotels(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.hotel.list_own")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := principalID(c)
	if !ok {
		unauthorized(c)
		return
	}

	hotels, err := h.hotelService.ListOwnHotels(ctx, userID)
	if err != nil {
		span.RecordError(err)
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHotelResponses(hotels))
}

// UpdateHotel handles PATCH /hotels/:id
func (h *HotelHandler) UpdateHotel(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.hotel.update")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := principalID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req dto.UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	hotel, err := h.hotelService.UpdateHotel(ctx, userID, c.Param("id"), repository.HotelUpdate{
		Name:          req.Name,
		Location:      req.Location,
		Services:      req.Services,
		RoomsQuantity: req.RoomsQuantity,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		span.RecordError(err)
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHotelResponse(hotel))
}

// DeleteHotel handles DELETE /hotels/:id
func (h *HotelHandler) DeleteHotel(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.hotel.delete")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := principalID(c)
	if !ok {
		unauthorized(c)
		return
	}

	hotel, err := h.hotelService.DeleteHotel(ctx, userID, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHotelResponse(hotel))
}
