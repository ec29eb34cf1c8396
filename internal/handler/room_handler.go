package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/DJprogre33/booking-app/internal/dto"
	"github.com/DJprogre33/booking-app/internal/repository"
	"github.com/DJprogre33/booking-app/internal/service"
	"github.com/DJprogre33/booking-app/internal/telemetry"
)

// RoomHandler handles room HTTP requests
type RoomHandler struct {
	roomService    service.RoomService
	bookingService service.BookingService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomService service.RoomService, bookingService service.BookingService) *RoomHandler {
	return &RoomHandler{roomService: roomService, bookingService: bookingService}
}

// RegisterPublicRoutes registers routes that need no authentication.
func (h *RoomHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/hotels/:id/rooms", h.ListRooms)
	rg.GET("/hotels/:id/rooms/available", h.AvailableRooms)

	rooms := rg.Group("/rooms")
	{
		rooms.GET("/:id", h.GetRoom)
		rooms.GET("/:id/left", h.RoomsLeft)
	}
}

// RegisterRoutes registers routes on the authenticated group.
func (h *RoomHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/hotels/:id/rooms", h.CreateRoom)

	rooms := rg.Group("/rooms")
	{
		rooms.PATCH("/:id", h.UpdateRoom)
		rooms.DELETE("/:id", h.DeleteRoom)
	}
}

// CreateRoom handles POST /hotels/:id/rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := principalID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	hotelID := c.Param("id")
	span.SetAttributes(attribute.String("hotel_id", hotelID))

	room, err := h.roomService.CreateRoom(ctx, userID, hotelID, service.CreateRoomInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Services:    req.Services,
		Quantity:    req.Quantity,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		span.RecordError(err)
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRoomResponse(room))
}

// GetRoom handles GET /rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	room, err := h.roomService.GetRoom(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}

// ListRooms handles GET /hotels/:id/rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.list")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	rooms, err := h.roomService.ListRooms(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoomResponses(rooms))
}

// AvailableRooms handles GET /hotels/:id/rooms/available
func (h *RoomHandler) AvailableRooms(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.available")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	dateFrom, dateTo, err := parseWindow(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	rooms, err := h.roomService.AvailableRooms(ctx, c.Param("id"), dateFrom, dateTo)
	if err != nil {
		span.RecordError(err)
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoomAvailabilityResponses(rooms))
}

// RoomsLeft handles GET /rooms/:id/left
func (h *RoomHandler) RoomsLeft(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.rooms_left")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	dateFrom, dateTo, err := parseWindow(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	roomID := c.Param("id")
	left, err := h.bookingService.RoomsLeft(ctx, roomID, dateFrom, dateTo)
	if err != nil {
		span.RecordError(err)
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RoomsLeftResponse{
		RoomID:    roomID,
		DateFrom:  dto.FormatDate(dateFrom),
		DateTo:    dto.FormatDate(dateTo),
		RoomsLeft: left,
	})
}

// UpdateRoom handles PATCH /rooms/:id
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.update")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := principalID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	room, err := h.roomService.UpdateRoom(ctx, userID, c.Param("id"), repository.RoomUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Services:    req.Services,
		Quantity:    req.Quantity,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		span.RecordError(err)
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}

// DeleteRoom handles DELETE /rooms/:id
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.room.delete")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := principalID(c)
	if !ok {
		unauthorized(c)
		return
	}

	room, err := h.roomService.DeleteRoom(ctx, userID, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}
