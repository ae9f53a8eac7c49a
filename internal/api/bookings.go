package api

import (
	"bytes"
	"net/http"
	"strconv"

	"shareit/internal/dto"
	"shareit/internal/export"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) createBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	view, err := s.svc.Bookings.Create(c.Request.Context(), callerID(c), service.CreateBookingInput{
		ItemID: req.ItemID,
		Start:  req.Start.UTC(),
		End:    req.End.UTC(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (s *HTTPServer) confirmBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "bookingId")
	if !ok {
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		badRequest(c, "approved must be true or false")
		return
	}
	view, err := s.svc.Bookings.Confirm(c.Request.Context(), callerID(c), bookingID, approved)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *HTTPServer) getBooking(c *gin.Context) {
	bookingID, ok := pathID(c, "bookingId")
	if !ok {
		return
	}
	view, err := s.svc.Bookings.Get(c.Request.Context(), callerID(c), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *HTTPServer) listBookerBookings(c *gin.Context) {
	state, page, ok := s.bindListQuery(c)
	if !ok {
		return
	}
	views, err := s.svc.Bookings.ListForBooker(c.Request.Context(), callerID(c), state, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *HTTPServer) listOwnerBookings(c *gin.Context) {
	state, page, ok := s.bindListQuery(c)
	if !ok {
		return
	}
	views, err := s.svc.Bookings.ListForOwner(c.Request.Context(), callerID(c), state, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// exportOwnerBookings streams every booking of the caller's items in the view as XLSX.
func (s *HTTPServer) exportOwnerBookings(c *gin.Context) {
	state, err := models.ParseBookingState(c.Query("state"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	ownerID := callerID(c)
	bookings, err := s.svc.Bookings.OwnerBookings(c.Request.Context(), ownerID, state)
	if err != nil {
		respondError(c, err)
		return
	}

	now := s.clock.Now()
	var buf bytes.Buffer
	if err := export.WriteBookings(&buf, bookings, now); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(ownerID, now)+`"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (s *HTTPServer) bindListQuery(c *gin.Context) (models.BookingState, models.Page, bool) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return "", models.Page{}, false
	}
	state, err := models.ParseBookingState(q.State)
	if err != nil {
		badRequest(c, err.Error())
		return "", models.Page{}, false
	}
	return state, q.Page(s.pagination.DefaultSize, s.pagination.MaxSize), true
}
