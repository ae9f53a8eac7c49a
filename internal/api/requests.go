package api

import (
	"net/http"

	"shareit/internal/dto"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) createRequest(c *gin.Context) {
	var req dto.CreateItemRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	view, err := s.svc.Requests.Create(c.Request.Context(), callerID(c), req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (s *HTTPServer) listOwnRequests(c *gin.Context) {
	views, err := s.svc.Requests.ListOwn(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *HTTPServer) listOtherRequests(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	page := q.Page(s.pagination.DefaultSize, s.pagination.MaxSize)
	views, err := s.svc.Requests.ListOthers(c.Request.Context(), callerID(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *HTTPServer) getRequest(c *gin.Context) {
	requestID, ok := pathID(c, "requestId")
	if !ok {
		return
	}
	view, err := s.svc.Requests.Get(c.Request.Context(), callerID(c), requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
