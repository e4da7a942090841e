package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

type addBody struct {
	Path     *string         `json:"path"`
	Name     *string         `json:"name"`
	Scale    *float64        `json:"scale"`
	Kind     domain.ItemKind `json:"kind"`
	Quantity *string         `json:"quantity"`
}

type removeBody struct {
	Path string `json:"path"`
}

func badRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "invalid_input", fmt.Errorf("%w: %w", domain.ErrClientInput, err))
}

func (s *Server) handleHealth(c *gin.Context) {
	respondOK(c, gin.H{"status": "ok"})
}

func (s *Server) handleAggregate(c *gin.Context) {
	var entries []domain.AggregateEntry
	if err := c.ShouldBindJSON(&entries); err != nil {
		badRequest(c, err)
		return
	}
	list, err := s.svc.Aggregate(c.Request.Context(), entries)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (s *Server) handleItems(c *gin.Context) {
	items, err := s.svc.ListReferences(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, items)
}

func (s *Server) handleAdd(c *gin.Context) {
	var body addBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if body.Name == nil {
		badRequest(c, errors.New("name is required"))
		return
	}

	req := domain.AddRequest{
		Name:     *body.Name,
		Scale:    body.Scale,
		Kind:     body.Kind,
		Quantity: body.Quantity,
	}
	if body.Path != nil {
		req.Path = *body.Path
	}

	item, err := s.svc.AddReference(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, item)
}

func (s *Server) handleRemove(c *gin.Context) {
	var body removeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.svc.RemoveReference(c.Request.Context(), body.Path); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) handleClear(c *gin.Context) {
	if err := s.svc.ClearReferences(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
