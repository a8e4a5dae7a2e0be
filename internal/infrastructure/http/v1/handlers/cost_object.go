package handlers

import (
	"github.com/gin-gonic/gin"

	"barinalp/internal/domain/costobject"
	"barinalp/internal/infrastructure/http/v1/dto"
)

// CostObjectHandler serves the construction sites expenses are allocated to.
type CostObjectHandler struct {
	*BaseHandler
	service *costobject.Service
	options costobject.Lister
}

// NewCostObjectHandler creates a new cost object handler. options serves the
// selector listing and may be a cache in front of service.
func NewCostObjectHandler(base *BaseHandler, service *costobject.Service, options costobject.Lister) *CostObjectHandler {
	if options == nil {
		options = service
	}
	return &CostObjectHandler{
		BaseHandler: base,
		service:     service,
		options:     options,
	}
}

// List handles GET /objects.
func (h *CostObjectHandler) List(c *gin.Context) {
	var req dto.ListCostObjectsRequest
	if !h.BindQuery(c, &req) {
		return
	}

	items, err := h.service.List(c.Request.Context(), req.IncludeArchived)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      dto.FromCostObjects(items),
		TotalCount: int64(len(items)),
		Limit:      len(items),
	})
}

// Options handles GET /objects/options: active objects as {id, name} pairs.
func (h *CostObjectHandler) Options(c *gin.Context) {
	options, err := h.options.ListActiveOptions(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, options)
}

// Create handles POST /objects.
func (h *CostObjectHandler) Create(c *gin.Context) {
	var req dto.CreateCostObjectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	obj := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), obj); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromCostObject(obj))
}

// Get handles GET /objects/:id.
func (h *CostObjectHandler) Get(c *gin.Context) {
	objID, ok := h.ParamID(c)
	if !ok {
		return
	}

	obj, err := h.service.GetByID(c.Request.Context(), objID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCostObject(obj))
}

// Update handles PUT /objects/:id.
func (h *CostObjectHandler) Update(c *gin.Context) {
	objID, ok := h.ParamID(c)
	if !ok {
		return
	}

	var req dto.UpdateCostObjectRequest
	if !h.BindJSON(c, &req) {
		return
	}

	obj, err := h.service.Update(c.Request.Context(), objID, req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCostObject(obj))
}

// Archive handles POST /objects/:id/archive.
func (h *CostObjectHandler) Archive(c *gin.Context) {
	objID, ok := h.ParamID(c)
	if !ok {
		return
	}

	obj, err := h.service.Archive(c.Request.Context(), objID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCostObject(obj))
}
