package handler

import (
	"strconv"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type InventoryHandler struct {
	base
	svc *service.InventoryService
}

func NewInventoryHandler(b base, svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{base: b, svc: svc}
}

// Create POST /api/inventory
func (h *InventoryHandler) Create(c *gin.Context) {
	var req apiclient.InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	item, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	Created(c, gin.H{"item": item, "status": service.GetStockStatus(item.Quantity)})
}

// Update PUT /api/inventory/:id
// 更新后返回刷新的列表，查询条件沿用当前页面的 query
func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Quantity decimal.Decimal     `json:"quantity"`
		Density  decimal.NullDecimal `json:"density"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	page, size := GetPagination(c, 20)
	lowStock, _ := strconv.ParseBool(c.Query("low_stock"))
	refreshed, err := h.svc.UpdateItem(c.Request.Context(), id,
		apiclient.InventoryUpdateRequest{Quantity: req.Quantity, Density: req.Density},
		service.InventoryQuery{
			InventoryListParams: apiclient.InventoryListParams{
				Material:      c.Query("material"),
				Specification: c.Query("specification"),
				Keyword:       c.Query("keyword"),
				Page:          page,
				Size:          size,
			},
			LowStock: lowStock,
		})
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, refreshed)
}

// Delete DELETE /api/inventory/:id?confirm=true
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, confirmed(c)); err != nil {
		h.fail(c, err)
		return
	}
	Success(c, nil)
}

// Materials GET /api/inventory/materials[?material=xxx]
// 带 material 时返回该材质的规格列表
func (h *InventoryHandler) Materials(c *gin.Context) {
	if material := c.Query("material"); material != "" {
		specs, err := h.svc.Specifications(c.Request.Context(), material)
		if err != nil {
			h.fail(c, err)
			return
		}
		Success(c, gin.H{"material": material, "specifications": specs})
		return
	}
	materials, err := h.svc.Materials(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, gin.H{"materials": materials})
}

// Import POST /api/inventory/import[?preview=true]
func (h *InventoryHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "please upload an .xlsx or .csv file")
		return
	}
	defer file.Close()

	if preview, _ := strconv.ParseBool(c.Query("preview")); preview {
		result, err := h.svc.ParseImport(header.Filename, file)
		if err != nil {
			h.fail(c, err)
			return
		}
		Success(c, result)
		return
	}

	summary, err := h.svc.Import(c.Request.Context(), header.Filename, file)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, summary)
}

// ImportTemplate GET /api/inventory/import/template
func (h *InventoryHandler) ImportTemplate(c *gin.Context) {
	f, err := h.svc.ImportTemplate()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\"inventory_import_template.xlsx\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		h.fail(c, err)
	}
}

// Export GET /api/inventory/export
func (h *InventoryHandler) Export(c *gin.Context) {
	data, contentType, err := h.svc.Export(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if contentType == "" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	c.Header("Content-Disposition", "attachment; filename=\"inventory.xlsx\"")
	c.Data(200, contentType, data)
}
