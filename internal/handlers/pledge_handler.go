package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/givenly/donor-api/internal/repository"
	"github.com/givenly/donor-api/internal/services"
)

// PledgeHandler serves the pledge read endpoints. Pledge balances are
// derived fields maintained by reconciliation; these endpoints only
// report them.
type PledgeHandler struct {
	queryService *services.PaymentQueryService
}

// NewPledgeHandler creates a new pledge handler
func NewPledgeHandler(queryService *services.PaymentQueryService) *PledgeHandler {
	return &PledgeHandler{queryService: queryService}
}

// @Summary Get Pledge
// @Description Get a pledge with its reconciled totals and balances
// @Tags Pledges
// @Produce json
// @Param pledge_id path int true "Pledge ID"
// @Success 200 {object} models.PledgeResponse
// @Failure 404 {object} map[string]string
// @Router /pledges/{pledge_id} [get]
func (h *PledgeHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("pledge_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pledge id"})
		return
	}

	pledge, err := h.queryService.GetPledge(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pledge.ToResponse())
}

// @Summary List Pledges
// @Description Get a paginated list of pledges
// @Tags Pledges
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param contact_id query int false "Filter by contact"
// @Success 200 {object} map[string]interface{}
// @Router /pledges [get]
func (h *PledgeHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["contact_id"] = c.Query("contact_id")
	query.Filters["status"] = c.Query("status")

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	pledges, total, err := h.queryService.ListPledges(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]interface{}, 0, len(pledges))
	for i := range pledges {
		responses = append(responses, pledges[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"pledges": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}
