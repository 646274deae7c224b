package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantdesk/internal/domain"
)

func (a *API) bindOffer(c *gin.Context) (domain.PropertyOffer, bool) {
	var offer domain.PropertyOffer
	if err := c.ShouldBindJSON(&offer); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid payload")
		return offer, false
	}
	if err := domain.ValidatePropertyOffer(offer); err != nil {
		respondDomainError(c, err)
		return offer, false
	}
	return offer, true
}

func (a *API) handleMatchTenants(c *gin.Context) {
	offer, ok := a.bindOffer(c)
	if !ok {
		return
	}

	tenants, err := a.search.MatchTenants(c.Request.Context(), offer)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenants": tenants, "count": len(tenants)})
}

func (a *API) handleClosestTenants(c *gin.Context) {
	offer, ok := a.bindOffer(c)
	if !ok {
		return
	}

	tenants, err := a.search.ClosestTenants(c.Request.Context(), offer)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenants": tenants, "count": len(tenants)})
}

func (a *API) handleRecommendProperties(c *gin.Context) {
	var search domain.RecommendationSearch
	if err := c.ShouldBindJSON(&search); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := domain.ValidateRecommendationSearch(search); err != nil {
		respondDomainError(c, err)
		return
	}

	listings, err := a.search.RecommendProperties(c.Request.Context(), search)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings, "count": len(listings), "priorities": search.Priorities})
}
