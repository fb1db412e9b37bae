package httpserver

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
)

type cartReportRequest struct {
	SessionID       string                `json:"session_id" binding:"required"`
	CartItems       []domain.CartLineItem `json:"cart_items" binding:"required"`
	CustomerEmail   string                `json:"customer_email"`
	CustomerName    string                `json:"customer_name"`
	CustomerPhone   string                `json:"customer_phone"`
	DeliveryAddress string                `json:"delivery_address"`
	Subtotal        float64               `json:"subtotal"`
	TotalAmount     float64               `json:"total_amount"`
	AffiliateCode   string                `json:"affiliate_code"`
}

func postCartReportHandler(repo reportRepo, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report payload"})
			return
		}
		if len(req.CartItems) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart_items required"})
			return
		}

		stored, err := repo.Insert(c.Request.Context(), domain.CartReport{
			SessionID:       req.SessionID,
			Items:           req.CartItems,
			CustomerEmail:   req.CustomerEmail,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			DeliveryAddress: req.DeliveryAddress,
			Subtotal:        req.Subtotal,
			TotalAmount:     req.TotalAmount,
			AffiliateCode:   req.AffiliateCode,
		})
		if err != nil {
			logger.Printf("store cart report: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store failed"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "id": stored.ID})
	}
}

func listCartReportsHandler(repo reportRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		reports, err := repo.ListRecent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
			return
		}
		if reports == nil {
			reports = []domain.CartReport{}
		}
		c.JSON(http.StatusOK, gin.H{"reports": reports})
	}
}
