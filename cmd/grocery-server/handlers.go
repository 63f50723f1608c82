package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/grocerylab/grocery-backend/internal/order"
	"github.com/grocerylab/grocery-backend/internal/product"
	"github.com/grocerylab/grocery-backend/internal/user"
	"github.com/grocerylab/grocery-backend/internal/wallet"
)

// errorResponse is the error envelope: a stable machine-readable code plus a
// human message. The status code mapping lives in the handlers.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Code: code, Message: message})
}

// writeWalletError maps ledger failures shared by several handlers.
func writeWalletError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, wallet.ErrInvalidAmount):
		writeError(c, http.StatusBadRequest, "INVALID_AMOUNT", "amount must be a positive number")
	case errors.Is(err, wallet.ErrTopUpLimit):
		writeError(c, http.StatusBadRequest, "TOPUP_LIMIT", "top-up exceeds the single-operation cap")
	case errors.Is(err, wallet.ErrUserNotFound):
		writeError(c, http.StatusNotFound, "USER_NOT_FOUND", "user not found")
	case errors.Is(err, wallet.ErrInsufficientFunds):
		writeError(c, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS", "insufficient wallet balance")
	case errors.Is(err, wallet.ErrBusy):
		writeError(c, http.StatusConflict, "WALLET_BUSY", "wallet is busy, retry")
	default:
		writeError(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func paramInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_INPUT", name+" must be an integer")
		return 0, false
	}
	return v, true
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type topupRequest struct {
	UserID int64           `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// topupHandler credits a wallet.
// @Summary Top up a wallet
// @Accept json
// @Produce json
// @Param body body topupRequest true "top-up"
// @Success 200 {object} wallet.Entry
// @Router /topup [post]
func topupHandler(ledger wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req topupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid json body")
			return
		}
		entry, err := ledger.ApplyAdjustment(c.Request.Context(), req.UserID, wallet.KindTopUp, req.Amount, nil)
		if err != nil {
			writeWalletError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"balance":     entry.BalanceAfter,
			"transaction": entry,
		})
	}
}

type adjustmentRequest struct {
	UserID  int64           `json:"user_id"`
	Kind    string          `json:"kind"`
	Amount  decimal.Decimal `json:"amount"`
	OrderID *int64          `json:"order_id,omitempty"`
}

// adjustmentHandler applies REFUND / ADJUST ledger entries. Top-ups go
// through /topup and debits only ever come from checkout.
func adjustmentHandler(ledger wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req adjustmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid json body")
			return
		}
		kind, ok := wallet.ParseKind(req.Kind)
		if !ok || (kind != wallet.KindRefund && kind != wallet.KindAdjust) {
			writeError(c, http.StatusBadRequest, "INVALID_KIND", "kind must be REFUND or ADJUST")
			return
		}
		entry, err := ledger.ApplyAdjustment(c.Request.Context(), req.UserID, kind, req.Amount, req.OrderID)
		if err != nil {
			writeWalletError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"balance":     entry.BalanceAfter,
			"transaction": entry,
		})
	}
}

// walletHandler returns the current balance.
// @Summary Wallet balance
// @Produce json
// @Router /wallet/{user_id} [get]
func walletHandler(ledger wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := paramInt64(c, "user_id")
		if !ok {
			return
		}
		balance, err := ledger.Balance(c.Request.Context(), userID)
		if err != nil {
			writeWalletError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"balance": balance})
	}
}

func walletHistoryHandler(ledger wallet.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := paramInt64(c, "user_id")
		if !ok {
			return
		}
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

		entries, total, err := ledger.History(c.Request.Context(), userID, page, pageSize)
		if err != nil {
			writeWalletError(c, err)
			return
		}
		if entries == nil {
			entries = []wallet.Entry{}
		}
		if pageSize <= 0 || pageSize > 100 {
			pageSize = 20
		}
		c.JSON(http.StatusOK, gin.H{
			"transactions": entries,
			"page":         page,
			"page_size":    pageSize,
			"total":        total,
			"total_pages":  (int(total) + pageSize - 1) / pageSize,
		})
	}
}

func getUserHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt64(c, "user_id")
		if !ok {
			return
		}
		u, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				writeError(c, http.StatusNotFound, "USER_NOT_FOUND", "user not found")
				return
			}
			writeError(c, http.StatusInternalServerError, "INTERNAL", "failed to load user")
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// listProductsHandler lists the catalog, optionally filtered with ?q=.
// @Summary List products
// @Produce json
// @Success 200 {object} product.ListResponse
// @Router /products [get]
func listProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			writeError(c, http.StatusInternalServerError, "INTERNAL", "failed to list products")
			return
		}
		if items == nil {
			items = []product.Product{}
		}
		c.JSON(http.StatusOK, product.ListResponse{Q: q, Items: items})
	}
}

func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		p, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				writeError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found")
				return
			}
			writeError(c, http.StatusInternalServerError, "INTERNAL", "failed to load product")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createOrderHandler runs checkout.
// @Summary Place an order
// @Accept json
// @Produce json
// @Param body body order.CreateOrderRequest true "cart"
// @Success 201 {object} order.Receipt
// @Router /orders [post]
func createOrderHandler(placer order.Placer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_INPUT", "invalid json body")
			return
		}
		lines := make([]order.CartLine, 0, len(req.Items))
		for _, it := range req.Items {
			lines = append(lines, order.CartLine{ProductID: it.ProductID, Qty: it.Qty})
		}

		receipt, err := placer.PlaceOrder(c.Request.Context(), req.UserID, lines)
		if err != nil {
			var pnf *order.ProductNotFoundError
			switch {
			case errors.Is(err, order.ErrEmptyCart):
				writeError(c, http.StatusBadRequest, "EMPTY_CART", "items required")
			case errors.Is(err, order.ErrInvalidQuantity):
				writeError(c, http.StatusBadRequest, "INVALID_QTY", "qty must be > 0")
			case errors.As(err, &pnf):
				writeError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", pnf.Error())
			default:
				writeWalletError(c, err)
			}
			return
		}
		c.JSON(http.StatusCreated, receipt)
	}
}

func getOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		o, items, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				writeError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "order not found")
				return
			}
			writeError(c, http.StatusInternalServerError, "INTERNAL", "failed to load order")
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": o, "items": items})
	}
}

func getOrderItemsHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt64(c, "id")
		if !ok {
			return
		}
		items, err := repo.GetItems(c.Request.Context(), id)
		if err != nil {
			writeError(c, http.StatusInternalServerError, "INTERNAL", "failed to load items")
			return
		}
		if items == nil {
			items = []order.Item{}
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func listOrdersByUserHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := paramInt64(c, "user_id")
		if !ok {
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		orders, err := repo.ListByUser(c.Request.Context(), userID, limit, offset)
		if err != nil {
			writeError(c, http.StatusInternalServerError, "INTERNAL", "failed to list orders")
			return
		}
		if orders == nil {
			orders = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}
