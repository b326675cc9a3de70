package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/dto"
	"github.com/SscSPs/checkout_settlement/internal/middleware"
	"github.com/gin-gonic/gin"
)

// withdrawalHandler handles payouts of settled funds.
type withdrawalHandler struct {
	withdrawalService portssvc.WithdrawalSvcFacade
}

func registerWithdrawalRoutes(rg *gin.RouterGroup, withdrawalService portssvc.WithdrawalSvcFacade) {
	h := &withdrawalHandler{withdrawalService: withdrawalService}

	rg.POST("/bank-accounts", h.registerBankAccount)

	withdrawals := rg.Group("/withdrawals")
	{
		withdrawals.POST("", h.requestWithdrawal)
		withdrawals.POST("/:withdrawalID/complete", h.completeWithdrawal)
		withdrawals.POST("/:withdrawalID/fail", h.failWithdrawal)
	}
}

// registerBankAccount godoc
// @Summary Register a bank account
// @Tags withdrawals
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} dto.BankAccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to register bank account"
// @Security BearerAuth
// @Router /bank-accounts [post]
func (h *withdrawalHandler) registerBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RegisterBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tenantID, actorID, ok := identity(c, logger)
	if !ok {
		return
	}

	account, err := h.withdrawalService.RegisterBankAccount(c.Request.Context(), tenantID, req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to register bank account")
		return
	}

	logger.Info("Bank account registered", slog.String("bank_account_id", account.BankAccountID))
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(account))
}

// requestWithdrawal godoc
// @Summary Request a withdrawal
// @Description Reserves settled funds with a pending debit. The amount cannot exceed the available balance.
// @Tags withdrawals
// @Accept  json
// @Produce  json
// @Param   withdrawal body dto.CreateWithdrawalRequest true "Destination and amount"
// @Success 201 {object} dto.WithdrawalResponse
// @Failure 400 {object} map[string]string "Invalid input or insufficient balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 409 {object} map[string]string "Another withdrawal is being requested"
// @Security BearerAuth
// @Router /withdrawals [post]
func (h *withdrawalHandler) requestWithdrawal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestWithdrawal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tenantID, actorID, ok := identity(c, logger)
	if !ok {
		return
	}
	logger.Info("Received withdrawal request", slog.String("amount", req.Amount.String()))

	withdrawal, err := h.withdrawalService.RequestWithdrawal(c.Request.Context(), tenantID, req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to request withdrawal")
		return
	}

	logger.Info("Withdrawal requested", slog.String("withdrawal_id", withdrawal.WithdrawalID))
	c.JSON(http.StatusCreated, dto.ToWithdrawalResponse(withdrawal))
}

// completeWithdrawal godoc
// @Summary Mark a withdrawal as paid out
// @Tags withdrawals
// @Produce  json
// @Param   withdrawalID path string true "Withdrawal ID"
// @Success 200 {object} dto.WithdrawalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Withdrawal not found"
// @Failure 409 {object} map[string]string "Withdrawal already finished"
// @Security BearerAuth
// @Router /withdrawals/{withdrawalID}/complete [post]
func (h *withdrawalHandler) completeWithdrawal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	withdrawalID := c.Param("withdrawalID")

	tenantID, actorID, ok := identity(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("withdrawal_id", withdrawalID))

	withdrawal, err := h.withdrawalService.CompleteWithdrawal(c.Request.Context(), tenantID, withdrawalID, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to complete withdrawal")
		return
	}

	logger.Info("Withdrawal completed")
	c.JSON(http.StatusOK, dto.ToWithdrawalResponse(withdrawal))
}

// failWithdrawal godoc
// @Summary Mark a withdrawal as failed
// @Description Releases the reserved funds back to the available balance.
// @Tags withdrawals
// @Accept  json
// @Produce  json
// @Param   withdrawalID path string true "Withdrawal ID"
// @Param   failure body dto.FailWithdrawalRequest true "Failure reason"
// @Success 200 {object} dto.WithdrawalResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Withdrawal not found"
// @Failure 409 {object} map[string]string "Withdrawal already finished"
// @Security BearerAuth
// @Router /withdrawals/{withdrawalID}/fail [post]
func (h *withdrawalHandler) failWithdrawal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	withdrawalID := c.Param("withdrawalID")

	var req dto.FailWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for FailWithdrawal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tenantID, actorID, ok := identity(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("withdrawal_id", withdrawalID))

	withdrawal, err := h.withdrawalService.FailWithdrawal(c.Request.Context(), tenantID, withdrawalID, req.Reason, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to fail withdrawal")
		return
	}

	logger.Info("Withdrawal marked as failed", slog.String("reason", req.Reason))
	c.JSON(http.StatusOK, dto.ToWithdrawalResponse(withdrawal))
}
