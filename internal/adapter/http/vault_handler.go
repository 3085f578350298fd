package http

import (
	"errors"
	"net/http"

	"securevault-indexer/internal/usecase/query"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type VaultHandler struct{ uc *query.Usecase }

func NewVaultHandler(uc *query.Usecase) *VaultHandler { return &VaultHandler{uc: uc} }

func respond(c echo.Context, dto any, err error) error {
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, dto)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, query.ErrInvalidAddress):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address"})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func (h *VaultHandler) GetVault(c echo.Context) error {
	dto, err := h.uc.Vault(c.Request().Context())
	return respond(c, dto, err)
}

type addressParam struct {
	Address string `param:"address" validate:"required,eth_addr"`
}

func (h *VaultHandler) GetLender(c echo.Context) error {
	var p addressParam
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid params"})
	}
	if err := c.Validate(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Lender(c.Request().Context(), p.Address)
	return respond(c, dto, err)
}

func (h *VaultHandler) GetBorrower(c echo.Context) error {
	var p addressParam
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid params"})
	}
	if err := c.Validate(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Borrower(c.Request().Context(), p.Address)
	return respond(c, dto, err)
}

type idParam struct {
	ID string `param:"id" validate:"required,uint_str"`
}

func (h *VaultHandler) GetLoan(c echo.Context) error {
	var p idParam
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid params"})
	}
	if err := c.Validate(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Loan(c.Request().Context(), p.ID)
	return respond(c, dto, err)
}

func (h *VaultHandler) GetDepositRequest(c echo.Context) error {
	var p idParam
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid params"})
	}
	if err := c.Validate(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.DepositRequest(c.Request().Context(), p.ID)
	return respond(c, dto, err)
}

func (h *VaultHandler) GetWithdrawRequest(c echo.Context) error {
	var p idParam
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid params"})
	}
	if err := c.Validate(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.WithdrawRequest(c.Request().Context(), p.ID)
	return respond(c, dto, err)
}

// Register mounts the read API on e.
func (h *VaultHandler) Register(e *echo.Echo) {
	e.GET("/vault", h.GetVault)
	e.GET("/lenders/:address", h.GetLender)
	e.GET("/borrowers/:address", h.GetBorrower)
	e.GET("/loans/:id", h.GetLoan)
	e.GET("/deposit-requests/:id", h.GetDepositRequest)
	e.GET("/withdraw-requests/:id", h.GetWithdrawRequest)
}
